package notifications

import (
	"bytes"
	"context"
	"strings"
	"text/template"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS subjects must be printable ASCII and shorter than 100 characters
const maxSubjectLength = 99

// SNSNotification represents an abstraction for a notification to be published via AWS SNS.
type SNSNotification interface {
	Message() (string, error)
	Subject() string
	TopicArn() string
}

// PublishAPI is the subset of the SNS client used to send notifications
type PublishAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput, opts ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// BackupFailureNotification reports an object that could not be copied to
// the backup bucket
type BackupFailureNotification struct {
	Account      string
	Source       string
	Destination  string
	Size         uint64
	MessageID    string
	Date         string
	ErrorMessage string
	Stack        string
	Title        string
	Template     *template.Template
	Topic        string
}

func (n BackupFailureNotification) Message() (string, error) {
	var buf bytes.Buffer
	if err := n.Template.Execute(&buf, n); err != nil {
		return "", ErrorRenderingNotification(n.Template.Name(), err)
	}
	return buf.String(), nil
}

// Subject returns the title reduced to printable ASCII. Whitespace becomes a
// space and any other character outside that range becomes "?".
func (n BackupFailureNotification) Subject() string {
	subject := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case r < 0x20 || r > 0x7e:
			return '?'
		default:
			return r
		}
	}, n.Title)

	if len(subject) > maxSubjectLength {
		return subject[:maxSubjectLength-3] + "..."
	}
	return subject
}

func (n BackupFailureNotification) TopicArn() string {
	return n.Topic
}

// SendNotification renders and publishes the notification, returning the SNS message id
func SendNotification(ctx context.Context, client PublishAPI, notification SNSNotification) (string, error) {
	message, err := notification.Message()
	if err != nil {
		return "", err
	}

	result, err := client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(notification.TopicArn()),
		Subject:  aws.String(notification.Subject()),
		Message:  aws.String(message),
	})
	if err != nil {
		return "", ErrorPublishingNotification(notification.TopicArn(), err)
	}

	return aws.ToString(result.MessageId), nil
}
