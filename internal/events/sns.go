package events

import (
	"encoding/json"

	lambdaevents "github.com/aws/aws-lambda-go/events"
)

const SNSNotificationType = "Notification"

// ParseSNSNotification deserializes an SNS notification document, as found in
// the body of an SQS message subscribed to a topic without raw delivery.
func ParseSNSNotification(body string) (lambdaevents.SNSEntity, error) {
	var notification lambdaevents.SNSEntity
	if err := json.Unmarshal([]byte(body), &notification); err != nil {
		return lambdaevents.SNSEntity{}, ErrorParsingSNSNotification(body, err)
	}

	if notification.Message == "" {
		return lambdaevents.SNSEntity{}, ErrorParsingSNSNotification(body, ErrorMissingField("Message"))
	}

	return notification, nil
}

// UnwrapQueueBody returns the bus message carried by an SQS body. Bodies that
// are not SNS notifications are assumed to be raw-delivered messages.
func UnwrapQueueBody(body string) string {
	notification, err := ParseSNSNotification(body)
	if err != nil || notification.Type != SNSNotificationType {
		return body
	}
	return notification.Message
}
