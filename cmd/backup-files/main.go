package main

import (
	"context"
	_ "embed"
	"text/template"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"shuk/internal/accounts"
	"shuk/internal/backup"
	"shuk/internal/logging"
	"shuk/internal/metrics"
	"shuk/internal/notifications"
	"shuk/internal/settings"
	"shuk/internal/templates"
)

var (
	//go:embed templates/copy-failure-notification.txt
	notificationTemplate string

	app    *backupHandler
	logger *zap.SugaredLogger
)

type countPublisher interface {
	PublishCounts(ctx context.Context, counts map[string]float64) error
}

// alerter publishes copy failures to SNS. A nil alerter does nothing.
type alerter struct {
	client    notifications.PublishAPI
	topicArn  string
	accountID string
	stackName string
	template  *template.Template
}

type backupHandler struct {
	dispatcher *backup.Dispatcher
	alerts     *alerter
	metrics    countPublisher
	logger     *zap.SugaredLogger
}

func init() {
	logger = logging.NewLogger()

	backupConfig, err := settings.Backup(settings.Env)
	if err != nil {
		logger.Fatalw("Invalid backup configuration", "error", err)
	}

	maxAttempts, err := settings.AWSMaxAttempts(settings.Env)
	if err != nil {
		logger.Fatalw("Invalid AWS configuration", "error", err)
	}

	awsConfig, err := config.LoadDefaultConfig(context.Background(),
		config.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.NewStandard(), maxAttempts)
		}),
	)
	if err != nil {
		logger.Fatalw("Unable to load AWS config", "error", err)
	}

	orchestrator := backup.NewOrchestrator(s3.NewFromConfig(awsConfig), backupConfig, logger)
	app = &backupHandler{
		dispatcher: backup.NewDispatcher(orchestrator, backupConfig, logger),
		logger:     logger,
	}

	stackName := settings.Optional(settings.Env, "STACK_NAME")

	if topicArn := settings.Optional(settings.Env, "ALERT_TOPIC_ARN"); topicArn != "" {
		tmpl, err := template.New("copy-failure").Funcs(templates.NotificationFuncMap()).Parse(notificationTemplate)
		if err != nil {
			logger.Fatalw("Failed to parse notification template", "error", err)
		}

		accountID, err := accounts.GetAccountID(context.Background(), awsConfig)
		if err != nil {
			logger.Fatalw("Unable to get AWS account ID", "error", err)
		}

		app.alerts = &alerter{
			client:    sns.NewFromConfig(awsConfig),
			topicArn:  topicArn,
			accountID: accountID,
			stackName: stackName,
			template:  tmpl,
		}
	}

	if namespace := settings.Optional(settings.Env, "METRICS_NAMESPACE"); namespace != "" {
		app.metrics = metrics.NewPublisher(cloudwatch.NewFromConfig(awsConfig), namespace, stackName)
	}
}

// handle backs up every record in the batch. Copy and tag failures are
// reported but never fail the invocation; only a parse failure in
// stop-on-parse-error mode is returned.
func (h *backupHandler) handle(ctx context.Context, event events.SNSEvent) error {
	outcomes, err := h.dispatcher.Dispatch(ctx, event.Records)

	for _, outcome := range outcomes {
		if outcome.State == backup.StateCopyFailed {
			h.alerts.send(ctx, h.logger, outcome)
		}
	}

	summary := backup.Summarize(outcomes)
	h.logger.Infow("Finished processing backup batch",
		"records", len(event.Records),
		"tagged", summary.Tagged,
		"skipped", summary.Skipped,
		"ignored", summary.Ignored,
		"copyFailures", summary.CopyFailures,
		"tagFailures", summary.TagFailures,
		"parseFailures", summary.ParseFailures,
	)

	if h.metrics != nil {
		if err := h.metrics.PublishCounts(ctx, summary.Metrics()); err != nil {
			h.logger.Warnw("Failed to publish backup metrics", "error", err)
		}
	}

	return err
}

func (a *alerter) send(ctx context.Context, logger *zap.SugaredLogger, outcome backup.Outcome) {
	if a == nil {
		return
	}

	notification := notifications.BackupFailureNotification{
		Account:      a.accountID,
		Source:       outcome.Source.URI(),
		Destination:  outcome.Destination.URI(),
		Size:         outcome.Size,
		MessageID:    outcome.MessageID,
		Date:         time.Now().UTC().Format(time.RFC3339),
		ErrorMessage: errorMessage(outcome.Err),
		Stack:        a.stackName,
		Title:        "Backup Failure: " + outcome.Source.URI(),
		Template:     a.template,
		Topic:        a.topicArn,
	}

	messageID, err := notifications.SendNotification(ctx, a.client, notification)
	if err != nil {
		logger.Errorw("Failed to send backup failure notification", "source", outcome.Source.URI(), "error", err)
		return
	}
	logger.Infow("Backup failure notification sent", "source", outcome.Source.URI(), "notificationId", messageID)
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func handler(ctx context.Context, event events.SNSEvent) error {
	return app.handle(ctx, event)
}

func main() {
	lambda.Start(handler)
}
