package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"shuk/internal/db"
	"shuk/internal/logging"
	"shuk/internal/queues"
	"shuk/internal/settings"
)

var (
	logger *zap.SugaredLogger
	store  metadataStore
)

type metadataStore interface {
	PutMetadataRecord(ctx context.Context, record db.MetadataRecord) error
}

func init() {
	logger = logging.NewLogger()

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

	store = db.New(dynamodb.NewFromConfig(awsConfig), settings.MetadataTable(settings.Env))
}

func handler(ctx context.Context, event json.RawMessage) (events.SQSEventResponse, error) {
	var sqsEvent events.SQSEvent
	if err := json.Unmarshal(event, &sqsEvent); err != nil {
		logger.Errorw("Failed to parse SQS event", "error", err)
		return events.SQSEventResponse{}, nil
	}

	return processBatch(ctx, store, &sqsEvent, time.Now), nil
}

// processBatch stores one metadata record per upload event. Records that
// cannot be parsed or stored are returned for redelivery.
func processBatch(ctx context.Context, store metadataStore, sqsEvent *events.SQSEvent, now func() time.Time) events.SQSEventResponse {
	sqsEventWrapper := queues.SQSEventWrapper{
		Event:  sqsEvent,
		Logger: logger,
	}

	parsedEvents, failedEvents := sqsEventWrapper.UnwrapBridgeEvents()

	recorded := 0
	for _, parsedEvent := range parsedEvents {
		record := db.NewMetadataRecord(parsedEvent.BridgeEvent, now())

		if err := store.PutMetadataRecord(ctx, record); err != nil {
			logger.Errorw("Failed to record object metadata",
				"messageId", parsedEvent.MessageId, "bucket", record.Bucket, "key", record.ObjectKey, "error", err)
			failedEvents = append(failedEvents, events.SQSBatchItemFailure{
				ItemIdentifier: parsedEvent.MessageId,
			})
			continue
		}

		recorded++
		logger.Infow("Recorded object metadata",
			"fileId", record.FileID, "bucket", record.Bucket, "key", record.ObjectKey)
	}

	logger.Infow("Finished processing metadata events",
		"records", len(sqsEvent.Records), "recorded", recorded, "failed", len(failedEvents))

	return events.SQSEventResponse{
		BatchItemFailures: failedEvents,
	}
}

func main() {
	lambda.Start(handler)
}
