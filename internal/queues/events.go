package queues

import (
	lambdaevents "github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"shuk/internal/events"
)

// BridgeEventWithMessageId pairs a parsed bridge event with the SQS message it came from
type BridgeEventWithMessageId struct {
	MessageId string
	events.BridgeEvent
}

// SQSEventWrapper wraps an SQSEvent
type SQSEventWrapper struct {
	Event  *lambdaevents.SQSEvent
	Logger *zap.SugaredLogger
}

// UnwrapBridgeEvents extracts the S3 object creation events from the SQS
// batch. Bodies may be SNS notifications or raw-delivered bridge events.
// Records that fail to parse are returned as batch item failures so the queue
// redrives them; well-formed events that are not S3 creations are dropped.
func (w *SQSEventWrapper) UnwrapBridgeEvents() ([]BridgeEventWithMessageId, []lambdaevents.SQSBatchItemFailure) {
	var parsedEvents []BridgeEventWithMessageId
	var failedEvents []lambdaevents.SQSBatchItemFailure

	for _, record := range w.Event.Records {
		event, err := events.ParseBridgeEvent(events.UnwrapQueueBody(record.Body))
		if err != nil {
			w.logger().Errorw("Failed to parse EventBridge event from SQS message",
				"messageId", record.MessageId, "error", err)
			failedEvents = append(failedEvents, lambdaevents.SQSBatchItemFailure{
				ItemIdentifier: record.MessageId,
			})
			continue
		}

		if !event.IsFromS3() || !event.IsObjectCreated() {
			w.logger().Debugw("Ignoring event",
				"messageId", record.MessageId, "source", event.Source, "detailType", event.DetailType)
			continue
		}

		parsedEvents = append(parsedEvents, BridgeEventWithMessageId{record.MessageId, event})
	}

	return parsedEvents, failedEvents
}

func (w *SQSEventWrapper) logger() *zap.SugaredLogger {
	if w.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return w.Logger
}
