package backup

import (
	"context"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shuk/internal/events"
)

// Runner performs the backup sequence for a single task
type Runner interface {
	Backup(ctx context.Context, task Task) Outcome
}

// Dispatcher fans the records of one SNS batch out to a Runner and collects
// one Outcome per record, in record order.
type Dispatcher struct {
	runner Runner
	config Config
	logger *zap.SugaredLogger
}

func NewDispatcher(runner Runner, config Config, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		runner: runner,
		config: config,
		logger: logger.Named("dispatcher"),
	}
}

// Dispatch processes every record of the batch. A record that cannot be parsed
// yields a ParseFailed outcome and the rest of the batch carries on, unless
// StopOnParseError is set, in which case records are handled one at a time and
// the parse error is returned after the failing record.
func (d *Dispatcher) Dispatch(ctx context.Context, records []lambdaevents.SNSEventRecord) ([]Outcome, error) {
	if d.config.StopOnParseError {
		return d.dispatchSequential(ctx, records)
	}

	outcomes := make([]Outcome, len(records))

	var g errgroup.Group
	g.SetLimit(d.concurrency())
	for i, record := range records {
		g.Go(func() error {
			outcomes[i] = d.process(ctx, record)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

func (d *Dispatcher) dispatchSequential(ctx context.Context, records []lambdaevents.SNSEventRecord) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(records))
	for i, record := range records {
		outcome := d.process(ctx, record)
		outcomes = append(outcomes, outcome)

		if outcome.State == StateParseFailed {
			d.logger.Errorw("Aborting batch after unparseable record",
				"messageId", outcome.MessageID, "unprocessed", len(records)-i-1)
			return outcomes, outcome.Err
		}
	}
	return outcomes, nil
}

func (d *Dispatcher) process(ctx context.Context, record lambdaevents.SNSEventRecord) Outcome {
	messageID := record.SNS.MessageID

	event, err := events.ParseBridgeEvent(record.SNS.Message)
	if err != nil {
		d.logger.Errorw("Failed to parse EventBridge event from SNS message", "messageId", messageID, "error", err)
		return Outcome{MessageID: messageID, State: StateParseFailed, Err: err}
	}

	task := NewTask(event, d.config)

	if d.config.RequireObjectCreated && !event.IsObjectCreated() {
		d.logger.Infow("Ignoring event that is not an object creation",
			"messageId", messageID, "detailType", event.DetailType, "source", task.Source.URI())
		return Outcome{MessageID: messageID, Source: task.Source, Size: task.SourceSize, State: StateIgnored}
	}

	outcome := d.runner.Backup(ctx, task)
	outcome.MessageID = messageID
	return outcome
}

func (d *Dispatcher) concurrency() int {
	if d.config.MaxConcurrency < 1 {
		return 1
	}
	return d.config.MaxConcurrency
}
