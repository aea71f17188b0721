package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert"
	"go.uber.org/zap"

	"shuk/internal/logging"
	"shuk/internal/settings"
	"shuk/internal/transcode"
)

var (
	logger    *zap.SugaredLogger
	submitter jobSubmitter
)

type jobSubmitter interface {
	Submit(ctx context.Context, request transcode.JobRequest) (string, error)
}

func init() {
	logger = logging.NewLogger()

	transcodeConfig, err := settings.TranscodeSettings(settings.Env)
	if err != nil {
		logger.Fatalw("Invalid transcode configuration", "error", err)
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

	roleArn, err := transcode.ResolveRoleArn(context.Background(), iam.NewFromConfig(awsConfig), transcodeConfig.Role)
	if err != nil {
		logger.Fatalw("Unable to resolve MediaConvert role", "role", transcodeConfig.Role, "error", err)
	}

	mediaConvertClient := mediaconvert.NewFromConfig(awsConfig, func(o *mediaconvert.Options) {
		if transcodeConfig.Endpoint != "" {
			o.BaseEndpoint = aws.String(transcodeConfig.Endpoint)
		}
	})

	submitter = transcode.NewSubmitter(mediaConvertClient, roleArn, transcodeConfig.Settings, logger)
}

// handle fails the invocation only for an incomplete payload. A rejected
// job is logged and the invocation still succeeds.
func handle(ctx context.Context, submitter jobSubmitter, payload json.RawMessage) error {
	request, err := transcode.ParseJobRequest(payload)
	if err != nil {
		logger.Errorw("Invalid job request", "error", err)
		return err
	}

	if _, err := submitter.Submit(ctx, request); err != nil {
		logger.Errorw("Unable to submit MediaConvert job", "input", request.InputURI(), "error", err)
	}

	return nil
}

func handler(ctx context.Context, payload json.RawMessage) error {
	return handle(ctx, submitter, payload)
}

func main() {
	lambda.Start(handler)
}
