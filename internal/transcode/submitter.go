package transcode

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert"
	"go.uber.org/zap"
)

type MediaConvertAPI interface {
	CreateJob(ctx context.Context, input *mediaconvert.CreateJobInput, opts ...func(*mediaconvert.Options)) (*mediaconvert.CreateJobOutput, error)
}

type GetRoleAPI interface {
	GetRole(ctx context.Context, input *iam.GetRoleInput, opts ...func(*iam.Options)) (*iam.GetRoleOutput, error)
}

// ResolveRoleArn returns role unchanged when it is already an ARN, otherwise
// looks the role name up in IAM
func ResolveRoleArn(ctx context.Context, client GetRoleAPI, role string) (string, error) {
	if strings.HasPrefix(role, "arn:") {
		return role, nil
	}

	result, err := client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(role)})
	if err != nil {
		return "", ErrorResolvingRole(role, err)
	}
	if result.Role == nil || result.Role.Arn == nil {
		return "", ErrorResolvingRole(role, ErrorMissingField("Role.Arn"))
	}

	return aws.ToString(result.Role.Arn), nil
}

// Submitter creates MediaConvert jobs running under a fixed execution role
type Submitter struct {
	client   MediaConvertAPI
	roleArn  string
	settings Settings
	logger   *zap.SugaredLogger
}

func NewSubmitter(client MediaConvertAPI, roleArn string, settings Settings, logger *zap.SugaredLogger) *Submitter {
	return &Submitter{
		client:   client,
		roleArn:  roleArn,
		settings: settings,
		logger:   logger.Named("transcode"),
	}
}

// Submit builds and submits the job for request, returning the job id
func (s *Submitter) Submit(ctx context.Context, request JobRequest) (string, error) {
	s.logger.Infow("Creating MediaConvert job",
		"input", request.InputURI(), "output", request.OutputURI(s.settings))

	result, err := s.client.CreateJob(ctx, &mediaconvert.CreateJobInput{
		Role:     aws.String(s.roleArn),
		Settings: BuildJobSettings(s.settings, request),
	})
	if err != nil {
		return "", ErrorSubmittingJob(request.InputURI(), err)
	}

	var jobID string
	if result.Job != nil {
		jobID = aws.ToString(result.Job.Id)
	}

	s.logger.Infow("Submitted MediaConvert job", "jobId", jobID, "input", request.InputURI())
	return jobID, nil
}
