package accounts

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, input *sts.GetCallerIdentityInput, opts ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

func GetAccountID(ctx context.Context, awsConfig aws.Config) (string, error) {
	return AccountID(ctx, sts.NewFromConfig(awsConfig))
}

// AccountID returns the account the caller's credentials belong to
func AccountID(ctx context.Context, client CallerIdentityAPI) (string, error) {
	result, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", err
	}

	return aws.ToString(result.Account), nil
}
