//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"shuk/internal/backup"
)

const (
	defaultSourceBucket = "aws-darko-videos"
	defaultWaitTime     = 15 * time.Second
	pollInterval        = 1 * time.Second
)

type TestClients struct {
	S3       *s3.Client
	Lambda   *lambda.Client
	IAM      *iam.Client
	DynamoDB *dynamodb.Client
}

func setupTestClients(t *testing.T) (*TestClients, string) {
	ctx := context.Background()

	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		t.Fatalf("Unable to load AWS config: %v", err)
	}

	stackName := os.Getenv("STACK_NAME")
	if stackName == "" {
		t.Fatal("STACK_NAME environment variable must be set")
	}

	return &TestClients{
		S3:       s3.NewFromConfig(awsConfig),
		Lambda:   lambda.NewFromConfig(awsConfig),
		IAM:      iam.NewFromConfig(awsConfig),
		DynamoDB: dynamodb.NewFromConfig(awsConfig),
	}, stackName
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func sourceBucket() string {
	return envOrDefault("SOURCE_BUCKET", defaultSourceBucket)
}

func backupBucket() string {
	return envOrDefault("BACKUP_DESTINATION_BUCKET", backup.DefaultDestinationBucket)
}

func functionName(stackName, function string) string {
	return fmt.Sprintf("%s-%sFunction", stackName, function)
}

// uniqueKey returns a key under the integration-test prefix so runs never collide
func uniqueKey(ext string) string {
	return fmt.Sprintf("integration-test/%s%s", uuid.New().String(), ext)
}

func uploadToS3(ctx context.Context, s3Client *s3.Client, bucketName, key, content string) error {
	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
		Body:   strings.NewReader(content),
	})
	return err
}

func deleteObject(ctx context.Context, s3Client *s3.Client, bucketName, key string) {
	_, _ = s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
}

func bucketExists(ctx context.Context, s3Client *s3.Client, bucketName string) bool {
	_, err := s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	return err == nil
}

func objectExists(ctx context.Context, s3Client *s3.Client, bucketName, key string) bool {
	_, err := s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	return err == nil
}

func objectTags(ctx context.Context, s3Client *s3.Client, bucketName, key string) map[string]string {
	result, err := s3Client.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil
	}

	tags := make(map[string]string)
	for _, tag := range result.TagSet {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags
}

func iamRoleExists(ctx context.Context, iamClient *iam.Client, roleName string) bool {
	_, err := iamClient.GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	return err == nil
}

func lambdaFunctionExists(ctx context.Context, lambdaClient *lambda.Client, functionName string) bool {
	_, err := lambdaClient.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(functionName),
	})
	return err == nil
}

// waitFor polls condition until it holds or the wait time runs out
func waitFor(t *testing.T, waitTime time.Duration, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(waitTime)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(pollInterval)
	}
	require.Fail(t, "Timed out waiting", description)
}
