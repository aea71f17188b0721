package backup

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Mock S3 client for testing; safe for concurrent use by the dispatcher
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string]string      // "bucket/key" -> etag
	tags    map[string][]types.Tag // "bucket/key" -> tag set
	errors  map[string]error       // "operation:bucket/key" -> error
	once    map[string]error       // as errors, but returned a single time
	calls   []string               // "operation:bucket/key"
	inputs  struct {
		copies   []*s3.CopyObjectInput
		taggings []*s3.PutObjectTaggingInput
	}
}

func newMockS3Client() *mockS3Client {
	return &mockS3Client{
		objects: make(map[string]string),
		tags:    make(map[string][]types.Tag),
		errors:  make(map[string]error),
		once:    make(map[string]error),
	}
}

func (m *mockS3Client) addObject(bucket, key, etag string) {
	m.objects[bucket+"/"+key] = etag
}

func (m *mockS3Client) addTags(bucket, key string, tags map[string]string) {
	for k, v := range tags {
		m.tags[bucket+"/"+key] = append(m.tags[bucket+"/"+key], types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
}

func (m *mockS3Client) addError(bucket, key, operation string, err error) {
	m.errors[operation+":"+bucket+"/"+key] = err
}

func (m *mockS3Client) addErrorOnce(bucket, key, operation string, err error) {
	m.once[operation+":"+bucket+"/"+key] = err
}

func (m *mockS3Client) hasObject(bucket, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.objects[bucket+"/"+key]
	return exists
}

func (m *mockS3Client) tagsOf(bucket, key string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]string)
	for _, tag := range m.tags[bucket+"/"+key] {
		result[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return result
}

func (m *mockS3Client) callCount(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.calls {
		if strings.HasPrefix(call, operation+":") {
			count++
		}
	}
	return count
}

func (m *mockS3Client) record(operation, key string) error {
	m.calls = append(m.calls, operation+":"+key)
	if err, exists := m.once[operation+":"+key]; exists {
		delete(m.once, operation+":"+key)
		return err
	}
	if err, exists := m.errors[operation+":"+key]; exists {
		return err
	}
	return nil
}

func (m *mockS3Client) CopyObject(ctx context.Context, input *s3.CopyObjectInput, opts ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs.copies = append(m.inputs.copies, input)

	source, _, _ := strings.Cut(*input.CopySource, "?")
	source, err := url.PathUnescape(source)
	if err != nil {
		return nil, err
	}

	if err := m.record("copy", source); err != nil {
		return nil, err
	}

	etag, exists := m.objects[source]
	if !exists {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "Key not found"}
	}

	m.objects[*input.Bucket+"/"+*input.Key] = etag
	return &s3.CopyObjectOutput{}, nil
}

func (m *mockS3Client) PutObjectTagging(ctx context.Context, input *s3.PutObjectTaggingInput, opts ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs.taggings = append(m.inputs.taggings, input)

	key := *input.Bucket + "/" + *input.Key
	if err := m.record("tag", key); err != nil {
		return nil, err
	}

	if _, exists := m.objects[key]; !exists {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "Key not found"}
	}

	if len(input.Tagging.TagSet) > 10 {
		return nil, &smithy.GenericAPIError{Code: "BadRequest", Message: "Object tags cannot be greater than 10"}
	}

	m.tags[key] = input.Tagging.TagSet
	return &s3.PutObjectTaggingOutput{}, nil
}

func (m *mockS3Client) GetObjectTagging(ctx context.Context, input *s3.GetObjectTaggingInput, opts ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := *input.Bucket + "/" + *input.Key
	if err := m.record("gettags", key); err != nil {
		return nil, err
	}

	if _, exists := m.objects[key]; !exists {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "Key not found"}
	}

	return &s3.GetObjectTaggingOutput{TagSet: append([]types.Tag(nil), m.tags[key]...)}, nil
}

func (m *mockS3Client) HeadObject(ctx context.Context, input *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := *input.Bucket + "/" + *input.Key
	if err := m.record("head", key); err != nil {
		return nil, err
	}

	etag, exists := m.objects[key]
	if !exists {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}

	return &s3.HeadObjectOutput{ETag: aws.String(`"` + etag + `"`)}, nil
}
