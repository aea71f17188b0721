package db

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"shuk/internal/events"
	"shuk/internal/files"
)

const (
	DefaultMetadataTable = "metaDataTable"

	MetadataTableFileId = "file_id"
)

// fileIDSpace namespaces the name-based file IDs so they cannot collide with
// IDs derived from the same URI elsewhere
var fileIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("shuk/metadata"))

// DynamoDBAPI defines the DynamoDB operations used by the metadata store
type DynamoDBAPI interface {
	GetItem(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type MetadataRecord struct {
	FileID          string    `dynamodbav:"file_id"`
	Bucket          string    `dynamodbav:"bucket"`
	ObjectKey       string    `dynamodbav:"object_key"`
	Size            uint64    `dynamodbav:"size"`
	ETag            string    `dynamodbav:"etag"`
	VersionID       string    `dynamodbav:"version_id,omitempty"`
	Sequencer       string    `dynamodbav:"sequencer"`
	EventTime       time.Time `dynamodbav:"event_time"`
	Requester       string    `dynamodbav:"requester"`
	Reason          string    `dynamodbav:"reason"`
	SourceIPAddress string    `dynamodbav:"source_ip_address"`
	RecordedAt      time.Time `dynamodbav:"recorded_at"`
}

// FileID derives a stable identifier for an object version. Redelivered
// events for the same upload therefore overwrite the same item.
func FileID(obj files.S3Object, versionID string) string {
	name := obj.URI()
	if versionID != "" {
		name += "?versionId=" + versionID
	}
	return uuid.NewSHA1(fileIDSpace, []byte(name)).String()
}

// NewMetadataRecord builds the record for an upload event
func NewMetadataRecord(event events.BridgeEvent, recordedAt time.Time) MetadataRecord {
	obj := files.NewS3Object(event.BucketName(), event.ObjectKey())
	detail := event.Detail

	return MetadataRecord{
		FileID:          FileID(obj, event.VersionID()),
		Bucket:          obj.Bucket,
		ObjectKey:       obj.Key,
		Size:            detail.Object.Size,
		ETag:            detail.Object.ETag,
		VersionID:       event.VersionID(),
		Sequencer:       detail.Object.Sequencer,
		EventTime:       event.Time.UTC(),
		Requester:       detail.Requester,
		Reason:          detail.Reason,
		SourceIPAddress: detail.SourceIPAddress,
		RecordedAt:      recordedAt.UTC(),
	}
}

// DB stores metadata records in a single DynamoDB table
type DB struct {
	client DynamoDBAPI
	table  string
}

func New(client DynamoDBAPI, table string) *DB {
	return &DB{client: client, table: table}
}

func (d *DB) PutMetadataRecord(ctx context.Context, record MetadataRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return ErrorMarshallingMetadata(record.FileID, err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return ErrorPuttingMetadata(d.table, record.FileID, err)
	}
	return nil
}

func (d *DB) GetMetadataRecord(ctx context.Context, fileID string) (MetadataRecord, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			MetadataTableFileId: &types.AttributeValueMemberS{Value: fileID},
		},
	})
	if err != nil {
		return MetadataRecord{}, err
	}

	if result.Item == nil {
		return MetadataRecord{}, ErrorMetadataNotFound(fileID)
	}

	var record MetadataRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return MetadataRecord{}, ErrorUnmarshallingMetadata(fileID, err)
	}

	return record, nil
}
