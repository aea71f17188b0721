package backup

import (
	"shuk/internal/events"
	"shuk/internal/files"
)

// Task is the source/destination pair for one record's copy and tag sequence
type Task struct {
	Source          files.S3Object
	SourceVersionID string
	SourceETag      string
	SourceSize      uint64
	Destination     files.S3Object
}

func NewTask(event events.BridgeEvent, config Config) Task {
	return Task{
		Source:          files.NewS3Object(event.BucketName(), event.ObjectKey()),
		SourceVersionID: event.VersionID(),
		SourceETag:      event.Detail.Object.ETag,
		SourceSize:      event.Detail.Object.Size,
		Destination:     files.NewS3Object(config.DestinationBucket, config.DestinationPrefix+event.ObjectKey()),
	}
}
