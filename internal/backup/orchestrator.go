package backup

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// Orchestrator copies a source object to the backup bucket, then tags the
// source so it is recognisable as backed up. A failed copy ends the sequence;
// a failed tag leaves the copy in place.
type Orchestrator struct {
	s3Client S3ClientInterface
	config   Config
	logger   *zap.SugaredLogger
}

func NewOrchestrator(s3Client S3ClientInterface, config Config, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		s3Client: s3Client,
		config:   config,
		logger:   logger.Named("backup"),
	}
}

// maxObjectTags is the S3 limit on tags per object
const maxObjectTags = 10

type backupStatus struct {
	tags     []types.Tag
	tagsRead bool
	tagged   bool
	copied   bool
}

func (o *Orchestrator) Backup(ctx context.Context, task Task) Outcome {
	outcome := Outcome{
		Source:      task.Source,
		Destination: task.Destination,
		Size:        task.SourceSize,
		State:       StatePending,
	}

	var status backupStatus
	if o.config.SkipExisting {
		status = o.status(ctx, task)
		if status.copied && status.tagged {
			o.logger.Infow("Object already backed up, skipping",
				"source", task.Source.URI(), "destination", task.Destination.URI())
			outcome.State = StateSkipped
			return outcome
		}
	}

	if status.copied {
		o.logger.Infow("Backup copy already present, tagging source only",
			"source", task.Source.URI(), "destination", task.Destination.URI())
	} else {
		o.logger.Infow("Backing up object",
			"source", task.Source.URI(), "destination", task.Destination.URI())

		if err := o.copy(ctx, task); err != nil {
			o.logger.Errorw("Failed to back up object", "source", task.Source.URI(), "error", err)
			outcome.State = StateCopyFailed
			outcome.Err = err
			return outcome
		}
	}
	outcome.State = StateCopied

	if err := o.tag(ctx, task, status); err != nil {
		o.logger.Warnw("Object was backed up, but tagging the source failed",
			"source", task.Source.URI(), "error", err)
		outcome.State = StateCopyTaggingFailed
		outcome.Err = err
		return outcome
	}

	o.logger.Infow("Object backed up and tagged",
		"source", task.Source.URI(), "destination", task.Destination.URI())
	outcome.State = StateTagged
	return outcome
}

func (o *Orchestrator) copy(ctx context.Context, task Task) error {
	// TODO: objects over 5 GB need UploadPartCopy; CopyObject rejects them
	_, err := o.s3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(task.Destination.Bucket),
		Key:        aws.String(task.Destination.Key),
		CopySource: aws.String(task.Source.CopySource(task.SourceVersionID)),
	})
	if err != nil {
		return ErrorCopyingObject(task.Source.URI(), task.Destination.URI(), err)
	}
	return nil
}

// tag applies the marker to the source object. With the pre-check enabled the
// marker is merged into the tags the source already carries; when those cannot
// be read the tag set is replaced by the marker alone.
func (o *Orchestrator) tag(ctx context.Context, task Task, status backupStatus) error {
	tagSet := []types.Tag{o.marker()}
	if o.config.SkipExisting {
		existing, read := status.tags, status.tagsRead
		if !read {
			var err error
			if existing, err = o.sourceTags(ctx, task); err == nil {
				read = true
			} else {
				o.logger.Warnw("Source tags unreadable, replacing tag set with the marker",
					"source", task.Source.URI(), "error", err)
			}
		}

		if read {
			tagSet = mergeTag(existing, o.marker())
			if len(tagSet) > maxObjectTags {
				return ErrorTaggingObject(task.Source.URI(),
					fmt.Errorf("%w: existing=%d", ErrTagLimit, len(existing)))
			}
		}
	}

	input := &s3.PutObjectTaggingInput{
		Bucket:  aws.String(task.Source.Bucket),
		Key:     aws.String(task.Source.Key),
		Tagging: &types.Tagging{TagSet: tagSet},
	}
	if task.SourceVersionID != "" {
		input.VersionId = aws.String(task.SourceVersionID)
	}

	if _, err := o.s3Client.PutObjectTagging(ctx, input); err != nil {
		return ErrorTaggingObject(task.Source.URI(), err)
	}
	return nil
}

func (o *Orchestrator) sourceTags(ctx context.Context, task Task) ([]types.Tag, error) {
	input := &s3.GetObjectTaggingInput{
		Bucket: aws.String(task.Source.Bucket),
		Key:    aws.String(task.Source.Key),
	}
	if task.SourceVersionID != "" {
		input.VersionId = aws.String(task.SourceVersionID)
	}

	resp, err := o.s3Client.GetObjectTagging(ctx, input)
	if err != nil {
		return nil, err
	}
	return resp.TagSet, nil
}

// status inspects the source tags and the destination object. Lookup failures
// are logged and treated as "not backed up" so the sequence still runs.
func (o *Orchestrator) status(ctx context.Context, task Task) backupStatus {
	var status backupStatus

	tags, err := o.sourceTags(ctx, task)
	if err != nil {
		o.logger.Warnw("Unable to read source tags", "source", task.Source.URI(), "error", err)
	} else {
		status.tags = tags
		status.tagsRead = true
		for _, tag := range tags {
			if aws.ToString(tag.Key) == o.config.TagKey && aws.ToString(tag.Value) == o.config.TagValue {
				status.tagged = true
			}
		}
	}

	if task.SourceETag == "" {
		return status
	}

	headResp, err := o.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(task.Destination.Bucket),
		Key:    aws.String(task.Destination.Key),
	})
	if err != nil {
		if !isS3NotFound(err) {
			o.logger.Warnw("Unable to inspect backup destination", "destination", task.Destination.URI(), "error", err)
		}
		return status
	}

	// A destination with a different ETag is an older upload of the same key
	status.copied = normalizeETag(aws.ToString(headResp.ETag)) == normalizeETag(task.SourceETag)
	return status
}

func (o *Orchestrator) marker() types.Tag {
	return types.Tag{
		Key:   aws.String(o.config.TagKey),
		Value: aws.String(o.config.TagValue),
	}
}

func mergeTag(existing []types.Tag, marker types.Tag) []types.Tag {
	tags := make([]types.Tag, 0, len(existing)+1)
	for _, tag := range existing {
		if aws.ToString(tag.Key) != aws.ToString(marker.Key) {
			tags = append(tags, tag)
		}
	}
	return append(tags, marker)
}
