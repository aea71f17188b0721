package files

import (
	"fmt"
	"net/url"
	"strings"
)

// S3Object represents an S3 object
type S3Object struct {
	Bucket string
	Key    string
}

// NewS3Object creates a new S3Object
func NewS3Object(bucket, key string) S3Object {
	return S3Object{Bucket: bucket, Key: key}
}

// URI returns a human-readable URI for the S3 object
func (obj S3Object) URI() string {
	return fmt.Sprintf("s3://%s/%s", obj.Bucket, obj.Key)
}

// CopySource returns the "bucket/key" form expected by CopyObject, with each
// path segment escaped and an optional version qualifier. S3 decodes "+" in
// the copy source as a space, so it is escaped as well.
func (obj S3Object) CopySource(versionID string) string {
	segments := strings.Split(obj.Key, "/")
	for i, segment := range segments {
		segments[i] = strings.ReplaceAll(url.PathEscape(segment), "+", "%2B")
	}

	source := obj.Bucket + "/" + strings.Join(segments, "/")
	if versionID != "" {
		source += "?versionId=" + url.QueryEscape(versionID)
	}
	return source
}
