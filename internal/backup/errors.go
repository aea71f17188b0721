package backup

import (
	"errors"
	"fmt"
)

var (
	ErrCopy = errors.New("failed to copy object")
	ErrTag  = errors.New("failed to tag object")

	ErrTagLimit = errors.New("marker would exceed the S3 limit of 10 tags per object")
)

func ErrorCopyingObject(source, destination string, cause error) error {
	return fmt.Errorf("%w: source=%s destination=%s cause=%w", ErrCopy, source, destination, cause)
}

func ErrorTaggingObject(uri string, cause error) error {
	return fmt.Errorf("%w: uri=%s cause=%w", ErrTag, uri, cause)
}
