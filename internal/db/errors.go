package db

import (
	"errors"
	"fmt"
)

var (
	ErrMarshallingMetadata   = errors.New("failed to marshal metadata record")
	ErrMetadataNotFound      = errors.New("metadata record not found")
	ErrPutMetadata           = errors.New("failed to store metadata record")
	ErrUnmarshallingMetadata = errors.New("failed to unmarshal metadata record")
)

func ErrorMarshallingMetadata(fileID string, cause error) error {
	return fmt.Errorf("%w: file_id=%s cause=%w", ErrMarshallingMetadata, fileID, cause)
}

func ErrorMetadataNotFound(fileID string) error {
	return fmt.Errorf("%w: file_id=%s", ErrMetadataNotFound, fileID)
}

func ErrorPuttingMetadata(table, fileID string, cause error) error {
	return fmt.Errorf("%w: table=%s file_id=%s cause=%w", ErrPutMetadata, table, fileID, cause)
}

func ErrorUnmarshallingMetadata(fileID string, cause error) error {
	return fmt.Errorf("%w: file_id=%s cause=%w", ErrUnmarshallingMetadata, fileID, cause)
}
