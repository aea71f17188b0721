package transcode

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSettings = errors.New("invalid transcode settings")
	ErrMissingField    = errors.New("job request field missing")
	ErrResolveRole     = errors.New("failed to resolve MediaConvert role")
	ErrSubmission      = errors.New("failed to submit MediaConvert job")
)

func ErrorInvalidSettings(setting, value string) error {
	return fmt.Errorf("%w: setting=%s value=%q", ErrInvalidSettings, setting, value)
}

func ErrorMissingField(field string) error {
	return fmt.Errorf("%w: field=%s", ErrMissingField, field)
}

func ErrorResolvingRole(role string, cause error) error {
	return fmt.Errorf("%w: role=%s cause=%w", ErrResolveRole, role, cause)
}

func ErrorSubmittingJob(input string, cause error) error {
	return fmt.Errorf("%w: input=%s cause=%w", ErrSubmission, input, cause)
}
