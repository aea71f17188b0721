package events

import (
	"errors"
	"fmt"
)

const maxExcerptLength = 120

var (
	ErrMissingField = errors.New("required field missing")
	ErrParse        = errors.New("failed to parse notification")
)

func ErrorMissingField(path string) error {
	return fmt.Errorf("%w: field=%s", ErrMissingField, path)
}

func ErrorParsingBridgeEvent(input string, cause error) error {
	return fmt.Errorf("%w: envelope=bridge input=%q cause=%w", ErrParse, excerpt(input), cause)
}

func ErrorParsingSNSNotification(input string, cause error) error {
	return fmt.Errorf("%w: envelope=sns input=%q cause=%w", ErrParse, excerpt(input), cause)
}

func excerpt(input string) string {
	if len(input) <= maxExcerptLength {
		return input
	}
	return input[:maxExcerptLength] + "..."
}
