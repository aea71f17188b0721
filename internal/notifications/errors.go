package notifications

import (
	"errors"
	"fmt"
)

var (
	ErrPublish = errors.New("failed to publish notification")
	ErrRender  = errors.New("failed to render notification")
)

func ErrorPublishingNotification(topic string, cause error) error {
	return fmt.Errorf("%w: topic=%s cause=%w", ErrPublish, topic, cause)
}

func ErrorRenderingNotification(template string, cause error) error {
	return fmt.Errorf("%w: template=%s cause=%w", ErrRender, template, cause)
}
