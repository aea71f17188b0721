package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	SourceS3 = "aws.s3"

	DetailTypeObjectCreated = "Object Created"
	DetailTypeObjectDeleted = "Object Deleted"
)

// requiredBridgeFields lists the dotted paths that must be present and non-null
// in a bridge event document. version-id is the only optional field.
var requiredBridgeFields = []string{
	"source",
	"detail-type",
	"time",
	"detail",
	"detail.version",
	"detail.bucket",
	"detail.bucket.name",
	"detail.object",
	"detail.object.key",
	"detail.object.size",
	"detail.object.etag",
	"detail.object.sequencer",
	"detail.request-id",
	"detail.requester",
	"detail.source-ip-address",
	"detail.reason",
}

// BridgeEvent is the EventBridge envelope around an S3 object event
type BridgeEvent struct {
	Source     string             `json:"source"`
	DetailType string             `json:"detail-type"`
	Time       time.Time          `json:"time"`
	Detail     StorageEventDetail `json:"detail"`
}

// eventTimeLayouts are the ISO 8601 forms accepted for the envelope time.
// EventBridge emits RFC 3339; offsets without a colon also appear in relayed events.
var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
}

func (e *BridgeEvent) UnmarshalJSON(data []byte) error {
	type envelope BridgeEvent
	aux := struct {
		*envelope
		Time string `json:"time"`
	}{envelope: (*envelope)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Time == "" {
		return nil
	}

	parsed, err := parseEventTime(aux.Time)
	if err != nil {
		return err
	}
	e.Time = parsed
	return nil
}

func parseEventTime(value string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("time %q is not an ISO 8601 timestamp", value)
}

type StorageEventDetail struct {
	Version         string        `json:"version"`
	Bucket          StorageBucket `json:"bucket"`
	Object          StorageObject `json:"object"`
	RequestID       string        `json:"request-id"`
	Requester       string        `json:"requester"`
	SourceIPAddress string        `json:"source-ip-address"`
	Reason          string        `json:"reason"`
}

type StorageBucket struct {
	Name string `json:"name"`
}

type StorageObject struct {
	Key       string  `json:"key"`
	Size      uint64  `json:"size"`
	ETag      string  `json:"etag"`
	VersionID *string `json:"version-id,omitempty"`
	Sequencer string  `json:"sequencer"`
}

// BucketName extracts the bucket name
func (e *BridgeEvent) BucketName() string {
	return e.Detail.Bucket.Name
}

// ObjectKey extracts the object key
func (e *BridgeEvent) ObjectKey() string {
	return e.Detail.Object.Key
}

// VersionID returns the object version, or "" for unversioned buckets
func (e *BridgeEvent) VersionID() string {
	if e.Detail.Object.VersionID == nil {
		return ""
	}
	return *e.Detail.Object.VersionID
}

// IsObjectCreated checks if the event is an object creation event
func (e *BridgeEvent) IsObjectCreated() bool {
	return e.DetailType == DetailTypeObjectCreated
}

// IsFromS3 checks the event was emitted by S3
func (e *BridgeEvent) IsFromS3() bool {
	return e.Source == SourceS3
}

// ParseBridgeEvent deserializes the text of a bus message into a BridgeEvent.
// Unknown fields are ignored; missing required fields are an error.
func ParseBridgeEvent(message string) (BridgeEvent, error) {
	data := []byte(message)

	var event BridgeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return BridgeEvent{}, ErrorParsingBridgeEvent(message, err)
	}

	if err := requireFields(data, requiredBridgeFields...); err != nil {
		return BridgeEvent{}, ErrorParsingBridgeEvent(message, err)
	}

	return event, nil
}
