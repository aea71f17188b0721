package transcode

import (
	"encoding/json"
	"fmt"
)

const (
	FieldInputBucket  = "input_bucket"
	FieldInputKey     = "input_key"
	FieldOutputBucket = "output_bucket"
)

// ParseJobRequest reads the three string fields of a job payload. A field
// without a non-empty string value is reported as missing. Fields are
// checked in the order input_bucket, input_key, output_bucket.
func ParseJobRequest(payload json.RawMessage) (JobRequest, error) {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return JobRequest{}, fmt.Errorf("%w: payload is not a JSON object: %w", ErrMissingField, err)
	}

	var request JobRequest
	for _, field := range []struct {
		name  string
		value *string
	}{
		{FieldInputBucket, &request.InputBucket},
		{FieldInputKey, &request.InputKey},
		{FieldOutputBucket, &request.OutputBucket},
	} {
		value, ok := fields[field.name].(string)
		if !ok || value == "" {
			return JobRequest{}, ErrorMissingField(field.name)
		}
		*field.value = value
	}

	return request, nil
}
