package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBridgeEvent = `{
    "version": "0",
    "id": "17793124-05d4-b198-2fde-7ededc63b103",
    "detail-type": "Object Created",
    "source": "aws.s3",
    "account": "123456789012",
    "time": "2024-03-01T17:31:04Z",
    "region": "us-west-2",
    "resources": ["arn:aws:s3:::aws-darko-videos"],
    "detail": {
        "version": "0",
        "bucket": {
            "name": "aws-darko-videos"
        },
        "object": {
            "key": "uploads/holiday.jpg",
            "size": 5242880,
            "etag": "b1946ac92492d2347c6235b4d2611184",
            "version-id": "IYV3p45BT0ac8hjHg1houSdS1a.Mro8e",
            "sequencer": "00617F08299329D189"
        },
        "request-id": "N4N7GDK58NMKJ12R",
        "requester": "123456789012",
        "source-ip-address": "1.2.3.4",
        "reason": "PutObject"
    }
}`

func TestParseBridgeEvent(t *testing.T) {
	event, err := ParseBridgeEvent(sampleBridgeEvent)
	require.NoError(t, err)

	assert.Equal(t, "aws.s3", event.Source)
	assert.Equal(t, "Object Created", event.DetailType)
	assert.True(t, event.Time.Equal(time.Date(2024, 3, 1, 17, 31, 4, 0, time.UTC)))
	assert.Equal(t, "aws-darko-videos", event.BucketName())
	assert.Equal(t, "uploads/holiday.jpg", event.ObjectKey())
	assert.Equal(t, uint64(5242880), event.Detail.Object.Size)
	assert.Equal(t, "b1946ac92492d2347c6235b4d2611184", event.Detail.Object.ETag)
	assert.Equal(t, "IYV3p45BT0ac8hjHg1houSdS1a.Mro8e", event.VersionID())
	assert.Equal(t, "00617F08299329D189", event.Detail.Object.Sequencer)
	assert.Equal(t, "N4N7GDK58NMKJ12R", event.Detail.RequestID)
	assert.Equal(t, "123456789012", event.Detail.Requester)
	assert.Equal(t, "1.2.3.4", event.Detail.SourceIPAddress)
	assert.Equal(t, "PutObject", event.Detail.Reason)
	assert.True(t, event.IsObjectCreated())
	assert.True(t, event.IsFromS3())
}

func TestParseBridgeEventErrors(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		missingField string
	}{
		{
			name:    "malformed json",
			message: `{"source": "aws.s3", "detail": {`,
		},
		{
			name:    "not an object",
			message: `["aws.s3"]`,
		},
		{
			name:    "empty message",
			message: ``,
		},
		{
			name:    "wrong type for size",
			message: `{"source":"aws.s3","detail-type":"Object Created","time":"2024-03-01T17:31:04Z","detail":{"object":{"size":"big"}}}`,
		},
		{
			name:    "invalid time",
			message: `{"source":"aws.s3","detail-type":"Object Created","time":"yesterday","detail":{}}`,
		},
		{
			name:         "null document",
			message:      `null`,
			missingField: "source",
		},
		{
			name:         "missing detail",
			message:      `{"source":"aws.s3","detail-type":"Object Created","time":"2024-03-01T17:31:04Z"}`,
			missingField: "detail",
		},
		{
			name: "missing bucket name",
			message: `{"source":"aws.s3","detail-type":"Object Created","time":"2024-03-01T17:31:04Z",
				"detail":{"version":"0","bucket":{},"object":{"key":"a","size":1,"etag":"e","sequencer":"s"},
				"request-id":"r","requester":"q","source-ip-address":"1.2.3.4","reason":"PutObject"}}`,
			missingField: "detail.bucket.name",
		},
		{
			name: "null object key",
			message: `{"source":"aws.s3","detail-type":"Object Created","time":"2024-03-01T17:31:04Z",
				"detail":{"version":"0","bucket":{"name":"b"},"object":{"key":null,"size":1,"etag":"e","sequencer":"s"},
				"request-id":"r","requester":"q","source-ip-address":"1.2.3.4","reason":"PutObject"}}`,
			missingField: "detail.object.key",
		},
		{
			name: "missing reason",
			message: `{"source":"aws.s3","detail-type":"Object Created","time":"2024-03-01T17:31:04Z",
				"detail":{"version":"0","bucket":{"name":"b"},"object":{"key":"a","size":1,"etag":"e","sequencer":"s"},
				"request-id":"r","requester":"q","source-ip-address":"1.2.3.4"}}`,
			missingField: "detail.reason",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBridgeEvent(tt.message)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "expected ErrParse, got %v", err)

			if tt.missingField != "" {
				assert.True(t, errors.Is(err, ErrMissingField), "expected ErrMissingField, got %v", err)
				assert.Contains(t, err.Error(), "field="+tt.missingField)
			}
		})
	}
}

func TestParseBridgeEventTimeFormats(t *testing.T) {
	want := time.Date(2024, 3, 1, 17, 31, 4, 0, time.UTC)

	tests := []struct {
		name  string
		value string
	}{
		{name: "utc designator", value: "2024-03-01T17:31:04Z"},
		{name: "colon offset", value: "2024-03-01T18:31:04+01:00"},
		{name: "basic offset", value: "2024-03-01T17:31:04+0000"},
		{name: "fractional seconds with basic offset", value: "2024-03-01T12:31:04.000-0500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := `{"source":"aws.s3","detail-type":"Object Created","time":"` + tt.value + `",
				"detail":{"version":"0","bucket":{"name":"b"},"object":{"key":"a","size":1,"etag":"e","sequencer":"s"},
				"request-id":"r","requester":"q","source-ip-address":"1.2.3.4","reason":"PutObject"}}`

			event, err := ParseBridgeEvent(message)
			require.NoError(t, err)
			assert.True(t, want.Equal(event.Time), "got %s", event.Time)
		})
	}
}

func TestParseBridgeEventWithoutVersionID(t *testing.T) {
	message := `{"source":"aws.s3","detail-type":"Object Created","time":"2024-03-01T17:31:04Z",
		"detail":{"version":"0","bucket":{"name":"b"},"object":{"key":"a","size":1,"etag":"e","sequencer":"s"},
		"request-id":"r","requester":"q","source-ip-address":"1.2.3.4","reason":"PutObject"}}`

	event, err := ParseBridgeEvent(message)
	require.NoError(t, err)
	assert.Nil(t, event.Detail.Object.VersionID)
	assert.Equal(t, "", event.VersionID())
}

func TestBridgeEventRoundTrip(t *testing.T) {
	versionID := "3HL4kqtJlcpXroDTDmJ+rmSpXd3dIbrHY"

	tests := []struct {
		name      string
		versionID *string
	}{
		{name: "all optional fields populated", versionID: &versionID},
		{name: "version-id absent", versionID: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := BridgeEvent{
				Source:     SourceS3,
				DetailType: DetailTypeObjectCreated,
				Time:       time.Date(2024, 3, 1, 17, 31, 4, 0, time.UTC),
				Detail: StorageEventDetail{
					Version: "0",
					Bucket:  StorageBucket{Name: "aws-darko-videos"},
					Object: StorageObject{
						Key:       "clips/intro.mp4",
						Size:      1 << 40,
						ETag:      "d41d8cd98f00b204e9800998ecf8427e",
						VersionID: tt.versionID,
						Sequencer: "0055AED6DCD90281E5",
					},
					RequestID:       "C3D13FE58DE4C810",
					Requester:       "123456789012",
					SourceIPAddress: "10.0.0.1",
					Reason:          "CompleteMultipartUpload",
				},
			}

			data, err := json.Marshal(want)
			require.NoError(t, err)

			got, err := ParseBridgeEvent(string(data))
			require.NoError(t, err)

			assert.True(t, want.Time.Equal(got.Time))
			got.Time = want.Time
			assert.Equal(t, want, got)
		})
	}
}
