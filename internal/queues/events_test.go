package queues

import (
	"encoding/json"
	"strings"
	"testing"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func bridgeEvent(source, detailType, key string) string {
	return `{
		"source": "` + source + `",
		"detail-type": "` + detailType + `",
		"time": "2024-03-01T17:31:04Z",
		"detail": {
			"version": "0",
			"bucket": {"name": "aws-darko-videos"},
			"object": {"key": "` + key + `", "size": 42, "etag": "abc", "sequencer": "01"},
			"request-id": "req",
			"requester": "123456789012",
			"source-ip-address": "1.2.3.4",
			"reason": "PutObject"
		}
	}`
}

func snsBody(t *testing.T, message string) string {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"Type":      "Notification",
		"MessageId": "95df01b4-ee98-5cb9-9903-4c221d41eb5e",
		"TopicArn":  "arn:aws:sns:us-west-2:123456789012:uploadTopic",
		"Message":   message,
	})
	require.NoError(t, err)
	return string(body)
}

func TestUnwrapBridgeEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	wrapper := SQSEventWrapper{
		Event: &lambdaevents.SQSEvent{Records: []lambdaevents.SQSMessage{
			{MessageId: "created", Body: snsBody(t, bridgeEvent("aws.s3", "Object Created", "a.mov"))},
			{MessageId: "raw", Body: bridgeEvent("aws.s3", "Object Created", "b.mov")},
			{MessageId: "deleted", Body: snsBody(t, bridgeEvent("aws.s3", "Object Deleted", "c.mov"))},
			{MessageId: "other-source", Body: snsBody(t, bridgeEvent("aws.ec2", "Object Created", "d.mov"))},
			{MessageId: "garbage", Body: "not json"},
			{MessageId: "bad-message", Body: snsBody(t, `{"source": "aws.s3"}`)},
		}},
		Logger: zap.New(core).Sugar(),
	}

	parsed, failed := wrapper.UnwrapBridgeEvents()

	require.Len(t, parsed, 2)
	assert.Equal(t, "created", parsed[0].MessageId)
	assert.Equal(t, "a.mov", parsed[0].ObjectKey())
	assert.Equal(t, "raw", parsed[1].MessageId)
	assert.Equal(t, "b.mov", parsed[1].ObjectKey())

	assert.Equal(t, []lambdaevents.SQSBatchItemFailure{
		{ItemIdentifier: "garbage"},
		{ItemIdentifier: "bad-message"},
	}, failed)

	assert.Equal(t, 2, logs.FilterMessage("Failed to parse EventBridge event from SQS message").Len())
	assert.Equal(t, 2, logs.FilterMessage("Ignoring event").Len())
}

func TestUnwrapBridgeEventsWithoutLogger(t *testing.T) {
	wrapper := SQSEventWrapper{
		Event: &lambdaevents.SQSEvent{Records: []lambdaevents.SQSMessage{
			{MessageId: "garbage", Body: strings.Repeat("x", 500)},
		}},
	}

	parsed, failed := wrapper.UnwrapBridgeEvents()

	assert.Empty(t, parsed)
	assert.Len(t, failed, 1)
}
