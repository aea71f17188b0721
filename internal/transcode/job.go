package transcode

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert/types"
)

// JobRequest names the object to transcode and where the output goes
type JobRequest struct {
	InputBucket  string
	InputKey     string
	OutputBucket string
}

func (r JobRequest) InputURI() string {
	return fmt.Sprintf("s3://%s/%s", r.InputBucket, r.InputKey)
}

func (r JobRequest) OutputURI(settings Settings) string {
	return fmt.Sprintf("s3://%s/%s%s", r.OutputBucket, settings.OutputPrefix, r.InputKey)
}

// BuildJobSettings maps a request to a single-input, single-output file group job
func BuildJobSettings(settings Settings, request JobRequest) *types.JobSettings {
	return &types.JobSettings{
		Inputs: []types.Input{
			{FileInput: aws.String(request.InputURI())},
		},
		OutputGroups: []types.OutputGroup{
			{
				OutputGroupSettings: &types.OutputGroupSettings{
					Type: types.OutputGroupTypeFileGroupSettings,
					FileGroupSettings: &types.FileGroupSettings{
						Destination: aws.String(request.OutputURI(settings)),
					},
				},
				Outputs: []types.Output{
					{
						ContainerSettings: &types.ContainerSettings{
							Container: settings.Container,
						},
						VideoDescription: &types.VideoDescription{
							CodecSettings: codecSettings(settings),
						},
					},
				},
			},
		},
	}
}

func codecSettings(settings Settings) *types.VideoCodecSettings {
	codec := &types.VideoCodecSettings{Codec: settings.Codec}

	switch settings.Codec {
	case types.VideoCodecH265:
		codec.H265Settings = &types.H265Settings{
			RateControlMode: types.H265RateControlMode(settings.RateControl),
			Bitrate:         aws.Int32(settings.Bitrate),
		}
	default:
		codec.H264Settings = &types.H264Settings{
			RateControlMode: types.H264RateControlMode(settings.RateControl),
			Bitrate:         aws.Int32(settings.Bitrate),
		}
	}

	return codec
}
