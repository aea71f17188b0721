package transcode

import (
	"errors"
	"slices"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/mediaconvert/types"
)

const (
	DefaultOutputPrefix = "converted_video/"
	DefaultBitrate      = 5000000
	DefaultRoleArn      = "arn:aws:iam::824852318651:role/MediaConvertS3"
)

type RateControl string

const (
	RateControlCBR RateControl = "CBR"
	RateControlVBR RateControl = "VBR"
)

var supportedCodecs = []types.VideoCodec{types.VideoCodecH264, types.VideoCodecH265}

// Settings are the output parameters of every submitted job
type Settings struct {
	OutputPrefix string
	Container    types.ContainerType
	Codec        types.VideoCodec
	RateControl  RateControl
	Bitrate      int32
}

func DefaultSettings() Settings {
	return Settings{
		OutputPrefix: DefaultOutputPrefix,
		Container:    types.ContainerTypeMp4,
		Codec:        types.VideoCodecH264,
		RateControl:  RateControlCBR,
		Bitrate:      DefaultBitrate,
	}
}

// Validate reports every setting MediaConvert would reject or that the job
// builder cannot express
func (s Settings) Validate() error {
	var errs []error

	if !slices.Contains(s.Container.Values(), s.Container) {
		errs = append(errs, ErrorInvalidSettings("container", string(s.Container)))
	}

	if !slices.Contains(supportedCodecs, s.Codec) {
		errs = append(errs, ErrorInvalidSettings("codec", string(s.Codec)))
	}

	if s.RateControl != RateControlCBR && s.RateControl != RateControlVBR {
		errs = append(errs, ErrorInvalidSettings("rate_control", string(s.RateControl)))
	}

	// MediaConvert accepts bitrates between 1000 and 1152000000
	if s.Bitrate < 1000 || s.Bitrate > 1152000000 {
		errs = append(errs, ErrorInvalidSettings("bitrate", strconv.FormatInt(int64(s.Bitrate), 10)))
	}

	return errors.Join(errs...)
}
