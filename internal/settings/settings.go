package settings

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/mediaconvert/types"

	"shuk/internal/backup"
	"shuk/internal/db"
	"shuk/internal/transcode"
)

const DefaultAWSMaxAttempts = 5

var ErrInvalidValue = errors.New("invalid configuration value")

// LookupFunc has the signature of os.LookupEnv
type LookupFunc func(key string) (string, bool)

// Env reads settings from the process environment
var Env LookupFunc = os.LookupEnv

func ErrorInvalidValue(key, value string, cause error) error {
	return fmt.Errorf("%w: key=%s value=%q cause=%w", ErrInvalidValue, key, value, cause)
}

// reader accumulates parse errors so every bad variable is reported at once
type reader struct {
	lookup LookupFunc
	errs   []error
}

func (r *reader) getString(key, fallback string) string {
	if value, ok := r.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (r *reader) getInt(key string, fallback int) int {
	value := r.getString(key, "")
	if value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		r.errs = append(r.errs, ErrorInvalidValue(key, value, err))
		return fallback
	}
	return n
}

func (r *reader) getBool(key string, fallback bool) bool {
	value := r.getString(key, "")
	if value == "" {
		return fallback
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		r.errs = append(r.errs, ErrorInvalidValue(key, value, err))
		return fallback
	}
	return b
}

func (r *reader) err() error {
	return errors.Join(r.errs...)
}

// Backup loads the backup handler configuration
func Backup(lookup LookupFunc) (backup.Config, error) {
	r := &reader{lookup: lookup}
	defaults := backup.DefaultConfig()

	config := backup.Config{
		DestinationBucket:    r.getString("BACKUP_DESTINATION_BUCKET", defaults.DestinationBucket),
		DestinationPrefix:    r.getString("BACKUP_DESTINATION_PREFIX", defaults.DestinationPrefix),
		TagKey:               r.getString("BACKUP_TAG_KEY", defaults.TagKey),
		TagValue:             r.getString("BACKUP_TAG_VALUE", defaults.TagValue),
		MaxConcurrency:       r.getInt("BACKUP_MAX_CONCURRENCY", defaults.MaxConcurrency),
		SkipExisting:         r.getBool("BACKUP_SKIP_EXISTING", defaults.SkipExisting),
		StopOnParseError:     r.getBool("BACKUP_STOP_ON_PARSE_ERROR", defaults.StopOnParseError),
		RequireObjectCreated: r.getBool("BACKUP_REQUIRE_OBJECT_CREATED", defaults.RequireObjectCreated),
	}

	if config.MaxConcurrency < 1 {
		r.errs = append(r.errs, ErrorInvalidValue("BACKUP_MAX_CONCURRENCY",
			strconv.Itoa(config.MaxConcurrency), errors.New("must be at least 1")))
	}

	return config, r.err()
}

// Transcode holds the job handler configuration
type Transcode struct {
	Role     string
	Endpoint string
	Settings transcode.Settings
}

func TranscodeSettings(lookup LookupFunc) (Transcode, error) {
	r := &reader{lookup: lookup}
	defaults := transcode.DefaultSettings()

	bitrate := r.getInt("TRANSCODE_BITRATE", int(defaults.Bitrate))
	if int64(bitrate) != int64(int32(bitrate)) {
		r.errs = append(r.errs, ErrorInvalidValue("TRANSCODE_BITRATE", strconv.Itoa(bitrate), strconv.ErrRange))
		bitrate = int(defaults.Bitrate)
	}

	config := Transcode{
		Role:     r.getString("MEDIACONVERT_ROLE", transcode.DefaultRoleArn),
		Endpoint: r.getString("MEDIACONVERT_ENDPOINT", ""),
		Settings: transcode.Settings{
			OutputPrefix: r.getString("TRANSCODE_OUTPUT_PREFIX", defaults.OutputPrefix),
			Container:    types.ContainerType(strings.ToUpper(r.getString("TRANSCODE_CONTAINER", string(defaults.Container)))),
			Codec:        types.VideoCodec(strings.ToUpper(r.getString("TRANSCODE_CODEC", string(defaults.Codec)))),
			RateControl:  transcode.RateControl(strings.ToUpper(r.getString("TRANSCODE_RATE_CONTROL", string(defaults.RateControl)))),
			Bitrate:      int32(bitrate),
		},
	}

	if err := config.Settings.Validate(); err != nil {
		r.errs = append(r.errs, err)
	}

	return config, r.err()
}

func MetadataTable(lookup LookupFunc) string {
	r := &reader{lookup: lookup}
	return r.getString("DYNAMODB_METADATA_TABLE", db.DefaultMetadataTable)
}

func AWSMaxAttempts(lookup LookupFunc) (int, error) {
	r := &reader{lookup: lookup}
	attempts := r.getInt("AWS_MAX_ATTEMPTS", DefaultAWSMaxAttempts)
	if attempts < 1 {
		r.errs = append(r.errs, ErrorInvalidValue("AWS_MAX_ATTEMPTS", strconv.Itoa(attempts), errors.New("must be at least 1")))
		attempts = DefaultAWSMaxAttempts
	}
	return attempts, r.err()
}

// Optional returns the value of key, or "" when unset
func Optional(lookup LookupFunc, key string) string {
	r := &reader{lookup: lookup}
	return r.getString(key, "")
}
