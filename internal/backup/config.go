package backup

const (
	DefaultDestinationBucket = "aws-darko-videos-backups"
	DefaultDestinationPrefix = "backed_up/"
	DefaultMaxConcurrency    = 4
	DefaultTagKey            = "backed_up"
	DefaultTagValue          = "TRUE"
)

// Config controls where backups go and how a batch is processed
type Config struct {
	DestinationBucket string
	DestinationPrefix string
	TagKey            string
	TagValue          string

	// MaxConcurrency bounds the number of records backed up at once.
	MaxConcurrency int

	// SkipExisting enables the pre-check against the destination object and
	// the source tag marker before copying.
	SkipExisting bool

	// StopOnParseError restores sequential processing where the first
	// unparseable record aborts the rest of the batch.
	StopOnParseError bool

	// RequireObjectCreated ignores events whose detail-type is not "Object Created".
	RequireObjectCreated bool
}

func DefaultConfig() Config {
	return Config{
		DestinationBucket: DefaultDestinationBucket,
		DestinationPrefix: DefaultDestinationPrefix,
		TagKey:            DefaultTagKey,
		TagValue:          DefaultTagValue,
		MaxConcurrency:    DefaultMaxConcurrency,
		SkipExisting:      true,
	}
}
