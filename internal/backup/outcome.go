package backup

import "shuk/internal/files"

type State string

const (
	StatePending           State = "Pending"
	StateCopied            State = "Copied"
	StateTagged            State = "Tagged"
	StateCopyFailed        State = "CopyFailed"
	StateCopyTaggingFailed State = "CopyTaggingFailed"
	StateSkipped           State = "Skipped"
	StateIgnored           State = "Ignored"
	StateParseFailed       State = "ParseFailed"
)

// Outcome is the result of processing one notification record
type Outcome struct {
	MessageID   string
	Source      files.S3Object
	Destination files.S3Object
	Size        uint64
	State       State
	Err         error
}

// BackedUp reports whether a copy of the source exists at the destination
func (o Outcome) BackedUp() bool {
	switch o.State {
	case StateCopied, StateTagged, StateCopyTaggingFailed, StateSkipped:
		return true
	}
	return false
}

// Summary counts outcomes by state for one invocation
type Summary struct {
	Total         int
	Tagged        int
	Skipped       int
	Ignored       int
	CopyFailures  int
	TagFailures   int
	ParseFailures int
}

func Summarize(outcomes []Outcome) Summary {
	summary := Summary{Total: len(outcomes)}
	for _, outcome := range outcomes {
		switch outcome.State {
		case StateTagged:
			summary.Tagged++
		case StateSkipped:
			summary.Skipped++
		case StateIgnored:
			summary.Ignored++
		case StateCopyFailed:
			summary.CopyFailures++
		case StateCopyTaggingFailed:
			summary.TagFailures++
		case StateParseFailed:
			summary.ParseFailures++
		}
	}
	return summary
}

// Metrics returns the summary as CloudWatch metric values
func (s Summary) Metrics() map[string]float64 {
	return map[string]float64{
		"BackupsCompleted": float64(s.Tagged + s.TagFailures),
		"BackupsSkipped":   float64(s.Skipped),
		"CopyFailures":     float64(s.CopyFailures),
		"TagFailures":      float64(s.TagFailures),
		"ParseFailures":    float64(s.ParseFailures),
	}
}
