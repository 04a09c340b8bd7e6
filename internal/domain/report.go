package domain

import "time"

type Stage string

const (
	StageClassify Stage = "classify"
	StageComplete Stage = "complete"
)

// PathIssue is a per-path failure that was recovered: the path was treated as
// absent and processing went on.
type PathIssue struct {
	Stage Stage
	Path  string
	Err   error
}

type StreamReport struct {
	Root       string
	BaseDir    string
	Stream     string
	Path       string
	Leaves     int
	OutOfOrder []string
	Missing    []string
	Issues     []PathIssue
	Skipped    bool
	Duration   time.Duration
}

type StreamFailure struct {
	Root    string
	BaseDir string
	Stream  string
	Err     error
}

type AuditResult struct {
	RunID      string
	OutOfOrder []string
	Missing    []string
	Streams    []StreamReport
	Failures   []StreamFailure
	Duration   time.Duration
}

func (result AuditResult) Issues() []PathIssue {
	var issues []PathIssue
	for _, stream := range result.Streams {
		issues = append(issues, stream.Issues...)
	}
	return issues
}
