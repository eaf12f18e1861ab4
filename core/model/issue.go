package model

import "fmt"

// IssueKind classifies why a job was left out of a run.
type IssueKind int

const (
	// IssueInvalidJob marks records rejected before modeling.
	IssueInvalidJob IssueKind = iota
	// IssueOutsideHorizon marks jobs whose earliest start is after the last workday.
	IssueOutsideHorizon
)

// String returns a human-readable representation of the issue kind.
func (k IssueKind) String() string {
	switch k {
	case IssueInvalidJob:
		return "invalid_job"
	case IssueOutsideHorizon:
		return "outside_horizon"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k IssueKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *IssueKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "invalid_job":
		*k = IssueInvalidJob
	case "outside_horizon":
		*k = IssueOutsideHorizon
	default:
		return fmt.Errorf("unknown issue kind %q", string(b))
	}
	return nil
}

// JobIssue reports a job that could not be scheduled while the rest of the run proceeds.
type JobIssue struct {
	JobID  string    `json:"job_id"`
	Kind   IssueKind `json:"kind"`
	Reason string    `json:"reason"`
	Err    error     `json:"-"`
}

func (i JobIssue) Error() string {
	return fmt.Sprintf("job %s: %s: %s", i.JobID, i.Kind, i.Reason)
}

// Unwrap exposes the sentinel error carried by the issue.
func (i JobIssue) Unwrap() error { return i.Err }
