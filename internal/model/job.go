package model

// SubmissionState tracks a JobDirectory through the dispatcher's state
// machine. Transitions happen strictly in walker order.
type SubmissionState int

const (
	StateUnvisited SubmissionState = iota
	StateEligible
	StateSubmitted
	StateFailed
	StateSkipped
)

// String returns the lower-case name used in logs and summaries.
func (s SubmissionState) String() string {
	switch s {
	case StateUnvisited:
		return "unvisited"
	case StateEligible:
		return "eligible"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	case StateSkipped:
		return "skipped"
	}
	return "unknown"
}

// SkipReason records why a leaf was skipped instead of submitted.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipNonMatching
	SkipMissingFiles
	SkipHasOutput
	SkipAlreadySubmitted
	SkipQuotaExceeded
)

// String returns the reason label used in logs and summaries.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipNonMatching:
		return "non-matching"
	case SkipMissingFiles:
		return "missing-files"
	case SkipHasOutput:
		return "already-has-output"
	case SkipAlreadySubmitted:
		return "already-submitted"
	case SkipQuotaExceeded:
		return "quota-exceeded"
	}
	return "unknown"
}

// JobDirectory is one leaf of the target tree, i.e. one job instance. It is
// built by the walker and carried through the validator and dispatcher.
type JobDirectory struct {
	// Path is the absolute (or root-relative, as walked) directory path.
	Path string

	// Matched reports whether the path passed the substring pattern test.
	Matched bool

	// MissingFiles lists the required-input problems found by the
	// validator, formatted with their diagnostics.
	MissingFiles []string

	State SubmissionState
	Skip  SkipReason

	// JobID is the opaque identifier returned by the external queue on a
	// successful submission. Empty for dry runs and failures.
	JobID string
}
