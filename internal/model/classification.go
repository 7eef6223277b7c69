package model

import "time"

// Outcome is the terminal classification of a job directory's output
// artifacts. Exactly one outcome applies per directory per run.
type Outcome int

const (
	// OutcomeSuccess: primary output converged; secondary, when present,
	// converged too.
	OutcomeSuccess Outcome = iota
	// OutcomeMissingOutput: the primary output file does not exist.
	OutcomeMissingOutput
	// OutcomeUnexpectedTermination: the primary output exists but never
	// reached the convergence marker.
	OutcomeUnexpectedTermination
	// OutcomeNonConverged: the primary output converged but the secondary
	// output is present without its own convergence marker.
	OutcomeNonConverged
)

// Code returns the ledger status code. MissingOutput and
// UnexpectedTermination share −1; this pairing is part of the ledger's
// compatibility contract.
func (o Outcome) Code() int {
	switch o {
	case OutcomeSuccess:
		return 1
	case OutcomeNonConverged:
		return -2
	default:
		return -1
	}
}

// Failed reports whether the outcome selects the directory for
// resubmission.
func (o Outcome) Failed() bool {
	return o != OutcomeSuccess
}

// String returns the reason label written to the failure ledger.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeMissingOutput:
		return "missing output"
	case OutcomeUnexpectedTermination:
		return "unexpected termination"
	case OutcomeNonConverged:
		return "non-converged"
	}
	return "unknown"
}

// ClassificationEntry is the durable result of classifying one directory.
// Entries are append-only: a new classification run stamps a new ledger
// section rather than rewriting old entries.
type ClassificationEntry struct {
	Path    string
	Outcome Outcome

	// ResultLine is the last secondary-output line containing the result
	// marker. Only set on success; empty when the secondary output is
	// absent (a policy decision, not an error).
	ResultLine string

	// Diagnostic carries the failure detail: the tail of the secondary
	// output, or a note explaining why no tail is available.
	Diagnostic []string

	Time time.Time
}
