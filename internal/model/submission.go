package model

import "time"

// SubmissionRecord is one line of the job ledger. The record is appended
// before the external submit call so that an interrupted or failed
// submission still leaves a trace, and so a dry run previews exactly the
// sequence a real run would produce.
type SubmissionRecord struct {
	// Seq is the 1-based submission sequence number within this ledger.
	Seq int

	Path string

	// JobID is the external queue identifier, when known. A record is
	// written before submission, so the id only appears in logs, not in
	// the ledger line.
	JobID string

	// DryRun marks records written without an external call. They are
	// ignored when deciding whether a leaf was already submitted.
	DryRun bool

	Time time.Time
}
