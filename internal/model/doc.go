// Package model defines the in-memory record types that flow through the
// orchestration pipeline: the per-invocation JobDirectory produced by the
// walker, the SubmissionRecord written to the job ledger, and the
// ClassificationEntry persisted to the status ledgers.
//
// JobDirectory and SubmissionRecord are ephemeral and rebuilt on every
// invocation by re-walking the tree. ClassificationEntry is the only record
// that survives across runs, exported through the append-only ledger files.
// Keeping these as explicit structs (instead of re-deriving state by
// re-reading the text logs) is what lets the dispatcher and classifier stay
// pure over a single pass of the tree.
package model
