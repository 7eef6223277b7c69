// Package resubmit selects failure-classified directories from the
// aggregate status ledger so the dispatcher can drive them again.
package resubmit

import (
	"github.com/specialistvlad/vaspherd/internal/ledger"
)

// SelectFailures returns the directories whose latest status entry has a
// negative code. Later entries for the same path supersede earlier ones,
// so a directory that failed once and succeeded on a later run is not
// selected. Paths keep their first-appearance order, which is the
// classifier's (walker) order.
func SelectFailures(entries []ledger.StatusEntry) []string {
	latest := make(map[string]int, len(entries))
	var order []string
	for _, e := range entries {
		if _, seen := latest[e.Path]; !seen {
			order = append(order, e.Path)
		}
		latest[e.Path] = e.Code
	}

	var failed []string
	for _, path := range order {
		if latest[path] < 0 {
			failed = append(failed, path)
		}
	}
	return failed
}
