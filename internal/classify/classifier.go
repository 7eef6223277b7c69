// Package classify inspects a job directory's output artifacts and assigns
// one of four terminal outcomes. The decision is a pure function of which
// artifacts exist and which carry their convergence marker, so repeated
// runs over unchanged outputs always agree.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/vaspherd/internal/model"
)

// DefaultTailLines is the diagnostic tail length used when the caller does
// not override it.
const DefaultTailLines = 10

// Config names the two output artifacts and their marker tokens.
type Config struct {
	// Primary is the detailed log checked for the convergence marker
	// (e.g. OUTCAR).
	Primary string
	// Secondary is the summary log carrying the numeric result and its
	// own convergence marker (e.g. OSZICAR).
	Secondary string
	// ConvergenceMarker is the token whose presence means the run
	// terminated normally.
	ConvergenceMarker string
	// ResultMarker tags the result line extracted on success (e.g. E0).
	ResultMarker string
	// TailLines is the number of trailing secondary-output lines captured
	// as the failure diagnostic.
	TailLines int
}

func (c Config) tailLines() int {
	if c.TailLines > 0 {
		return c.TailLines
	}
	return DefaultTailLines
}

// Classify reads the primary and secondary outputs of dir and returns the
// classification entry to be appended to the ledgers.
//
// The rule order is a contract and must not be rearranged:
//  1. primary absent                                  -> MissingOutput
//  2. primary present, no convergence marker          -> UnexpectedTermination
//  3. secondary present without its own marker        -> NonConverged
//  4. otherwise                                       -> Success
func (c Config) Classify(dir string) (model.ClassificationEntry, error) {
	entry := model.ClassificationEntry{Path: dir, Time: time.Now()}

	primary, err := scanFile(filepath.Join(dir, c.Primary), c.ConvergenceMarker, "", 0)
	if err != nil {
		return entry, fmt.Errorf("classify %s: %w", dir, err)
	}
	secondary, err := scanFile(filepath.Join(dir, c.Secondary), c.ConvergenceMarker, c.ResultMarker, c.tailLines())
	if err != nil {
		return entry, fmt.Errorf("classify %s: %w", dir, err)
	}

	switch {
	case !primary.present:
		entry.Outcome = model.OutcomeMissingOutput
		entry.Diagnostic = []string{fmt.Sprintf("%s: file missing", c.Primary)}
	case !primary.hasMarker:
		entry.Outcome = model.OutcomeUnexpectedTermination
		entry.Diagnostic = c.failureTail(secondary)
	case secondary.present && !secondary.hasMarker:
		entry.Outcome = model.OutcomeNonConverged
		entry.Diagnostic = c.failureTail(secondary)
	default:
		// Secondary absent while the primary converged is resolved as a
		// success with an empty result summary.
		entry.Outcome = model.OutcomeSuccess
		entry.ResultLine = strings.TrimSpace(secondary.lastResultLine)
	}
	return entry, nil
}

// failureTail captures the last lines of the secondary output, or a note
// when there is nothing to capture.
func (c Config) failureTail(secondary scan) []string {
	if !secondary.present {
		return []string{fmt.Sprintf("%s: missing secondary output", c.Secondary)}
	}
	return secondary.tail
}

func contains(line, token string) bool {
	return strings.Contains(line, token)
}
