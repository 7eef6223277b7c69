// Package ledger owns the append-only, line-oriented status files that
// form the system's durable record across invocations: datas (aggregate
// status codes), good_datas (success results), bad_datas (failure
// diagnostics), and job (submission sequence records).
//
// Ledger files are never rewritten. Each invocation stamps a header line
// and appends below it, so the files accumulate one section per run and
// the latest section always wins when reading.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/vaspherd/internal/model"
)

// Fixed file names inside the working directory.
const (
	StatusFile  = "datas"
	SuccessFile = "good_datas"
	FailureFile = "bad_datas"
	JobFile     = "job"
)

const separator = "------------------------------------------------------------"

// Ledger appends records to the four files under a working directory.
// It is not safe for concurrent use; the design assumes one invocation
// at a time per working directory.
type Ledger struct {
	dir   string
	files map[string]*os.File
}

// Open prepares the working directory. Failure to create or write the
// directory is fatal for the caller: no processing may start without a
// place to record it.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".ledger-probe-*")
	if err != nil {
		return nil, fmt.Errorf("ledger: working directory not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return &Ledger{dir: dir, files: make(map[string]*os.File)}, nil
}

// Dir returns the working directory the ledgers live in.
func (l *Ledger) Dir() string {
	return l.dir
}

// Close flushes and closes every ledger file opened so far.
func (l *Ledger) Close() error {
	var firstErr error
	for name, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(l.files, name)
	}
	return firstErr
}

// StampJobHeader opens a new section in the job ledger for this
// invocation.
func (l *Ledger) StampJobHeader(target, pattern string, now time.Time) error {
	return l.appendLine(JobFile, fmt.Sprintf("# %s target=%s pattern=%q", now.Format(time.RFC3339), target, pattern))
}

// AppendSubmission writes one submission record. Records are written
// before the external submit call, dry runs included, so the sequence in
// the file is the sequence of intent.
func (l *Ledger) AppendSubmission(rec model.SubmissionRecord) error {
	line := fmt.Sprintf("%d %s", rec.Seq, rec.Path)
	if rec.DryRun {
		line += " (dry-run)"
	}
	return l.appendLine(JobFile, line)
}

// StampClassificationHeaders opens a new section in all three
// classification ledgers. Called once per classification run, not per
// entry.
func (l *Ledger) StampClassificationHeaders(target, pattern string, now time.Time) error {
	header := fmt.Sprintf("# %s target=%s pattern=%q", now.Format(time.RFC3339), target, pattern)
	for _, name := range []string{StatusFile, SuccessFile, FailureFile} {
		if err := l.appendLine(name, header); err != nil {
			return err
		}
	}
	return nil
}

// AppendClassification writes one entry to the aggregate ledger and, per
// outcome, to the success or failure detail ledger.
func (l *Ledger) AppendClassification(e model.ClassificationEntry) error {
	if err := l.appendLine(StatusFile, fmt.Sprintf("%d %s", e.Outcome.Code(), e.Path)); err != nil {
		return err
	}
	if !e.Outcome.Failed() {
		line := e.Path
		if e.ResultLine != "" {
			line += " " + e.ResultLine
		}
		return l.appendLine(SuccessFile, line)
	}

	lines := []string{
		separator,
		fmt.Sprintf("%s: %s", e.Outcome, e.Path),
	}
	lines = append(lines, e.Diagnostic...)
	return l.appendLine(FailureFile, strings.Join(lines, "\n"))
}

// appendLine opens name lazily in append mode and writes one record plus
// a newline. O_APPEND keeps each record on disk as soon as it is written,
// which is what lets an interrupt exit with everything committed so far.
func (l *Ledger) appendLine(name, line string) error {
	f, ok := l.files[name]
	if !ok {
		var err error
		f, err = os.OpenFile(filepath.Join(l.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		l.files[name] = f
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("ledger: append %s: %w", name, err)
	}
	return nil
}
