// Package dispatch implements the quota-bound submission state machine.
// Leaves are processed one at a time, strictly in walker order, so a fixed
// tree and configuration always submit the same subset of jobs.
package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/vaspherd/internal/ctxlog"
	"github.com/specialistvlad/vaspherd/internal/ledger"
	"github.com/specialistvlad/vaspherd/internal/model"
	"github.com/specialistvlad/vaspherd/internal/profile"
	"github.com/specialistvlad/vaspherd/internal/queue"
	"github.com/specialistvlad/vaspherd/internal/validate"
)

// Options configures one dispatch run.
type Options struct {
	// Pattern is recorded in the job ledger header; matching itself
	// happened when the JobDirectory list was built.
	Pattern string

	// Quota caps Submitted+Failed for this invocation. Zero or negative
	// means unlimited.
	Quota int

	// DryRun logs intended submissions and appends marked ledger records
	// without calling the external queue. The sequence counter advances
	// exactly as it would on a real run.
	DryRun bool

	// SkipSubmitted enables the new-submission idempotence rules: a leaf
	// already carrying the primary output, or already recorded in the job
	// ledger, is skipped. The resubmission path disables this because the
	// caller explicitly wants to override prior output.
	SkipSubmitted bool
}

// Summary is the end-of-run accounting printed after every dispatch.
type Summary struct {
	Processed int
	Submitted int
	Failed    int
	Skipped   int
	SkippedBy map[model.SkipReason]int
	Elapsed   time.Duration
}

// Dispatcher submits eligible leaves to the external queue and records a
// submission ledger.
type Dispatcher struct {
	prof  *profile.Profile
	led   *ledger.Ledger
	queue queue.Submitter
}

// New returns a Dispatcher over the given profile, ledger, and queue.
func New(prof *profile.Profile, led *ledger.Ledger, q queue.Submitter) *Dispatcher {
	return &Dispatcher{prof: prof, led: led, queue: q}
}

// Run drives the per-leaf state machine over dirs in order. A single
// submission failure marks that leaf Failed and the batch continues; the
// only errors returned are ledger write failures and context cancellation,
// both of which leave every already-committed ledger line on disk.
func (d *Dispatcher) Run(ctx context.Context, target string, dirs []model.JobDirectory, opts Options) (Summary, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	summary := Summary{SkippedBy: make(map[model.SkipReason]int)}

	var submittedBefore map[string]bool
	if opts.SkipSubmitted {
		var err error
		submittedBefore, err = d.led.SubmittedPaths()
		if err != nil {
			return summary, err
		}
	}

	if err := d.led.StampJobHeader(target, opts.Pattern, start); err != nil {
		return summary, err
	}

	seq := 0
	used := 0 // Submitted + Failed, bounded by the quota
	for i := range dirs {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}
		jd := &dirs[i]
		summary.Processed++

		if !jd.Matched {
			summary.skip(jd, model.SkipNonMatching)
			continue
		}

		if problems := validate.Inputs(jd.Path, d.prof.RequiredInputs); len(problems) > 0 {
			for _, p := range problems {
				jd.MissingFiles = append(jd.MissingFiles, p.String())
			}
			logger.Warn("skipping leaf with bad inputs",
				"dir", jd.Path, "problems", strings.Join(jd.MissingFiles, "; "))
			summary.skip(jd, model.SkipMissingFiles)
			continue
		}

		if opts.SkipSubmitted {
			if d.hasPrimaryOutput(jd.Path) {
				logger.Debug("skipping leaf with existing output", "dir", jd.Path)
				summary.skip(jd, model.SkipHasOutput)
				continue
			}
			if submittedBefore[jd.Path] {
				logger.Debug("skipping previously submitted leaf", "dir", jd.Path)
				summary.skip(jd, model.SkipAlreadySubmitted)
				continue
			}
		}

		jd.State = model.StateEligible

		if opts.Quota > 0 && used >= opts.Quota {
			// The scan continues for statistics, but no further external
			// submissions happen once the quota is spent.
			summary.skip(jd, model.SkipQuotaExceeded)
			continue
		}

		seq++
		rec := model.SubmissionRecord{Seq: seq, Path: jd.Path, DryRun: opts.DryRun, Time: time.Now()}
		// The record lands in the ledger before the external call so an
		// interrupted submission still leaves a trace.
		if err := d.led.AppendSubmission(rec); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		if opts.DryRun {
			logger.Info("dry-run: would submit", "seq", seq, "dir", jd.Path)
			jd.State = model.StateSubmitted
			used++
			summary.Submitted++
			continue
		}

		id, err := d.queue.Submit(ctx, jd.Path)
		if err != nil {
			logger.Error("submission failed", "dir", jd.Path, "error", err)
			jd.State = model.StateFailed
			used++
			summary.Failed++
			continue
		}
		logger.Info("submitted", "seq", seq, "dir", jd.Path, "job_id", id)
		jd.State = model.StateSubmitted
		jd.JobID = id
		used++
		summary.Submitted++
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

func (d *Dispatcher) hasPrimaryOutput(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, d.prof.Primary))
	return err == nil
}

func (s *Summary) skip(jd *model.JobDirectory, reason model.SkipReason) {
	jd.State = model.StateSkipped
	jd.Skip = reason
	s.Skipped++
	s.SkippedBy[reason]++
}
