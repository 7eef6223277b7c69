package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/specialistvlad/vaspherd/internal/classify"
	"github.com/specialistvlad/vaspherd/internal/ctxlog"
	"github.com/specialistvlad/vaspherd/internal/dispatch"
	"github.com/specialistvlad/vaspherd/internal/ledger"
	"github.com/specialistvlad/vaspherd/internal/model"
	"github.com/specialistvlad/vaspherd/internal/queue"
	"github.com/specialistvlad/vaspherd/internal/resubmit"
	"github.com/specialistvlad/vaspherd/internal/walker"
)

// Run executes the parsed command. The command set is closed; each variant
// has its own typed handler.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	defer a.led.Close()

	switch cfg.Command {
	case CommandSubmit:
		return a.runSubmit(ctx, cfg)
	case CommandResubmit:
		return a.runResubmit(ctx, cfg)
	case CommandClassify:
		return a.runClassify(ctx, cfg)
	case CommandCancel:
		return a.runCancel(ctx, cfg)
	}
	return fmt.Errorf("unhandled command %s", cfg.Command)
}

// runSubmit walks the target tree and submits eligible new jobs.
func (a *App) runSubmit(ctx context.Context, cfg *Config) error {
	q := queue.NewCommand(a.prof)
	if !cfg.DryRun {
		if err := q.CheckSubmit(); err != nil {
			return err
		}
	}

	leaves, err := walker.Leaves(cfg.Root)
	if err != nil {
		return err
	}
	a.logger.Info("tree walked", "root", cfg.Root, "leaves", len(leaves))

	dirs := make([]model.JobDirectory, len(leaves))
	for i, leaf := range leaves {
		dirs[i] = model.JobDirectory{Path: leaf, Matched: walker.Match(leaf, cfg.Pattern)}
	}

	d := dispatch.New(a.prof, a.led, q)
	summary, err := d.Run(ctx, cfg.Root, dirs, dispatch.Options{
		Pattern:       cfg.Pattern,
		Quota:         cfg.Quota,
		DryRun:        cfg.DryRun,
		SkipSubmitted: true,
	})
	a.printDispatchSummary(summary)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d submissions failed", summary.Failed)
	}
	return nil
}

// runResubmit re-drives the directories whose latest classification
// failed, overriding the idempotence skips but not the quota.
func (a *App) runResubmit(ctx context.Context, cfg *Config) error {
	q := queue.NewCommand(a.prof)
	if !cfg.DryRun {
		if err := q.CheckSubmit(); err != nil {
			return err
		}
	}

	entries, err := a.led.Statuses()
	if err != nil {
		return err
	}
	failures := resubmit.SelectFailures(entries)
	if len(failures) == 0 {
		a.logger.Info("no failed classifications in ledger, nothing to resubmit")
		fmt.Fprintln(a.outW, "nothing to resubmit")
		return nil
	}
	a.logger.Info("resubmitting failed jobs", "count", len(failures))

	dirs := make([]model.JobDirectory, len(failures))
	for i, path := range failures {
		dirs[i] = model.JobDirectory{Path: path, Matched: walker.Match(path, cfg.Pattern)}
	}

	d := dispatch.New(a.prof, a.led, q)
	summary, err := d.Run(ctx, ledger.StatusFile, dirs, dispatch.Options{
		Pattern: cfg.Pattern,
		Quota:   cfg.Quota,
		DryRun:  cfg.DryRun,
		// The caller explicitly wants to override prior output.
		SkipSubmitted: false,
	})
	a.printDispatchSummary(summary)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d submissions failed", summary.Failed)
	}
	return nil
}

// runClassify inspects every matching leaf's output artifacts and writes
// the status ledgers. It returns an error when any leaf classified as
// failed, so the process exits non-zero.
func (a *App) runClassify(ctx context.Context, cfg *Config) error {
	start := time.Now()

	leaves, err := walker.Walk(cfg.Root, cfg.Pattern)
	if err != nil {
		return err
	}
	a.logger.Info("classifying", "root", cfg.Root, "leaves", len(leaves))

	if err := a.led.StampClassificationHeaders(cfg.Root, cfg.Pattern, start); err != nil {
		return err
	}

	cc := classify.Config{
		Primary:           a.prof.Primary,
		Secondary:         a.prof.Secondary,
		ConvergenceMarker: a.prof.ConvergenceMarker,
		ResultMarker:      a.prof.ResultMarker,
		TailLines:         cfg.TailLines,
	}

	succeeded, failed, unreadable := 0, 0, 0
	for _, leaf := range leaves {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry, err := cc.Classify(leaf)
		if err != nil {
			// A leaf whose artifacts cannot be read is logged and
			// skipped; the batch continues.
			a.logger.Error("classification read failed", "dir", leaf, "error", err)
			unreadable++
			continue
		}
		if err := a.led.AppendClassification(entry); err != nil {
			return err
		}
		if entry.Outcome.Failed() {
			a.logger.Warn("job failed", "dir", leaf, "outcome", entry.Outcome.String())
			failed++
		} else {
			a.logger.Info("job succeeded", "dir", leaf, "result", entry.ResultLine)
			succeeded++
		}
	}

	fmt.Fprintf(a.outW, "classified %d: %d succeeded, %d failed, %d unreadable (%s)\n",
		len(leaves), succeeded, failed, unreadable, time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d jobs classified as failed", failed)
	}
	return nil
}

// runCancel forwards the job ids to the external cancellation command.
func (a *App) runCancel(ctx context.Context, cfg *Config) error {
	q := queue.NewCommand(a.prof)
	if err := q.CheckCancel(); err != nil {
		return err
	}
	if err := q.Cancel(ctx, cfg.JobIDs); err != nil {
		return err
	}
	a.logger.Info("cancellation requested", "ids", strings.Join(cfg.JobIDs, ","))
	return nil
}

func (a *App) printDispatchSummary(s dispatch.Summary) {
	fmt.Fprintf(a.outW, "processed %d: %d submitted, %d failed, %d skipped (%s)\n",
		s.Processed, s.Submitted, s.Failed, s.Skipped, s.Elapsed.Round(time.Millisecond))
	if len(s.SkippedBy) == 0 {
		return
	}
	reasons := make([]model.SkipReason, 0, len(s.SkippedBy))
	for r := range s.SkippedBy {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = fmt.Sprintf("%s %d", r, s.SkippedBy[r])
	}
	fmt.Fprintf(a.outW, "skipped: %s\n", strings.Join(parts, ", "))
}
