// Package queue drives the external job scheduler through its command-line
// programs. The orchestrator treats the queue as an opaque collaborator: it
// hands over a job directory and gets back an identifier, or an error.
package queue

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/specialistvlad/vaspherd/internal/ctxlog"
	"github.com/specialistvlad/vaspherd/internal/profile"
)

// Submitter submits one job directory and returns the queue's opaque job
// identifier.
type Submitter interface {
	Submit(ctx context.Context, dir string) (string, error)
}

// Canceller forwards job ids to the queue's cancellation command.
type Canceller interface {
	Cancel(ctx context.Context, ids []string) error
}

// Command is the real implementation, shelling out to the commands named
// in the site profile (sbatch/scancel on a stock Slurm site).
type Command struct {
	prof *profile.Profile
}

// NewCommand returns a Command bound to the given profile.
func NewCommand(prof *profile.Profile) *Command {
	return &Command{prof: prof}
}

// CheckSubmit verifies the submit command exists in the environment.
// Absence is a fatal configuration error, checked before any processing.
func (c *Command) CheckSubmit() error {
	if _, err := exec.LookPath(c.prof.SubmitCommand); err != nil {
		return fmt.Errorf("queue: submit command %q not found: %w", c.prof.SubmitCommand, err)
	}
	return nil
}

// CheckCancel verifies the cancel command exists in the environment.
func (c *Command) CheckCancel() error {
	if _, err := exec.LookPath(c.prof.CancelCommand); err != nil {
		return fmt.Errorf("queue: cancel command %q not found: %w", c.prof.CancelCommand, err)
	}
	return nil
}

// Submit runs the submit command inside dir and extracts the job id from
// its output. The call blocks until the command returns; there is no
// asynchronous submission.
func (c *Command) Submit(ctx context.Context, dir string) (string, error) {
	args, err := c.prof.SubmitArgs(dir)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, c.prof.SubmitCommand, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("queue: %s %s: %w: %s",
			c.prof.SubmitCommand, strings.Join(args, " "), err, firstLine(out))
	}

	id := jobID(out)
	ctxlog.FromContext(ctx).Debug("queue accepted job", "dir", dir, "id", id)
	return id, nil
}

// Cancel runs the cancel command once with all ids appended, matching how
// scancel accepts an id list or range.
func (c *Command) Cancel(ctx context.Context, ids []string) error {
	cmd := exec.CommandContext(ctx, c.prof.CancelCommand, ids...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("queue: %s: %w: %s", c.prof.CancelCommand, err, firstLine(out))
	}
	return nil
}

// jobID extracts the last whitespace-separated token of the first
// non-empty output line. sbatch prints "Submitted batch job <id>"; other
// queues print similar trailers. The id stays opaque either way.
func jobID(out []byte) string {
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[len(fields)-1]
		}
	}
	return ""
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
