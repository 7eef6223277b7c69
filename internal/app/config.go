package app

import "errors"

// Command is the closed set of orchestrator operations. The CLI parses
// the opcode string into one of these; Run matches exhaustively.
type Command int

const (
	// CommandSubmit walks the tree and submits eligible new jobs.
	CommandSubmit Command = iota
	// CommandResubmit re-drives the jobs whose latest classification
	// failed.
	CommandResubmit
	// CommandClassify inspects output artifacts and writes the status
	// ledgers.
	CommandClassify
	// CommandCancel forwards job ids to the external cancellation
	// command.
	CommandCancel
)

// String returns the CLI opcode for the command.
func (c Command) String() string {
	switch c {
	case CommandSubmit:
		return "submit"
	case CommandResubmit:
		return "resubmit"
	case CommandClassify:
		return "classify"
	case CommandCancel:
		return "cancel"
	}
	return "unknown"
}

// Config holds everything one invocation needs. It is built once from
// parsed arguments and threaded explicitly through each component call.
type Config struct {
	Command Command

	// Root is the target directory tree for submit and classify.
	Root string

	// JobIDs are the external queue ids passed to cancel.
	JobIDs []string

	// Pattern is the substring filter applied to full leaf paths. Empty
	// matches everything.
	Pattern string

	// Quota caps Submitted+Failed per invocation. Zero means unlimited.
	Quota int

	DryRun bool

	// WorkDir is where the ledger files live.
	WorkDir string

	// ProfilePath optionally points at an HCL site profile.
	ProfilePath string

	// TailLines is the failure diagnostic tail length.
	TailLines int

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config. Per-command argument requirements are
// checked here so every handler can assume a well-formed configuration.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandSubmit, CommandClassify:
		if cfg.Root == "" {
			return nil, errors.New("a target directory is required")
		}
	case CommandCancel:
		if len(cfg.JobIDs) == 0 {
			return nil, errors.New("cancel requires at least one job id")
		}
	case CommandResubmit:
		// Driven by the ledger; no root required.
	}
	if cfg.Quota < 0 {
		return nil, errors.New("quota must not be negative")
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	return &cfg, nil
}
