package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/vaspherd/internal/app"
	"github.com/specialistvlad/vaspherd/internal/classify"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("vaspherd", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
vaspherd - batch submission and result tracking for simulation job trees.

Usage:
  vaspherd [options] <command> [ROOT | JOB_ID...]

Commands:
  submit    ROOT       Submit eligible new jobs under ROOT.
  resubmit             Resubmit jobs whose latest classification failed.
  classify  ROOT       Classify output artifacts and update the ledgers.
  cancel    JOB_ID...  Cancel queued jobs by id.

Options:
`)
		flagSet.PrintDefaults()
	}

	patternFlag := flagSet.String("pattern", "", "Substring filter applied to full leaf paths. Empty matches all.")
	quotaFlag := flagSet.Int("quota", 50, "Maximum submissions (submitted + failed) per invocation. 0 is unlimited.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Log intended submissions without calling the queue.")
	verboseFlag := flagSet.Bool("verbose", false, "Shorthand for -log-level=debug.")
	workDirFlag := flagSet.String("workdir", ".", "Directory holding the ledger files.")
	profileFlag := flagSet.String("profile", "", "Path to an HCL site profile.")
	tailFlag := flagSet.Int("tail", classify.DefaultTailLines, "Diagnostic tail length captured from the secondary output.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 1, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 1, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 1, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *verboseFlag {
		logLevel = "debug"
	}

	command, err := parseCommand(flagSet.Arg(0))
	if err != nil {
		return nil, false, &ExitError{Code: 1, Message: err.Error()}
	}

	cfg := app.Config{
		Command:     command,
		Pattern:     *patternFlag,
		Quota:       *quotaFlag,
		DryRun:      *dryRunFlag,
		WorkDir:     *workDirFlag,
		ProfilePath: *profileFlag,
		TailLines:   *tailFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	}
	rest := flagSet.Args()[1:]
	switch command {
	case app.CommandCancel:
		cfg.JobIDs = rest
	default:
		if len(rest) > 0 {
			cfg.Root = rest[0]
		}
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 1, Message: err.Error()}
	}
	return config, false, nil
}

// parseCommand closes the opcode string into the typed command set.
func parseCommand(opcode string) (app.Command, error) {
	switch opcode {
	case "submit":
		return app.CommandSubmit, nil
	case "resubmit":
		return app.CommandResubmit, nil
	case "classify":
		return app.CommandClassify, nil
	case "cancel":
		return app.CommandCancel, nil
	}
	return 0, fmt.Errorf("unknown command %q: expected submit, resubmit, classify, or cancel", opcode)
}
