package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/vaspherd/internal/app"
	"github.com/specialistvlad/vaspherd/internal/cli"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "submit with all flags",
			args: []string{
				"-pattern", "fcc",
				"-quota", "5",
				"-dry-run",
				"-workdir", "/work",
				"-profile", "/etc/site.hcl",
				"-tail", "20",
				"-log-level=debug",
				"-log-format=json",
				"submit", "/jobs",
			},
			expectedConfig: &app.Config{
				Command:     app.CommandSubmit,
				Root:        "/jobs",
				Pattern:     "fcc",
				Quota:       5,
				DryRun:      true,
				WorkDir:     "/work",
				ProfilePath: "/etc/site.hcl",
				TailLines:   20,
				LogLevel:    "debug",
				LogFormat:   "json",
			},
		},
		{
			name: "submit with defaults",
			args: []string{"submit", "/jobs"},
			expectedConfig: &app.Config{
				Command:   app.CommandSubmit,
				Root:      "/jobs",
				Quota:     50,
				WorkDir:   ".",
				TailLines: 10,
				LogLevel:  "info",
				LogFormat: "text",
			},
		},
		{
			name: "resubmit needs no root",
			args: []string{"resubmit"},
			expectedConfig: &app.Config{
				Command:   app.CommandResubmit,
				Quota:     50,
				WorkDir:   ".",
				TailLines: 10,
				LogLevel:  "info",
				LogFormat: "text",
			},
		},
		{
			name: "classify",
			args: []string{"-pattern=bcc", "classify", "/jobs"},
			expectedConfig: &app.Config{
				Command:   app.CommandClassify,
				Root:      "/jobs",
				Pattern:   "bcc",
				Quota:     50,
				WorkDir:   ".",
				TailLines: 10,
				LogLevel:  "info",
				LogFormat: "text",
			},
		},
		{
			name: "cancel collects job ids",
			args: []string{"cancel", "100", "101"},
			expectedConfig: &app.Config{
				Command:   app.CommandCancel,
				JobIDs:    []string{"100", "101"},
				Quota:     50,
				WorkDir:   ".",
				TailLines: 10,
				LogLevel:  "info",
				LogFormat: "text",
			},
		},
		{
			name: "verbose forces debug level",
			args: []string{"-verbose", "submit", "/jobs"},
			expectedConfig: &app.Config{
				Command:   app.CommandSubmit,
				Root:      "/jobs",
				Quota:     50,
				WorkDir:   ".",
				TailLines: 10,
				LogLevel:  "debug",
				LogFormat: "text",
			},
		},
		{
			name:       "help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "expected help text to be printed")
			},
		},
		{
			name:       "no command prints usage and exits cleanly",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "expected help text to be printed")
			},
		},
		{
			name:      "unknown command is an error",
			args:      []string{"launch", "/jobs"},
			expectErr: true,
		},
		{
			name:      "submit without root is an error",
			args:      []string{"submit"},
			expectErr: true,
		},
		{
			name:      "cancel without ids is an error",
			args:      []string{"cancel"},
			expectErr: true,
		},
		{
			name:      "negative quota is an error",
			args:      []string{"-quota=-1", "submit", "/jobs"},
			expectErr: true,
		},
		{
			name:      "invalid log level is an error",
			args:      []string{"-log-level=loud", "submit", "/jobs"},
			expectErr: true,
		},
		{
			name:      "invalid log format is an error",
			args:      []string{"-log-format=yaml", "submit", "/jobs"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			config, shouldExit, err := cli.Parse(tc.args, out)

			if tc.expectErr {
				require.Error(t, err)
				exitErr, isExitError := err.(*cli.ExitError)
				require.True(t, isExitError, "expected error to be of type ExitError")
				require.Equal(t, 1, exitErr.Code, "configuration errors exit with code 1")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, config); diff != "" {
					t.Errorf("Config mismatch (-want +got):\n%s", diff)
				}
			}
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
