// Package integration_tests drives the full pipeline through the CLI
// surface: parse, build the application, run a command, then assert on
// ledger contents and printed summaries.
package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/vaspherd/internal/app"
	"github.com/specialistvlad/vaspherd/internal/cli"
	"github.com/specialistvlad/vaspherd/internal/ledger"
	"github.com/specialistvlad/vaspherd/internal/testutil"
)

// stubProfile writes a site profile whose queue commands are shell stubs,
// so submissions run for real without a batch scheduler.
func stubProfile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.hcl")
	content := `
queue {
  submit      = "sh"
  submit_args = ["-c", "echo Submitted batch job 77"]
  cancel      = "true"
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI parses args and executes the resulting command, capturing
// everything written to the output stream.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &testutil.SafeBuffer{}
	cfg, shouldExit, err := cli.Parse(args, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	a := app.NewApp(out, cfg)
	runErr := a.Run(context.Background(), cfg)
	return out.String(), runErr
}

func TestSubmitNewJobs(t *testing.T) {
	t.Parallel()

	// x is eligible, y already has output, z is missing an input.
	tree := map[string]string{}
	for name, content := range testutil.JobInputs() {
		tree["x/"+name] = content
		tree["y/"+name] = content
		if name != "POTCAR" {
			tree["z/"+name] = content
		}
	}
	tree["y/OUTCAR"] = "reached required accuracy\n"
	root := testutil.WriteTree(t, tree)
	work := t.TempDir()

	output, err := runCLI(t,
		"-workdir", work,
		"-profile", stubProfile(t),
		"submit", root,
	)
	require.NoError(t, err)
	require.Contains(t, output, "processed 3: 1 submitted, 0 failed, 2 skipped")
	require.Contains(t, output, "missing-files 1")
	require.Contains(t, output, "already-has-output 1")

	// One header, one record, nothing else.
	job := testutil.ReadLedger(t, work, ledger.JobFile)
	lines := strings.Split(strings.TrimRight(job, "\n"), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "# "))
	require.Equal(t, "1 "+filepath.Join(root, "x"), lines[1])
}

func TestSubmitIsIdempotentAcrossInvocations(t *testing.T) {
	t.Parallel()

	tree := map[string]string{}
	for name, content := range testutil.JobInputs() {
		tree["a/"+name] = content
	}
	root := testutil.WriteTree(t, tree)
	work := t.TempDir()
	prof := stubProfile(t)

	first, err := runCLI(t, "-workdir", work, "-profile", prof, "submit", root)
	require.NoError(t, err)
	require.Contains(t, first, "1 submitted")

	second, err := runCLI(t, "-workdir", work, "-profile", prof, "submit", root)
	require.NoError(t, err)
	require.Contains(t, second, "0 submitted")
	require.Contains(t, second, "already-submitted 1")
}

func TestDryRunPreviewThenRealRun(t *testing.T) {
	t.Parallel()

	tree := map[string]string{}
	for name, content := range testutil.JobInputs() {
		tree["a/"+name] = content
	}
	root := testutil.WriteTree(t, tree)
	work := t.TempDir()
	prof := stubProfile(t)

	preview, err := runCLI(t, "-dry-run", "-workdir", work, "-profile", prof, "submit", root)
	require.NoError(t, err)
	require.Contains(t, preview, "1 submitted")

	job := testutil.ReadLedger(t, work, ledger.JobFile)
	require.Contains(t, job, "(dry-run)")

	real, err := runCLI(t, "-workdir", work, "-profile", prof, "submit", root)
	require.NoError(t, err)
	require.Contains(t, real, "1 submitted", "a preview must not block the real run")
}

func TestClassifySuccess(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"a/OUTCAR":  "... reached required accuracy ...\n",
		"a/OSZICAR": "1 F= -.12 E0= -.12345\nreached required accuracy\n",
	})
	work := t.TempDir()

	output, err := runCLI(t, "-workdir", work, "classify", root)
	require.NoError(t, err)
	require.Contains(t, output, "classified 1: 1 succeeded, 0 failed, 0 unreadable")

	leaf := filepath.Join(root, "a")
	datas := testutil.ReadLedger(t, work, ledger.StatusFile)
	require.Contains(t, datas, "1 "+leaf)

	good := testutil.ReadLedger(t, work, ledger.SuccessFile)
	require.Contains(t, good, leaf+" 1 F= -.12 E0= -.12345")
}

func TestClassifyMissingOutput(t *testing.T) {
	t.Parallel()

	tree := map[string]string{}
	for name, content := range testutil.JobInputs() {
		tree["a/"+name] = content
	}
	root := testutil.WriteTree(t, tree)
	work := t.TempDir()

	output, err := runCLI(t, "-workdir", work, "classify", root)
	require.Error(t, err, "failed classifications exit non-zero")
	require.Contains(t, output, "classified 1: 0 succeeded, 1 failed, 0 unreadable")

	leaf := filepath.Join(root, "a")
	datas := testutil.ReadLedger(t, work, ledger.StatusFile)
	require.Contains(t, datas, "-1 "+leaf)

	bad := testutil.ReadLedger(t, work, ledger.FailureFile)
	require.Contains(t, bad, "missing output: "+leaf)
	require.Contains(t, bad, "OUTCAR: file missing")
}

func TestClassifyNonConverged(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, map[string]string{
		"a/OUTCAR":  "reached required accuracy\n",
		"a/OSZICAR": "step 1\nstep 2\nstill oscillating\n",
	})
	work := t.TempDir()

	_, err := runCLI(t, "-workdir", work, "classify", root)
	require.Error(t, err)

	leaf := filepath.Join(root, "a")
	datas := testutil.ReadLedger(t, work, ledger.StatusFile)
	require.Contains(t, datas, "-2 "+leaf)

	bad := testutil.ReadLedger(t, work, ledger.FailureFile)
	require.Contains(t, bad, "non-converged: "+leaf)
	require.Contains(t, bad, "still oscillating")
}

func TestClassifyThenResubmitFailures(t *testing.T) {
	t.Parallel()

	// The job produced output but terminated without converging, so a
	// plain submit would skip it; resubmit must drive it again.
	tree := map[string]string{
		"a/OUTCAR":  "crashed\n",
		"a/OSZICAR": "step 1\nstep 2\n",
	}
	for name, content := range testutil.JobInputs() {
		tree["a/"+name] = content
	}
	root := testutil.WriteTree(t, tree)
	work := t.TempDir()
	prof := stubProfile(t)

	_, err := runCLI(t, "-workdir", work, "classify", root)
	require.Error(t, err)

	output, err := runCLI(t, "-workdir", work, "-profile", prof, "resubmit")
	require.NoError(t, err)
	require.Contains(t, output, "1 submitted")

	job := testutil.ReadLedger(t, work, ledger.JobFile)
	require.Contains(t, job, filepath.Join(root, "a"))
}

func TestResubmitWithCleanLedger(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	output, err := runCLI(t, "-workdir", work, "-profile", stubProfile(t), "resubmit")
	require.NoError(t, err)
	require.Contains(t, output, "nothing to resubmit")
}

func TestCancelForwardsToQueueCommand(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "-workdir", t.TempDir(), "-profile", stubProfile(t), "cancel", "77", "78")
	require.NoError(t, err)
}
