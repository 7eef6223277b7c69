package resubmit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/vaspherd/internal/ledger"
	"github.com/specialistvlad/vaspherd/internal/resubmit"
)

func TestSelectFailures(t *testing.T) {
	t.Parallel()

	entries := []ledger.StatusEntry{
		{Code: 1, Path: "/jobs/a"},
		{Code: -1, Path: "/jobs/b"},
		{Code: -2, Path: "/jobs/c"},
	}
	require.Equal(t, []string{"/jobs/b", "/jobs/c"}, resubmit.SelectFailures(entries))
}

func TestSelectFailuresLatestEntryWins(t *testing.T) {
	t.Parallel()

	// b failed in an earlier section and succeeded later; a did the
	// opposite.
	entries := []ledger.StatusEntry{
		{Code: 1, Path: "/jobs/a"},
		{Code: -1, Path: "/jobs/b"},
		{Code: 1, Path: "/jobs/b"},
		{Code: -1, Path: "/jobs/a"},
	}
	require.Equal(t, []string{"/jobs/a"}, resubmit.SelectFailures(entries))
}

func TestSelectFailuresKeepsFirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	entries := []ledger.StatusEntry{
		{Code: -1, Path: "/jobs/z"},
		{Code: -2, Path: "/jobs/a"},
		{Code: -1, Path: "/jobs/m"},
		{Code: -1, Path: "/jobs/z"},
	}
	require.Equal(t, []string{"/jobs/z", "/jobs/a", "/jobs/m"}, resubmit.SelectFailures(entries))
}

func TestSelectFailuresEmptyLedger(t *testing.T) {
	t.Parallel()

	require.Empty(t, resubmit.SelectFailures(nil))
}
