// Package testutil provides shared fixtures for orchestrator tests, most
// importantly a declarative builder for temporary job trees.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteTree materializes a job tree under a fresh temp root. Keys are
// relative paths; a key ending in "/" creates an empty directory, any
// other key creates a file with the given content (parents included).
// It returns the root.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// ReadLedger returns the contents of one ledger file under dir, empty
// string if the file does not exist yet.
func ReadLedger(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

// JobInputs is a ready-made set of valid required input files for one
// leaf, matching the default profile.
func JobInputs() map[string]string {
	return map[string]string{
		"INCAR":   "ENCUT = 400\n",
		"KPOINTS": "Gamma\n",
		"POSCAR":  "structure\n",
		"POTCAR":  "potentials\n",
	}
}
