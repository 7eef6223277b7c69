package ledger

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// StatusEntry is one parsed line of the aggregate status ledger.
type StatusEntry struct {
	Code int
	Path string
}

// ReadStatuses parses aggregate status lines (`<code> <path>`). Header
// stamps and anything else that does not parse as a status line are
// skipped, so readers tolerate the per-invocation section markers.
func ReadStatuses(r io.Reader) ([]StatusEntry, error) {
	var entries []StatusEntry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		code, path, ok := splitStatusLine(line)
		if !ok {
			continue
		}
		entries = append(entries, StatusEntry{Code: code, Path: path})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Statuses reads the datas ledger from the working directory. A missing
// file yields no entries: nothing has been classified yet.
func (l *Ledger) Statuses() ([]StatusEntry, error) {
	f, err := os.Open(filepath.Join(l.dir, StatusFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return ReadStatuses(f)
}

// SubmittedPaths reads the job ledger and returns the set of paths with a
// real (non-dry-run) submission record in any prior section. The
// new-submission path uses this to stay idempotent across runs.
func (l *Ledger) SubmittedPaths() (map[string]bool, error) {
	f, err := os.Open(filepath.Join(l.dir, JobFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	defer f.Close()

	paths := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue // header or noise
		}
		if fields[len(fields)-1] == "(dry-run)" {
			continue
		}
		paths[fields[1]] = true
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

func splitStatusLine(line string) (code int, path string, ok bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return 0, "", false
	}
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return 0, "", false
	}
	code, err := strconv.Atoi(line[:i])
	if err != nil {
		return 0, "", false
	}
	path = strings.TrimSpace(line[i:])
	if path == "" {
		return 0, "", false
	}
	return code, path, true
}
