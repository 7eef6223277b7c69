// Package walker enumerates the leaf directories of a job tree. A leaf is a
// directory with no subdirectories at any depth; each leaf is exactly one
// job instance. Traversal is breadth-first over sorted directory listings,
// so re-runs over an unchanged tree enumerate identically.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gammazero/deque"
)

// Leaves returns every leaf directory under root, in deterministic
// traversal order. The walk is pure: it reads the tree and nothing else.
func Leaves(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	var leaves []string
	var frontier deque.Deque[string]
	frontier.PushBack(root)

	for frontier.Len() > 0 {
		dir := frontier.PopFront()
		entries, err := os.ReadDir(dir) // sorted by filename
		if err != nil {
			return nil, fmt.Errorf("walker: %w", err)
		}
		subdirs := subdirectories(dir, entries)
		if len(subdirs) == 0 {
			leaves = append(leaves, dir)
			continue
		}
		for _, sub := range subdirs {
			frontier.PushBack(sub)
		}
	}
	return leaves, nil
}

// Walk returns the leaves under root whose full path passes the substring
// pattern test, in the same order Leaves produces them.
func Walk(root, pattern string) ([]string, error) {
	leaves, err := Leaves(root)
	if err != nil {
		return nil, err
	}
	matched := leaves[:0:0]
	for _, leaf := range leaves {
		if Match(leaf, pattern) {
			matched = append(matched, leaf)
		}
	}
	return matched, nil
}

// Match is a plain substring test against the full path string. The empty
// pattern matches everything.
func Match(path, pattern string) bool {
	return pattern == "" || strings.Contains(path, pattern)
}

func subdirectories(dir string, entries []fs.DirEntry) []string {
	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, dir+string(os.PathSeparator)+e.Name())
		}
	}
	return subdirs
}
