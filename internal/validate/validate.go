// Package validate checks that a job directory carries every required
// input file before it is handed to the dispatcher.
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Reason distinguishes an absent input from one that exists but cannot be
// read. The two are reported with distinct diagnostics but both skip the
// leaf the same way.
type Reason int

const (
	Missing Reason = iota
	Unreadable
)

// Problem is one required input that failed the precondition check.
type Problem struct {
	Name   string
	Reason Reason
}

// String formats the diagnostic written to logs.
func (p Problem) String() string {
	if p.Reason == Unreadable {
		return fmt.Sprintf("%s: present but unreadable", p.Name)
	}
	return fmt.Sprintf("%s: file missing", p.Name)
}

// Inputs checks dir for each required filename. An empty result means the
// precondition is satisfied. The check never mutates the directory.
func Inputs(dir string, required []string) []Problem {
	var problems []Problem
	for _, name := range required {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			problems = append(problems, Problem{Name: name, Reason: Missing})
			continue
		}
		if !readable(path) {
			problems = append(problems, Problem{Name: name, Reason: Unreadable})
		}
	}
	return problems
}

// readable proves the file can actually be opened and read, not just
// stat'ed. A directory squatting on a required filename counts as
// unreadable.
func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, 1)
	if _, err := f.Read(buf); err != nil && err != io.EOF {
		return false
	}
	return true
}
