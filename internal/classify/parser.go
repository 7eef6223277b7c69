package classify

import (
	"bufio"
	"os"

	"github.com/gammazero/deque"
)

// scan is the structured result of one pass over an output artifact. The
// "last matching line wins" extraction is an observable compatibility
// contract with the ledgers, so the parser keeps only the final result
// line it sees.
type scan struct {
	present        bool
	hasMarker      bool
	lastResultLine string
	tail           []string
}

// scanFile reads path once, line by line, recording whether the
// convergence marker appears, the last line containing the result marker,
// and the last tailLen lines for failure diagnostics.
func scanFile(path, convergenceMarker, resultMarker string, tailLen int) (scan, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return scan{}, nil
		}
		return scan{}, err
	}
	defer f.Close()

	s := scan{present: true}
	var tail deque.Deque[string]

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if convergenceMarker != "" && contains(line, convergenceMarker) {
			s.hasMarker = true
		}
		if resultMarker != "" && contains(line, resultMarker) {
			s.lastResultLine = line
		}
		if tailLen > 0 {
			tail.PushBack(line)
			if tail.Len() > tailLen {
				tail.PopFront()
			}
		}
	}
	if err := sc.Err(); err != nil {
		return scan{}, err
	}

	for tail.Len() > 0 {
		s.tail = append(s.tail, tail.PopFront())
	}
	return s, nil
}
