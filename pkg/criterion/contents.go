package criterion

import (
	"bufio"
	"fmt"
	"os"
	"regexp"

	projerrors "thoreinstein.com/projroot/pkg/errors"
)

// maxLineSize bounds a single scanned line; longer lines end the scan as a non-match.
const maxLineSize = 1024 * 1024

// ContentOption configures the line test applied to a file whose name matched.
type ContentOption func(*contentMatch) error

// contentMatch tests the lines of a file, either against a regular
// expression (partial match) or a fixed string (whole line).
type contentMatch struct {
	expr     string
	re       *regexp.Regexp
	fixed    bool
	maxLines int // -1 is unlimited
	set      bool
}

// Matching selects files containing a line in which the RE2 regular
// expression expr finds a match. Use ^ and $ to anchor.
func Matching(expr string) ContentOption {
	return func(m *contentMatch) error {
		re, err := regexp.Compile(expr)
		if err != nil {
			return projerrors.NewPatternError("regex", expr, err)
		}
		m.expr = expr
		m.re = re
		m.fixed = false
		m.set = true
		return nil
	}
}

// Line selects files containing a line exactly equal to text.
func Line(text string) ContentOption {
	return func(m *contentMatch) error {
		m.expr = text
		m.re = nil
		m.fixed = true
		m.set = true
		return nil
	}
}

// InFirst restricts the line test to the first n lines. A negative n is
// unlimited; zero never matches.
func InFirst(n int) ContentOption {
	return func(m *contentMatch) error {
		m.maxLines = n
		return nil
	}
}

// newContentMatch applies opts. It returns nil when no content test was requested.
func newContentMatch(opts []ContentOption) (*contentMatch, error) {
	if len(opts) == 0 {
		return nil, nil
	}

	m := &contentMatch{maxLines: -1}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	if !m.set {
		return nil, projerrors.NewCompositionError("InFirst", "a line limit needs Matching or Line")
	}
	return m, nil
}

// matchFile reports whether the file at path satisfies the line test.
// A file that cannot be opened or read is a non-match.
func (m *contentMatch) matchFile(path string) bool {
	if m.maxLines == 0 {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for n := 0; scanner.Scan(); n++ {
		if m.maxLines >= 0 && n >= m.maxLines {
			return false
		}
		if m.matchLine(scanner.Text()) {
			return true
		}
	}
	return false
}

func (m *contentMatch) matchLine(line string) bool {
	if m.fixed {
		return line == m.expr
	}
	return m.re.MatchString(line)
}

func (m *contentMatch) describe() string {
	var description string
	if m.fixed {
		description = fmt.Sprintf("file contains a line with the contents `%s`", m.expr)
	} else {
		description = fmt.Sprintf("file contains a line matching the regular expression `%s`", m.expr)
	}

	if m.maxLines >= 0 {
		description += fmt.Sprintf(" in the first %d line/s", m.maxLines)
	}
	return description
}

// withContents appends the content description to a name description.
func withContents(description string, m *contentMatch) string {
	if m == nil {
		return description
	}
	return description + " and " + m.describe()
}
