package criterion

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	projerrors "thoreinstein.com/projroot/pkg/errors"
)

// errStopWalk ends a glob walk at the first accepted match.
var errStopWalk = projerrors.New("glob match found")

type entryGlobCriterion struct {
	pattern string
}

// HasEntryGlob is met if any entry below dir matches the glob pattern.
// Patterns are slash-separated and relative to dir; ** crosses directories.
func HasEntryGlob(pattern string) (Criterion, error) {
	if err := validateGlob(pattern); err != nil {
		return nil, err
	}
	return &entryGlobCriterion{pattern: pattern}, nil
}

func (c *entryGlobCriterion) IsMet(dir string) bool {
	matched := false
	_ = doublestar.GlobWalk(os.DirFS(dir), c.pattern, func(string, fs.DirEntry) error {
		matched = true
		return errStopWalk
	})
	return matched
}

func (c *entryGlobCriterion) Describe() string {
	return fmt.Sprintf("has an entry matching `%s`", c.pattern)
}

type fileGlobCriterion struct {
	pattern string
	content *contentMatch
}

// HasFileGlob is met if a regular file below dir matches the glob pattern
// and passes the optional line test. Each file's contents are only read
// after its name matched.
func HasFileGlob(pattern string, opts ...ContentOption) (Criterion, error) {
	if err := validateGlob(pattern); err != nil {
		return nil, err
	}
	m, err := newContentMatch(opts)
	if err != nil {
		return nil, err
	}
	return &fileGlobCriterion{pattern: pattern, content: m}, nil
}

func (c *fileGlobCriterion) IsMet(dir string) bool {
	fsys := os.DirFS(dir)
	matched := false
	_ = doublestar.GlobWalk(fsys, c.pattern, func(path string, _ fs.DirEntry) error {
		info, err := fs.Stat(fsys, path)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		if c.content != nil && !c.content.matchFile(filepath.Join(dir, filepath.FromSlash(path))) {
			return nil
		}
		matched = true
		return errStopWalk
	})
	return matched
}

func (c *fileGlobCriterion) Describe() string {
	return withContents(fmt.Sprintf("has a file matching `%s`", c.pattern), c.content)
}

type filePatternCriterion struct {
	expr    string
	re      *regexp.Regexp
	content *contentMatch
}

// HasFilePattern is met if a regular file directly inside dir has a name in
// which the regular expression expr finds a match, and the file passes the
// optional line test.
func HasFilePattern(expr string, opts ...ContentOption) (Criterion, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, projerrors.NewPatternError("regex", expr, err)
	}
	m, err := newContentMatch(opts)
	if err != nil {
		return nil, err
	}
	return &filePatternCriterion{expr: expr, re: re, content: m}, nil
}

func (c *filePatternCriterion) IsMet(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	for _, e := range entries {
		if !c.re.MatchString(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !isRegularFile(path) {
			continue
		}
		if c.content == nil || c.content.matchFile(path) {
			return true
		}
	}
	return false
}

func (c *filePatternCriterion) Describe() string {
	return withContents(fmt.Sprintf("has a file matching the regular expression `%s`", c.expr), c.content)
}

func validateGlob(pattern string) error {
	if pattern == "" {
		return projerrors.NewPatternError("glob", pattern, projerrors.New("empty pattern"))
	}
	if strings.HasPrefix(pattern, "/") || filepath.IsAbs(pattern) {
		return projerrors.NewPatternError("glob", pattern, projerrors.New("pattern must be relative to the tested directory"))
	}
	if !doublestar.ValidatePattern(pattern) {
		return projerrors.NewPatternError("glob", pattern, doublestar.ErrBadPattern)
	}
	return nil
}
