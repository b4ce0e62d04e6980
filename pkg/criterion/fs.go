package criterion

import (
	"fmt"
	"os"
	"path/filepath"
)

type fileCriterion struct {
	name    string
	content *contentMatch
}

// HasFile is met if dir/name exists and is a regular file. The name may
// contain subdirectories, e.g. ".vscode/settings.json".
func HasFile(name string) Criterion {
	return &fileCriterion{name: name}
}

// HasFileContents is met if dir/name is a regular file that also passes the
// line test configured by opts. The contents are only read after the name
// matched. Without options it behaves like HasFile.
func HasFileContents(name string, opts ...ContentOption) (Criterion, error) {
	m, err := newContentMatch(opts)
	if err != nil {
		return nil, err
	}
	return &fileCriterion{name: name, content: m}, nil
}

func (c *fileCriterion) IsMet(dir string) bool {
	path := filepath.Join(dir, c.name)
	if !isRegularFile(path) {
		return false
	}
	return c.content == nil || c.content.matchFile(path)
}

func (c *fileCriterion) Describe() string {
	return withContents(fmt.Sprintf("has a file `%s`", c.name), c.content)
}

type dirCriterion struct {
	name string
}

// HasDir is met if dir/name is a directory.
func HasDir(name string) Criterion {
	return &dirCriterion{name: name}
}

func (c *dirCriterion) IsMet(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, c.name))
	return err == nil && info.IsDir()
}

func (c *dirCriterion) Describe() string {
	return fmt.Sprintf("contains the directory `%s`", c.name)
}

type entryCriterion struct {
	name string
}

// HasEntry is met if anything named name exists in dir: a file, a
// directory, or any other kind of entry.
func HasEntry(name string) Criterion {
	return &entryCriterion{name: name}
}

func (c *entryCriterion) IsMet(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, c.name))
	return err == nil
}

func (c *entryCriterion) Describe() string {
	return fmt.Sprintf("contains the entry `%s`", c.name)
}

type basenameCriterion struct {
	name string
}

// HasBasename is met if the directory itself is called name.
func HasBasename(name string) Criterion {
	return &basenameCriterion{name: name}
}

func (c *basenameCriterion) IsMet(dir string) bool {
	return filepath.Base(dir) == c.name
}

func (c *basenameCriterion) Describe() string {
	return fmt.Sprintf("has the basename `%s`", c.name)
}

type cwdCriterion struct{}

// IsCwd is met by the process working directory at the time of the test.
func IsCwd() Criterion {
	return cwdCriterion{}
}

func (cwdCriterion) IsMet(dir string) bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}
	return canonical(cwd) == canonical(dir)
}

func (cwdCriterion) Describe() string {
	return "is the current working directory"
}

// isRegularFile follows symlinks.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
