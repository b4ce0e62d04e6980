// Package here resolves paths against a project root selected by an
// explicit policy value. A Here is immutable; IAm returns a new one.
package here

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"thoreinstein.com/projroot/pkg/catalog"
	"thoreinstein.com/projroot/pkg/criterion"
	projerrors "thoreinstein.com/projroot/pkg/errors"
	"thoreinstein.com/projroot/pkg/root"
)

// uuidLines is how far into a file IAm looks for the identifier.
const uuidLines = 100

// Here binds a policy to search options.
type Here struct {
	finder      root.Finder
	opts        []root.Option
	warnMissing bool
	logger      *slog.Logger
}

// Option configures a Here.
type Option func(*Here)

// WithSearch adds search options used for every lookup.
func WithSearch(opts ...root.Option) Option {
	return func(h *Here) {
		h.opts = append(h.opts, opts...)
	}
}

// WithWarnMissing logs a warning when Path resolves to a path that does not exist.
func WithWarnMissing() Option {
	return func(h *Here) {
		h.warnMissing = true
	}
}

// WithLogger sets the logger for warnings. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Here) {
		h.logger = logger
	}
}

// New returns a Here searching with f. A nil f selects the default policy.
func New(f root.Finder, opts ...Option) *Here {
	if f == nil {
		f = catalog.Here(catalog.DefaultMarker)
	}
	h := &Here{finder: f}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Root returns the located root.
func (h *Here) Root() (root.Result, error) {
	return h.finder.FindRoot(h.opts...)
}

// Path joins parts to the root. Only the first part may be absolute, in
// which case the root is not searched for.
func (h *Here) Path(parts ...string) (string, error) {
	var path string
	var err error
	if len(parts) > 0 && filepath.IsAbs(parts[0]) {
		path, err = joinAbsolute(parts)
	} else {
		var fix root.Fixer
		if fix, err = root.FixFile(h.finder, h.opts...); err == nil {
			path, err = fix(parts...)
		}
	}
	if err != nil {
		return "", err
	}

	if h.warnMissing {
		if _, err := os.Stat(path); err != nil {
			h.logger.Warn("path does not exist", "path", path)
		}
	}
	return path, nil
}

func joinAbsolute(parts []string) (string, error) {
	for _, p := range parts[1:] {
		if filepath.IsAbs(p) {
			return "", projerrors.NewInvalidPathError(p, "only the first path component may be absolute")
		}
	}
	return filepath.Join(parts...), nil
}

// DrHere explains the root choice.
func (h *Here) DrHere() (string, error) {
	res, err := h.Root()
	if err != nil {
		return "", err
	}
	reason := res.Reason
	if res.Name != "" {
		reason = res.Name + ": " + reason
	}
	return fmt.Sprintf("here() starts at %s\nThis directory %s", res.Dir, reason), nil
}

// IAm pins the root to the nearest ancestor below which path, given
// relative to the root, is a regular file. With a non-empty id the file must also contain id as a whole line
// within its first 100 lines. It returns the new Here and the root found.
func (h *Here) IAm(path, id string) (*Here, string, error) {
	if path == "" || filepath.IsAbs(path) {
		return nil, "", projerrors.NewInvalidPathError(path, "IAm needs a path relative to the project root")
	}

	c := criterion.HasFile(path)
	if id != "" {
		var err error
		c, err = criterion.HasFileContents(path, criterion.Line(id), criterion.InFirst(uuidLines))
		if err != nil {
			return nil, "", err
		}
	}

	s, err := root.NewSet(root.Entry{Name: "i_am", Criterion: c})
	if err != nil {
		return nil, "", err
	}

	next := &Here{finder: s, opts: h.opts, warnMissing: h.warnMissing, logger: h.logger}
	res, err := next.Root()
	if err != nil {
		return nil, "", err
	}
	return next, res.Dir, nil
}

// SetHere creates the marker file in dir, or in the working directory when
// dir is empty. With withUUID the marker holds a fresh UUID on its first
// line. An existing marker is left untouched. It returns the marker path.
func SetHere(dir, marker string, withUUID bool) (string, error) {
	if marker == "" {
		marker = catalog.DefaultMarker
	}
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", projerrors.Wrapf(err, "resolve %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", projerrors.NewStartPathError(abs, err)
	}
	if !info.IsDir() {
		return "", projerrors.NewInvalidPathError(abs, "not a directory")
	}

	path := filepath.Join(abs, marker)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	var content []byte
	if withUUID {
		content = []byte(uuid.NewString() + "\n")
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", projerrors.Wrapf(err, "create marker %s", path)
	}
	return path, nil
}
