package root

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"thoreinstein.com/projroot/pkg/criterion"
	projerrors "thoreinstein.com/projroot/pkg/errors"
)

// Order selects how a Set is matched against the ancestor chain.
type Order int

const (
	// EntryMajor tries each entry against every ancestor before moving on
	// to the next entry. Priority beats proximity.
	EntryMajor Order = iota

	// DirectoryMajor tries every entry against one ancestor before moving
	// up. Proximity beats priority.
	DirectoryMajor
)

// String implements fmt.Stringer.
func (o Order) String() string {
	switch o {
	case EntryMajor:
		return "entry"
	case DirectoryMajor:
		return "directory"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses "entry" or "directory" (case-insensitive).
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "entry", "":
		return EntryMajor, nil
	case "directory", "dir":
		return DirectoryMajor, nil
	}
	return 0, projerrors.Newf("unknown search order %q: must be one of: entry, directory", s)
}

// Finder is anything that can locate a root: a *Set, or a single criterion
// wrapped with Of.
type Finder interface {
	FindRoot(opts ...Option) (Result, error)
}

// Result describes a located root.
type Result struct {
	Dir       string              `json:"dir" yaml:"dir" toml:"dir"`
	Name      string              `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Reason    string              `json:"reason" yaml:"reason" toml:"reason"`
	Criterion criterion.Criterion `json:"-" yaml:"-" toml:"-"`
}

// Explain renders the result for people, naming the matched entry if there is one.
func (r Result) Explain() string {
	if r.Name == "" {
		return fmt.Sprintf("root directory %s\nthis directory %s", r.Dir, r.Reason)
	}
	return fmt.Sprintf("root directory %s\nmatched %s: this directory %s", r.Dir, r.Name, r.Reason)
}

// Join joins path components to the root directory.
func (r Result) Join(parts ...string) string {
	return filepath.Join(append([]string{r.Dir}, parts...)...)
}

type options struct {
	start           string
	order           Order
	parentLimit     int
	limitParents    bool
	resolveSymlinks bool
	logger          *slog.Logger
}

// Option configures a search.
type Option func(*options)

// WithStart sets the start path. The default is the working directory. If
// the path names a file, its directory is used.
func WithStart(path string) Option {
	return func(o *options) {
		o.start = path
	}
}

// WithOrder sets the evaluation order for Sets, overriding the set's own
// order. Single criteria ignore it.
func WithOrder(order Order) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithParentLimit bounds the ancestors tested above the start directory. A
// non-negative n tests at most n parents; a negative n skips the |n|
// ancestors closest to the filesystem root.
func WithParentLimit(n int) Option {
	return func(o *options) {
		o.parentLimit = n
		o.limitParents = true
	}
}

// WithSymlinks controls whether symlinks in the start path are resolved.
// Resolution happens once, before the walk; ancestors are never
// re-resolved. Enabled by default.
func WithSymlinks(resolve bool) Option {
	return func(o *options) {
		o.resolveSymlinks = resolve
	}
}

// WithLogger sets the logger for per-directory debug output. The default
// is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{order: EntryMajor, resolveSymlinks: true}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// startDir normalizes the start path once: absolute, cleaned, optionally
// symlink-resolved, and moved to the parent directory if it names a file.
func (o *options) startDir() (string, error) {
	start := o.start
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", projerrors.NewStartPathError(".", err)
		}
		start = cwd
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", projerrors.NewStartPathError(start, err)
	}

	if o.resolveSymlinks {
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return "", projerrors.NewStartPathError(abs, err)
		}
		abs = resolved
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", projerrors.NewStartPathError(abs, err)
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}

// ancestors lists start and its parents up to and including the filesystem
// root, which is recognized by being its own parent.
func (o *options) ancestors(start string) []string {
	dirs := []string{start}
	for dir := start; ; {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dirs = append(dirs, parent)
		dir = parent
	}

	if !o.limitParents {
		return dirs
	}

	parents := len(dirs) - 1
	var keep int
	if o.parentLimit >= 0 {
		keep = min(o.parentLimit, parents)
	} else {
		keep = max(parents+o.parentLimit, 0)
	}
	return dirs[:1+keep]
}

// chain validates options and returns the normalized start and its ancestors.
func (o *options) chain() (string, []string, error) {
	start, err := o.startDir()
	if err != nil {
		return "", nil, err
	}
	return start, o.ancestors(start), nil
}

type single struct {
	c criterion.Criterion
}

// Of wraps a single criterion as a Finder.
func Of(c criterion.Criterion) Finder {
	return single{c: c}
}

// FindRoot searches with a single criterion: the first ancestor of the
// start directory, starting with the start directory itself, that meets c.
func FindRoot(c criterion.Criterion, opts ...Option) (Result, error) {
	return Of(c).FindRoot(opts...)
}

func (s single) FindRoot(opts ...Option) (Result, error) {
	o := newOptions(opts)
	start, dirs, err := o.chain()
	if err != nil {
		return Result{}, err
	}

	for _, dir := range dirs {
		reason, ok := criterion.Reason(s.c, dir)
		o.logger.Debug("tested directory", "dir", dir, "criterion", s.c.Describe(), "met", ok)
		if ok {
			return Result{Dir: dir, Reason: reason, Criterion: s.c}, nil
		}
	}
	return Result{}, projerrors.NewRootNotFoundError(start, []string{s.c.Describe()})
}

func (s *Set) options(opts []Option) *options {
	return newOptions(append([]Option{WithOrder(s.order)}, opts...))
}

// candidates yields (entry, directory) pairs in the order the search tests them.
func (s *Set) candidates(order Order, dirs []string) iter.Seq2[Entry, string] {
	return func(yield func(Entry, string) bool) {
		if order == DirectoryMajor {
			for _, dir := range dirs {
				for _, e := range s.entries {
					if !yield(e, dir) {
						return
					}
				}
			}
			return
		}
		for _, e := range s.entries {
			for _, dir := range dirs {
				if !yield(e, dir) {
					return
				}
			}
		}
	}
}

// FindRoot searches the ancestor chain with the set's entries in priority
// order and returns the first hit. See EntryMajor and DirectoryMajor.
func (s *Set) FindRoot(opts ...Option) (Result, error) {
	o := s.options(opts)
	start, dirs, err := o.chain()
	if err != nil {
		return Result{}, err
	}

	o.logger.Debug("searching for root", "start", start, "order", o.order.String(), "entries", len(s.entries))
	for e, dir := range s.candidates(o.order, dirs) {
		reason, ok := criterion.Reason(e.Criterion, dir)
		o.logger.Debug("tested directory", "entry", e.Name, "dir", dir, "met", ok)
		if ok {
			return Result{Dir: dir, Name: e.Name, Reason: reason, Criterion: e.Criterion}, nil
		}
	}
	return Result{}, projerrors.NewRootNotFoundError(start, s.Names())
}

// MetNames returns the names of all entries met by at least one directory of
// the ancestor chain, in the order the search would find them.
func (s *Set) MetNames(opts ...Option) ([]string, error) {
	o := s.options(opts)
	_, dirs, err := o.chain()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for e, dir := range s.candidates(o.order, dirs) {
		if seen[e.Name] || !e.Criterion.IsMet(dir) {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	return names, nil
}
