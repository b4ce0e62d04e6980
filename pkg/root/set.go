// Package root locates a project root by walking from a start directory up
// to the filesystem root and testing each ancestor against criteria.
//
// A single criterion is searched directory by directory. A Set, an ordered
// policy of named criteria, is searched entry-major by default: the first
// entry is tried against the whole ancestor chain before the second entry is
// considered, so a higher-priority entry wins even if it only matches far
// above the start directory.
//
// Nothing is cached between searches. Sets and Results are values; every
// operation that changes a Set returns a new one.
package root

import (
	"fmt"
	"strings"

	"thoreinstein.com/projroot/pkg/criterion"
	projerrors "thoreinstein.com/projroot/pkg/errors"
)

// Entry is a named criterion within a Set.
type Entry struct {
	Name      string
	Criterion criterion.Criterion
}

// Set is an immutable ordered collection of uniquely named criteria. Entry
// order is the search priority. The set also carries the evaluation Order
// used when a search does not pass WithOrder.
type Set struct {
	entries []Entry
	order   Order
}

// NewSet creates a Set from entries in the given order. Names must be
// non-empty and unique, and every entry needs a criterion.
func NewSet(entries ...Entry) (*Set, error) {
	s := &Set{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if err := s.check(e); err != nil {
			return nil, err
		}
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// FromCriteria coerces each value with criterion.From and names the
// resulting entries criterion-0, criterion-1, and so on.
func FromCriteria(vs ...any) (*Set, error) {
	entries := make([]Entry, 0, len(vs))
	for i, v := range vs {
		c, err := criterion.From(v)
		if err != nil {
			return nil, projerrors.Wrapf(err, "criterion-%d", i)
		}
		entries = append(entries, Entry{Name: fmt.Sprintf("criterion-%d", i), Criterion: c})
	}
	return NewSet(entries...)
}

func (s *Set) check(e Entry) error {
	if e.Name == "" {
		return projerrors.NewCompositionError("entry", "entry names must not be empty")
	}
	if e.Criterion == nil {
		return projerrors.NewCompositionError(e.Name, "entry has no criterion")
	}
	if s.index(e.Name) >= 0 {
		return projerrors.NewCompositionError(e.Name, "duplicate entry name")
	}
	return nil
}

func (s *Set) index(name string) int {
	for i, e := range s.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// With returns a new Set with v, coerced by criterion.From, appended under name.
func (s *Set) With(name string, v any) (*Set, error) {
	c, err := criterion.From(v)
	if err != nil {
		return nil, projerrors.Wrapf(err, "entry %s", name)
	}
	e := Entry{Name: name, Criterion: c}
	if err := s.check(e); err != nil {
		return nil, err
	}
	next := s.clone(1)
	next.entries = append(next.entries, e)
	return next, nil
}

// Without returns a new Set without the entry called name.
func (s *Set) Without(name string) (*Set, error) {
	i := s.index(name)
	if i < 0 {
		return nil, projerrors.Newf("no entry named %q", name)
	}
	next := s.clone(0)
	next.entries = append(next.entries[:i], next.entries[i+1:]...)
	return next, nil
}

// Demote returns a new Set with the entry called name moved to the end,
// keeping the relative order of the other entries.
func (s *Set) Demote(name string) (*Set, error) {
	i := s.index(name)
	if i < 0 {
		return nil, projerrors.Newf("no entry named %q", name)
	}
	next := s.clone(0)
	e := next.entries[i]
	next.entries = append(next.entries[:i], next.entries[i+1:]...)
	next.entries = append(next.entries, e)
	return next, nil
}

// InOrder returns a copy of the set searched in order unless a search asks
// for another one.
func (s *Set) InOrder(order Order) *Set {
	next := s.clone(0)
	next.order = order
	return next
}

// Order returns the set's default evaluation order.
func (s *Set) Order() Order {
	return s.order
}

func (s *Set) clone(extra int) *Set {
	entries := make([]Entry, len(s.entries), len(s.entries)+extra)
	copy(entries, s.entries)
	return &Set{entries: entries, order: s.order}
}

// Lookup returns the criterion registered under name.
func (s *Set) Lookup(name string) (criterion.Criterion, bool) {
	if i := s.index(name); i >= 0 {
		return s.entries[i].Criterion, true
	}
	return nil, false
}

// Entries returns a copy of the entries in priority order.
func (s *Set) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Names returns the entry names in priority order.
func (s *Set) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Match returns the first entry, in priority order, met by dir itself.
func (s *Set) Match(dir string) (Entry, string, bool) {
	for _, e := range s.entries {
		if reason, ok := criterion.Reason(e.Criterion, dir); ok {
			return e, reason, true
		}
	}
	return Entry{}, "", false
}

// IsMet reports whether any entry is met by dir, which lets a Set be
// used wherever a criterion.Criterion is expected.
func (s *Set) IsMet(dir string) bool {
	_, _, ok := s.Match(dir)
	return ok
}

// Reason reports the first entry met by dir as "name: reason".
func (s *Set) Reason(dir string) (string, bool) {
	e, reason, ok := s.Match(dir)
	if !ok {
		return "", false
	}
	return e.Name + ": " + reason, true
}

// Describe lists the entries as "name: description" separated by " or ".
func (s *Set) Describe() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = e.Name + ": " + e.Criterion.Describe()
	}
	return strings.Join(parts, " or ")
}

// Criterion returns the set as Any of its entries. Per-entry names are
// lost; use the Set itself to keep them.
func (s *Set) Criterion() criterion.Criterion {
	cs := make([]criterion.Criterion, len(s.entries))
	for i, e := range s.entries {
		cs[i] = e.Criterion
	}
	return criterion.Any(cs...)
}
