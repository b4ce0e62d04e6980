package catalog

import (
	"fmt"
	"slices"
	"strings"

	"thoreinstein.com/projroot/pkg/config"
	"thoreinstein.com/projroot/pkg/criterion"
	projerrors "thoreinstein.com/projroot/pkg/errors"
	"thoreinstein.com/projroot/pkg/root"
)

// Kind tells a single criterion from a policy.
type Kind string

const (
	KindCriterion Kind = "criterion"
	KindPolicy    Kind = "policy"
)

// Source records where a registry item was defined.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceConfig  Source = "config"
)

// Item is a named, searchable policy. Single criteria are stored as
// one-entry sets named after the criterion so results carry the name.
type Item struct {
	Name      string
	Kind      Kind
	Source    Source
	Set       *root.Set
	Criterion criterion.Criterion
}

// Describe summarizes the item for listings.
func (i Item) Describe() string {
	if i.Kind == KindCriterion {
		return i.Criterion.Describe()
	}
	return fmt.Sprintf("%s order: %s", i.Set.Order(), strings.Join(i.Set.Names(), ", "))
}

// Registry maps names to policies.
type Registry struct {
	items map[string]Item
}

// NewRegistry returns a registry holding the builtin criteria and policies.
// marker replaces the marker file name in the default policy.
func NewRegistry(marker string) *Registry {
	r := &Registry{items: make(map[string]Item)}

	for _, nc := range builtinCriteria() {
		c := nc.c
		if nc.name == "is_here" && marker != "" {
			c = Marker(marker)
		}
		r.mustAdd(criterionItem(nc.name, c, SourceBuiltin))
	}

	for name, s := range map[string]*root.Set{
		"here":           Here(marker),
		"py_here":        PyHere,
		"py_here_strict": PyHereStrict,
		"r":              R,
		"r_here":         RHere,
	} {
		r.mustAdd(Item{Name: name, Kind: KindPolicy, Source: SourceBuiltin, Set: s, Criterion: s})
	}
	return r
}

func criterionItem(name string, c criterion.Criterion, source Source) Item {
	s := mustSet(root.NewSet(root.Entry{Name: name, Criterion: c}))
	return Item{Name: name, Kind: KindCriterion, Source: source, Set: s, Criterion: c}
}

func (r *Registry) mustAdd(item Item) {
	if err := r.add(item); err != nil {
		panic(err)
	}
}

func (r *Registry) add(item Item) error {
	if _, exists := r.items[item.Name]; exists {
		return projerrors.NewPolicyError(item.Name, "name is already defined")
	}
	r.items[item.Name] = item
	return nil
}

// Lookup returns the item called name.
func (r *Registry) Lookup(name string) (Item, bool) {
	item, ok := r.items[name]
	return item, ok
}

// Set returns the set for name, or a PolicyError naming the known policies.
func (r *Registry) Set(name string) (*root.Set, error) {
	item, ok := r.items[name]
	if !ok {
		return nil, projerrors.NewPolicyError(name, fmt.Sprintf("unknown criterion or policy; known: %s", strings.Join(r.Names(), ", ")))
	}
	return item.Set, nil
}

// Names returns all names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Items returns all items sorted by kind, then name.
func (r *Registry) Items() []Item {
	items := make([]Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b Item) int {
		if a.Kind != b.Kind {
			return strings.Compare(string(b.Kind), string(a.Kind))
		}
		return strings.Compare(a.Name, b.Name)
	})
	return items
}

// Describe returns the description of the item called name.
func (r *Registry) Describe(name string) (string, bool) {
	item, ok := r.items[name]
	if !ok {
		return "", false
	}
	return item.Describe(), true
}

// AddPolicies builds every configured policy and registers it. Policies are
// added in name order so one may reference another defined before it.
func (r *Registry) AddPolicies(policies map[string][]config.CriterionSpec) error {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		s, err := r.Build(name, policies[name])
		if err != nil {
			return err
		}
		if err := r.add(Item{Name: name, Kind: KindPolicy, Source: SourceConfig, Set: s, Criterion: s}); err != nil {
			return err
		}
	}
	return nil
}
