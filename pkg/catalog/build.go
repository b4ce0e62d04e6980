package catalog

import (
	"fmt"
	"strings"

	"thoreinstein.com/projroot/pkg/config"
	"thoreinstein.com/projroot/pkg/criterion"
	projerrors "thoreinstein.com/projroot/pkg/errors"
	"thoreinstein.com/projroot/pkg/root"
)

// Build turns a declared policy into a Set. Entries without a name are
// called criterion-0, criterion-1, and so on. A criterion reference may
// name any item already in the registry.
func (r *Registry) Build(policy string, specs []config.CriterionSpec) (*root.Set, error) {
	if len(specs) == 0 {
		return nil, projerrors.NewPolicyError(policy, "policy has no entries")
	}

	entries := make([]root.Entry, 0, len(specs))
	for i, spec := range specs {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("criterion-%d", i)
		}

		c, err := r.buildCriterion(spec)
		if err != nil {
			return nil, projerrors.NewPolicyErrorWithCause(policy, name, "invalid entry", err)
		}
		entries = append(entries, root.Entry{Name: name, Criterion: c})
	}

	s, err := root.NewSet(entries...)
	if err != nil {
		return nil, projerrors.NewPolicyErrorWithCause(policy, "", "invalid policy", err)
	}
	return s, nil
}

func (r *Registry) buildCriterion(spec config.CriterionSpec) (criterion.Criterion, error) {
	kinds := spec.Kinds()
	if len(kinds) != 1 {
		return nil, projerrors.NewCompositionError(spec.Name,
			fmt.Sprintf("exactly one of file, dir, entry, glob, file_glob, pattern, basename, criterion, any, all must be set, got [%s]", strings.Join(kinds, ", ")))
	}
	kind := kinds[0]

	opts, err := contentOptions(spec, kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "file":
		return criterion.HasFileContents(spec.File, opts...)
	case "file_glob":
		return criterion.HasFileGlob(spec.FileGlob, opts...)
	case "pattern":
		return criterion.HasFilePattern(spec.Pattern, opts...)
	case "dir":
		return criterion.HasDir(spec.Dir), nil
	case "entry":
		return criterion.HasEntry(spec.Entry), nil
	case "glob":
		return criterion.HasEntryGlob(spec.Glob)
	case "basename":
		return criterion.HasBasename(spec.Basename), nil
	case "criterion":
		item, ok := r.Lookup(spec.Criterion)
		if !ok {
			return nil, projerrors.NewCompositionError(spec.Criterion, "unknown criterion")
		}
		return item.Criterion, nil
	case "any", "all":
		children := spec.Any
		if kind == "all" {
			children = spec.All
		}
		cs := make([]criterion.Criterion, 0, len(children))
		for i, child := range children {
			c, err := r.buildCriterion(child)
			if err != nil {
				return nil, projerrors.Wrapf(err, "%s[%d]", kind, i)
			}
			cs = append(cs, c)
		}
		if kind == "all" {
			return criterion.All(cs...), nil
		}
		return criterion.Any(cs...), nil
	}
	return nil, projerrors.NewCompositionError(kind, "unsupported criterion kind")
}

// contentOptions maps contents, line and lines to content options. Only
// file, file_glob and pattern entries accept them.
func contentOptions(spec config.CriterionSpec, kind string) ([]criterion.ContentOption, error) {
	if !spec.HasContentTest() {
		if spec.Lines != 0 {
			return nil, projerrors.NewCompositionError("lines", "lines needs contents or line")
		}
		return nil, nil
	}

	switch kind {
	case "file", "file_glob", "pattern":
	default:
		return nil, projerrors.NewCompositionError(kind, "contents and line only apply to file, file_glob and pattern")
	}

	if spec.Contents != "" && spec.Line != "" {
		return nil, projerrors.NewCompositionError("contents", "contents and line are mutually exclusive")
	}

	var opts []criterion.ContentOption
	if spec.Contents != "" {
		opts = append(opts, criterion.Matching(spec.Contents))
	} else {
		opts = append(opts, criterion.Line(spec.Line))
	}
	if spec.Lines > 0 {
		opts = append(opts, criterion.InFirst(spec.Lines))
	}
	return opts, nil
}
