package criterion

import (
	"fmt"
	"strings"

	projerrors "thoreinstein.com/projroot/pkg/errors"
)

// allCriterion is met when every operand is met (AND).
type allCriterion struct {
	cs []Criterion
}

// anyCriterion is met when at least one operand is met (OR).
type anyCriterion struct {
	cs []Criterion
}

// All combines criteria with AND. Operands are evaluated left to right and
// evaluation stops at the first operand that is not met. Nested All
// operands are flattened. All with no operands is always met.
func All(cs ...Criterion) Criterion {
	flat := make([]Criterion, 0, len(cs))
	for _, c := range cs {
		if inner, ok := c.(*allCriterion); ok {
			flat = append(flat, inner.cs...)
			continue
		}
		flat = append(flat, c)
	}
	return &allCriterion{cs: flat}
}

// Any combines criteria with OR. Operands are evaluated left to right and
// evaluation stops at the first operand that is met. Nested Any operands are
// flattened. Any with no operands is never met.
func Any(cs ...Criterion) Criterion {
	flat := make([]Criterion, 0, len(cs))
	for _, c := range cs {
		if inner, ok := c.(*anyCriterion); ok {
			flat = append(flat, inner.cs...)
			continue
		}
		flat = append(flat, c)
	}
	return &anyCriterion{cs: flat}
}

func (c *allCriterion) IsMet(dir string) bool {
	for _, op := range c.cs {
		if !op.IsMet(dir) {
			return false
		}
	}
	return true
}

// Describe parenthesizes OR operands so the rendering keeps AND binding
// tighter than OR.
func (c *allCriterion) Describe() string {
	parts := make([]string, 0, len(c.cs))
	for _, op := range c.cs {
		d := op.Describe()
		if _, ok := op.(*anyCriterion); ok {
			d = "(" + d + ")"
		}
		parts = append(parts, d)
	}
	return strings.Join(parts, " and ")
}

func (c *allCriterion) Reason(dir string) (string, bool) {
	reasons := make([]string, 0, len(c.cs))
	for _, op := range c.cs {
		r, ok := Reason(op, dir)
		if !ok {
			return "", false
		}
		reasons = append(reasons, r)
	}
	return strings.Join(reasons, " and "), true
}

func (c *anyCriterion) IsMet(dir string) bool {
	for _, op := range c.cs {
		if op.IsMet(dir) {
			return true
		}
	}
	return false
}

func (c *anyCriterion) Describe() string {
	parts := make([]string, 0, len(c.cs))
	for _, op := range c.cs {
		parts = append(parts, op.Describe())
	}
	return strings.Join(parts, " or ")
}

// Reason reports the first operand that is met.
func (c *anyCriterion) Reason(dir string) (string, bool) {
	for _, op := range c.cs {
		if r, ok := Reason(op, dir); ok {
			return r, true
		}
	}
	return "", false
}

// And coerces both operands with From and combines them with All.
func And(a, b any) (Criterion, error) {
	left, right, err := coercePair(a, b)
	if err != nil {
		return nil, err
	}
	return All(left, right), nil
}

// Or coerces both operands with From and combines them with Any.
func Or(a, b any) (Criterion, error) {
	left, right, err := coercePair(a, b)
	if err != nil {
		return nil, err
	}
	return Any(left, right), nil
}

func coercePair(a, b any) (Criterion, Criterion, error) {
	left, err := From(a)
	if err != nil {
		return nil, nil, projerrors.Wrap(err, "left operand")
	}
	right, err := From(b)
	if err != nil {
		return nil, nil, projerrors.Wrap(err, "right operand")
	}
	return left, right, nil
}

// From converts v into a Criterion:
//
//   - a Criterion is returned unchanged
//   - a non-empty string becomes HasFile(v)
//   - a func(string) bool becomes FromFunc(v, "")
//   - a []Criterion, []string or []any becomes Any of its converted elements
//
// Anything else, including nil and empty strings, is rejected with a
// CompositionError.
func From(v any) (Criterion, error) {
	switch v := v.(type) {
	case nil:
		return nil, projerrors.NewCompositionError("nil", "cannot convert to a criterion")
	case Criterion:
		return v, nil
	case string:
		if v == "" {
			return nil, projerrors.NewCompositionError(`""`, "an empty file name is not a criterion")
		}
		return HasFile(v), nil
	case func(string) bool:
		return FromFunc(v, ""), nil
	case []Criterion:
		return fromSlice(v)
	case []string:
		return fromSlice(v)
	case []any:
		return fromSlice(v)
	default:
		return nil, projerrors.NewCompositionError(fmt.Sprintf("%T", v), "cannot convert to a criterion")
	}
}

func fromSlice[T any](vs []T) (Criterion, error) {
	if len(vs) == 0 {
		return nil, projerrors.NewCompositionError("empty list", "at least one criterion is required")
	}
	cs := make([]Criterion, 0, len(vs))
	for i, v := range vs {
		c, err := From(v)
		if err != nil {
			return nil, projerrors.Wrapf(err, "element %d", i)
		}
		cs = append(cs, c)
	}
	return Any(cs...), nil
}
