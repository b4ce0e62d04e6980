// Package criterion provides composable predicates over a single directory.
//
// A Criterion answers "does this directory satisfy condition X" and renders a
// human-readable description of X. Atomic criteria test for files,
// directories, glob or regex matches and line contents; All and Any combine
// them with short-circuit AND/OR semantics. Criteria are immutable once
// constructed and safe for concurrent use.
//
// Filesystem errors raised while testing a directory (permission denied,
// unreadable files, vanished entries) are treated as "not met". Malformed
// patterns are rejected when the criterion is constructed.
package criterion

// Criterion is a predicate over a directory path.
type Criterion interface {
	// IsMet reports whether dir satisfies the criterion.
	IsMet(dir string) bool

	// Describe renders the condition, e.g. "has a file `go.mod`".
	Describe() string
}

// Reasoner is implemented by criteria whose explanation depends on which part
// of them matched, such as Any reporting the operand that was met.
type Reasoner interface {
	// Reason reports whether dir satisfies the criterion and, if so, why.
	Reason(dir string) (string, bool)
}

// Reason evaluates c on dir and returns the explanation for a match.
// Criteria that do not implement Reasoner are explained by Describe.
func Reason(c Criterion, dir string) (string, bool) {
	if r, ok := c.(Reasoner); ok {
		return r.Reason(dir)
	}
	if c.IsMet(dir) {
		return c.Describe(), true
	}
	return "", false
}

// Must panics if err is non-nil and returns c otherwise. It is intended for
// package-level criteria built from constant patterns.
func Must(c Criterion, err error) Criterion {
	if err != nil {
		panic(err)
	}
	return c
}

type funcCriterion struct {
	fn          func(dir string) bool
	description string
}

// FromFunc wraps a test function as a Criterion. An empty description
// defaults to "satisfies a test function".
func FromFunc(fn func(dir string) bool, description string) Criterion {
	if description == "" {
		description = "satisfies a test function"
	}
	return &funcCriterion{fn: fn, description: description}
}

func (c *funcCriterion) IsMet(dir string) bool {
	return c.fn(dir)
}

func (c *funcCriterion) Describe() string {
	return c.description
}
