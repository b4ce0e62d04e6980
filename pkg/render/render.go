// Package render writes command results as text, JSON, YAML or TOML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// AllFormats lists the supported formats.
var AllFormats = []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatTOML)}

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat parses a format name (case-insensitive). Empty means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(s))
	if !slices.Contains(AllFormats, string(f)) {
		return "", errors.Wrapf(ErrUnknownFormat, "%q: must be one of: %s", s, strings.Join(AllFormats, ", "))
	}
	return f, nil
}

// Texter is implemented by values with a human-readable rendering.
type Texter interface {
	Text() string
}

// Write encodes v to w. For FormatText, v is written through its Text
// method, or as fmt's %v when it has none. TOML needs a struct or map at
// the top level.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatText, "":
		text := fmt.Sprint(v)
		if t, ok := v.(Texter); ok {
			text = t.Text()
		}
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, err := io.WriteString(w, text)
		return errors.Wrap(err, "write text")

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encode json")

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")

	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(v), "encode toml")
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", f)
}
