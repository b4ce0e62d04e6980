package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"thoreinstein.com/projroot/pkg/discovery"
)

var (
	// ErrCancelled is returned when the user cancels the selection
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoProjects is returned when there are no projects to select from
	ErrNoProjects = errors.New("no projects found")
)

// Selector picks one project from a list using fzf.
type Selector struct {
	// Binary is the fzf executable, looked up in PATH when empty.
	Binary string
	// UI receives the fzf interface. Defaults to os.Stderr.
	UI io.Writer
}

// SelectProject prompts the user to select a project using fzf
func SelectProject(ctx context.Context, projects []discovery.Project) (*discovery.Project, error) {
	return (&Selector{}).Select(ctx, projects)
}

// Select runs fzf over projects and returns the chosen one.
func (s *Selector) Select(ctx context.Context, projects []discovery.Project) (*discovery.Project, error) {
	if len(projects) == 0 {
		return nil, ErrNoProjects
	}

	bin := s.Binary
	if bin == "" {
		bin = "fzf"
	}
	fzfPath, err := exec.LookPath(bin)
	if err != nil {
		return nil, errors.Wrapf(err, "%s not found in PATH", bin)
	}

	// Format: Name <tab> Path <tab> matched entry
	var input bytes.Buffer
	for _, p := range projects {
		fmt.Fprintf(&input, "%s\t%s\t%s\n", p.Name, p.Path, p.MatchedBy)
	}

	// #nosec G204 - fzf binary is looked up in PATH, no user-controlled arguments are passed directly
	cmd := exec.CommandContext(ctx, fzfPath,
		"--height=40%",
		"--layout=reverse",
		"--delimiter=\t",
		"--with-nth=1,2",
		"--cycle",
	)
	cmd.Stdin = &input
	cmd.Stderr = s.UI
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr // fzf uses stderr for UI rendering
	}
	var output bytes.Buffer
	cmd.Stdout = &output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		// fzf returns 130 on cancellation (ESC, Ctrl-C, Ctrl-G)
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 130 {
			return nil, ErrCancelled
		}
		return nil, errors.Wrap(err, "fzf failed")
	}

	return pick(projects, output.String())
}

// pick maps a line printed by fzf back to its project.
func pick(projects []discovery.Project, selected string) (*discovery.Project, error) {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return nil, ErrCancelled
	}

	parts := strings.Split(selected, "\t")
	if len(parts) < 2 {
		return nil, errors.Newf("invalid selection output: %q", selected)
	}

	for i := range projects {
		if projects[i].Path == parts[1] {
			return &projects[i], nil
		}
	}
	return nil, errors.Newf("selected project path %q not found in original list", parts[1])
}
