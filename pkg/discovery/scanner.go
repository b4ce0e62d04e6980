// Package discovery finds project roots below a set of search paths, the
// downward counterpart of the upward search in package root.
package discovery

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"thoreinstein.com/projroot/pkg/config"
	"thoreinstein.com/projroot/pkg/root"
)

// Scanner scans directories for project roots
type Scanner struct {
	MaxDepth    int
	SearchPaths []string
	Exclusions  map[string]bool
	Set         *root.Set
	// Nested continues below a matched directory.
	Nested bool
	Logger *slog.Logger
}

// NewScanner creates a new scanner with default exclusions
func NewScanner(set *root.Set, paths []string, depth int) *Scanner {
	return &Scanner{
		MaxDepth:    depth,
		SearchPaths: paths,
		Set:         set,
		Exclusions: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			".terraform":   true,
			".git":         true,
			".svn":         true,
			".idea":        true,
			".vscode":      true,
		},
	}
}

// NewScannerFromConfig creates a scanner for the configured search paths.
// Configured exclusions are added to the defaults.
func NewScannerFromConfig(set *root.Set, cfg config.ScanConfig) *Scanner {
	s := NewScanner(set, cfg.SearchPaths, cfg.MaxDepth)
	for _, name := range cfg.Exclude {
		s.Exclusions[name] = true
	}
	return s
}

// Scan performs the scan and returns the result. It stops early when ctx
// is cancelled and returns the projects found so far with ctx.Err().
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var projects []Project
	scanned := 0
	visited := make(map[string]bool)

	for _, searchPath := range s.SearchPaths {
		// Resolve symlinks for the search path
		realRoot, err := filepath.EvalSymlinks(searchPath)
		if err != nil {
			logger.Debug("skipping search path", "path", searchPath, "error", err)
			continue
		}

		err = filepath.WalkDir(realRoot, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				return nil // Ignore permission errors
			}
			if !isDir(path, d) {
				return nil
			}

			// SkipDir on a symlink would skip the rest of its parent
			skip := func() error {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Check exclusions
			if path != realRoot && s.Exclusions[d.Name()] {
				return skip()
			}

			if depth(realRoot, path) > s.MaxDepth {
				return skip()
			}

			// Resolve symlinks
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil
			}
			if visited[realPath] {
				return nil // Avoid cycles/duplicates
			}
			visited[realPath] = true
			scanned++

			entry, reason, ok := s.Set.Match(path)
			if !ok {
				return nil
			}
			logger.Debug("found project", "path", path, "entry", entry.Name)
			projects = append(projects, Project{
				Name:      filepath.Base(path),
				Path:      path,
				MatchedBy: entry.Name,
				Reason:    reason,
			})

			if !s.Nested {
				return skip()
			}
			return nil
		})
		if err != nil {
			return &Result{Projects: projects, Scanned: scanned, Duration: time.Since(start)}, err
		}
	}

	return &Result{
		Projects: projects,
		Scanned:  scanned,
		Duration: time.Since(start),
	}, nil
}

// isDir reports whether the entry is a directory or a symlink to one.
// WalkDir does not descend into symlinked directories, so those are only
// tested themselves.
func isDir(path string, d fs.DirEntry) bool {
	if d.IsDir() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func depth(base, path string) int {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}
