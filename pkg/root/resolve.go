package root

import (
	"io/fs"
	"os"
	"path/filepath"

	projerrors "thoreinstein.com/projroot/pkg/errors"
)

// Resolve finds the root with f and joins rel to it. The joined path does
// not have to exist. An absolute rel is returned cleaned, without a search.
func Resolve(f Finder, rel string, opts ...Option) (string, error) {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel), nil
	}

	res, err := f.FindRoot(opts...)
	if err != nil {
		return "", err
	}
	return res.Join(rel), nil
}

// ResolveExisting is like Resolve but fails with a FileNotFoundError when
// the joined path does not exist.
func ResolveExisting(f Finder, rel string, opts ...Option) (string, error) {
	if filepath.IsAbs(rel) {
		path := filepath.Clean(rel)
		return path, mustExist(path, "")
	}

	res, err := f.FindRoot(opts...)
	if err != nil {
		return "", err
	}

	path := res.Join(rel)
	if err := mustExist(path, res.Dir); err != nil {
		return "", err
	}
	return path, nil
}

func mustExist(path, root string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if projerrors.Is(err, fs.ErrNotExist) {
		return projerrors.NewFileNotFoundError(path, root)
	}
	return projerrors.Wrapf(err, "stat %s", path)
}

// Fixer joins path components to a root located earlier.
type Fixer func(parts ...string) (string, error)

// FixFile locates the root once and returns a Fixer bound to it. Only the
// first component given to the Fixer may be absolute, in which case the
// components are joined without the root.
func FixFile(f Finder, opts ...Option) (Fixer, error) {
	res, err := f.FindRoot(opts...)
	if err != nil {
		return nil, err
	}

	return func(parts ...string) (string, error) {
		return joinParts(res.Dir, parts)
	}, nil
}

func joinParts(root string, parts []string) (string, error) {
	if len(parts) > 1 {
		for _, p := range parts[1:] {
			if filepath.IsAbs(p) {
				return "", projerrors.NewInvalidPathError(p, "only the first path component may be absolute")
			}
		}
	}
	if len(parts) > 0 && filepath.IsAbs(parts[0]) {
		return filepath.Join(parts...), nil
	}
	return filepath.Join(append([]string{root}, parts...)...), nil
}
