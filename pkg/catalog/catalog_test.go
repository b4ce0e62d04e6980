package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thoreinstein.com/projroot/pkg/config"
	"thoreinstein.com/projroot/pkg/criterion"
	projerrors "thoreinstein.com/projroot/pkg/errors"
	"thoreinstein.com/projroot/pkg/root"
)

func resolvedTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0755))
}

func TestCriteria(t *testing.T) {
	tests := []struct {
		name  string
		c     criterion.Criterion
		setup func(t *testing.T, dir string)
		want  bool
	}{
		{"git dir", IsGitRoot, func(t *testing.T, d string) { mkdir(t, filepath.Join(d, ".git")) }, true},
		{"git worktree file", IsGitRoot, func(t *testing.T, d string) {
			write(t, filepath.Join(d, ".git"), "gitdir: /src/repo/.git/worktrees/feature\n")
		}, true},
		{"git file without gitdir", IsGitRoot, func(t *testing.T, d string) {
			write(t, filepath.Join(d, ".git"), "something else\n")
		}, false},
		{"no git", IsGitRoot, func(t *testing.T, d string) {}, false},
		{"bare repo", IsBareGitRepo, func(t *testing.T, d string) {
			write(t, filepath.Join(d, "HEAD"), "ref: refs/heads/main\n")
			write(t, filepath.Join(d, "config"), "")
			mkdir(t, filepath.Join(d, "objects"))
		}, true},
		{"bare repo missing objects", IsBareGitRepo, func(t *testing.T, d string) {
			write(t, filepath.Join(d, "HEAD"), "")
			write(t, filepath.Join(d, "config"), "")
		}, false},
		{"svn", IsVcsRoot, func(t *testing.T, d string) { mkdir(t, filepath.Join(d, ".svn")) }, true},
		{"vscode settings", IsVscodeProject, func(t *testing.T, d string) {
			write(t, filepath.Join(d, ".vscode", "settings.json"), "{}")
		}, true},
		{"bare vscode dir", IsVscodeProject, func(t *testing.T, d string) { mkdir(t, filepath.Join(d, ".vscode")) }, false},
		{"go module", IsGoModule, func(t *testing.T, d string) {
			write(t, filepath.Join(d, "go.mod"), "// comment\nmodule example.com/x\n\ngo 1.25\n")
		}, true},
		{"go.mod without module line", IsGoModule, func(t *testing.T, d string) {
			write(t, filepath.Join(d, "go.mod"), "go 1.25\n")
		}, false},
		{"python", IsPythonProject, func(t *testing.T, d string) { write(t, filepath.Join(d, "setup.cfg"), "") }, true},
		{"rstudio", IsRstudioProject, func(t *testing.T, d string) {
			write(t, filepath.Join(d, "analysis.Rproj"), "Version: 1.0\n")
		}, true},
		{"rstudio version not first", IsRstudioProject, func(t *testing.T, d string) {
			write(t, filepath.Join(d, "analysis.Rproj"), "\nVersion: 1.0\n")
		}, false},
		{"r package", IsRPackage, func(t *testing.T, d string) {
			write(t, filepath.Join(d, "DESCRIPTION"), "Package: mypkg\nVersion: 0.1\n")
		}, true},
		{"pkgdown inst", IsPkgdownProject, func(t *testing.T, d string) {
			write(t, filepath.Join(d, "inst", "_pkgdown.yml"), "")
		}, true},
		{"here marker", IsHere, func(t *testing.T, d string) { write(t, filepath.Join(d, ".here"), "") }, true},
		{"here marker is a dir", IsHere, func(t *testing.T, d string) { mkdir(t, filepath.Join(d, ".here")) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := resolvedTempDir(t)
			tt.setup(t, dir)
			assert.Equal(t, tt.want, tt.c.IsMet(dir))
		})
	}
}

func TestIsTestthat(t *testing.T) {
	dir := filepath.Join(resolvedTempDir(t), "tests", "testthat")
	mkdir(t, dir)

	assert.True(t, IsTestthat.IsMet(dir))
	assert.False(t, IsTestthat.IsMet(filepath.Dir(dir)))
}

func TestHerePolicy_MarkerIsFallback(t *testing.T) {
	base := resolvedTempDir(t)
	repo := filepath.Join(base, "repo")
	project := filepath.Join(repo, "analysis")
	mkdir(t, filepath.Join(repo, ".git"))
	write(t, filepath.Join(project, ".here"), "")

	res, err := Here("").FindRoot(root.WithStart(project))
	require.NoError(t, err)
	assert.Equal(t, repo, res.Dir)
	assert.Equal(t, "is_git_root", res.Name)

	alone := filepath.Join(base, "alone")
	write(t, filepath.Join(alone, ".here"), "")
	res, err = Here("").FindRoot(root.WithStart(alone))
	require.NoError(t, err)
	assert.Equal(t, alone, res.Dir)
	assert.Equal(t, "is_here", res.Name)
}

func TestHerePolicy_CustomMarker(t *testing.T) {
	dir := resolvedTempDir(t)
	write(t, filepath.Join(dir, ".projroot-marker"), "")

	s := Here(".projroot-marker")
	res, err := s.FindRoot(root.WithStart(dir))
	require.NoError(t, err)
	assert.Equal(t, "is_here", res.Name)
	assert.Equal(t, "has a file `.projroot-marker`", res.Reason)
}

func TestPyHere_DirectoryMajor(t *testing.T) {
	base := resolvedTempDir(t)
	mkdir(t, filepath.Join(base, ".git"))
	sub := filepath.Join(base, "pkg")
	write(t, filepath.Join(sub, "pyproject.toml"), "")

	res, err := PyHere.FindRoot(root.WithStart(sub))
	require.NoError(t, err)
	assert.Equal(t, sub, res.Dir, "the nearest directory wins")
	assert.Equal(t, "pyproject", res.Name)

	res, err = PyHere.FindRoot(root.WithStart(sub), root.WithOrder(root.EntryMajor))
	require.NoError(t, err)
	assert.Equal(t, base, res.Dir)
	assert.Equal(t, "git", res.Name)
}

func TestPyHere_RprojGlob(t *testing.T) {
	dir := resolvedTempDir(t)
	write(t, filepath.Join(dir, "thing.Rproj"), "")

	res, err := PyHereStrict.FindRoot(root.WithStart(dir))
	require.NoError(t, err)
	assert.Equal(t, "rproj", res.Name)
}

func TestRHere(t *testing.T) {
	dir := resolvedTempDir(t)
	write(t, filepath.Join(dir, "DESCRIPTION"), "Package: x\n")

	res, err := RHere.FindRoot(root.WithStart(dir))
	require.NoError(t, err)
	assert.Equal(t, "is_r_package", res.Name)
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry("")

	for _, name := range []string{"here", "py_here", "py_here_strict", "r", "r_here", "is_git_root", "is_here", "from_wd"} {
		item, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, SourceBuiltin, item.Source)
		assert.NotNil(t, item.Set)
	}

	item, _ := r.Lookup("is_git_root")
	assert.Equal(t, KindCriterion, item.Kind)
	assert.Equal(t, []string{"is_git_root"}, item.Set.Names())
	assert.Equal(t, IsGitRoot.Describe(), item.Describe())

	item, _ = r.Lookup("py_here")
	assert.Equal(t, KindPolicy, item.Kind)
	assert.Contains(t, item.Describe(), "directory order: git, here, rproj")

	names := r.Names()
	assert.IsIncreasing(t, names)

	items := r.Items()
	require.NotEmpty(t, items)
	assert.Equal(t, KindPolicy, items[0].Kind, "policies are listed first")

	_, err := r.Set("nope")
	require.Error(t, err)
	assert.True(t, projerrors.IsPolicyError(err))
	assert.Contains(t, err.Error(), "is_git_root")

	_, ok := r.Describe("nope")
	assert.False(t, ok)
}

func TestRegistry_MarkerOverride(t *testing.T) {
	r := NewRegistry(".root")
	desc, ok := r.Describe("is_here")
	require.True(t, ok)
	assert.Equal(t, "has a file `.root`", desc)
}

func TestRegistry_Build(t *testing.T) {
	dir := resolvedTempDir(t)
	write(t, filepath.Join(dir, "Makefile"), "all:\n\techo hi\n")
	write(t, filepath.Join(dir, "VERSION"), "1.2.3\n")

	r := NewRegistry("")
	s, err := r.Build("mine", []config.CriterionSpec{
		{Name: "vcs", Criterion: "is_vcs_root"},
		{File: "VERSION", Line: "1.2.3", Lines: 1},
		{All: []config.CriterionSpec{
			{File: "Makefile", Contents: "^all:"},
			{Glob: "*.md"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"vcs", "criterion-1", "criterion-2"}, s.Names())

	res, err := s.FindRoot(root.WithStart(dir))
	require.NoError(t, err)
	assert.Equal(t, dir, res.Dir)
	assert.Equal(t, "criterion-1", res.Name)
	assert.Equal(t, "has a file `VERSION` and file contains a line with the contents `1.2.3` in the first 1 line/s", res.Reason)
}

func TestRegistry_BuildErrors(t *testing.T) {
	r := NewRegistry("")

	tests := []struct {
		name    string
		specs   []config.CriterionSpec
		pattern bool
	}{
		{"no entries", nil, false},
		{"no kind", []config.CriterionSpec{{Name: "x"}}, false},
		{"two kinds", []config.CriterionSpec{{File: "a", Dir: "b"}}, false},
		{"contents on dir", []config.CriterionSpec{{Dir: "a", Contents: "x"}}, false},
		{"contents and line", []config.CriterionSpec{{File: "a", Contents: "x", Line: "y"}}, false},
		{"lines alone", []config.CriterionSpec{{File: "a", Lines: 3}}, false},
		{"unknown reference", []config.CriterionSpec{{Criterion: "is_nothing"}}, false},
		{"duplicate names", []config.CriterionSpec{{Name: "a", File: "x"}, {Name: "a", File: "y"}}, false},
		{"bad regex", []config.CriterionSpec{{File: "a", Contents: "("}}, true},
		{"bad glob", []config.CriterionSpec{{Glob: "[a"}}, true},
		{"bad nested", []config.CriterionSpec{{Any: []config.CriterionSpec{{Pattern: "*x"}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Build("broken", tt.specs)
			require.Error(t, err)
			assert.True(t, projerrors.IsPolicyError(err))
			assert.Equal(t, tt.pattern, projerrors.IsPatternError(err))
		})
	}
}

func TestRegistry_AddPolicies(t *testing.T) {
	r := NewRegistry("")
	err := r.AddPolicies(map[string][]config.CriterionSpec{
		"b_uses_a": {{Criterion: "a_base"}},
		"a_base":   {{File: "a.txt"}},
	})
	require.NoError(t, err)

	item, ok := r.Lookup("b_uses_a")
	require.True(t, ok)
	assert.Equal(t, SourceConfig, item.Source)

	err = r.AddPolicies(map[string][]config.CriterionSpec{"here": {{File: "x"}}})
	require.Error(t, err)
	assert.True(t, projerrors.IsPolicyError(err), "builtin names cannot be redefined")
}
