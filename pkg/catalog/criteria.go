// Package catalog provides named criteria for common project layouts, the
// policies built from them, and a Registry that resolves policy names,
// including policies declared in configuration.
package catalog

import (
	"thoreinstein.com/projroot/pkg/criterion"
)

// DefaultMarker is the marker file name created by set-here.
const DefaultMarker = ".here"

// Version control
var (
	// IsGitRoot matches a git work tree: a .git directory, or a .git file
	// pointing at the real git dir as worktrees and submodules use.
	IsGitRoot = criterion.Any(
		criterion.HasDir(".git"),
		criterion.Must(criterion.HasFileContents(".git", criterion.Matching("^gitdir: "))),
	)

	// IsBareGitRepo matches a bare repository (HEAD, config and objects).
	IsBareGitRepo = criterion.All(
		criterion.HasFile("HEAD"),
		criterion.HasFile("config"),
		criterion.HasDir("objects"),
	)

	IsSvnRoot = criterion.HasDir(".svn")

	IsVcsRoot = criterion.Any(IsGitRoot, IsSvnRoot)

	IsDvcRoot = criterion.HasDir(".dvc")
)

// Editors and IDEs
var (
	// IsVscodeProject requires settings.json because a bare .vscode
	// directory also exists in many home directories.
	IsVscodeProject = criterion.HasFile(".vscode/settings.json")

	IsIdeaProject = criterion.HasDir(".idea")

	IsSpyderProject = criterion.HasDir(".spyproject")

	IsProjectileProject = criterion.HasFile(".projectile")
)

// Language ecosystems
var (
	IsAnacondaProject = criterion.HasFile("anaconda-project.yml")

	IsPythonProject = criterion.Any(
		criterion.HasFile("setup.py"),
		criterion.HasFile("setup.cfg"),
		criterion.HasFile("pyproject.toml"),
	)

	IsGoModule = criterion.Must(criterion.HasFileContents("go.mod", criterion.Matching(`^module\s`)))

	IsGoWorkspace = criterion.HasFile("go.work")

	IsRstudioProject = criterion.Must(criterion.HasFilePattern(`[.]Rproj$`,
		criterion.Matching("^Version: "), criterion.InFirst(1)))

	IsRPackage = criterion.Must(criterion.HasFileContents("DESCRIPTION", criterion.Matching("^Package: ")))

	IsRemakeProject = criterion.HasFile("remake.yml")

	IsDrakeProject = criterion.HasDir(".drake")

	IsPkgdownProject = criterion.Any(
		criterion.HasFile("_pkgdown.yml"),
		criterion.HasFile("_pkgdown.yaml"),
		criterion.HasFile("pkgdown/_pkgdown.yml"),
		criterion.HasFile("inst/_pkgdown.yml"),
	)

	IsTestthat = criterion.HasBasename("testthat")
)

// Markers
var (
	IsHere = Marker(DefaultMarker)

	FromWd = criterion.IsCwd()
)

// Marker returns the criterion for a marker file called name.
func Marker(name string) criterion.Criterion {
	return criterion.HasFile(name)
}

// builtinCriteria lists the named criteria in the order they are listed.
func builtinCriteria() []namedCriterion {
	return []namedCriterion{
		{"is_git_root", IsGitRoot},
		{"is_bare_git_repo", IsBareGitRepo},
		{"is_svn_root", IsSvnRoot},
		{"is_vcs_root", IsVcsRoot},
		{"is_dvc_root", IsDvcRoot},
		{"is_vscode_project", IsVscodeProject},
		{"is_idea_project", IsIdeaProject},
		{"is_spyder_project", IsSpyderProject},
		{"is_projectile_project", IsProjectileProject},
		{"is_anaconda_project", IsAnacondaProject},
		{"is_python_project", IsPythonProject},
		{"is_go_module", IsGoModule},
		{"is_go_workspace", IsGoWorkspace},
		{"is_rstudio_project", IsRstudioProject},
		{"is_r_package", IsRPackage},
		{"is_remake_project", IsRemakeProject},
		{"is_drake_project", IsDrakeProject},
		{"is_pkgdown_project", IsPkgdownProject},
		{"is_testthat", IsTestthat},
		{"is_here", IsHere},
		{"from_wd", FromWd},
	}
}

type namedCriterion struct {
	name string
	c    criterion.Criterion
}
