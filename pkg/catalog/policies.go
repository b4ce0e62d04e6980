package catalog

import (
	"thoreinstein.com/projroot/pkg/criterion"
	"thoreinstein.com/projroot/pkg/root"
)

// Here returns the default policy. Version control and language markers are
// tried first; the marker file is the last entry and only wins when no other
// entry matches anywhere above the start.
func Here(marker string) *root.Set {
	if marker == "" {
		marker = DefaultMarker
	}
	return mustSet(root.NewSet(
		root.Entry{Name: "is_git_root", Criterion: IsGitRoot},
		root.Entry{Name: "is_svn_root", Criterion: IsSvnRoot},
		root.Entry{Name: "is_go_workspace", Criterion: IsGoWorkspace},
		root.Entry{Name: "is_go_module", Criterion: IsGoModule},
		root.Entry{Name: "is_python_project", Criterion: IsPythonProject},
		root.Entry{Name: "is_rstudio_project", Criterion: IsRstudioProject},
		root.Entry{Name: "is_r_package", Criterion: IsRPackage},
		root.Entry{Name: "is_dvc_root", Criterion: IsDvcRoot},
		root.Entry{Name: "is_idea_project", Criterion: IsIdeaProject},
		root.Entry{Name: "is_vscode_project", Criterion: IsVscodeProject},
		root.Entry{Name: "is_projectile_project", Criterion: IsProjectileProject},
		root.Entry{Name: "is_here", Criterion: Marker(marker)},
	))
}

// PyHere is the python-centric policy: any of the entries in the nearest
// directory wins, so it is searched directory-major.
var PyHere = mustSet(root.NewSet(
	root.Entry{Name: "git", Criterion: criterion.HasEntry(".git")},
	root.Entry{Name: "here", Criterion: criterion.HasEntry(DefaultMarker)},
	root.Entry{Name: "rproj", Criterion: criterion.Must(criterion.HasEntryGlob("*.Rproj"))},
	root.Entry{Name: "requirements", Criterion: criterion.HasEntry("requirements.txt")},
	root.Entry{Name: "setup_py", Criterion: criterion.HasEntry("setup.py")},
	root.Entry{Name: "dvc", Criterion: criterion.HasEntry(".dvc")},
	root.Entry{Name: "spyder", Criterion: criterion.HasEntry(".spyproject")},
	root.Entry{Name: "pyproject", Criterion: criterion.HasEntry("pyproject.toml")},
	root.Entry{Name: "idea", Criterion: criterion.HasEntry(".idea")},
	root.Entry{Name: "vscode", Criterion: criterion.HasEntry(".vscode")},
)).InOrder(root.DirectoryMajor)

// PyHereStrict is PyHere with kinds checked: the marker must be a file and
// .git a directory. The marker is tried first.
var PyHereStrict = mustSet(root.NewSet(
	root.Entry{Name: "here", Criterion: criterion.HasFile(DefaultMarker)},
	root.Entry{Name: "git", Criterion: criterion.HasDir(".git")},
	root.Entry{Name: "rproj", Criterion: criterion.Must(criterion.HasEntryGlob("*.Rproj"))},
	root.Entry{Name: "requirements", Criterion: criterion.HasFile("requirements.txt")},
	root.Entry{Name: "setup_py", Criterion: criterion.HasFile("setup.py")},
	root.Entry{Name: "dvc", Criterion: criterion.HasDir(".dvc")},
	root.Entry{Name: "spyder", Criterion: criterion.HasDir(".spyproject")},
	root.Entry{Name: "pyproject", Criterion: criterion.HasFile("pyproject.toml")},
	root.Entry{Name: "idea", Criterion: criterion.HasDir(".idea")},
	root.Entry{Name: "vscode", Criterion: criterion.HasDir(".vscode")},
)).InOrder(root.DirectoryMajor)

// R mirrors the R project criteria, searched entry by entry.
var R = mustSet(root.NewSet(
	root.Entry{Name: "is_rstudio_project", Criterion: IsRstudioProject},
	root.Entry{Name: "is_r_package", Criterion: IsRPackage},
	root.Entry{Name: "is_remake_project", Criterion: IsRemakeProject},
	root.Entry{Name: "is_pkgdown_project", Criterion: IsPkgdownProject},
	root.Entry{Name: "is_projectile_project", Criterion: IsProjectileProject},
	root.Entry{Name: "is_git_root", Criterion: IsGitRoot},
	root.Entry{Name: "is_svn_root", Criterion: IsSvnRoot},
	root.Entry{Name: "is_vcs_root", Criterion: IsVcsRoot},
	root.Entry{Name: "is_testthat", Criterion: IsTestthat},
	root.Entry{Name: "from_wd", Criterion: FromWd},
))

// RHere is the policy of the R here package: the nearest directory meeting
// any entry wins.
var RHere = mustSet(root.NewSet(
	root.Entry{Name: "is_here", Criterion: IsHere},
	root.Entry{Name: "is_rstudio_project", Criterion: IsRstudioProject},
	root.Entry{Name: "is_r_package", Criterion: IsRPackage},
	root.Entry{Name: "is_remake_project", Criterion: IsRemakeProject},
	root.Entry{Name: "is_projectile_project", Criterion: IsProjectileProject},
	root.Entry{Name: "is_vcs_root", Criterion: IsVcsRoot},
)).InOrder(root.DirectoryMajor)

func mustSet(s *root.Set, err error) *root.Set {
	if err != nil {
		panic(err)
	}
	return s
}
