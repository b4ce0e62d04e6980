package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	projerrors "thoreinstein.com/projroot/pkg/errors"
)

// setupTest isolates HOME and the working directory in a temp dir.
func setupTest(t *testing.T) string {
	t.Helper()
	home, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)
	t.Setenv("GO_TEST", "true")
	t.Chdir(home)
	t.Cleanup(resetConfig)
	return home
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns stdout and stderr.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	resetConfig()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(parts...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	mkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// gitRepo creates home/repo with a .git directory and a nested sub directory.
func gitRepo(t *testing.T, home string) (repo, sub string) {
	t.Helper()
	repo = filepath.Join(home, "repo")
	mkdir(t, repo, ".git")
	sub = mkdir(t, repo, "a", "b")
	return repo, sub
}

func TestRootCommandStructure(t *testing.T) {
	// Not parallel - accesses global rootCmd
	cmd := rootCmd

	if !strings.HasPrefix(cmd.Use, "projroot") {
		t.Errorf("root command Use = %q, want projroot", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("root command should have Short description")
	}
	for _, keyword := range []string{"root directory", "criteria", "exit status"} {
		if !strings.Contains(cmd.Long, keyword) {
			t.Errorf("root command Long description should mention %q", keyword)
		}
	}

	want := []string{"why", "file", "met", "list", "set-here", "dr-here", "i-am", "scan", "config"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	// Not parallel - accesses global rootCmd
	cmd := rootCmd

	tests := []struct {
		name      string
		shorthand string
	}{
		{"config", "C"},
		{"verbose", "v"},
		{"criterion", "c"},
		{"start", ""},
		{"order", ""},
		{"parent-limit", ""},
		{"no-resolve-symlinks", ""},
		{"log-level", ""},
		{"log-format", ""},
	}

	for _, tt := range tests {
		f := cmd.PersistentFlags().Lookup(tt.name)
		if f == nil {
			t.Errorf("root command should have --%s persistent flag", tt.name)
			continue
		}
		if f.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, f.Shorthand, tt.shorthand)
		}
		if f.Usage == "" {
			t.Errorf("--%s flag should have usage description", tt.name)
		}
	}

	if f := cmd.PersistentFlags().Lookup("config"); f != nil && !strings.Contains(f.Usage, "$HOME/.config/projroot") {
		t.Error("--config usage should mention default config location")
	}
}

func TestRoot_FindsRoot(t *testing.T) {
	home := setupTest(t)
	repo, sub := gitRepo(t, home)

	out, _, err := runCmd(t, sub)
	if err != nil {
		t.Fatalf("projroot error = %v", err)
	}
	if out != repo+"\n" {
		t.Errorf("projroot = %q, want %q", out, repo+"\n")
	}

	out, _, err = runCmd(t, "--start", sub)
	if err != nil {
		t.Fatalf("projroot --start error = %v", err)
	}
	if out != repo+"\n" {
		t.Errorf("projroot --start = %q, want %q", out, repo+"\n")
	}

	t.Chdir(sub)
	if out, _, _ = runCmd(t); out != repo+"\n" {
		t.Errorf("projroot from the working directory = %q, want %q", out, repo+"\n")
	}
}

func TestRoot_NotFound(t *testing.T) {
	home := setupTest(t)
	dir := mkdir(t, home, "empty")

	_, _, err := runCmd(t, "-c", "is_git_root", "--parent-limit", "0", dir)
	if !projerrors.IsRootNotFound(err) {
		t.Fatalf("projroot error = %v, want RootNotFoundError", err)
	}
	if msg := projerrors.FormatUserError(err); !strings.Contains(msg, dir) {
		t.Errorf("FormatUserError() = %q, should name the start directory", msg)
	}
}

func TestRoot_Errors(t *testing.T) {
	home := setupTest(t)
	_, sub := gitRepo(t, home)

	if _, _, err := runCmd(t, "-c", "nope", sub); !projerrors.IsPolicyError(err) {
		t.Errorf("unknown criterion error = %v, want PolicyError", err)
	}
	if _, _, err := runCmd(t, "--order", "sideways", sub); !projerrors.IsConfigError(err) {
		t.Errorf("bad order error = %v, want ConfigError", err)
	}
	if _, _, err := runCmd(t, filepath.Join(home, "missing")); !projerrors.IsStartPathError(err) {
		t.Errorf("missing start error = %v, want StartPathError", err)
	}
	if _, _, err := runCmd(t, "--log-format", "xml", sub); !projerrors.IsConfigError(err) {
		t.Errorf("bad log format error = %v, want ConfigError", err)
	}
}

func TestRoot_ConfiguredPolicy(t *testing.T) {
	home := setupTest(t)
	writeFile(t, filepath.Join(home, ".config", "projroot", "config.toml"), `
criterion = "mine"

[[policies.mine]]
name = "version"
file = "VERSION"
`)
	proj := mkdir(t, home, "proj")
	writeFile(t, filepath.Join(proj, "VERSION"), "1.0.0\n")
	sub := mkdir(t, proj, "src")

	out, _, err := runCmd(t, "why", sub)
	if err != nil {
		t.Fatalf("why error = %v", err)
	}
	if !strings.Contains(out, proj) || !strings.Contains(out, "version") {
		t.Errorf("why = %q, want %s matched by version", out, proj)
	}
}

func TestWhy_JSON(t *testing.T) {
	home := setupTest(t)
	repo, sub := gitRepo(t, home)

	out, _, err := runCmd(t, "why", "-o", "json", sub)
	if err != nil {
		t.Fatalf("why error = %v", err)
	}
	for _, want := range []string{`"dir": "` + repo + `"`, `"name": "is_git_root"`, `"policy": "here"`} {
		if !strings.Contains(out, want) {
			t.Errorf("why -o json = %q, should contain %s", out, want)
		}
	}

	if _, _, err := runCmd(t, "why", "-o", "xml", sub); !projerrors.IsConfigError(err) {
		t.Errorf("why -o xml error = %v, want ConfigError", err)
	}
}

func TestVerboseLogging(t *testing.T) {
	home := setupTest(t)
	_, sub := gitRepo(t, home)

	_, stderr, err := runCmd(t, "-v", "--log-format", "json", sub)
	if err != nil {
		t.Fatalf("projroot error = %v", err)
	}
	if !strings.Contains(stderr, `"msg":"searching for root"`) {
		t.Errorf("stderr = %q, want debug search log", stderr)
	}

	_, stderr, _ = runCmd(t, sub)
	if stderr != "" {
		t.Errorf("stderr = %q, want no output at the default level", stderr)
	}
}

func TestFileCommand(t *testing.T) {
	home := setupTest(t)
	repo, sub := gitRepo(t, home)
	writeFile(t, filepath.Join(repo, "data", "raw.csv"), "a,b\n")

	out, _, err := runCmd(t, "file", "--start", sub, "data", "raw.csv")
	if err != nil {
		t.Fatalf("file error = %v", err)
	}
	if want := filepath.Join(repo, "data", "raw.csv") + "\n"; out != want {
		t.Errorf("file = %q, want %q", out, want)
	}

	out, _, err = runCmd(t, "file", "--start", sub, "--must-exist", "data", "raw.csv")
	if err != nil || !strings.HasSuffix(out, "raw.csv\n") {
		t.Errorf("file --must-exist = %q, %v", out, err)
	}

	if _, _, err := runCmd(t, "file", "--start", sub, "--must-exist", "missing.csv"); !projerrors.IsFileNotFound(err) {
		t.Errorf("file --must-exist error = %v, want FileNotFoundError", err)
	}

	// Absolute first component skips the search.
	empty := mkdir(t, home, "empty")
	out, _, err = runCmd(t, "file", "-c", "is_git_root", "--start", empty, "/abs", "x")
	if err != nil || out != "/abs/x\n" {
		t.Errorf("file /abs x = %q, %v", out, err)
	}

	if _, _, err := runCmd(t, "file", "--start", sub, "a", "/b"); !projerrors.IsInvalidPathError(err) {
		t.Errorf("file a /b error = %v, want InvalidPathError", err)
	}
}

func TestMetCommand(t *testing.T) {
	home := setupTest(t)
	repo, sub := gitRepo(t, home)
	writeFile(t, filepath.Join(repo, "go.mod"), "module example.com/repo\n")

	out, _, err := runCmd(t, "met", sub)
	if err != nil {
		t.Fatalf("met error = %v", err)
	}
	if out != "is_git_root\nis_go_module\n" {
		t.Errorf("met = %q, want is_git_root then is_go_module", out)
	}

	empty := mkdir(t, home, "empty")
	if _, _, err := runCmd(t, "met", "-c", "is_go_module", "--parent-limit", "0", empty); !projerrors.IsRootNotFound(err) {
		t.Errorf("met error = %v, want RootNotFoundError", err)
	}
}

func TestListCommand(t *testing.T) {
	setupTest(t)

	out, _, err := runCmd(t, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"NAME", "here", "py_here", "is_git_root", "builtin"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output should contain %q", want)
		}
	}

	out, _, err = runCmd(t, "list", "-o", "json", "r_here")
	if err != nil {
		t.Fatalf("list -o json error = %v", err)
	}
	if !strings.Contains(out, `"name": "r_here"`) || strings.Contains(out, `"name": "here"`) {
		t.Errorf("list -o json r_here = %q", out)
	}

	if _, _, err := runCmd(t, "list", "nope"); !projerrors.IsPolicyError(err) {
		t.Errorf("list nope error = %v, want PolicyError", err)
	}
}

func TestSetHereAndDrHere(t *testing.T) {
	home := setupTest(t)
	dir := mkdir(t, home, "analysis")
	sub := mkdir(t, dir, "figures")

	out, _, err := runCmd(t, "set-here", dir)
	if err != nil {
		t.Fatalf("set-here error = %v", err)
	}
	marker := filepath.Join(dir, ".here")
	if out != marker+"\n" {
		t.Errorf("set-here = %q, want %q", out, marker+"\n")
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("marker not created: %v", err)
	}

	out, _, err = runCmd(t, "dr-here", "--start", sub)
	if err != nil {
		t.Fatalf("dr-here error = %v", err)
	}
	if !strings.HasPrefix(out, "here() starts at "+dir+"\n") || !strings.Contains(out, "is_here") {
		t.Errorf("dr-here = %q", out)
	}
}

func TestSetHere_UUIDAndIAm(t *testing.T) {
	home := setupTest(t)
	dir := mkdir(t, home, "proj")
	sub := mkdir(t, dir, "nested")

	if _, _, err := runCmd(t, "set-here", "--uuid", dir); err != nil {
		t.Fatalf("set-here --uuid error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".here"))
	if err != nil {
		t.Fatal(err)
	}
	id := strings.TrimSpace(string(data))
	if len(id) != 36 {
		t.Fatalf("marker contents = %q, want a UUID", data)
	}

	out, _, err := runCmd(t, "i-am", "--start", sub, "--uuid", id, ".here")
	if err != nil {
		t.Fatalf("i-am error = %v", err)
	}
	if out != dir+"\n" {
		t.Errorf("i-am = %q, want %q", out, dir+"\n")
	}

	if _, _, err := runCmd(t, "i-am", "--start", sub, "--uuid", "not-the-id", ".here"); !projerrors.IsRootNotFound(err) {
		t.Errorf("i-am with the wrong id error = %v, want RootNotFoundError", err)
	}
}

func TestScanCommand(t *testing.T) {
	home := setupTest(t)
	src := mkdir(t, home, "src")
	mkdir(t, src, "a", ".git")
	writeFile(t, filepath.Join(src, "b", "go.mod"), "module example.com/b\n")
	mkdir(t, src, "c")

	out, _, err := runCmd(t, "scan", src)
	if err != nil {
		t.Fatalf("scan error = %v", err)
	}
	for _, want := range []string{filepath.Join(src, "a"), filepath.Join(src, "b"), "2 projects"} {
		if !strings.Contains(out, want) {
			t.Errorf("scan output %q should contain %q", out, want)
		}
	}

	out, _, err = runCmd(t, "scan", "-c", "is_git_root", "-o", "json", src)
	if err != nil {
		t.Fatalf("scan -o json error = %v", err)
	}
	if !strings.Contains(out, `"matched_by": "is_git_root"`) || strings.Contains(out, filepath.Join(src, "b")) {
		t.Errorf("scan -c is_git_root -o json = %q", out)
	}
}

func TestConfigCommands(t *testing.T) {
	home := setupTest(t)
	path := filepath.Join(home, "projroot.toml")

	out, _, err := runCmd(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("config init = %q, should name %s", out, path)
	}
	if _, _, err := runCmd(t, "config", "init", path); err == nil {
		t.Error("config init overwrote an existing file without --force")
	}

	out, _, err = runCmd(t, "-C", path, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "criterion = 'here'") {
		t.Errorf("config show = %q", out)
	}
}

func TestConfigInit_ReplacesInvalidConfig(t *testing.T) {
	home := setupTest(t)
	path := filepath.Join(home, "bad.toml")
	writeFile(t, path, `order = "sideways"`)

	if _, _, err := runCmd(t, "-C", path, "list"); !projerrors.IsConfigError(err) {
		t.Fatalf("list with invalid config error = %v, want ConfigError", err)
	}
	if _, _, err := runCmd(t, "-C", path, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force error = %v", err)
	}
	if _, _, err := runCmd(t, "-C", path, "list"); err != nil {
		t.Errorf("list after config init error = %v", err)
	}
}
