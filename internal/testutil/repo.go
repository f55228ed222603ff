package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestRepo is a temporary working tree cloned from a temporary bare remote.
type TestRepo struct {
	t         *testing.T
	RootDir   string
	RemoteDir string
}

// RequireGit skips the test when the git binary is not available.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// SetupRepoWithRemote creates a bare "origin" remote and a working tree on
// branch main with one pushed commit. Both are removed when the test ends.
func SetupRepoWithRemote(t *testing.T) *TestRepo {
	t.Helper()
	RequireGit(t)

	base := t.TempDir()
	remoteDir := filepath.Join(base, "remote.git")
	rootDir := filepath.Join(base, "work")

	runGit(t, base, "init", "--bare", "--initial-branch=main", remoteDir)
	runGit(t, base, "init", "--initial-branch=main", rootDir)

	r := &TestRepo{t: t, RootDir: rootDir, RemoteDir: remoteDir}

	for _, cfg := range [][]string{
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
		{"config", "pull.rebase", "false"},
	} {
		r.Git(cfg...)
	}

	r.WriteFile("README.md", "# Test Project\n")
	r.Commit("Initial commit")
	r.Git("remote", "add", "origin", remoteDir)
	r.Git("push", "-u", "origin", "main")

	return r
}

// Git runs git in the working tree and fails the test on error.
func (r *TestRepo) Git(args ...string) string {
	r.t.Helper()
	return runGit(r.t, r.RootDir, args...)
}

// WriteFile writes content to a path relative to the working tree.
func (r *TestRepo) WriteFile(rel, content string) {
	r.t.Helper()
	path := filepath.Join(r.RootDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.t.Fatalf("create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.t.Fatalf("write %s: %v", rel, err)
	}
}

// ReadFile reads a path relative to the working tree.
func (r *TestRepo) ReadFile(rel string) string {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.RootDir, rel))
	if err != nil {
		r.t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// Commit stages everything and commits it.
func (r *TestRepo) Commit(message string) {
	r.t.Helper()
	r.Git("add", "-A")
	r.Git("commit", "-m", message)
}

// CreateFeatureBranch checks out a new branch with one committed file.
func (r *TestRepo) CreateFeatureBranch(branch, file, content string) {
	r.t.Helper()
	r.Git("checkout", "-b", branch)
	r.WriteFile(file, content)
	r.Commit("Add " + file)
}

// CurrentBranch returns the checked-out branch.
func (r *TestRepo) CurrentBranch() string {
	r.t.Helper()
	return strings.TrimSpace(r.Git("branch", "--show-current"))
}

// RemoteLog returns the commit subjects of branch on the bare remote.
func (r *TestRepo) RemoteLog(branch string) []string {
	r.t.Helper()
	out := runGit(r.t, r.RemoteDir, "log", "--format=%s", branch)
	return strings.Split(strings.TrimSpace(out), "\n")
}

// StashCount returns the number of stash entries.
func (r *TestRepo) StashCount() int {
	r.t.Helper()
	out := strings.TrimSpace(r.Git("stash", "list"))
	if out == "" {
		return 0
	}
	return len(strings.Split(out, "\n"))
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return string(output)
}

// WriteYAML marshals v and writes it to path.
func WriteYAML(t *testing.T, path string, v any) {
	t.Helper()
	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
