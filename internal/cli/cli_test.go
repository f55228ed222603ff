package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
	"github.com/randalmurphal/automerge/internal/testutil"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the command tree of a with isolated HOME and scripted stdin.
func execute(t *testing.T, a *app, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestMerge_SuccessRestoresStash(t *testing.T) {
	repo := testutil.SetupRepoWithRemote(t)
	repo.CreateFeatureBranch("feature-x", "feature.txt", "hello\n")
	repo.WriteFile("README.md", "# work in progress\n")
	t.Chdir(repo.RootDir)

	res := execute(t, newApp(), "y\n")

	require.NoError(t, res.err, "stdout:\n%s\nstderr:\n%s", res.stdout, res.stderr)
	assert.Equal(t, "feature-x", repo.CurrentBranch())
	assert.Equal(t, "# work in progress\n", repo.ReadFile("README.md"))
	assert.Equal(t, 0, repo.StashCount())
	assert.Contains(t, repo.RemoteLog("main"), "Add feature.txt")
	assert.Contains(t, res.stdout, "feature-x has been merged into main")
	assert.Contains(t, res.stdout, "Total time: ")
}

func TestMerge_QuietPrintsOnlyFailures(t *testing.T) {
	repo := testutil.SetupRepoWithRemote(t)
	repo.CreateFeatureBranch("feature-x", "feature.txt", "hello\n")
	t.Chdir(repo.RootDir)

	res := execute(t, newApp(), "", "--quiet")

	require.NoError(t, res.err, "stderr:\n%s", res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, repo.RemoteLog("main"), "Add feature.txt")

	repo.Git("checkout", "main")
	res = execute(t, newApp(), "", "-q")

	assert.Equal(t, 1, ExitCode(res.err))
	assert.Contains(t, res.stdout, "you're already on the main branch")
}

func TestMerge_PullFailureRestoresStash(t *testing.T) {
	repo := testutil.SetupRepoWithRemote(t)
	repo.CreateFeatureBranch("feature-x", "feature.txt", "hello\n")
	repo.WriteFile("README.md", "# work in progress\n")
	repo.Git("remote", "set-url", "origin", filepath.Join(t.TempDir(), "missing.git"))
	t.Chdir(repo.RootDir)

	res := execute(t, newApp(), "y\n")

	require.Error(t, res.err)
	assert.Equal(t, 1, ExitCode(res.err))
	assert.Contains(t, res.stdout, "error pulling latest changes")
	assert.Equal(t, 0, repo.StashCount())
	assert.Equal(t, "# work in progress\n", repo.ReadFile("README.md"))
	assert.Equal(t, "main", repo.CurrentBranch(), "rollback does not switch branches")
	assert.Equal(t, []string{"Initial commit"}, repo.RemoteLog("main"))
}

func TestMerge_DeclinedStash(t *testing.T) {
	repo := testutil.SetupRepoWithRemote(t)
	repo.CreateFeatureBranch("feature-x", "feature.txt", "hello\n")
	repo.WriteFile("README.md", "# work in progress\n")
	t.Chdir(repo.RootDir)

	res := execute(t, newApp(), "n\n")

	assert.Equal(t, 1, ExitCode(res.err))
	assert.Equal(t, "feature-x", repo.CurrentBranch())
	assert.Equal(t, 0, repo.StashCount())
	assert.Contains(t, res.stdout, "Please commit or stash your changes before merging")
}

func TestMerge_OnTargetBranch(t *testing.T) {
	repo := testutil.SetupRepoWithRemote(t)
	t.Chdir(repo.RootDir)

	res := execute(t, newApp(), "")

	assert.Equal(t, 1, ExitCode(res.err))
	assert.Contains(t, res.stdout, "you're already on the main branch")
}

func TestMerge_NotARepository(t *testing.T) {
	t.Chdir(t.TempDir())

	res := execute(t, newApp(), "")

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, &wferrors.WorkflowError{Code: wferrors.CodeNotGitRepo}))
	assert.Equal(t, 1, ExitCode(res.err))
}

func TestMerge_MissingRemote(t *testing.T) {
	repo := testutil.SetupRepoWithRemote(t)
	repo.CreateFeatureBranch("feature-x", "feature.txt", "hello\n")
	repo.Git("remote", "remove", "origin")
	t.Chdir(repo.RootDir)

	res := execute(t, newApp(), "")

	require.Error(t, res.err)
	wfErr := wferrors.AsWorkflowError(res.err)
	require.NotNil(t, wfErr)
	assert.Equal(t, wferrors.CodeRepoPrecondition, wfErr.Code)
	assert.Contains(t, wfErr.Why, `remote "origin" is not configured`)
	assert.Equal(t, "feature-x", repo.CurrentBranch())
}

func TestMerge_RejectsArguments(t *testing.T) {
	res := execute(t, newApp(), "", "feature-x")
	require.Error(t, res.err)
}

func TestConfigShow(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTOMERGE_TARGET_BRANCH", "develop")

	res := execute(t, newApp(), "", "config", "show")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "target_branch: develop")
	assert.Contains(t, res.stdout, "harness_infix: _tb")
}

func TestConfigShow_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	testutil.WriteYAML(t, path, map[string]any{"remote": "upstream"})

	res := execute(t, newApp(), "", "--config", path, "config", "show")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "remote: upstream")
}

func TestInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTOMERGE_LOG_FORMAT", "xml")

	res := execute(t, newApp(), "", "config", "show")

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, &wferrors.WorkflowError{Code: wferrors.CodeConfigInvalid}))
}

func TestVersion(t *testing.T) {
	t.Setenv("AUTOMERGE_PROMPT", "bogus")

	res := execute(t, newApp(), "", "version")

	require.NoError(t, res.err)
	assert.Equal(t, "automerge version "+Version+"\n", res.stdout)
}

func writeVHDL(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- "+n), 0644))
	}
}

func TestSim_PassWritesReport(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	writeVHDL(t, dir, "adder.vhd", "adder_tb.vhd")

	fake := testutil.NewFakeRunner()
	fake.Stdout([]string{"ghdl", "-r", "--std=08", "adder_tb", "--vcd=wave.vcd"},
		"::PASS::ALL_TESTS\n::DONE::SIMULATION_DONE\n")
	a := newApp()
	a.runner = fake

	report := filepath.Join(t.TempDir(), "report.yaml")
	res := execute(t, a, "", "sim", dir, "--report", report)

	require.NoError(t, res.err)
	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "verdict: pass")
	assert.Contains(t, string(data), "unit: adder_tb")
	assert.Contains(t, string(data), "duration: ")
	assert.Contains(t, res.stdout, "Total time: ")
}

func TestSim_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   int
	}{
		{"fail", "::FAIL:: carry\n::DONE::SIMULATION_DONE\n", 1},
		{"partial", "::DONE::SIMULATION_DONE\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			dir := t.TempDir()
			writeVHDL(t, dir, "adder_tb.vhd")

			fake := testutil.NewFakeRunner()
			fake.Stdout([]string{"ghdl", "-r", "--std=08", "adder_tb", "--vcd=wave.vcd"}, tt.stdout)
			a := newApp()
			a.runner = fake

			res := execute(t, a, "", "sim", dir)

			assert.Equal(t, tt.want, ExitCode(res.err))
		})
	}
}

func TestSim_NoHarness(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	writeVHDL(t, dir, "adder.vhd")
	a := newApp()
	a.runner = testutil.NewFakeRunner()

	res := execute(t, a, "", "sim", dir)

	assert.Equal(t, 1, ExitCode(res.err))
	assert.True(t, errors.Is(res.err, &wferrors.WorkflowError{Code: wferrors.CodeSimNoHarness}))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 2, ExitCode(&ExitError{Code: 2}))
	assert.Equal(t, 7, ExitCode(&ExitError{Code: 7, Err: errors.New("sim")}))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, wferrors.ErrPush("rejected").WithCause(errors.New("exit 1")), true)

	out := buf.String()
	assert.Contains(t, out, "Error: error pushing changes")
	assert.Contains(t, out, "Why: rejected")
	assert.Contains(t, out, "Code: PUSH")
	assert.Contains(t, out, "Cause: exit 1")

	buf.Reset()
	PrintError(&buf, errors.New("plain"), false)
	assert.Equal(t, "Error: plain\n", buf.String())
}
