package command

import (
	"bytes"
	"errors"
	"log/slog"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_CapturesStreams(t *testing.T) {
	requireShell(t)

	out, err := NewExecRunner().Run(t.TempDir(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.Equal(t, "out\n", out.Stdout)
	assert.Equal(t, "err\n", out.Stderr)
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	requireShell(t)

	out, err := NewExecRunner().Run(t.TempDir(), "sh", "-c", "echo boom >&2; exit 3")
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "boom", out.Diagnostic())
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(t.TempDir(), "automerge-definitely-not-a-binary")
	require.Error(t, err)

	var startErr *StartError
	require.True(t, errors.As(err, &startErr))
	assert.Equal(t, "automerge-definitely-not-a-binary", startErr.Command)
}

func TestOutcomeDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		out  Outcome
		want string
	}{
		{"stderr wins", Outcome{Stdout: "o", Stderr: " e \n"}, "e"},
		{"falls back to stdout", Outcome{Stdout: "only stdout\n"}, "only stdout"},
		{"empty", Outcome{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.out.Diagnostic())
		})
	}
}

type stubRunner struct {
	out Outcome
	err error
}

func (s stubRunner) Run(string, string, ...string) (Outcome, error) {
	return s.out, s.err
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := WithLogging(stubRunner{out: Outcome{ExitCode: 1, Stderr: "fatal: nope"}}, logger)
	out, err := r.Run("/repo", "git", "checkout", "main")
	require.NoError(t, err)
	assert.Equal(t, 1, out.ExitCode)

	logged := buf.String()
	assert.Contains(t, logged, `cmd="git checkout main"`)
	assert.Contains(t, logged, "exit_code=1")
	assert.Contains(t, logged, `stderr="fatal: nope"`)
}

func TestString(t *testing.T) {
	assert.Equal(t, "git", String("git"))
	assert.Equal(t, "git stash pop", String("git", "stash", "pop"))
}
