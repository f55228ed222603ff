package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
)

func TestStep(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, false)

	d.Step("📌", "Switching to main branch...")

	if got := buf.String(); got != "\n📌 Switching to main branch...\n" {
		t.Errorf("Step output = %q", got)
	}
}

func TestQuietSuppressesProgress(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, true)

	d.Step("📌", "Switching to main branch...")
	d.Info("info")
	d.Warning("careful")
	d.Success("✅", "done")
	d.Changes(" M a.txt\n", "diff")
	d.Output("stdout", "hello\n")

	if buf.Len() != 0 {
		t.Errorf("quiet display wrote %q", buf.String())
	}
}

func TestFailAlwaysShown(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, true)

	d.Fail(wferrors.ErrPush("remote rejected"))

	if got := buf.String(); got != "❌ Error: error pushing changes: remote rejected\n" {
		t.Errorf("Fail output = %q", got)
	}
}

func TestFail_WithFix(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, false)

	d.Fail(wferrors.ErrMergeConflict("origin", "main", ""))

	out := buf.String()
	if !strings.HasPrefix(out, "❌ Error: merge conflicts detected\n") {
		t.Errorf("unexpected headline in %q", out)
	}
	if !strings.Contains(out, "4. Run: git push origin main") {
		t.Errorf("missing resolution steps in %q", out)
	}
}

func TestFail_PlainError(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, false)

	d.Fail(errors.New("boom"))

	if got := buf.String(); got != "❌ Error: boom\n" {
		t.Errorf("Fail output = %q", got)
	}
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, true)

	d.Warn(wferrors.WarnStashRestore("conflict in a.txt"))

	want := "⚠️  Warning: could not restore changes: conflict in a.txt\n" +
		"Your changes are still in the stash. Run 'git stash pop' to restore them.\n"
	if got := buf.String(); got != want {
		t.Errorf("Warn output = %q, want %q", got, want)
	}
}

func TestChanges(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, false)

	d.Changes(" M README.md\n", "")

	out := buf.String()
	if !strings.Contains(out, "📝 Current changes:") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "Status:\n M README.md\n") {
		t.Errorf("missing status in %q", out)
	}
	if strings.Contains(out, "Diff:") {
		t.Errorf("empty diff should be omitted: %q", out)
	}
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, false)

	d.Output("stdout", "line one")
	d.Output("stderr", "   \n")

	if got := buf.String(); got != "stdout:\nline one\n" {
		t.Errorf("Output = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3661 * time.Second, "1h1m1s"},
		{1500 * time.Millisecond, "2s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}
