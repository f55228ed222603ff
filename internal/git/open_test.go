package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a repository with one commit on "main" and returns
// its directory.
func initTestRepo(t *testing.T) (string, *gitc.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gitc.PlainInitWithOptions(dir, &gitc.PlainInitOptions{
		InitOptions: gitc.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName("main"),
		},
	})
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test"), 0644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &gitc.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@test.com"},
	})
	require.NoError(t, err)

	return dir, repo
}

func TestOpen_FromSubdirectory(t *testing.T) {
	t.Parallel()

	dir, _ := initTestRepo(t)
	sub := filepath.Join(dir, "src", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0755))

	r, err := Open(sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(r.Root())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpen_NotARepository(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotGitRepo))
}

func TestVerify(t *testing.T) {
	t.Parallel()

	dir, repo := initTestRepo(t)
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.com/repo.git"},
	})
	require.NoError(t, err)

	r, err := Open(dir)
	require.NoError(t, err)

	assert.NoError(t, r.Verify("origin", "main"))
	assert.ErrorIs(t, r.Verify("upstream", "main"), ErrRemoteNotFound)
	assert.ErrorIs(t, r.Verify("origin", "trunk"), ErrBranchNotFound)
}

func TestVerify_RemoteTrackingBranch(t *testing.T) {
	t.Parallel()

	dir, repo := initTestRepo(t)
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.com/repo.git"},
	})
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", "release"), head.Hash()),
	))

	r, err := Open(dir)
	require.NoError(t, err)
	assert.NoError(t, r.Verify("origin", "release"))
}

func TestVerify_WithoutDiscovery(t *testing.T) {
	t.Parallel()

	r := New(t.TempDir())
	assert.NoError(t, r.Verify("origin", "main"))
}
