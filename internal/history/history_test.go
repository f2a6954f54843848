package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t    *testing.T
	dir  string
	wt   *git.Worktree
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{
		t:    t,
		dir:  dir,
		wt:   wt,
		when: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// commit writes content to name (or removes it when content is nil) and commits.
func (r *testRepo) commit(name string, content *string, author string) {
	r.t.Helper()
	path := filepath.Join(r.dir, name)
	if content == nil {
		_, err := r.wt.Remove(name)
		require.NoError(r.t, err)
	} else {
		require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(r.t, os.WriteFile(path, []byte(*content), 0o644))
		_, err := r.wt.Add(name)
		require.NoError(r.t, err)
	}

	r.when = r.when.Add(time.Hour)
	_, err := r.wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: author, Email: author + "@example.com", When: r.when},
	})
	require.NoError(r.t, err)
}

func str(s string) *string { return &s }

func TestLoad(t *testing.T) {
	r := newTestRepo(t)
	r.commit("src/main.go", str("package main\n"), "alice")
	r.commit("README.md", str("# readme\n"), "bob")
	r.commit("src/main.go", str("package main\n\nfunc main() {}\n"), "bob")
	r.commit("src/main.go", str("package main\n\nfunc main() { println(1) }\n"), "carol")

	snaps, err := Load(context.Background(), r.dir, "src/main.go", 0)
	require.NoError(t, err)

	require.Len(t, snaps, 3, "commits that do not touch the file are skipped")
	for i, s := range snaps {
		assert.Equal(t, i+1, s.Version)
		assert.Len(t, s.ID, 7)
	}
	assert.Equal(t, "package main\n", snaps[0].Code)
	assert.Equal(t, "alice@example.com", snaps[0].Author)
	assert.Equal(t, "carol@example.com", snaps[2].Author)
	assert.True(t, snaps[0].Timestamp.Before(snaps[2].Timestamp))
}

func TestLoad_Limit(t *testing.T) {
	r := newTestRepo(t)
	for _, c := range []string{"v1", "v2", "v3", "v4"} {
		r.commit("a.txt", str(c), "alice")
	}

	snaps, err := Load(context.Background(), r.dir, "a.txt", 2)
	require.NoError(t, err)

	require.Len(t, snaps, 2)
	assert.Equal(t, "v3", snaps[0].Code, "limit keeps the most recent revisions")
	assert.Equal(t, "v4", snaps[1].Code)
	assert.Equal(t, 1, snaps[0].Version)
}

func TestLoad_AbsolutePathAndDeletion(t *testing.T) {
	r := newTestRepo(t)
	r.commit("a.txt", str("one"), "alice")
	r.commit("a.txt", nil, "alice")
	r.commit("a.txt", str("two"), "alice")

	snaps, err := Load(context.Background(), r.dir, filepath.Join(r.dir, "a.txt"), 0)
	require.NoError(t, err)

	require.Len(t, snaps, 2)
	assert.Equal(t, "one", snaps[0].Code)
	assert.Equal(t, "two", snaps[1].Code)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("not a repository", func(t *testing.T) {
		_, err := Load(context.Background(), t.TempDir(), "a.txt", 0)
		assert.ErrorIs(t, err, ErrNotRepository)
	})

	t.Run("unknown file", func(t *testing.T) {
		r := newTestRepo(t)
		r.commit("a.txt", str("x"), "alice")

		_, err := Load(context.Background(), r.dir, "missing.txt", 0)
		assert.ErrorIs(t, err, ErrNoHistory)
	})

	t.Run("no commits", func(t *testing.T) {
		r := newTestRepo(t)

		_, err := Load(context.Background(), r.dir, "a.txt", 0)
		assert.ErrorIs(t, err, ErrNoHistory)
	})

	t.Run("outside repository", func(t *testing.T) {
		r := newTestRepo(t)
		r.commit("a.txt", str("x"), "alice")

		_, err := Load(context.Background(), r.dir, "../elsewhere.txt", 0)
		assert.Error(t, err)
	})

	t.Run("canceled", func(t *testing.T) {
		r := newTestRepo(t)
		r.commit("a.txt", str("x"), "alice")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Load(ctx, r.dir, "a.txt", 0)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCurrentBranch(t *testing.T) {
	assert.Empty(t, CurrentBranch(t.TempDir()))

	r := newTestRepo(t)
	assert.Empty(t, CurrentBranch(r.dir), "unborn HEAD has no branch")

	r.commit("a.txt", str("x"), "alice")
	assert.NotEmpty(t, CurrentBranch(r.dir))
}
