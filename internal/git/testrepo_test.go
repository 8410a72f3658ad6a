package git

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// testRepo is an in-memory repository with a worktree. Commits get
// increasing timestamps so history order is deterministic.
type testRepo struct {
	t    *testing.T
	repo *gitlib.Repository
	wt   *gitlib.Worktree
	fs   billy.Filesystem
	when time.Time
}

func newTestRepo(t *testing.T) (*Repository, *testRepo) {
	t.Helper()
	fs := memfs.New()
	repo, err := gitlib.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	tr := &testRepo{
		t:    t,
		repo: repo,
		wt:   wt,
		fs:   fs,
		when: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	r := &Repository{
		path: "/",
		open: func() (*gitlib.Repository, error) { return repo, nil },
	}
	return r, tr
}

func (tr *testRepo) write(path, content string) {
	tr.t.Helper()
	require.NoError(tr.t, util.WriteFile(tr.fs, path, []byte(content), 0o644))
}

func (tr *testRepo) add(path string) {
	tr.t.Helper()
	_, err := tr.wt.Add(path)
	require.NoError(tr.t, err)
}

func (tr *testRepo) commit(msg string, files map[string]string) plumbing.Hash {
	tr.t.Helper()
	for path, content := range files {
		tr.write(path, content)
		tr.add(path)
	}
	tr.when = tr.when.Add(time.Hour)
	hash, err := tr.wt.Commit(msg, &gitlib.CommitOptions{
		Author:            &object.Signature{Name: "Test User", Email: "test@example.com", When: tr.when},
		AllowEmptyCommits: true,
	})
	require.NoError(tr.t, err)
	return hash
}
