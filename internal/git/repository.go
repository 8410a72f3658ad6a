package git

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository is a handle to a repository on disk. It holds no live go-git
// state: every query opens its own handle, so methods are safe to call from
// concurrent goroutines.
type Repository struct {
	path string
	open func() (*gitlib.Repository, error)
}

// Open validates that path (or one of its parents) is a git repository.
func Open(path string) (*Repository, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}
	repo, err := plainOpen(abs)
	if err != nil {
		if errors.Is(err, gitlib.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("open repository %s: %w", path, ErrNotFound)
		}
		return nil, ioError("open repository "+path, err)
	}
	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	slog.Debug("repository opened", slog.String("root", root))
	return &Repository{
		path: root,
		open: func() (*gitlib.Repository, error) { return plainOpen(root) },
	}, nil
}

func plainOpen(path string) (*gitlib.Repository, error) {
	return gitlib.PlainOpenWithOptions(path, &gitlib.PlainOpenOptions{DetectDotGit: true})
}

// Path returns the worktree root.
func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) handle() (*gitlib.Repository, error) {
	if r == nil || r.open == nil {
		return nil, fmt.Errorf("repository not initialized: %w", ErrNotFound)
	}
	repo, err := r.open()
	if err != nil {
		if errors.Is(err, gitlib.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("open repository %s: %w", r.path, ErrNotFound)
		}
		return nil, ioError("open repository "+r.path, err)
	}
	return repo, nil
}

// Head returns the checked out branch name, the short hash for a detached
// HEAD, or the branch HEAD will point at in an empty repository.
func (r *Repository) Head() (string, error) {
	repo, err := r.handle()
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err == nil {
		if ref.Name().IsBranch() {
			return ref.Name().Short(), nil
		}
		return shortHash(ref.Hash()), nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", ioError("read HEAD", err)
	}
	sym, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil || sym.Type() != plumbing.SymbolicReference {
		return "HEAD", nil
	}
	return sym.Target().Short(), nil
}

func shortHash(h plumbing.Hash) string {
	s := h.String()
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
