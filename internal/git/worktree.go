package git

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	gitindex "github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// StagedDiff compares HEAD with the index, optionally for a single path.
func (r *Repository) StagedDiff(path string) (*Diff, error) {
	return r.worktreeDiff(true, path)
}

// UnstagedDiff compares the index with the worktree, optionally for a single
// path. Untracked files are only included when asked for by path.
func (r *Repository) UnstagedDiff(path string) (*Diff, error) {
	return r.worktreeDiff(false, path)
}

func (r *Repository) worktreeDiff(staged bool, only string) (*Diff, error) {
	if !utf8.ValidString(only) {
		return nil, fmt.Errorf("diff path %q: %w", only, ErrInvalidEncoding)
	}
	repo, err := r.handle()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ioError("open worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, ioError("read status", err)
	}
	headTree, err := headTree(repo)
	if err != nil {
		return nil, err
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, ioError("read index", err)
	}
	var paths []string
	for path, st := range status {
		if only != "" && path != only {
			continue
		}
		if includeChange(st, staged, only != "") {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)
	d := &Diff{}
	for _, path := range paths {
		var from, to *object.File
		if staged {
			if from, err = fileFromTree(headTree, path); err == nil {
				to, err = fileFromIndex(idx, repo, path)
			}
		} else {
			if from, err = fileFromIndex(idx, repo, path); err == nil {
				to, err = fileFromWorktree(wt.Filesystem, path)
			}
		}
		if err != nil {
			return nil, ioError("read "+path, err)
		}
		if from == nil && to == nil {
			continue
		}
		f, err := localFileDiff(path, from, to)
		if err != nil {
			return nil, ioError("diff "+path, err)
		}
		d.Files = append(d.Files, f)
	}
	return d, nil
}

func includeChange(st *gitlib.FileStatus, staged, explicit bool) bool {
	if staged {
		return st.Staging != gitlib.Unmodified && st.Staging != gitlib.Untracked
	}
	if st.Worktree == gitlib.Untracked {
		return explicit
	}
	return st.Worktree != gitlib.Unmodified
}

func headTree(repo *gitlib.Repository) (*object.Tree, error) {
	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, ioError("read HEAD", err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, ioError("read HEAD commit", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, ioError("read HEAD tree", err)
	}
	return tree, nil
}

func fileFromTree(tree *object.Tree, path string) (*object.File, error) {
	if tree == nil {
		return nil, nil
	}
	f, err := tree.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func fileFromIndex(idx *gitindex.Index, repo *gitlib.Repository, path string) (*object.File, error) {
	if idx == nil || repo == nil {
		return nil, nil
	}
	entry, err := idx.Entry(path)
	if errors.Is(err, gitindex.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	blob, err := object.GetBlob(repo.Storer, entry.Hash)
	if err != nil {
		return nil, err
	}
	return object.NewFile(entry.Name, entry.Mode, blob), nil
}

func fileFromWorktree(fs billy.Filesystem, path string) (*object.File, error) {
	info, err := fs.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	mem := &plumbing.MemoryObject{}
	mem.SetType(plumbing.BlobObject)
	if _, err := mem.Write(data); err != nil {
		return nil, err
	}
	blob, err := object.DecodeBlob(mem)
	if err != nil {
		return nil, err
	}
	mode := filemode.Regular
	if m, err := filemode.NewFromOSFileMode(info.Mode()); err == nil {
		mode = m
	}
	return object.NewFile(path, mode, blob), nil
}
