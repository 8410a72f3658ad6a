package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// LineKind classifies a line of a rendered diff.
type LineKind int

const (
	LineContext LineKind = iota
	LineAddition
	LineDeletion
	LineFileHeader
	LineHunkHeader
)

// FileStatus describes what happened to a file in a diff.
type FileStatus int

const (
	FileModified FileStatus = iota
	FileAdded
	FileDeleted
	FileRenamed
	FileCopied
)

func (s FileStatus) String() string {
	switch s {
	case FileAdded:
		return "added"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	case FileCopied:
		return "copied"
	default:
		return "modified"
	}
}

// Line is a single diff line. OldNo and NewNo are 1-based; zero means the
// line does not exist on that side.
type Line struct {
	Kind    LineKind
	Content string
	OldNo   int
	NewNo   int
}

type Hunk struct {
	Header   string
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// FileDiff is the change set of one file. An empty OldPath means the file was
// added, an empty NewPath that it was deleted. Headers holds the "---" and
// "+++" lines of text diffs.
type FileDiff struct {
	OldPath   string
	NewPath   string
	Status    FileStatus
	Headers   []Line
	Hunks     []Hunk
	Additions int
	Deletions int
	Binary    bool
}

// Path returns the most relevant path for display.
func (f FileDiff) Path() string {
	switch {
	case f.NewPath != "":
		return f.NewPath
	case f.OldPath != "":
		return f.OldPath
	default:
		return "<unknown>"
	}
}

// StatsSummary renders the per-file counters, e.g. "+10, -5".
func (f FileDiff) StatsSummary() string {
	return fmt.Sprintf("+%d, -%d", f.Additions, f.Deletions)
}

// Diff is an immutable change set.
type Diff struct {
	Files []FileDiff
}

// TotalStats sums additions and deletions across files.
func (d *Diff) TotalStats() (additions, deletions int) {
	if d == nil {
		return 0, 0
	}
	for _, f := range d.Files {
		additions += f.Additions
		deletions += f.Deletions
	}
	return additions, deletions
}

// DiffKind selects what a DiffRequest compares.
type DiffKind int

const (
	// DiffCommit compares a commit with its first parent.
	DiffCommit DiffKind = iota
	// DiffStaged compares HEAD with the index.
	DiffStaged
	// DiffUnstaged compares the index with the worktree.
	DiffUnstaged
)

// DiffRequest identifies the diff a view wants. Path optionally narrows
// staged and unstaged diffs to one file.
type DiffRequest struct {
	Kind    DiffKind
	Commit  string
	Summary string
	Path    string
}

// LoadDiff builds the diff described by req.
func (r *Repository) LoadDiff(req DiffRequest) (*Diff, error) {
	switch req.Kind {
	case DiffCommit:
		return r.CommitDiff(req.Commit)
	case DiffStaged:
		return r.StagedDiff(req.Path)
	case DiffUnstaged:
		return r.UnstagedDiff(req.Path)
	default:
		return nil, fmt.Errorf("unknown diff kind %d", req.Kind)
	}
}

// CommitDiff compares commit id with its first parent, or with the empty
// tree for a root commit.
func (r *Repository) CommitDiff(id string) (*Diff, error) {
	repo, err := r.handle()
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("commit %s: %w", id, ErrNotFound)
		}
		return nil, ioError("read commit "+id, err)
	}
	currentTree, err := commit.Tree()
	if err != nil {
		return nil, ioError("read tree", err)
	}
	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, ioError("read parent", err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, ioError("read parent tree", err)
		}
	}
	changes, err := object.DiffTreeWithOptions(context.Background(), parentTree, currentTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, ioError("diff trees", err)
	}
	d := &Diff{}
	for _, change := range changes {
		f, err := commitFileDiff(change)
		if err != nil {
			return nil, ioError("diff "+f.Path(), err)
		}
		d.Files = append(d.Files, f)
	}
	return d, nil
}
