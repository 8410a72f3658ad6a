package git

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"unicode/utf8"

	gitlib "github.com/go-git/go-git/v5"
	gitindex "github.com/go-git/go-git/v5/plumbing/format/index"
)

// EntryKind is the state of one path in a status snapshot.
type EntryKind int

const (
	IndexNew EntryKind = iota
	IndexModified
	IndexDeleted
	IndexRenamed
	IndexTypeChange
	WorktreeNew
	WorktreeModified
	WorktreeDeleted
	WorktreeRenamed
	WorktreeTypeChange
	Conflicted
)

// ShortCode returns the two column code used by git status --short.
func (k EntryKind) ShortCode() string {
	switch k {
	case IndexNew:
		return "A "
	case IndexModified:
		return "M "
	case IndexDeleted:
		return "D "
	case IndexRenamed:
		return "R "
	case IndexTypeChange:
		return "T "
	case WorktreeNew:
		return "??"
	case WorktreeModified:
		return " M"
	case WorktreeDeleted:
		return " D"
	case WorktreeRenamed:
		return " R"
	case WorktreeTypeChange:
		return " T"
	case Conflicted:
		return "UU"
	default:
		return "  "
	}
}

func (k EntryKind) Description() string {
	switch k {
	case IndexNew:
		return "new file"
	case IndexModified, WorktreeModified:
		return "modified"
	case IndexDeleted, WorktreeDeleted:
		return "deleted"
	case IndexRenamed, WorktreeRenamed:
		return "renamed"
	case IndexTypeChange, WorktreeTypeChange:
		return "typechange"
	case WorktreeNew:
		return "untracked"
	case Conflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

type StatusEntry struct {
	Path string
	Kind EntryKind
}

// Status is a snapshot of the worktree, partitioned the way git status
// presents it. A path may appear in both Staged and Unstaged.
type Status struct {
	Staged     []StatusEntry
	Unstaged   []StatusEntry
	Untracked  []StatusEntry
	Conflicted []StatusEntry
}

func (s *Status) TotalCount() int {
	if s == nil {
		return 0
	}
	return len(s.Staged) + len(s.Unstaged) + len(s.Untracked) + len(s.Conflicted)
}

func (s *Status) HasChanges() bool {
	return s.TotalCount() > 0
}

// LoadStatus reads a fresh status snapshot.
func (r *Repository) LoadStatus() (*Status, error) {
	repo, err := r.handle()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ioError("open worktree", err)
	}
	fileStatus, err := wt.Status()
	if err != nil {
		return nil, ioError("read status", err)
	}
	paths := make([]string, 0, len(fileStatus))
	for path := range fileStatus {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	res := &Status{}
	for _, path := range paths {
		st := fileStatus[path]
		if st.Staging == gitlib.UpdatedButUnmerged || st.Worktree == gitlib.UpdatedButUnmerged {
			res.Conflicted = append(res.Conflicted, StatusEntry{Path: path, Kind: Conflicted})
			continue
		}
		if st.Worktree == gitlib.Untracked {
			res.Untracked = append(res.Untracked, StatusEntry{Path: path, Kind: WorktreeNew})
			continue
		}
		if kind, ok := stagedKind(st.Staging); ok {
			res.Staged = append(res.Staged, StatusEntry{Path: path, Kind: kind})
		}
		if kind, ok := unstagedKind(st.Worktree); ok {
			res.Unstaged = append(res.Unstaged, StatusEntry{Path: path, Kind: kind})
		}
	}
	return res, nil
}

func stagedKind(code gitlib.StatusCode) (EntryKind, bool) {
	switch code {
	case gitlib.Added, gitlib.Copied:
		return IndexNew, true
	case gitlib.Modified:
		return IndexModified, true
	case gitlib.Deleted:
		return IndexDeleted, true
	case gitlib.Renamed:
		return IndexRenamed, true
	default:
		return 0, false
	}
}

func unstagedKind(code gitlib.StatusCode) (EntryKind, bool) {
	switch code {
	case gitlib.Modified:
		return WorktreeModified, true
	case gitlib.Deleted:
		return WorktreeDeleted, true
	case gitlib.Renamed:
		return WorktreeRenamed, true
	case gitlib.Added, gitlib.Copied:
		return WorktreeNew, true
	default:
		return 0, false
	}
}

// Stage adds the worktree version of path to the index. Deleted files are
// removed from the index.
func (r *Repository) Stage(path string) error {
	if err := validatePath(path); err != nil {
		return err
	}
	repo, err := r.handle()
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return ioError("open worktree", err)
	}
	if _, err := wt.Add(path); err != nil {
		return ioError("stage "+path, err)
	}
	slog.Debug("path staged", slog.String("path", path))
	return nil
}

// Unstage resets the index entry of path to its HEAD version, or drops it
// when HEAD does not have the file.
func (r *Repository) Unstage(path string) error {
	if err := validatePath(path); err != nil {
		return err
	}
	repo, err := r.handle()
	if err != nil {
		return err
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return ioError("read index", err)
	}
	tree, err := headTree(repo)
	if err != nil {
		return err
	}
	headFile, err := fileFromTree(tree, path)
	if err != nil {
		return ioError("read "+path, err)
	}
	if headFile == nil {
		if _, err := idx.Remove(path); err != nil {
			if errors.Is(err, gitindex.ErrEntryNotFound) {
				return fmt.Errorf("unstage %s: %w", path, ErrNotFound)
			}
			return ioError("unstage "+path, err)
		}
	} else {
		entry, err := idx.Entry(path)
		if errors.Is(err, gitindex.ErrEntryNotFound) {
			entry = idx.Add(path)
		} else if err != nil {
			return ioError("unstage "+path, err)
		}
		entry.Hash = headFile.Hash
		entry.Mode = headFile.Mode
		entry.Size = uint32(headFile.Size)
	}
	if err := repo.Storer.SetIndex(idx); err != nil {
		return ioError("write index", err)
	}
	slog.Debug("path unstaged", slog.String("path", path))
	return nil
}

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path: %w", ErrNotFound)
	}
	if !utf8.ValidString(path) {
		return fmt.Errorf("path %q: %w", path, ErrInvalidEncoding)
	}
	return nil
}
