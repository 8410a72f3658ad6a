package git

import (
	"context"
	"errors"
	"log/slog"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// DefaultChunkSize is the number of commits sent per CommitChunk.
const DefaultChunkSize = 50

// CommitChunk is one batch of the history stream. A chunk with Err set is
// the last one sent.
type CommitChunk struct {
	Commits []Commit
	Err     error
}

// StreamCommits walks history from HEAD, newest first, and sends it to out
// in chunks of at most chunkSize commits. out is closed when the walk ends.
// Cancelling ctx stops the walk without sending anything else.
func (r *Repository) StreamCommits(ctx context.Context, chunkSize int, out chan<- CommitChunk) {
	defer close(out)
	chunkSize = max(chunkSize, 1)
	send := func(chunk CommitChunk) bool {
		select {
		case out <- chunk:
			return true
		case <-ctx.Done():
			return false
		}
	}
	batch := make([]Commit, 0, chunkSize)
	sent := 0
	err := r.forEachCommit(func(c Commit) error {
		if ctx.Err() != nil {
			return storer.ErrStop
		}
		batch = append(batch, c)
		if len(batch) < chunkSize {
			return nil
		}
		if !send(CommitChunk{Commits: batch}) {
			return storer.ErrStop
		}
		sent += len(batch)
		batch = make([]Commit, 0, chunkSize)
		return nil
	})
	if ctx.Err() != nil {
		slog.Debug("commit stream abandoned", slog.Int("sent", sent))
		return
	}
	if len(batch) > 0 {
		if !send(CommitChunk{Commits: batch}) {
			return
		}
		sent += len(batch)
	}
	if err != nil {
		slog.Error("commit stream failed", slog.Any("error", err))
		send(CommitChunk{Err: err})
		return
	}
	slog.Debug("commit stream finished", slog.Int("commits", sent))
}

// Commits returns the whole history in the same order StreamCommits uses.
func (r *Repository) Commits() ([]Commit, error) {
	var commits []Commit
	err := r.forEachCommit(func(c Commit) error {
		commits = append(commits, c)
		return nil
	})
	return commits, err
}

func (r *Repository) forEachCommit(fn func(Commit) error) error {
	repo, err := r.handle()
	if err != nil {
		return err
	}
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil
		}
		return ioError("read HEAD", err)
	}
	labels, err := refLabels(repo)
	if err != nil {
		return err
	}
	iter, err := repo.Log(&gitlib.LogOptions{From: head.Hash(), Order: gitlib.LogOrderCommitterTime})
	if err != nil {
		return ioError("read commits", err)
	}
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		return fn(newCommit(c, labels))
	})
	if err != nil {
		return ioError("iterate commits", err)
	}
	return nil
}
