package views

import (
	"context"

	"github.com/thiagokokada/tig-go/internal/git"
)

// Backend is the repository surface the views need. *git.Repository
// implements it; every call may block and is only made off the UI loop.
type Backend interface {
	StreamCommits(ctx context.Context, chunkSize int, out chan<- git.CommitChunk)
	LoadDiff(req git.DiffRequest) (*git.Diff, error)
	LoadStatus() (*git.Status, error)
	Stage(path string) error
	Unstage(path string) error
}

var _ Backend = (*git.Repository)(nil)
