// Package worktree produces a source tree checked out at a resolved release.
package worktree

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/arsenez2006/depend/internal/resolve"
	"github.com/arsenez2006/depend/internal/vcs"
)

// Phase names the step of Materialize that failed.
type Phase string

const (
	PhaseInit     Phase = "init"
	PhaseFetch    Phase = "fetch"
	PhaseCheckout Phase = "checkout"
)

// MaterializeError reports a failure while preparing a working tree.
type MaterializeError struct {
	Phase Phase
	Dir   string
	Err   error
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("materialize %s: %s: %v", e.Dir, e.Phase, e.Err)
}

func (e *MaterializeError) Unwrap() error { return e.Err }

// Tree is a working tree detached at a release.
type Tree struct {
	Dir     string
	Hash    vcs.Hash // commit checked out
	Version string
}

// Materializer checks releases out into local directories.
type Materializer struct {
	ws  vcs.Workspace
	log *log.Logger
}

// New creates a Materializer backed by ws. A nil logger discards output.
func New(ws vcs.Workspace, logger *log.Logger) *Materializer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Materializer{ws: ws, log: logger}
}

// Materialize makes dir an exact checkout of v from remote. Running it
// again with the same arguments yields the same tree; local changes and
// untracked files in dir are discarded.
func (m *Materializer) Materialize(ctx context.Context, remote, dir string, v resolve.Resolved) (*Tree, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &MaterializeError{Phase: PhaseInit, Dir: dir, Err: err}
	}
	if err := m.ws.Init(ctx, dir, remote); err != nil {
		return nil, &MaterializeError{Phase: PhaseInit, Dir: dir, Err: err}
	}

	m.log.Debug("fetching", "ref", v.Ref.Name, "dir", dir)
	if err := m.ws.Fetch(ctx, dir, v.Ref); err != nil {
		return nil, &MaterializeError{Phase: PhaseFetch, Dir: dir, Err: err}
	}

	m.log.Debug("checking out", "hash", v.Ref.Hash, "dir", dir)
	commit, err := m.ws.Checkout(ctx, dir, v.Ref.Hash)
	if err != nil {
		return nil, &MaterializeError{Phase: PhaseCheckout, Dir: dir, Err: err}
	}
	return &Tree{Dir: dir, Hash: commit, Version: v.Name}, nil
}
