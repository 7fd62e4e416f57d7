// Copyright 2024 The depend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"
)

const (
	originName   = "origin"
	peeledSuffix = "^{}"
)

// Git implements Lister and Workspace with go-git.
type Git struct {
	depth int
	auth  func(remote string) transport.AuthMethod
}

// GitOption configures Git.
type GitOption func(*Git)

// WithDepth sets the fetch depth. Zero fetches the full history.
func WithDepth(depth int) GitOption {
	return func(g *Git) {
		g.depth = depth
	}
}

// WithAuth sets a fixed authentication method for every remote.
func WithAuth(auth transport.AuthMethod) GitOption {
	return func(g *Git) {
		g.auth = func(string) transport.AuthMethod { return auth }
	}
}

// NewGit creates a Git with shallow fetches and credentials
// discovered from the environment.
func NewGit(opts ...GitOption) *Git {
	g := &Git{depth: 1, auth: authFor}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ListRefs lists remote refs through a detached, in-memory remote, so
// nothing is written to disk.
func (g *Git) ListRefs(ctx context.Context, remote string) ([]Ref, error) {
	r := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: originName,
		URLs: []string{remote},
	})
	refs, err := r.ListContext(ctx, &git.ListOptions{
		Auth:          g.auth(remote),
		PeelingOption: git.AppendPeeled,
	})
	if err != nil {
		return nil, &TransportError{Op: "list", Remote: remote, Err: err}
	}

	out := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		if ref.Type() != plumbing.HashReference {
			continue
		}
		out = append(out, Ref{Name: ref.Name().String(), Hash: Hash(ref.Hash())})
	}
	// go-git collects refs in a map; restore the name order a git
	// server advertises them in.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (g *Git) Init(ctx context.Context, dir, remote string) error {
	repo, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		repo, err = git.PlainOpen(dir)
	}
	if err != nil {
		return err
	}

	origin, err := repo.Remote(originName)
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
	case err != nil:
		return err
	case slices.Equal(origin.Config().URLs, []string{remote}):
		return nil
	default:
		if err := repo.DeleteRemote(originName); err != nil {
			return fmt.Errorf("replace origin: %w", err)
		}
	}
	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: originName,
		URLs: []string{remote},
	})
	return err
}

// Fetch fetches the tag behind a peeled ref (or the ref itself) from origin.
func (g *Git) Fetch(ctx context.Context, dir string, ref Ref) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return err
	}
	origin, err := repo.Remote(originName)
	if err != nil {
		return err
	}
	remote := strings.Join(origin.Config().URLs, " ")

	name := strings.TrimSuffix(ref.Name, peeledSuffix)
	spec := config.RefSpec("+" + name + ":" + name)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: originName,
		RefSpecs:   []config.RefSpec{spec},
		Depth:      g.depth,
		Tags:       git.NoTags,
		Force:      true,
		Auth:       g.auth(remote),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return &TransportError{Op: "fetch", Remote: remote, Err: err}
	}
	if _, err := peel(repo, plumbing.Hash(ref.Hash)); err != nil {
		return &TransportError{Op: "fetch", Remote: remote, Err: fmt.Errorf("commit %s: %w", ref.Hash, err)}
	}
	return nil
}

func (g *Git) Checkout(ctx context.Context, dir string, hash Hash) (Hash, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return Hash{}, err
	}
	commit, err := peel(repo, plumbing.Hash(hash))
	if err != nil {
		return Hash{}, fmt.Errorf("lookup commit %s: %w", hash, err)
	}
	h := commit.Hash
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, h)); err != nil {
		return Hash{}, fmt.Errorf("detach HEAD: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return Hash{}, err
	}
	if err := wt.Reset(&git.ResetOptions{Commit: h, Mode: git.HardReset}); err != nil {
		return Hash{}, fmt.Errorf("reset %s: %w", h, err)
	}
	if err := wt.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return Hash{}, fmt.Errorf("clean: %w", err)
	}
	return Hash(h), nil
}

// peel returns the commit h names, following annotated tags.
func peel(repo *git.Repository, h plumbing.Hash) (*object.Commit, error) {
	tag, err := repo.TagObject(h)
	switch {
	case err == nil:
		return tag.Commit()
	case !errors.Is(err, plumbing.ErrObjectNotFound):
		return nil, err
	}
	return repo.CommitObject(h)
}
