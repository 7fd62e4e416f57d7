// Copyright 2024 The depend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vcstest builds throwaway git repositories for tests.
package vcstest

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/arsenez2006/depend/internal/vcs"
)

// SkipIfUnavailable skips tests that talk to a local git remote in short
// mode or when no git installation is present.
func SkipIfUnavailable(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping git integration test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// Repo is a non-bare repository under a temporary directory.
type Repo struct {
	Dir string

	t     testing.TB
	repo  *git.Repository
	files map[string]bool
}

// NewRepo initializes an empty repository.
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init %s: %v", dir, err)
	}
	return &Repo{Dir: dir, t: t, repo: repo, files: make(map[string]bool)}
}

// Commit makes the tracked file set exactly files and commits it.
func (r *Repo) Commit(files map[string]string) vcs.Hash {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatal(err)
	}
	for name := range r.files {
		if _, keep := files[name]; keep {
			continue
		}
		if _, err := wt.Remove(name); err != nil {
			r.t.Fatalf("remove %s: %v", name, err)
		}
		delete(r.files, name)
	}
	for name, content := range files {
		path := filepath.Join(r.Dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			r.t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			r.t.Fatal(err)
		}
		if _, err := wt.Add(name); err != nil {
			r.t.Fatalf("add %s: %v", name, err)
		}
		r.files[name] = true
	}
	h, err := wt.Commit("commit", &git.CommitOptions{Author: signature()})
	if err != nil {
		r.t.Fatalf("commit: %v", err)
	}
	return vcs.Hash(h)
}

// Tag creates an annotated tag pointing at h and returns the hash of the
// tag object.
func (r *Repo) Tag(name string, h vcs.Hash) vcs.Hash {
	r.t.Helper()
	ref, err := r.repo.CreateTag(name, plumbing.Hash(h), &git.CreateTagOptions{
		Tagger:  signature(),
		Message: name,
	})
	if err != nil {
		r.t.Fatalf("tag %s: %v", name, err)
	}
	return vcs.Hash(ref.Hash())
}

// LightweightTag creates a tag ref without a tag object.
func (r *Repo) LightweightTag(name string, h vcs.Hash) {
	r.t.Helper()
	if _, err := r.repo.CreateTag(name, plumbing.Hash(h), nil); err != nil {
		r.t.Fatalf("tag %s: %v", name, err)
	}
}

func signature() *object.Signature {
	return &object.Signature{
		Name:  "depend",
		Email: "depend@example.com",
		When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
