// Copyright 2024 The depend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vcs provides the version control operations depend needs:
// listing a remote's refs, fetching a ref and checking out a commit.
package vcs

import (
	"context"
	"encoding/hex"
	"fmt"
)

// Hash is the content identifier of a revision (a SHA-1 commit id).
type Hash [20]byte

// String returns the lowercase hex form of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash parses a 40-character hex commit id.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*len(h) {
		return h, fmt.Errorf("invalid hash %q: want %d hex characters", s, 2*len(h))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return h, nil
}

// Ref is a named pointer advertised by a remote, e.g.
// "refs/tags/Release_1_9_8^{}" pointing at a commit.
type Ref struct {
	Name string
	Hash Hash
}

// Lister lists the refs of a remote without downloading any objects.
type Lister interface {
	// ListRefs returns every ref the remote advertises, peeled tag
	// entries ("<tag>^{}") included, in advertisement order.
	ListRefs(ctx context.Context, remote string) ([]Ref, error)
}

// Workspace manages a local working copy bound to a remote.
type Workspace interface {
	// Init creates (or opens) a repository at dir whose "origin" is remote.
	Init(ctx context.Context, dir, remote string) error
	// Fetch downloads the objects reachable from ref into the repository at dir.
	Fetch(ctx context.Context, dir string, ref Ref) error
	// Checkout detaches HEAD at the commit hash names and makes the working
	// tree match it exactly, discarding local modifications and untracked
	// files. An annotated tag hash is peeled to its commit, which is
	// returned.
	Checkout(ctx context.Context, dir string, hash Hash) (Hash, error)
}

// TransportError reports a failed conversation with a remote.
type TransportError struct {
	Op     string // "list" or "fetch"
	Remote string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Remote, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
