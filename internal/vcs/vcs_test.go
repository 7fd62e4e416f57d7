// Copyright 2024 The depend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arsenez2006/depend/internal/vcs"
	"github.com/arsenez2006/depend/internal/vcs/vcstest"
)

func TestParseHash(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"0123456789abcdef0123456789abcdef01234567", false},
		{"0123456789ABCDEF0123456789ABCDEF01234567", false},
		{"0123456789abcdef", true},
		{"zz23456789abcdef0123456789abcdef01234567", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h, err := vcs.ParseHash(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHash(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && h.IsZero() {
				t.Errorf("ParseHash(%q) returned zero hash", tt.input)
			}
		})
	}
}

func TestHashString(t *testing.T) {
	const s = "0123456789abcdef0123456789abcdef01234567"
	h, err := vcs.ParseHash(s)
	if err != nil {
		t.Fatal(err)
	}
	if h.String() != s {
		t.Errorf("String() = %q, want %q", h.String(), s)
	}
	if !(vcs.Hash{}).IsZero() {
		t.Error("zero Hash should report IsZero")
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	base := errors.New("connection refused")
	err := error(&vcs.TransportError{Op: "list", Remote: "https://example.com/x.git", Err: base})
	if !errors.Is(err, base) {
		t.Error("TransportError should unwrap to its cause")
	}
	if got, want := err.Error(), "list https://example.com/x.git: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestGitListRefs(t *testing.T) {
	vcstest.SkipIfUnavailable(t)

	src := vcstest.NewRepo(t)
	c1 := src.Commit(map[string]string{"README": "one"})
	src.Tag("Release_1_9_7", c1)
	c2 := src.Commit(map[string]string{"README": "two"})
	src.Tag("Release_1_9_8", c2)
	src.LightweightTag("Release_1_9_9", c2)

	refs, err := vcs.NewGit().ListRefs(context.Background(), src.Dir)
	if err != nil {
		t.Fatalf("ListRefs failed: %v", err)
	}
	if !sort.SliceIsSorted(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name }) {
		t.Errorf("refs not in name order: %v", refs)
	}

	byName := make(map[string]vcs.Hash)
	for _, r := range refs {
		byName[r.Name] = r.Hash
	}
	if got := byName["refs/tags/Release_1_9_8^{}"]; got != c2 {
		t.Errorf("peeled Release_1_9_8 = %s, want %s", got, c2)
	}
	if got := byName["refs/tags/Release_1_9_7^{}"]; got != c1 {
		t.Errorf("peeled Release_1_9_7 = %s, want %s", got, c1)
	}
	if _, ok := byName["refs/tags/Release_1_9_9^{}"]; ok {
		t.Error("lightweight tag should not have a peeled entry")
	}
	if _, ok := byName["refs/tags/Release_1_9_9"]; !ok {
		t.Error("lightweight tag missing from listing")
	}
}

func TestGitListRefsUnreachable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := vcs.NewGit().ListRefs(context.Background(), missing)
	var terr *vcs.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("ListRefs error = %v, want *TransportError", err)
	}
	if terr.Op != "list" {
		t.Errorf("Op = %q, want %q", terr.Op, "list")
	}
}

func TestGitInitIdempotent(t *testing.T) {
	g := vcs.NewGit()
	ctx := context.Background()
	dir := t.TempDir()

	if err := g.Init(ctx, dir, "https://example.com/a.git"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := g.Init(ctx, dir, "https://example.com/a.git"); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	// Re-pointing origin must not fail.
	if err := g.Init(ctx, dir, "https://example.com/b.git"); err != nil {
		t.Fatalf("Init with new remote failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		t.Errorf("repository not created: %v", err)
	}
}

func TestGitFetchAndCheckout(t *testing.T) {
	vcstest.SkipIfUnavailable(t)

	src := vcstest.NewRepo(t)
	c1 := src.Commit(map[string]string{"a.txt": "v1", "old.txt": "gone later"})
	src.Tag("v1", c1)
	c2 := src.Commit(map[string]string{"a.txt": "v2", "new.txt": "added"})
	src.Tag("v2", c2)

	g := vcs.NewGit(vcs.WithDepth(0))
	ctx := context.Background()
	dir := t.TempDir()
	if err := g.Init(ctx, dir, src.Dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	checkout := func(tag string, h vcs.Hash) {
		t.Helper()
		if err := g.Fetch(ctx, dir, vcs.Ref{Name: "refs/tags/" + tag + "^{}", Hash: h}); err != nil {
			t.Fatalf("Fetch %s failed: %v", tag, err)
		}
		got, err := g.Checkout(ctx, dir, h)
		if err != nil {
			t.Fatalf("Checkout %s failed: %v", tag, err)
		}
		if got != h {
			t.Errorf("Checkout %s = %s, want %s", tag, got, h)
		}
	}

	checkout("v1", c1)
	if data, _ := os.ReadFile(filepath.Join(dir, "a.txt")); string(data) != "v1" {
		t.Errorf("a.txt = %q, want %q", data, "v1")
	}

	// Local edits and stray files must be discarded.
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("dirty"), 0o644)
	os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644)

	checkout("v2", c2)
	if data, _ := os.ReadFile(filepath.Join(dir, "a.txt")); string(data) != "v2" {
		t.Errorf("a.txt = %q, want %q", data, "v2")
	}
	for _, name := range []string{"old.txt", "stray.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should be gone after checkout, stat err = %v", name, err)
		}
	}
}

func TestGitCheckoutAnnotatedTag(t *testing.T) {
	vcstest.SkipIfUnavailable(t)

	src := vcstest.NewRepo(t)
	commit := src.Commit(map[string]string{"a.txt": "v1"})
	tagObj := src.Tag("v1.0", commit)
	if tagObj == commit {
		t.Fatal("annotated tag should have its own object")
	}

	g := vcs.NewGit(vcs.WithDepth(0))
	ctx := context.Background()
	dir := t.TempDir()
	if err := g.Init(ctx, dir, src.Dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := g.Fetch(ctx, dir, vcs.Ref{Name: "refs/tags/v1.0", Hash: tagObj}); err != nil {
		t.Fatalf("Fetch of unpeeled tag failed: %v", err)
	}
	got, err := g.Checkout(ctx, dir, tagObj)
	if err != nil {
		t.Fatalf("Checkout of tag object failed: %v", err)
	}
	if got != commit {
		t.Errorf("Checkout = %s, want commit %s", got, commit)
	}
	if data, _ := os.ReadFile(filepath.Join(dir, "a.txt")); string(data) != "v1" {
		t.Errorf("a.txt = %q, want %q", data, "v1")
	}
}
