// Package resolve selects the newest release of a remote repository from
// its advertised refs.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/arsenez2006/depend/internal/vcs"
	"github.com/arsenez2006/depend/internal/version"
)

// ErrNoMatchingTags is returned when no ref of a remote both matches the
// tag pattern and parses under the grammar.
var ErrNoMatchingTags = errors.New("no matching tags")

// Resolved is a release picked from a remote.
type Resolved struct {
	Ref vcs.Ref
	Key version.Key
	// Name is the version with the tag prefix and suffix removed.
	Name string
}

// Resolver turns a remote ref listing into release versions.
type Resolver struct {
	lister vcs.Lister
	log    *log.Logger
}

// New creates a Resolver listing refs through lister. A nil logger
// discards output.
func New(lister vcs.Lister, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{lister: lister, log: logger}
}

// Resolve returns the newest release of remote. When several refs carry
// equal keys the one listed last wins.
func (r *Resolver) Resolve(ctx context.Context, remote string, m TagMatcher, g version.Grammar) (*Resolved, error) {
	candidates, err := r.Candidates(ctx, remote, m, g)
	if err != nil {
		return nil, err
	}
	latest := candidates[len(candidates)-1]
	r.log.Debug("resolved", "remote", remote, "ref", latest.Ref.Name, "hash", latest.Ref.Hash)
	return &latest, nil
}

// Candidates returns every release of remote in ascending key order.
// Refs with equal keys keep their listing order.
func (r *Resolver) Candidates(ctx context.Context, remote string, m TagMatcher, g version.Grammar) ([]Resolved, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	refs, err := r.lister.ListRefs(ctx, remote)
	if err != nil {
		return nil, err
	}

	var out []Resolved
	for _, ref := range refs {
		name, ok := m.Strip(ref.Name)
		if !ok {
			continue
		}
		key, err := g.Parse(name)
		if err != nil {
			r.log.Debug("skipping ref", "ref", ref.Name, "err", err)
			continue
		}
		out = append(out, Resolved{Ref: ref, Key: key, Name: name})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", remote, ErrNoMatchingTags)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out, nil
}
