package pkgspec

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPackage is returned by Lookup for names no Spec carries.
var ErrUnknownPackage = errors.New("unknown package")

// Registry is the set of installable packages.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry returns the built-in packages overlaid with specs. A spec
// replaces any earlier one of the same name.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]Spec)}
	for _, s := range Builtins() {
		r.specs[s.Name] = s
	}
	for i := range specs {
		if err := specs[i].Validate(); err != nil {
			return nil, fmt.Errorf("package %d: %w", i+1, err)
		}
		r.specs[specs[i].Name] = specs[i]
	}
	return r, nil
}

// Lookup returns the Spec named name.
func (r *Registry) Lookup(name string) (Spec, error) {
	s, ok := r.specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%q: %w", name, ErrUnknownPackage)
	}
	return s, nil
}

// List returns every Spec ordered by name.
func (r *Registry) List() []Spec {
	out := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
