// internal/filters/registry.go
// Immutable registry of the named filters offered to the user
package filters

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyName     = errors.New("filter name is empty")
	ErrDuplicateName = errors.New("duplicate filter name")
	ErrNoAlgorithm   = errors.New("filter has no algorithm")
)

// Descriptor names an image transform together with its fixed parameters.
// A Descriptor is never mutated after construction.
type Descriptor struct {
	Name      string
	Algorithm string
	params    map[string]float64
}

// NewDescriptor creates a descriptor, copying params.
func NewDescriptor(name, algorithm string, params map[string]float64) Descriptor {
	d := Descriptor{
		Name:      name,
		Algorithm: algorithm,
		params:    make(map[string]float64, len(params)),
	}
	for k, v := range params {
		d.params[k] = v
	}
	return d
}

// Params returns a copy of the parameter set.
func (d Descriptor) Params() map[string]float64 {
	out := make(map[string]float64, len(d.params))
	for k, v := range d.params {
		out[k] = v
	}
	return out
}

func (d Descriptor) Param(key string) (float64, bool) {
	v, ok := d.params[key]
	return v, ok
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%s)", d.Name, d.Algorithm)
}

// Registry maps filter names to descriptors and keeps the names in
// ascending order for presentation. It is read-only once built.
type Registry struct {
	byName map[string]Descriptor
	names  []string
}

// NewRegistry builds a registry from descs. Names must be non-empty and unique.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]Descriptor, len(descs)),
		names:  make([]string, 0, len(descs)),
	}

	for _, d := range descs {
		if d.Name == "" {
			return nil, ErrEmptyName
		}
		if d.Algorithm == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoAlgorithm, d.Name)
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, d.Name)
		}
		r.byName[d.Name] = d
		r.names = append(r.names, d.Name)
	}

	sort.Strings(r.names)
	return r, nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered names sorted ascending.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// NameAt returns the i-th name of the sorted list.
func (r *Registry) NameAt(i int) (string, bool) {
	if i < 0 || i >= len(r.names) {
		return "", false
	}
	return r.names[i], true
}

// Resolve maps a selection index to its descriptor.
func (r *Registry) Resolve(i int) (Descriptor, bool) {
	name, ok := r.NameAt(i)
	if !ok {
		return Descriptor{}, false
	}
	return r.Lookup(name)
}

func (r *Registry) Len() int {
	return len(r.names)
}

// Descriptors returns every descriptor in name order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}
