package instrument

import (
	"fmt"
	"strings"
)

// Registry resolves banks by name, preserving registration order.
type Registry struct {
	order  []string
	byName map[string]*Instrument
}

// NewRegistry creates a registry holding the given banks. Later banks
// replace earlier ones with the same name.
func NewRegistry(banks ...*Instrument) *Registry {
	r := &Registry{byName: make(map[string]*Instrument)}
	for _, b := range banks {
		r.Register(b)
	}
	return r
}

// DefaultRegistry holds the builtin banks plus any found in dir.
func DefaultRegistry(dir string) (*Registry, error) {
	r := NewRegistry(Builtin()...)
	if dir == "" {
		return r, nil
	}
	extra, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, b := range extra {
		r.Register(b)
	}
	return r, nil
}

// registryKey folds case and treats "_" and "-" alike, so a bank
// resolves by its name or by its test label.
func registryKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

// Register adds or replaces a bank.
func (r *Registry) Register(in *Instrument) {
	key := registryKey(in.Name)
	if _, ok := r.byName[key]; !ok {
		r.order = append(r.order, key)
	}
	r.byName[key] = in
}

// Get looks a bank up by name. Test labels ("big_five") resolve too.
func (r *Registry) Get(name string) (*Instrument, error) {
	key := registryKey(name)
	if in, ok := r.byName[key]; ok {
		return in, nil
	}
	return nil, fmt.Errorf("unknown instrument %q (available: %s)", name, strings.Join(r.order, ", "))
}

// All returns the banks in registration order.
func (r *Registry) All() []*Instrument {
	out := make([]*Instrument, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byName[k])
	}
	return out
}
