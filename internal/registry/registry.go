package registry

import "sort"

// Registry is the process-wide catalog of component descriptors. It is
// read-only after Load, so it may be shared freely across concurrent
// generations without locking.
type Registry struct {
	format     string
	components map[Kind]map[string]*ComponentDescriptor
	stages     map[string]ConstructionTemplate
}

// FormatVersion returns the catalog format version string.
func (r *Registry) FormatVersion() string { return r.format }

// Lookup returns the descriptor for the given kind and name.
func (r *Registry) Lookup(kind Kind, name string) (*ComponentDescriptor, error) {
	if d, ok := r.components[kind][name]; ok {
		return d, nil
	}
	return nil, &UnknownComponentError{Kind: kind, Name: name}
}

// All returns every descriptor of the given kind, sorted by name so CLI
// enumeration is stable.
func (r *Registry) All(kind Kind) []*ComponentDescriptor {
	out := make([]*ComponentDescriptor, 0, len(r.components[kind]))
	for _, d := range r.components[kind] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StageTemplate returns the builtin construction template for a stage
// that is not owned by a selectable component (integrals, parameter
// activation, projection space).
func (r *Registry) StageTemplate(stage string) (ConstructionTemplate, bool) {
	t, ok := r.stages[stage]
	return t, ok
}

// Names returns the component names of a kind, sorted.
func (r *Registry) Names(kind Kind) []string {
	all := r.All(kind)
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}
