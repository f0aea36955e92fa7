package mood

import "strings"

// DefaultDescriptor is returned for moods the registry does not know.
const DefaultDescriptor = "neutral"

// Mood is a selectable mood label and the energy/valence tag used to enrich prompts.
type Mood struct {
	Label      string `json:"label"`
	Descriptor string `json:"descriptor,omitempty"`
}

// Registry is a fixed mood table. It is never mutated after NewRegistry returns.
type Registry struct {
	moods    []Mood
	index    map[string]string
	fallback string
}

// NewRegistry builds a registry over moods. An empty fallback means DefaultDescriptor.
func NewRegistry(moods []Mood, fallback string) *Registry {
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultDescriptor
	}

	index := make(map[string]string, len(moods))
	for _, m := range moods {
		index[m.Label] = m.Descriptor
	}

	return &Registry{
		moods:    append([]Mood(nil), moods...),
		index:    index,
		fallback: fallback,
	}
}

// Describe returns the descriptor for label, or the fallback when the label is
// unknown or carries no descriptor.
func (r *Registry) Describe(label string) string {
	if r == nil {
		return DefaultDescriptor
	}
	if desc, ok := r.index[label]; ok && desc != "" {
		return desc
	}
	return r.fallback
}

// HasDescriptors reports whether any mood carries its own descriptor.
func (r *Registry) HasDescriptors() bool {
	if r == nil {
		return false
	}
	for _, m := range r.moods {
		if m.Descriptor != "" {
			return true
		}
	}
	return false
}

// Contains reports whether label is part of the table.
func (r *Registry) Contains(label string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[label]
	return ok
}

// List returns the moods in declaration order.
func (r *Registry) List() []Mood {
	if r == nil {
		return nil
	}
	return append([]Mood(nil), r.moods...)
}
