package extension

import (
	"sort"

	"github.com/imdario/mergo"
)

// Store holds zero or more parsed Extension documents keyed by name and
// exposes the derived views the validator needs (spec §4.2). It performs
// no I/O: Extensions are handed to it already parsed, whether they came
// from local files or were fetched by an external collaborator.
type Store struct {
	docs map[string]*Doc
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*Doc)}
}

// Add registers a parsed Extension document. A later Add for the same
// name replaces the earlier one.
func (s *Store) Add(d *Doc) {
	s.docs[d.Name] = d
}

// Docs returns the loaded Extension documents in name order, for
// deterministic iteration.
func (s *Store) Docs() []*Doc {
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}

	sort.Strings(names)

	out := make([]*Doc, 0, len(names))
	for _, name := range names {
		out = append(out, s.docs[name])
	}

	return out
}

// Len reports how many Extensions are loaded.
func (s *Store) Len() int { return len(s.docs) }

// HasExtraCityObjectType reports whether any loaded Extension defines the
// given City-Object type (conventionally prefixed with "+").
func (s *Store) HasExtraCityObjectType(t string) bool {
	for _, d := range s.Docs() {
		if _, ok := d.ExtraCityObjects[t]; ok {
			return true
		}
	}

	return false
}

// SchemaForCityObjectType returns the JSON-Schema fragment declaring an
// Extension City-Object type, and which Extension declared it.
func (s *Store) SchemaForCityObjectType(t string) (schema any, owner string, ok bool) {
	for _, d := range s.Docs() {
		if frag, present := d.ExtraCityObjects[t]; present {
			return frag, d.Name, true
		}
	}

	return nil, "", false
}

// ExtraRootProperties returns the union of every loaded Extension's
// extraRootProperties, merged in Extension name order (first Extension
// in that order to declare a given key wins a collision) via [mergo.Merge].
func (s *Store) ExtraRootProperties() map[string]any {
	merged := map[string]any{}

	for _, d := range s.Docs() {
		if len(d.ExtraRootProperties) == 0 {
			continue
		}

		_ = mergo.Merge(&merged, d.ExtraRootProperties)
	}

	return merged
}

// SchemaForRootProperty looks up the schema for a single "+"-prefixed root
// property, and which Extension declared it.
func (s *Store) SchemaForRootProperty(name string) (schema any, owner string, ok bool) {
	for _, d := range s.Docs() {
		if frag, present := d.ExtraRootProperties[name]; present {
			return frag, d.Name, true
		}
	}

	return nil, "", false
}

// ExtraAttributesFor returns the merged attribute-name -> schema map
// contributed by all loaded Extensions for the given City-Object type.
// When more than one Extension declares attributes for the same type,
// their maps are combined with [mergo.Merge] (first Extension in name
// order wins on a key collision).
func (s *Store) ExtraAttributesFor(cityObjectType string) map[string]any {
	merged := map[string]any{}

	for _, d := range s.Docs() {
		attrs, ok := d.ExtraAttributes[cityObjectType]
		if !ok || len(attrs) == 0 {
			continue
		}

		_ = mergo.Merge(&merged, attrs)
	}

	return merged
}
