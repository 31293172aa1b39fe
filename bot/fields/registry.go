package fields

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrNoLayout is returned for a record type without a layout.
	ErrNoLayout = errors.New("no field layout for record type")

	// ErrUnknownField is returned when a layout names an unregistered field.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidDefinition marks a field definition that breaks its own invariants.
	ErrInvalidDefinition = errors.New("invalid field definition")
)

// Registry holds field definitions by name and the ordered field layout of
// every record type. It is filled at startup and read-only afterwards.
type Registry struct {
	defs    map[string]Definition
	layouts map[string][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]Definition),
		layouts: make(map[string][]string),
	}
}

// Register adds a definition under name.
func (r *Registry) Register(name string, def Definition) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDefinition)
	}
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("%w: %s registered twice", ErrInvalidDefinition, name)
	}
	if err := def.Check(); err != nil {
		return err
	}
	r.defs[name] = def
	return nil
}

// MustRegister is Register for static catalogues.
func (r *Registry) MustRegister(name string, def Definition) {
	if err := r.Register(name, def); err != nil {
		panic(err)
	}
}

// SetLayout sets the ordered fields of a record type.
func (r *Registry) SetLayout(recordType string, names ...string) {
	r.layouts[recordType] = slices.Clone(names)
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// FieldsForType resolves a record type to its ordered field definitions.
func (r *Registry) FieldsForType(recordType string) ([]Definition, error) {
	names, ok := r.layouts[recordType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoLayout, recordType)
	}
	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		def, ok := r.defs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q in layout %s", ErrUnknownField, name, recordType)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Types returns the record types that have a layout, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.layouts))
	for t := range r.layouts {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Layout returns the field names of a record type.
func (r *Registry) Layout(recordType string) ([]string, bool) {
	names, ok := r.layouts[recordType]
	return slices.Clone(names), ok
}

// Check verifies that every given type has a layout and that every layout
// resolves. Nested fields must not share a path with a scalar field.
func (r *Registry) Check(recordTypes ...string) error {
	var errs []error
	for _, t := range recordTypes {
		if _, ok := r.layouts[t]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrNoLayout, t))
		}
	}
	for _, t := range r.Types() {
		defs, err := r.FieldsForType(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := checkPaths(t, defs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// checkPaths rejects layouts where a field's parent is another field's leaf.
func checkPaths(recordType string, defs []Definition) error {
	leaves := make(map[string]bool, len(defs))
	for _, def := range defs {
		leaves[pathKey(def.Location())] = true
	}
	for _, def := range defs {
		loc := def.Location()
		for i := 1; i < len(loc); i++ {
			if leaves[pathKey(loc[:i])] {
				return fmt.Errorf("%w: %s: parent of %s is a scalar field in layout %s",
					ErrInvalidDefinition, def.Key, pathKey(loc), recordType)
			}
		}
	}
	return nil
}
