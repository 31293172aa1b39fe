package fields

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ErrPathConflict is returned when a path runs through a scalar value.
var ErrPathConflict = errors.New("path runs through a non-object value")

func pathKey(path []string) string {
	return strings.Join(path, ".")
}

// ResolveValue reads the field's value from an entity. A missing segment or
// a nil value yields false; it never panics on missing nested data.
func ResolveValue(entity map[string]any, def Definition) (any, bool) {
	return lookup(entity, def.Location())
}

func lookup(entity map[string]any, path []string) (any, bool) {
	var current any = entity
	for _, segment := range path {
		obj, ok := current.(map[string]any)
		if !ok || obj == nil {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// SetValue returns a copy of entity with the field set to v. Every object
// along the path is copied and only the leaf is overwritten, so siblings
// survive. The input is never modified; on error nothing is applied.
func SetValue(entity map[string]any, def Definition, v any) (map[string]any, error) {
	return setAt(entity, def.Location(), v)
}

func setAt(entity map[string]any, path []string, v any) (map[string]any, error) {
	root := maps.Clone(entity)
	if root == nil {
		root = make(map[string]any)
	}

	parent := root
	for i, segment := range path[:len(path)-1] {
		var child map[string]any
		switch n := parent[segment].(type) {
		case map[string]any:
			child = maps.Clone(n)
		case nil:
			child = make(map[string]any)
		default:
			return nil, fmt.Errorf("%w: %s", ErrPathConflict, pathKey(path[:i+1]))
		}
		if child == nil {
			child = make(map[string]any)
		}
		parent[segment] = child
		parent = child
	}
	parent[path[len(path)-1]] = v
	return root, nil
}

// Effective overlays the draft on the original. Nested objects are merged
// key by key, the draft winning on conflicts.
func Effective(draft, original map[string]any) map[string]any {
	return merge(original, draft)
}

func merge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = deepCopy(v)
	}
	for k, v := range over {
		if overObj, ok := v.(map[string]any); ok {
			if baseObj, ok := out[k].(map[string]any); ok {
				out[k] = merge(baseObj, overObj)
				continue
			}
		}
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	}
	return v
}

// EffectiveValue is the draft's value when set, else the original's.
func EffectiveValue(draft, original map[string]any, def Definition) (any, bool) {
	if v, ok := ResolveValue(draft, def); ok {
		return v, true
	}
	return ResolveValue(original, def)
}

// Changed reports whether the effective value differs from the original.
func Changed(draft, original map[string]any, def Definition) bool {
	effective, _ := EffectiveValue(draft, original, def)
	before, _ := ResolveValue(original, def)
	return !Equal(effective, before)
}

// StageValue writes v into the draft. For nested fields the parent object
// is rebuilt from its effective value, so the draft keeps siblings that
// were staged earlier or only exist in the original.
func StageValue(draft, original map[string]any, def Definition, v any) (map[string]any, error) {
	loc := def.Location()
	if len(loc) == 1 {
		return setAt(draft, loc, v)
	}

	parentPath := loc[:len(loc)-1]
	parent := map[string]any{}
	if orig, ok := lookup(original, parentPath); ok {
		obj, isObj := orig.(map[string]any)
		if !isObj {
			return nil, fmt.Errorf("%w: %s", ErrPathConflict, pathKey(parentPath))
		}
		parent = merge(parent, obj)
	}
	if staged, ok := lookup(draft, parentPath); ok {
		obj, isObj := staged.(map[string]any)
		if !isObj {
			return nil, fmt.Errorf("%w: %s", ErrPathConflict, pathKey(parentPath))
		}
		parent = merge(parent, obj)
	}
	parent[loc[len(loc)-1]] = v
	return setAt(draft, parentPath, parent)
}

// Unset returns a copy of the draft without the field.
func Unset(draft map[string]any, def Definition) map[string]any {
	loc := def.Location()
	root := deepCopy(draft).(map[string]any)
	if root == nil {
		return map[string]any{}
	}
	parent := root
	for _, segment := range loc[:len(loc)-1] {
		child, ok := parent[segment].(map[string]any)
		if !ok {
			return root
		}
		parent = child
	}
	delete(parent, loc[len(loc)-1])
	return root
}
