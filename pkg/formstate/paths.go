package formstate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// GetPath resolves a dotted path inside nested maps and slices. Numeric
// segments index slices.
func GetPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// SetPath writes value at a dotted path, creating intermediate maps and
// slices. A numeric segment following an empty key makes that key a slice;
// existing nodes keep their shape.
func SetPath(root map[string]any, path string, value any) error {
	if root == nil {
		return ErrNilValues
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	_, err := setIn(root, segments, value)
	if err != nil {
		return fmt.Errorf("formstate: set %q: %w", path, err)
	}
	return nil
}

// setIn returns the (possibly reallocated) container so slice growth is
// visible to the parent.
func setIn(node any, segments []string, value any) (any, error) {
	head, rest := segments[0], segments[1:]
	switch typed := node.(type) {
	case map[string]any:
		if len(rest) == 0 {
			typed[head] = value
			return typed, nil
		}
		container, err := containerFor(typed[head], head, rest[0])
		if err != nil {
			return nil, err
		}
		child, err := setIn(container, rest, value)
		if err != nil {
			return nil, err
		}
		typed[head] = child
		return typed, nil
	case []any:
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: expected index, got %q", ErrInvalidPath, head)
		}
		if len(typed) <= idx {
			typed = append(typed, make([]any, idx+1-len(typed))...)
		}
		if len(rest) == 0 {
			typed[idx] = value
			return typed, nil
		}
		container, err := containerFor(typed[idx], head, rest[0])
		if err != nil {
			return nil, err
		}
		child, err := setIn(container, rest, value)
		if err != nil {
			return nil, err
		}
		typed[idx] = child
		return typed, nil
	default:
		return nil, fmt.Errorf("%w: cannot descend into %T", ErrInvalidPath, node)
	}
}

// containerFor returns the node stored under key, creating the container the
// next segment needs when key is empty. An existing value of the wrong shape
// is never replaced: a map stays a map even when next is numeric.
func containerFor(existing any, key, next string) (any, error) {
	_, numeric := strconv.Atoi(next)
	wantSlice := numeric == nil
	switch node := existing.(type) {
	case nil:
		if wantSlice {
			return []any{}, nil
		}
		return make(map[string]any), nil
	case []any:
		if wantSlice {
			return node, nil
		}
		return nil, fmt.Errorf("%w: %q holds a list, got key %q", ErrInvalidPath, key, next)
	case map[string]any:
		if node == nil && !wantSlice {
			return make(map[string]any), nil
		}
		if !wantSlice {
			return node, nil
		}
		return nil, fmt.Errorf("%w: %q holds an object, got index %q", ErrInvalidPath, key, next)
	default:
		return nil, fmt.Errorf("%w: %q holds %T", ErrInvalidPath, key, existing)
	}
}

// DeletePath removes the value at path. Slice elements are set to nil so
// sibling indices stay stable.
func DeletePath(root map[string]any, path string) {
	idx := strings.LastIndex(path, ".")
	parent := any(root)
	key := path
	if idx >= 0 {
		var ok bool
		parent, ok = GetPath(root, path[:idx])
		if !ok {
			return
		}
		key = path[idx+1:]
	}
	switch node := parent.(type) {
	case map[string]any:
		delete(node, key)
	case []any:
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(node) {
			node[i] = nil
		}
	}
}

// Flatten lists every leaf value keyed by its dotted path.
func Flatten(root map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", root)
	return out
}

func flattenInto(out map[string]any, prefix string, node any) {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}
	switch typed := node.(type) {
	case map[string]any:
		for k, v := range typed {
			flattenInto(out, join(k), v)
		}
	case []any:
		for i, v := range typed {
			flattenInto(out, join(strconv.Itoa(i)), v)
		}
	case nil:
	default:
		if prefix != "" {
			out[prefix] = typed
		}
	}
}

// SortedKeys returns the keys of m in order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
