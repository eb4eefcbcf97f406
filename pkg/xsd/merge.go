package xsd

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/rs/zerolog/log"
)

// MergeOptions controls how strictly caller values are checked.
type MergeOptions struct {
	// Strict rejects unknown keys and values that do not satisfy the
	// target's kind or facets.
	Strict bool
}

// Merge overlays a plain value onto target, which must be a private clone
// of a prototype. Leaves take scalars, nodes take map[string]any keyed by
// element name or "@"-prefixed attribute name, and repeatable slots take
// slices. Entries inherited through a base are cloned before they are
// written, so shared bases are never modified.
func Merge(target Entry, value any, opts MergeOptions) error {
	return mergeEntry(target, value, opts, "")
}

func mergeEntry(target Entry, value any, opts MergeOptions, path string) error {
	switch e := target.(type) {
	case *Leaf:
		return mergeLeaf(e, value, opts, path)
	case *Node:
		return mergeNode(e, value, opts, path)
	case *List:
		items, ok := asSlice(value)
		if !ok {
			items = []any{value}
		}
		return mergeList(e, items, opts, path)
	}
	return fmt.Errorf("cannot merge into %T", target)
}

func mergeLeaf(l *Leaf, value any, opts MergeOptions, path string) error {
	if _, ok := asMap(value); ok {
		return &ValueError{Path: displayPath(path), Value: value, Err: fmt.Errorf("%s expects a scalar", l.Kind())}
	}
	v, err := Coerce(l.Kind(), value)
	if err != nil {
		if opts.Strict {
			return &ValueError{Path: displayPath(path), Value: value, Err: err}
		}
		log.Debug().Str("path", displayPath(path)).Err(err).Msg("Binding value without conversion")
		l.Bind(value)
		return nil
	}
	if opts.Strict {
		if err := l.Facets().Check(v); err != nil {
			return &ValueError{Path: displayPath(path), Value: value, Err: err}
		}
	}
	l.Bind(v)
	return nil
}

func mergeNode(n *Node, value any, opts MergeOptions, path string) error {
	switch value.(type) {
	case nil:
		return nil
	case NilValue:
		n.Nil = true
		return nil
	}
	values, ok := asMap(value)
	if !ok {
		if _, has := n.Get(TextKey); has {
			return mergeChild(n, TextKey, value, opts, path)
		}
		return &ValueError{Path: displayPath(path), Value: value, Err: fmt.Errorf("expected a mapping, got %T", value)}
	}

	keys := n.Keys()
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}
	supplied := make(map[string]any, len(values))
	var unknown []string
	for k, v := range values {
		switch {
		case known[k]:
			supplied[k] = v
		case known[AttrKey(k)]:
			supplied[AttrKey(k)] = v
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		if opts.Strict {
			return &UnknownFieldError{Path: joinPath(path, unknown[0])}
		}
		log.Debug().Str("path", displayPath(path)).Strs("keys", unknown).Msg("Ignoring unknown keys")
	}

	for _, k := range keys {
		v, ok := supplied[k]
		if !ok {
			continue
		}
		if err := mergeChild(n, k, v, opts, path); err != nil {
			return err
		}
	}
	n.Nil = false
	return nil
}

func mergeChild(n *Node, key string, value any, opts MergeOptions, path string) error {
	childPath := joinPath(path, key)
	child, _ := n.Get(key)
	if _, own := n.Own(key); !own {
		child = Clone(child)
		n.Set(key, child)
	}

	if items, ok := asSlice(value); ok {
		switch c := child.(type) {
		case *List:
			return mergeList(c, items, opts, childPath)
		default:
			if c.Facets().Repeatable() {
				list := NewList(c)
				n.Set(key, list)
				return mergeList(list, items, opts, childPath)
			}
		}
	}
	return mergeEntry(child, value, opts, childPath)
}

func mergeList(l *List, items []any, opts MergeOptions, path string) error {
	if opts.Strict {
		if hi := l.Facets().MaxOccurs; hi != nil && !hi.Allows(len(items)) {
			return &ValueError{Path: displayPath(path), Value: len(items), Err: fmt.Errorf("at most %s items allowed", hi)}
		}
	}
	l.Items = nil
	for i, item := range items {
		e := l.Add()
		if err := mergeEntry(e, item, opts, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[fmt.Sprint(k)] = s
		}
		return out, true
	}
	return nil, false
}

// asSlice converts any slice except byte strings to []any.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []byte, HexBinary:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
