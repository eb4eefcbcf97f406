package xsd

import (
	"github.com/rs/zerolog/log"
)

// Tree is the ordered registry of every named entry, keyed by "{ns}local"
// or by a "/"-joined path for nested declarations.
type Tree struct {
	keys    []string
	entries map[string]Entry
}

func NewTree() *Tree {
	return &Tree{entries: make(map[string]Entry)}
}

func (t *Tree) Get(key string) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// GetOrCreate returns the entry stored under key, creating an undeclared
// Node placeholder when there is none.
func (t *Tree) GetOrCreate(key string) Entry {
	if e, ok := t.entries[key]; ok {
		return e
	}
	n := newPlaceholder()
	t.store(key, n)
	return n
}

// Put stores e under key. An existing entry is never replaced: e is folded
// into it so references handed out earlier stay valid. Put returns the
// stored entry.
func (t *Tree) Put(key string, e Entry) Entry {
	existing, ok := t.entries[key]
	if !ok {
		t.store(key, e)
		return e
	}
	if existing == e {
		return existing
	}
	absorb(key, existing, e)
	return existing
}

func (t *Tree) Keys() []string {
	return append([]string(nil), t.keys...)
}

func (t *Tree) Len() int {
	return len(t.keys)
}

func (t *Tree) store(key string, e Entry) {
	t.keys = append(t.keys, key)
	t.entries[key] = e
}

func absorb(key string, existing, e Entry) {
	switch dst := existing.(type) {
	case *Node:
		switch src := e.(type) {
		case *Node:
			absorbNode(dst, src)
			return
		case *Leaf:
			if !dst.declared && len(dst.keys) == 0 {
				dst.Attach(TextKey, src)
				return
			}
		}
	case *Leaf:
		if src, ok := e.(*Leaf); ok {
			absorbLeaf(dst, src)
			return
		}
	}
	log.Debug().Str("key", key).Msgf("Keeping %T, ignoring redeclaration as %T", existing, e)
}

func absorbNode(dst, src *Node) {
	for _, k := range src.keys {
		dst.Attach(k, src.items[k])
	}
	if dst.Base == nil && src.Base != nil {
		dst.SetBase(src.Base)
	}
	if dst.Namespace == "" {
		dst.Namespace = src.Namespace
	}
	if dst.TypeName == "" {
		dst.TypeName = src.TypeName
	}
	if dst.Documentation == "" {
		dst.Documentation = src.Documentation
	}
	if src.Restriction != nil {
		dst.Restriction = src.Restriction.Merge(dst.Restriction)
	}
	if src.declared {
		dst.declared = true
	}
}

func absorbLeaf(dst, src *Leaf) {
	if dst.Primitive == KindUnset {
		dst.Primitive = src.Primitive
	}
	if dst.Base == nil && src.Base != nil {
		dst.SetBase(src.Base)
	}
	if dst.TypeName == "" {
		dst.TypeName = src.TypeName
	}
	if dst.Default == nil && src.Default != nil {
		d := *src.Default
		dst.Default = &d
	}
	if dst.Documentation == "" {
		dst.Documentation = src.Documentation
	}
	if dst.Namespace == "" {
		dst.Namespace = src.Namespace
	}
	if src.Restriction != nil {
		dst.Restriction = src.Restriction.Merge(dst.Restriction)
	}
}
