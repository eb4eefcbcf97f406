package xsd

import "fmt"

// Node is a composite slot. Its effective keys are the keys of its base
// chain, root first, followed by its own; an own key that overrides a base
// key keeps the base position.
type Node struct {
	Base          *Node
	Restriction   *Restriction
	Namespace     string
	TypeName      string
	Documentation string
	// Nil is set when the node was bound to Nil or decoded from xsi:nil.
	Nil bool

	keys     []string
	items    map[string]Entry
	declared bool
}

// NewNode returns a declared, empty node.
func NewNode() *Node {
	return &Node{items: make(map[string]Entry), declared: true}
}

func newPlaceholder() *Node {
	return &Node{items: make(map[string]Entry)}
}

// Declare marks n as backed by a schema declaration.
func (n *Node) Declare() {
	n.declared = true
}

func (n *Node) chain() []*Node {
	var out []*Node
	seen := make(map[*Node]bool)
	for cur := n; cur != nil && !seen[cur]; cur = cur.Base {
		seen[cur] = true
		out = append(out, cur)
	}
	return out
}

// Keys returns the effective keys in base-then-own order.
func (n *Node) Keys() []string {
	chain := n.chain()
	seen := make(map[string]bool)
	var out []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, k := range chain[i].keys {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// OwnKeys returns the keys declared on n itself.
func (n *Node) OwnKeys() []string {
	return append([]string(nil), n.keys...)
}

// Get looks key up on n, then along the base chain.
func (n *Node) Get(key string) (Entry, bool) {
	for _, cur := range n.chain() {
		if e, ok := cur.items[key]; ok {
			return e, true
		}
	}
	return nil, false
}

// Own looks key up on n only.
func (n *Node) Own(key string) (Entry, bool) {
	e, ok := n.items[key]
	return e, ok
}

// Set stores e under key, replacing an own entry in place or appending.
func (n *Node) Set(key string, e Entry) {
	if n.items == nil {
		n.items = make(map[string]Entry)
	}
	if _, ok := n.items[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.items[key] = e
}

// Attach stores e under key unless n already owns key.
func (n *Node) Attach(key string, e Entry) bool {
	if _, ok := n.items[key]; ok {
		return false
	}
	n.Set(key, e)
	return true
}

func (n *Node) Len() int {
	return len(n.Keys())
}

// Facets returns the effective restriction of the chain, own facets last.
func (n *Node) Facets() *Restriction {
	chain := n.chain()
	var out *Restriction
	for i := len(chain) - 1; i >= 0; i-- {
		out = out.Merge(chain[i].Restriction)
	}
	return out
}

func (n *Node) Required() bool {
	return requiredFor(n.Facets())
}

// Resolved reports whether a declaration backs n or any of its bases, or
// whether the chain carries keys. Auto-created placeholders that were never
// declared are unresolved.
func (n *Node) Resolved() bool {
	for _, cur := range n.chain() {
		if cur.declared || len(cur.keys) > 0 {
			return true
		}
	}
	return false
}

// SetBase points n at b. It refuses bases that would close a cycle.
func (n *Node) SetBase(b *Node) bool {
	for cur := b; cur != nil; cur = cur.Base {
		if cur == n {
			return false
		}
	}
	n.Base = b
	return true
}

// Type returns the nearest declared type name in the chain.
func (n *Node) Type() string {
	for _, cur := range n.chain() {
		if cur.TypeName != "" {
			return cur.TypeName
		}
	}
	return ""
}

// Doc returns the nearest documentation in the chain.
func (n *Node) Doc() string {
	for _, cur := range n.chain() {
		if cur.Documentation != "" {
			return cur.Documentation
		}
	}
	return ""
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%s, %d keys)", n.Type(), n.Len())
}

func (n *Node) cloneEntry(memo map[Entry]Entry) Entry {
	if c, ok := memo[n]; ok {
		return c
	}
	c := &Node{}
	memo[n] = c
	*c = *n
	c.Restriction = n.Restriction.Clone()
	c.keys = append([]string(nil), n.keys...)
	c.items = make(map[string]Entry, len(n.items))
	for k, e := range n.items {
		c.items[k] = e.cloneEntry(memo)
	}
	if n.Base != nil {
		c.Base = n.Base.cloneEntry(memo).(*Node)
	}
	return c
}
