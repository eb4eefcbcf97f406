package xsd

import "fmt"

// Leaf is a scalar slot. A Leaf either declares its primitive Kind or
// delegates it to Base; slot wrappers created for typed declarations carry
// only occurrence facets and point at the shared type through Base.
type Leaf struct {
	Primitive     Kind
	TypeName      string
	Base          *Leaf
	Restriction   *Restriction
	Default       *string
	Documentation string
	Namespace     string

	value any
	bound bool
}

// chain returns l followed by its bases, stopping at the first repeat.
func (l *Leaf) chain() []*Leaf {
	var out []*Leaf
	seen := make(map[*Leaf]bool)
	for cur := l; cur != nil && !seen[cur]; cur = cur.Base {
		seen[cur] = true
		out = append(out, cur)
	}
	return out
}

// Kind returns the effective primitive kind. A chain that declares none
// is anySimpleType.
func (l *Leaf) Kind() Kind {
	for _, cur := range l.chain() {
		if cur.Primitive != KindUnset {
			return cur.Primitive
		}
	}
	return KindAnySimpleType
}

// Type returns the nearest declared type name in the chain.
func (l *Leaf) Type() string {
	for _, cur := range l.chain() {
		if cur.TypeName != "" {
			return cur.TypeName
		}
	}
	return ""
}

// Facets returns the effective restriction: the base chain's facets
// overlaid by each derived leaf, with l's own facets winning.
func (l *Leaf) Facets() *Restriction {
	chain := l.chain()
	var out *Restriction
	for i := len(chain) - 1; i >= 0; i-- {
		out = out.Merge(chain[i].Restriction)
	}
	return out
}

func (l *Leaf) Required() bool {
	return requiredFor(l.Facets())
}

// SetBase points l at b. It refuses bases that would close a cycle.
func (l *Leaf) SetBase(b *Leaf) bool {
	for cur := b; cur != nil; cur = cur.Base {
		if cur == l {
			return false
		}
	}
	l.Base = b
	return true
}

// Bind sets the value of l. Binding nil binds Nil.
func (l *Leaf) Bind(v any) {
	if v == nil {
		v = Nil
	}
	l.value = v
	l.bound = true
}

func (l *Leaf) Unbind() {
	l.value = nil
	l.bound = false
}

func (l *Leaf) Bound() bool {
	return l.bound
}

// Value returns the bound value, or nil when l is unbound.
func (l *Leaf) Value() any {
	return l.value
}

// DefaultText returns the nearest default declared in the chain.
func (l *Leaf) DefaultText() (string, bool) {
	for _, cur := range l.chain() {
		if cur.Default != nil {
			return *cur.Default, true
		}
	}
	return "", false
}

// Resolve yields the bound value, else the parsed default, else ErrEmpty.
func (l *Leaf) Resolve() (any, error) {
	if l.bound {
		return l.value, nil
	}
	if text, ok := l.DefaultText(); ok {
		v, err := l.Kind().Parse(text)
		if err != nil {
			return nil, fmt.Errorf("default %q: %w", text, err)
		}
		return v, nil
	}
	return nil, ErrEmpty
}

// Doc returns the nearest documentation in the chain.
func (l *Leaf) Doc() string {
	for _, cur := range l.chain() {
		if cur.Documentation != "" {
			return cur.Documentation
		}
	}
	return ""
}

func (l *Leaf) String() string {
	return fmt.Sprintf("Leaf(%s)", l.Kind())
}

func (l *Leaf) cloneEntry(memo map[Entry]Entry) Entry {
	if c, ok := memo[l]; ok {
		return c
	}
	c := &Leaf{}
	memo[l] = c
	*c = *l
	c.Restriction = l.Restriction.Clone()
	if l.Default != nil {
		d := *l.Default
		c.Default = &d
	}
	if l.Base != nil {
		c.Base = l.Base.cloneEntry(memo).(*Leaf)
	}
	return c
}
