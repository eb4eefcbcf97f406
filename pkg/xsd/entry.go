package xsd

import "strings"

const (
	// TextKey holds the simple content of a Node.
	TextKey = "#text"
	// AttrPrefix marks Node keys that are XML attributes.
	AttrPrefix = "@"
	metaPrefix = "#"
)

// AttrKey returns the Node key of the attribute name.
func AttrKey(name string) string {
	return AttrPrefix + name
}

func IsAttrKey(key string) bool {
	return strings.HasPrefix(key, AttrPrefix)
}

func IsMetaKey(key string) bool {
	return strings.HasPrefix(key, metaPrefix)
}

// Entry is a slot of the type tree: a *Leaf, a *Node or a *List.
type Entry interface {
	Facets() *Restriction
	Required() bool
	cloneEntry(memo map[Entry]Entry) Entry
}

// Clone returns a deep copy of e. Shared bases and recursive references
// are copied once, so the clone has the same graph shape as e.
func Clone(e Entry) Entry {
	if e == nil {
		return nil
	}
	return e.cloneEntry(make(map[Entry]Entry))
}

// requiredFor applies the slot rule on top of Restriction.Required: an
// explicit minOccurs=0 or an optional use always wins.
func requiredFor(r *Restriction) bool {
	if r == nil {
		return false
	}
	if r.MinOccurs != nil {
		if n, ok := r.MinOccurs.Count(); ok && n == 0 {
			return false
		}
	}
	if r.Use == UseOptional || r.Use == UseProhibited {
		return false
	}
	return r.Required()
}
