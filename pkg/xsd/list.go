package xsd

// List holds the occurrences of a repeatable slot. Proto is the slot's
// prototype; every item is an independent clone of it.
type List struct {
	Proto Entry
	Items []Entry
}

func NewList(proto Entry) *List {
	return &List{Proto: proto}
}

// Add appends a fresh clone of the prototype and returns it.
func (l *List) Add() Entry {
	item := Clone(l.Proto)
	l.Items = append(l.Items, item)
	return item
}

func (l *List) Len() int {
	return len(l.Items)
}

func (l *List) Facets() *Restriction {
	if l.Proto == nil {
		return nil
	}
	return l.Proto.Facets()
}

func (l *List) Required() bool {
	return l.Proto != nil && l.Proto.Required()
}

func (l *List) cloneEntry(memo map[Entry]Entry) Entry {
	if c, ok := memo[l]; ok {
		return c
	}
	c := &List{}
	memo[l] = c
	if l.Proto != nil {
		c.Proto = l.Proto.cloneEntry(memo)
	}
	c.Items = make([]Entry, len(l.Items))
	for i, item := range l.Items {
		c.Items[i] = item.cloneEntry(memo)
	}
	return c
}
