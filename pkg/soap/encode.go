package soap

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/pyneda/simplesoap/pkg/wsdl"
	"github.com/pyneda/simplesoap/pkg/xsd"
)

// EncodeOptions controls value validation during encoding.
type EncodeOptions struct {
	// Strict checks leaf values against their facets, nil against
	// nillable, and choice groups against their bounds.
	Strict bool
}

type encoder struct {
	opts     EncodeOptions
	visiting map[xsd.Entry]bool
}

var xsiNil = xml.Attr{Name: xml.Name{Space: wsdl.XSINamespace, Local: "nil"}, Value: "true"}

// Encode renders e as an element called name. It returns an *EmptyError
// when e has nothing to contribute; Missing then lists the required
// descendants that left it empty.
func Encode(name xml.Name, e xsd.Entry, opts EncodeOptions) (*Element, error) {
	enc := &encoder{opts: opts, visiting: make(map[xsd.Entry]bool)}
	if n, ok := e.(*xsd.Node); ok && !n.Resolved() {
		return nil, &SchemaError{Path: name.Local, Type: xsd.Key(name.Space, name.Local)}
	}
	els, err := enc.entry(name, e, name.Local)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, &EmptyError{}
	}
	return els[0], nil
}

// entry encodes e into zero or more sibling elements.
func (enc *encoder) entry(name xml.Name, e xsd.Entry, path string) ([]*Element, error) {
	switch x := e.(type) {
	case *xsd.Leaf:
		el, err := enc.leaf(name, x, path)
		if err != nil {
			return nil, err
		}
		return []*Element{el}, nil
	case *xsd.Node:
		el, err := enc.node(name, x, path)
		if err != nil {
			return nil, err
		}
		return []*Element{el}, nil
	case *xsd.List:
		return enc.list(name, x, path)
	}
	return nil, fmt.Errorf("%s: cannot encode %T", path, e)
}

func (enc *encoder) list(name xml.Name, l *xsd.List, path string) ([]*Element, error) {
	var out []*Element
	for i, item := range l.Items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		els, err := enc.entry(name, item, itemPath)
		if err != nil {
			var empty *EmptyError
			if errors.As(err, &empty) {
				if len(empty.Missing) > 0 {
					return nil, &RequiredError{Paths: empty.Missing}
				}
				continue
			}
			return nil, err
		}
		out = append(out, els...)
	}
	if len(out) == 0 {
		return nil, &EmptyError{}
	}
	return out, nil
}

// text resolves the text of l. isNil is set for Nil and for values
// without a textual representation.
func (enc *encoder) text(l *xsd.Leaf, path string) (text string, isNil bool, err error) {
	v, err := l.Resolve()
	if err != nil {
		if errors.Is(err, xsd.ErrEmpty) {
			return "", false, &EmptyError{}
		}
		return "", false, &xsd.ValueError{Path: path, Err: err}
	}
	if _, ok := v.(xsd.NilValue); ok {
		return "", true, nil
	}
	text, ok, err := xsd.Format(v)
	if err != nil {
		return "", false, &xsd.ValueError{Path: path, Value: v, Err: err}
	}
	if !ok {
		return "", true, nil
	}
	if enc.opts.Strict {
		if err := l.Facets().Check(v); err != nil {
			return "", false, &xsd.ValueError{Path: path, Value: v, Err: err}
		}
	}
	return text, false, nil
}

func (enc *encoder) leaf(name xml.Name, l *xsd.Leaf, path string) (*Element, error) {
	text, isNil, err := enc.text(l, path)
	if err != nil {
		return nil, err
	}
	el := newElement(name)
	if isNil {
		return enc.nilElement(el, l.Facets(), path)
	}
	el.SetText(text)
	return el, nil
}

func (enc *encoder) nilElement(el *Element, r *xsd.Restriction, path string) (*Element, error) {
	if r != nil && r.Nillable {
		el.Attrs = append(el.Attrs, xsiNil)
		return el, nil
	}
	if enc.opts.Strict {
		return nil, &xsd.ValueError{Path: path, Err: errors.New("not nillable")}
	}
	return el, nil
}

func (enc *encoder) node(name xml.Name, n *xsd.Node, path string) (*Element, error) {
	el := newElement(name)
	if n.Nil {
		return enc.nilElement(el, n.Facets(), path)
	}
	if enc.visiting[n] {
		return nil, &EmptyError{}
	}
	enc.visiting[n] = true
	defer delete(enc.visiting, n)

	var missing []string
	chosen := 0
	choices := n.Facets().Choices

	for _, key := range n.Keys() {
		child, _ := n.Get(key)
		childPath := joinPath(path, key)

		switch {
		case key == xsd.TextKey || xsd.IsAttrKey(key):
			l, ok := child.(*xsd.Leaf)
			if !ok {
				continue
			}
			text, isNil, err := enc.text(l, childPath)
			if err != nil {
				if errors.Is(err, xsd.ErrEmpty) {
					if l.Required() {
						missing = append(missing, childPath)
					}
					continue
				}
				return nil, err
			}
			if key == xsd.TextKey {
				if isNil {
					if _, err := enc.nilElement(el, l.Facets(), childPath); err != nil {
						return nil, err
					}
					continue
				}
				el.SetText(text)
			} else if !isNil {
				el.Attrs = append(el.Attrs, xml.Attr{Name: xml.Name{Local: key[len(xsd.AttrPrefix):]}, Value: text})
			}
		case xsd.IsMetaKey(key):
			continue
		default:
			if child.Required() {
				if cn, ok := child.(*xsd.Node); ok && !cn.Resolved() {
					return nil, &SchemaError{Path: childPath, Type: typeName(cn, key)}
				}
			}
			els, err := enc.entry(xml.Name{Space: namespaceOf(child), Local: key}, child, childPath)
			if err != nil {
				var empty *EmptyError
				if !errors.As(err, &empty) {
					return nil, err
				}
				if !child.Required() {
					continue
				}
				if len(empty.Missing) > 0 {
					missing = append(missing, empty.Missing...)
					continue
				}
				if _, isLeaf := child.(*xsd.Leaf); isLeaf {
					missing = append(missing, childPath)
					continue
				}
				els = []*Element{newElement(xml.Name{Space: namespaceOf(child), Local: key})}
			}
			if choices.Has(key) {
				chosen++
			}
			el.Children = append(el.Children, els...)
		}
	}

	if el.IsEmpty() {
		return nil, &EmptyError{Missing: missing}
	}
	if len(missing) > 0 {
		return nil, &RequiredError{Paths: missing}
	}
	if enc.opts.Strict && choices != nil {
		if lo, _ := choices.MinOccurs.Count(); chosen < lo || !choices.MaxOccurs.Allows(chosen) {
			return nil, &xsd.ValueError{Path: path, Value: chosen, Err: errors.New(choices.String())}
		}
	}
	return el, nil
}

func typeName(n *xsd.Node, fallback string) string {
	if t := n.Type(); t != "" {
		return t
	}
	return fallback
}

// namespaceOf returns the element namespace carried by a slot.
func namespaceOf(e xsd.Entry) string {
	switch x := e.(type) {
	case *xsd.Leaf:
		return x.Namespace
	case *xsd.Node:
		return x.Namespace
	case *xsd.List:
		return namespaceOf(x.Proto)
	}
	return ""
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
