package soap

import (
	"errors"
	"fmt"
	"strings"

	"aqwari.net/xml/xmltree"
	"github.com/pyneda/simplesoap/pkg/wsdl"
	"github.com/pyneda/simplesoap/pkg/xsd"
	"github.com/rs/zerolog/log"
)

// DecodeOptions controls how strictly responses are matched to the schema.
type DecodeOptions struct {
	// Strict rejects undeclared elements and attributes and checks values
	// against their facets.
	Strict bool
}

// Decode populates a clone of proto from el. Values are parsed by the
// declared kind of each slot; the prototype is never modified.
func Decode(el *xmltree.Element, proto xsd.Entry, opts DecodeOptions) (xsd.Entry, error) {
	if proto == nil {
		return nil, &DecodeError{Path: "/" + el.Name.Local, Err: errors.New("no schema entry")}
	}
	target := xsd.Clone(proto)
	d := &decoder{opts: opts}
	if l, ok := target.(*xsd.List); ok {
		target = l.Add()
	}
	if err := d.entry(el, target, "/"+el.Name.Local); err != nil {
		return nil, err
	}
	return target, nil
}

type decoder struct {
	opts DecodeOptions
}

func (d *decoder) entry(el *xmltree.Element, e xsd.Entry, path string) error {
	switch x := e.(type) {
	case *xsd.Leaf:
		return d.leaf(el, x, path)
	case *xsd.Node:
		return d.node(el, x, path)
	case *xsd.List:
		return d.entry(el, x.Add(), path)
	}
	return &DecodeError{Path: path, Err: fmt.Errorf("cannot decode into %T", e)}
}

func isNil(el *xmltree.Element) bool {
	v := el.Attr(wsdl.XSINamespace, "nil")
	return v == "true" || v == "1"
}

func (d *decoder) text(el *xmltree.Element) (string, error) {
	var text string
	if err := xmltree.Unmarshal(el, &text); err != nil {
		return "", err
	}
	return text, nil
}

// bind parses text by the kind of l and binds the result.
func (d *decoder) bind(l *xsd.Leaf, text, path string) error {
	kind := l.Kind()
	if kind != xsd.KindString && kind != xsd.KindAnySimpleType {
		text = strings.TrimSpace(text)
	}
	v, err := kind.Parse(text)
	if err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	if d.opts.Strict {
		if err := l.Facets().Check(v); err != nil {
			return &DecodeError{Path: path, Err: err}
		}
	}
	l.Bind(v)
	return nil
}

func (d *decoder) leaf(el *xmltree.Element, l *xsd.Leaf, path string) error {
	if isNil(el) {
		l.Bind(xsd.Nil)
		return nil
	}
	text, err := d.text(el)
	if err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return d.bind(l, text, path)
}

// own returns the entry under key that n may modify, cloning entries
// inherited from a shared base.
func own(n *xsd.Node, key string) (xsd.Entry, bool) {
	if e, ok := n.Own(key); ok {
		return e, true
	}
	e, ok := n.Get(key)
	if !ok {
		return nil, false
	}
	c := xsd.Clone(e)
	n.Set(key, c)
	return c, true
}

func (d *decoder) node(el *xmltree.Element, n *xsd.Node, path string) error {
	if isNil(el) {
		n.Nil = true
		return nil
	}

	for _, attr := range el.StartElement.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" || attr.Name.Space == wsdl.XSINamespace {
			continue
		}
		attrPath := path + "/@" + attr.Name.Local
		child, ok := own(n, xsd.AttrKey(attr.Name.Local))
		if !ok {
			if d.opts.Strict {
				return &DecodeError{Path: attrPath, Err: errors.New("undeclared attribute")}
			}
			continue
		}
		l, ok := child.(*xsd.Leaf)
		if !ok {
			continue
		}
		if err := d.bind(l, attr.Value, attrPath); err != nil {
			return err
		}
	}

	if _, ok := n.Get(xsd.TextKey); ok && len(el.Children) == 0 {
		child, _ := own(n, xsd.TextKey)
		if l, ok := child.(*xsd.Leaf); ok {
			text, err := d.text(el)
			if err != nil {
				return &DecodeError{Path: path, Err: err}
			}
			if err := d.bind(l, text, path); err != nil {
				return err
			}
		}
	}

	var order []string
	groups := make(map[string][]*xmltree.Element)
	for i := range el.Children {
		c := &el.Children[i]
		if _, ok := groups[c.Name.Local]; !ok {
			order = append(order, c.Name.Local)
		}
		groups[c.Name.Local] = append(groups[c.Name.Local], c)
	}

	for _, local := range order {
		els := groups[local]
		childPath := path + "/" + local
		child, ok := own(n, local)
		if !ok {
			if d.opts.Strict {
				return &DecodeError{Path: childPath, Err: errors.New("undeclared element")}
			}
			log.Debug().Str("path", childPath).Msg("Skipping undeclared element")
			continue
		}

		list, isList := child.(*xsd.List)
		if !isList && (len(els) > 1 || child.Facets().Repeatable()) {
			list = xsd.NewList(child)
			n.Set(local, list)
			isList = true
		}
		if !isList {
			if err := d.entry(els[0], child, childPath); err != nil {
				return err
			}
			continue
		}
		list.Items = nil
		for i, c := range els {
			if err := d.entry(c, list.Add(), fmt.Sprintf("%s[%d]", childPath, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
