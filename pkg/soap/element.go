package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/pyneda/simplesoap/pkg/wsdl"
)

// Element is a namespace-qualified XML element built by the encoder.
type Element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Text     *string
	Children []*Element
}

func newElement(name xml.Name) *Element {
	return &Element{Name: name}
}

func (e *Element) SetText(s string) {
	e.Text = &s
}

// IsEmpty reports whether e has no attributes, text or children.
func (e *Element) IsEmpty() bool {
	return len(e.Attrs) == 0 && e.Text == nil && len(e.Children) == 0
}

// Child returns the first child with the given local name.
func (e *Element) Child(local string) *Element {
	for _, c := range e.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// prefixer assigns one prefix per namespace. Well-known namespaces keep
// their usual prefix; the rest are numbered ns0, ns1...
type prefixer struct {
	known    *wsdl.NamespaceMap
	prefixes map[string]string
	order    []string
}

func newPrefixer() *prefixer {
	known := wsdl.StandardNamespaceMap()
	known.Add("wsse", WSSENamespace)
	return &prefixer{known: known, prefixes: make(map[string]string)}
}

func (p *prefixer) add(ns string) {
	if ns == "" {
		return
	}
	if _, ok := p.prefixes[ns]; ok {
		return
	}
	prefix := p.known.GetPrefix(ns)
	if prefix == "" {
		for i := 0; ; i++ {
			prefix = fmt.Sprintf("ns%d", i)
			if p.known.GetNamespace(prefix) == "" {
				break
			}
		}
		p.known.Add(prefix, ns)
	}
	p.prefixes[ns] = prefix
	p.order = append(p.order, ns)
}

func (p *prefixer) collect(e *Element) {
	p.add(e.Name.Space)
	for _, a := range e.Attrs {
		p.add(a.Name.Space)
	}
	for _, c := range e.Children {
		p.collect(c)
	}
}

func (p *prefixer) qualify(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return p.prefixes[name.Space] + ":" + name.Local
}

// Marshal serializes root with every namespace declared once on it.
func Marshal(root *Element) ([]byte, error) {
	p := newPrefixer()
	p.collect(root)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := p.encode(enc, root, true); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *prefixer) encode(enc *xml.Encoder, e *Element, root bool) error {
	start := xml.StartElement{Name: xml.Name{Local: p.qualify(e.Name)}}
	if root {
		for _, ns := range p.order {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xmlns:" + p.prefixes[ns]}, Value: ns})
		}
	}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: p.qualify(a.Name)}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("encoding %s: %w", start.Name.Local, err)
	}
	if e.Text != nil && *e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(*e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := p.encode(enc, c, false); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
