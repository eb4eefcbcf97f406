package wsdl

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/pyneda/simplesoap/pkg/xsd"
	"github.com/rs/zerolog/log"
)

type indexed[T any] struct {
	doc  *Document
	item *T
}

// index maps qualified and local names of one kind of WSDL section. The
// first declaration of a name wins.
type index[T any] struct {
	qualified map[string]indexed[T]
	local     map[string]indexed[T]
}

func newIndex[T any]() *index[T] {
	return &index[T]{qualified: make(map[string]indexed[T]), local: make(map[string]indexed[T])}
}

func (ix *index[T]) add(doc *Document, name string, item *T) {
	key := xsd.Key(doc.TargetNamespace, name)
	if _, ok := ix.qualified[key]; !ok {
		ix.qualified[key] = indexed[T]{doc: doc, item: item}
	}
	if _, ok := ix.local[name]; !ok {
		ix.local[name] = indexed[T]{doc: doc, item: item}
	}
}

// lookup resolves the QName ref, written in doc, falling back to its local
// name.
func (ix *index[T]) lookup(doc *Document, ref string) (indexed[T], bool) {
	ns, local := resolveQName(doc, ref)
	if v, ok := ix.qualified[xsd.Key(ns, local)]; ok {
		return v, true
	}
	v, ok := ix.local[local]
	return v, ok
}

// resolveQName resolves a QName attribute value through the root namespace
// declarations of doc and then the standard prefixes.
func resolveQName(doc *Document, qname string) (string, string) {
	var ns, local string
	if doc.Namespaces != nil {
		ns, local = doc.Namespaces.ResolveQName(qname)
	} else {
		local = ExtractLocalName(qname)
	}
	if ns == "" {
		if prefix, _, ok := strings.Cut(strings.TrimSpace(qname), ":"); ok {
			ns = StandardNamespaces[prefix]
		}
	}
	return ns, local
}

// Assembler turns loaded documents into operation descriptors.
type Assembler struct {
	docs      []*Document
	tree      *xsd.Tree
	messages  *index[rawMessage]
	portTypes *index[rawPortType]
	addresses map[string]string
}

// Compile builds the type tree of docs and every SOAP 1.1 operation
// declared by their bindings.
func Compile(docs []*Document) (*Service, error) {
	a := &Assembler{
		docs:      docs,
		tree:      BuildTree(docs),
		messages:  newIndex[rawMessage](),
		portTypes: newIndex[rawPortType](),
		addresses: make(map[string]string),
	}
	definitions := 0
	for _, doc := range docs {
		if doc.Definitions == nil {
			continue
		}
		definitions++
		a.indexDocument(doc)
	}
	if definitions == 0 {
		return nil, errors.New("no WSDL definitions found")
	}

	service := &Service{Tree: a.tree, Operations: a.operations()}
	log.Debug().Int("operations", len(service.Operations)).Int("types", a.tree.Len()).Msg("Compiled service")
	return service, nil
}

func (a *Assembler) indexDocument(doc *Document) {
	defs := doc.Definitions
	for i := range defs.Messages {
		a.messages.add(doc, defs.Messages[i].Name, &defs.Messages[i])
	}
	for i := range defs.PortTypes {
		a.portTypes.add(doc, defs.PortTypes[i].Name, &defs.PortTypes[i])
	}
	for _, svc := range defs.Services {
		for _, port := range svc.Ports {
			if port.SOAPAddress == nil {
				continue
			}
			binding := ExtractLocalName(port.Binding)
			if _, ok := a.addresses[binding]; !ok {
				a.addresses[binding] = port.SOAPAddress.Location
			}
		}
	}
}

type bindingOperation struct {
	doc     *Document
	binding *rawBinding
	op      *rawBindingOperation
}

// operations groups binding operations by name in first-seen order. The
// first SOAP 1.1 binding that defines a name is used.
func (a *Assembler) operations() []*Operation {
	var order []string
	chosen := make(map[string]*bindingOperation)
	skipped := make(map[string]string)

	for _, doc := range a.docs {
		if doc.Definitions == nil {
			continue
		}
		for i := range doc.Definitions.Bindings {
			b := &doc.Definitions.Bindings[i]
			soap11 := isSOAP11(b)
			for j := range b.Operations {
				bop := &b.Operations[j]
				if _, ok := chosen[bop.Name]; ok {
					continue
				}
				if !soap11 {
					if _, ok := skipped[bop.Name]; !ok {
						skipped[bop.Name] = b.Name
					}
					continue
				}
				chosen[bop.Name] = &bindingOperation{doc: doc, binding: b, op: bop}
				order = append(order, bop.Name)
			}
		}
	}

	for name, binding := range skipped {
		if _, ok := chosen[name]; !ok {
			log.Warn().Str("operation", name).Str("binding", binding).Msg("Skipping operation without a SOAP 1.1 binding")
		}
	}

	ops := make([]*Operation, 0, len(order))
	for _, name := range order {
		op := a.operation(chosen[name])
		if op.Err != nil {
			log.Warn().Err(op.Err).Str("operation", op.Name).Msg("Operation cannot be invoked")
		}
		ops = append(ops, op)
	}
	return ops
}

func isSOAP11(b *rawBinding) bool {
	if b.SOAPBinding != nil {
		return true
	}
	for _, op := range b.Operations {
		if op.SOAPOperation != nil {
			return true
		}
	}
	return false
}

func (a *Assembler) operation(bo *bindingOperation) *Operation {
	op := &Operation{
		Name:    bo.op.Name,
		Binding: bo.binding.Name,
		URL:     a.addresses[bo.binding.Name],
	}
	if bo.op.SOAPOperation != nil {
		op.SOAPAction = bo.op.SOAPOperation.SOAPAction
	}

	var inputMessage, outputMessage string
	pt, ok := a.portTypes.lookup(bo.doc, bo.binding.Type)
	if !ok {
		op.Err = fmt.Errorf("portType %s not found", bo.binding.Type)
		return op
	}
	for i := range pt.item.Operations {
		ptOp := &pt.item.Operations[i]
		if ptOp.Name != op.Name {
			continue
		}
		op.Documentation = extractDocumentation(ptOp.Documentation)
		if ptOp.Input != nil {
			inputMessage = ptOp.Input.Message
		}
		if ptOp.Output != nil {
			outputMessage = ptOp.Output.Message
		}
		break
	}

	var err error
	op.InputHeader, op.InputBody, err = a.io(pt.doc, bo.op.Input, inputMessage)
	if err != nil {
		op.Err = fmt.Errorf("input of %s: %w", op.Name, err)
		return op
	}
	op.OutputHeader, op.OutputBody, err = a.io(pt.doc, bo.op.Output, outputMessage)
	if err != nil {
		op.Err = fmt.Errorf("output of %s: %w", op.Name, err)
	}
	return op
}

// io resolves the header and body parts of one direction. message is the
// portType message, written in doc, used when the binding names none.
func (a *Assembler) io(doc *Document, bio *rawBindingIO, message string) (header, body *PartRef, err error) {
	var headerParts map[string]bool
	if bio != nil && len(bio.SOAPHeaders) > 0 {
		if len(bio.SOAPHeaders) > 1 {
			return nil, nil, ErrMultipleParts
		}
		h := bio.SOAPHeaders[0]
		headerMessage := message
		if h.Message != "" {
			headerMessage = h.Message
		}
		header, err = a.part(doc, headerMessage, h.Part)
		if err != nil {
			return nil, nil, err
		}
		if header != nil && sameMessage(header.Message, message) {
			headerParts = map[string]bool{header.Part: true}
		}
	}

	if message == "" {
		return header, nil, nil
	}
	msg, ok := a.messages.lookup(doc, message)
	if !ok {
		return nil, nil, fmt.Errorf("message %s not found", message)
	}

	var selected []*rawMessagePart
	if bio != nil && bio.SOAPBody != nil && strings.TrimSpace(bio.SOAPBody.Parts) != "" {
		for _, name := range strings.Fields(bio.SOAPBody.Parts) {
			p := findPart(msg.item, name)
			if p == nil {
				return nil, nil, fmt.Errorf("part %s not found in message %s", name, msg.item.Name)
			}
			selected = append(selected, p)
		}
	} else {
		for i := range msg.item.Parts {
			if !headerParts[msg.item.Parts[i].Name] {
				selected = append(selected, &msg.item.Parts[i])
			}
		}
	}

	switch len(selected) {
	case 0:
		return header, nil, nil
	case 1:
		body, err = a.partRef(msg, selected[0])
		return header, body, err
	default:
		return nil, nil, ErrMultipleParts
	}
}

func sameMessage(a, b string) bool {
	return ExtractLocalName(a) == ExtractLocalName(b)
}

// part resolves one named part of message. An empty name selects the only
// part of the message.
func (a *Assembler) part(doc *Document, message, name string) (*PartRef, error) {
	msg, ok := a.messages.lookup(doc, message)
	if !ok {
		return nil, fmt.Errorf("message %s not found", message)
	}
	if name == "" {
		switch len(msg.item.Parts) {
		case 0:
			return nil, nil
		case 1:
			return a.partRef(msg, &msg.item.Parts[0])
		default:
			return nil, ErrMultipleParts
		}
	}
	p := findPart(msg.item, name)
	if p == nil {
		return nil, fmt.Errorf("part %s not found in message %s", name, msg.item.Name)
	}
	return a.partRef(msg, p)
}

func findPart(msg *rawMessage, name string) *rawMessagePart {
	for i := range msg.Parts {
		if msg.Parts[i].Name == name {
			return &msg.Parts[i]
		}
	}
	return nil
}

func (a *Assembler) partRef(msg indexed[rawMessage], p *rawMessagePart) (*PartRef, error) {
	if p.Element == "" {
		if p.Type != "" {
			return nil, ErrTypedPart
		}
		return nil, fmt.Errorf("part %s of message %s has no element", p.Name, msg.item.Name)
	}
	ns, local := resolveQName(msg.doc, p.Element)
	return &PartRef{
		Message: msg.item.Name,
		Part:    p.Name,
		Element: xml.Name{Space: ns, Local: local},
		Entry:   a.lookupElement(ns, local),
	}, nil
}

// lookupElement returns the tree entry of a top-level element. A name that
// was resolved without a namespace matches any top-level key with the same
// local name before a placeholder is created.
func (a *Assembler) lookupElement(ns, local string) xsd.Entry {
	key := xsd.Key(ns, local)
	if e, ok := a.tree.Get(key); ok {
		return e
	}
	if ns == "" {
		for _, k := range a.tree.Keys() {
			if strings.Contains(k, "/") {
				continue
			}
			if _, l := xsd.SplitKey(k); l == local {
				e, _ := a.tree.Get(k)
				return e
			}
		}
	}
	log.Debug().Str("element", key).Msg("Element not declared, using placeholder")
	return a.tree.GetOrCreate(key)
}
