package wsdl

import (
	"strings"

	"aqwari.net/xml/xmltree"
	"github.com/pyneda/simplesoap/pkg/xsd"
	"github.com/rs/zerolog/log"
)

// namedKinds are the schema components whose name becomes a tree key or a
// path segment of the keys nested below them.
var namedKinds = map[string]bool{
	"element":        true,
	"attribute":      true,
	"complexType":    true,
	"simpleType":     true,
	"group":          true,
	"attributeGroup": true,
}

type schemaInfo struct {
	root      *xmltree.Element
	tns       string
	qualified bool
	location  string
}

// declaration is one XSD element of a schema with its ancestors, outermost
// first. The xs:schema element itself is not among the ancestors.
type declaration struct {
	el        *xmltree.Element
	ancestors []*xmltree.Element
	schema    *schemaInfo
}

func (d *declaration) is(local string) bool {
	return d.el.Name.Local == local
}

func (d *declaration) parent() *xmltree.Element {
	if len(d.ancestors) == 0 {
		return nil
	}
	return d.ancestors[len(d.ancestors)-1]
}

// Builder turns the schemas of a set of documents into a type tree.
type Builder struct {
	tree    *xsd.Tree
	schemas []*schemaInfo
	decls   []*declaration
}

// NewBuilder collects every xs:schema of docs, either embedded under
// wsdl:types or as a document root.
func NewBuilder(docs []*Document) *Builder {
	b := &Builder{tree: xsd.NewTree()}
	for _, doc := range docs {
		var roots []*xmltree.Element
		if doc.IsSchema() {
			roots = []*xmltree.Element{doc.Root}
		} else {
			roots = doc.Root.Search(XSDNamespace, "schema")
		}
		for _, root := range roots {
			s := &schemaInfo{
				root:      root,
				tns:       root.Attr("", "targetNamespace"),
				qualified: root.Attr("", "elementFormDefault") == "qualified",
				location:  doc.Location,
			}
			b.schemas = append(b.schemas, s)
			b.collect(s, root, nil)
		}
	}
	return b
}

func (b *Builder) collect(s *schemaInfo, el *xmltree.Element, ancestors []*xmltree.Element) {
	for i := range el.Children {
		child := &el.Children[i]
		if child.Name.Space != XSDNamespace {
			continue
		}
		b.decls = append(b.decls, &declaration{el: child, ancestors: ancestors, schema: s})
		next := make([]*xmltree.Element, len(ancestors), len(ancestors)+1)
		copy(next, ancestors)
		b.collect(s, child, append(next, child))
	}
}

// BuildTree runs every builder pass over docs.
func BuildTree(docs []*Document) *xsd.Tree {
	return NewBuilder(docs).Build()
}

// Build runs the passes in order and returns the tree. Every pass is safe
// to apply to a declaration reachable from more than one document.
func (b *Builder) Build() *xsd.Tree {
	passes := []struct {
		name string
		run  func() int
	}{
		{"builtins", func() int { return xsd.RegisterBuiltins(b.tree) }},
		{"simple types", b.simpleTypes},
		{"declarations", b.declarations},
		{"bases", b.bases},
		{"facets", b.facets},
		{"choices", b.choices},
	}
	for _, pass := range passes {
		n := pass.run()
		log.Debug().Str("pass", pass.name).Int("count", n).Int("entries", b.tree.Len()).Msg("Type tree pass completed")
	}
	return b.tree
}

// simpleTypes registers named simple types under their own key and
// anonymous ones under the key of their nearest named ancestor.
func (b *Builder) simpleTypes() int {
	count := 0
	for _, d := range b.decls {
		if !d.is("simpleType") {
			continue
		}
		if name := d.el.Attr("", "name"); name != "" {
			key := b.keyOf(d)
			b.tree.Put(key, &xsd.Leaf{TypeName: key, Namespace: d.schema.tns, Documentation: documentation(d.el)})
			count++
			continue
		}
		if owner, ok := b.ownerKey(d); ok {
			b.tree.Put(owner, &xsd.Leaf{Documentation: documentation(d.el)})
			count++
		}
	}
	return count
}

// declarations registers complex types, groups, elements and attributes,
// attaching local declarations under their nearest named ancestor.
func (b *Builder) declarations() int {
	count := 0
	for _, d := range b.decls {
		switch d.el.Name.Local {
		case "complexType", "group", "attributeGroup":
			name := d.el.Attr("", "name")
			if name == "" {
				continue
			}
			key := b.keyOf(d)
			n := xsd.NewNode()
			n.TypeName = key
			n.Namespace = d.schema.tns
			n.Documentation = documentation(d.el)
			b.tree.Put(key, n)
			count++
		case "element", "attribute":
			if d.el.Attr("", "name") == "" {
				if ref := d.el.Attr("", "ref"); ref != "" {
					log.Debug().Str("ref", ref).Str("location", d.schema.location).Msg("Skipping ref declaration")
				}
				continue
			}
			if b.declare(d) {
				count++
			}
		}
	}
	return count
}

func (b *Builder) declare(d *declaration) bool {
	key := b.keyOf(d)
	name := d.el.Attr("", "name")
	attribute := d.is("attribute")
	ownerKey, local := b.ownerKey(d)

	namespace := d.schema.tns
	if local && !attribute {
		switch d.el.Attr("", "form") {
		case "qualified":
		case "unqualified":
			namespace = ""
		default:
			if !d.schema.qualified {
				namespace = ""
			}
		}
	}
	if attribute {
		namespace = ""
	}

	var slot xsd.Entry
	switch {
	case d.el.Attr("", "type") != "":
		typeKey := b.resolveType(d.el, d.el.Attr("", "type"))
		target := b.tree.GetOrCreate(typeKey)
		if !local {
			if existing, ok := b.tree.Get(key); ok && existing == target {
				return true
			}
		}
		switch t := target.(type) {
		case *xsd.Leaf:
			slot = &xsd.Leaf{Base: t, Namespace: namespace, Documentation: documentation(d.el)}
		case *xsd.Node:
			slot = &xsd.Node{Base: t, Namespace: namespace, Documentation: documentation(d.el)}
		default:
			return false
		}
	case hasChild(d.el, "complexType"):
		n := xsd.NewNode()
		n.Namespace = namespace
		n.Documentation = documentation(d.el)
		slot = b.tree.Put(key, n)
	case hasChild(d.el, "simpleType"):
		slot = b.tree.Put(key, &xsd.Leaf{Namespace: namespace})
		if l, ok := slot.(*xsd.Leaf); ok && l.Documentation == "" {
			l.Documentation = documentation(d.el)
		}
	default:
		anyName := "anyType"
		if attribute {
			anyName = "anySimpleType"
		}
		base, _ := b.tree.Get(xsd.Key(xsd.Namespace, anyName))
		leaf, _ := base.(*xsd.Leaf)
		slot = &xsd.Leaf{Base: leaf, Namespace: namespace, Documentation: documentation(d.el)}
	}

	b.applyDeclarationFacets(d, slot, local)

	if !local {
		b.tree.Put(key, slot)
		return true
	}

	owner := b.tree.GetOrCreate(ownerKey)
	parent, ok := owner.(*xsd.Node)
	if !ok {
		log.Debug().Str("key", key).Str("owner", ownerKey).Msg("Owner of local declaration is not a complex type")
		return false
	}
	childKey := name
	if attribute {
		childKey = xsd.AttrKey(name)
	}
	parent.Attach(childKey, slot)
	return true
}

// applyDeclarationFacets copies occurrence, nillable, use and default onto
// the slot of a declaration.
func (b *Builder) applyDeclarationFacets(d *declaration, slot xsd.Entry, local bool) {
	r := &xsd.Restriction{}
	if local && d.is("element") {
		minOccurs, maxOccurs := b.occurrence(d)
		r.MinOccurs = &minOccurs
		if maxOccurs != nil {
			r.MaxOccurs = maxOccurs
		}
	}
	if d.is("attribute") {
		r.Use = d.el.Attr("", "use")
	}
	if v := d.el.Attr("", "nillable"); v == "true" || v == "1" {
		r.Nillable = true
	}

	def, hasDefault := attrValue(d.el, "default")
	switch s := slot.(type) {
	case *xsd.Leaf:
		s.Restriction = s.Restriction.Merge(r)
		if hasDefault {
			s.Default = &def
		}
	case *xsd.Node:
		s.Restriction = s.Restriction.Merge(r)
		if hasDefault {
			log.Debug().Str("element", d.el.Attr("", "name")).Msg("Ignoring default on a complex element")
		}
	}
}

// occurrence computes the bounds of a local element, taking optional and
// repeatable compositors between it and its owner into account.
func (b *Builder) occurrence(d *declaration) (xsd.Occurs, *xsd.Occurs) {
	minOccurs := xsd.Bounded(1)
	if v := d.el.Attr("", "minOccurs"); v != "" {
		if o, err := xsd.ParseOccurs(v); err == nil {
			minOccurs = o
		}
	}
	var maxOccurs *xsd.Occurs
	if v := d.el.Attr("", "maxOccurs"); v != "" {
		if o, err := xsd.ParseOccurs(v); err == nil {
			maxOccurs = &o
		}
	}

	for i := len(d.ancestors) - 1; i >= 0; i-- {
		anc := d.ancestors[i]
		if isNamed(anc) {
			break
		}
		switch anc.Name.Local {
		case "choice", "sequence", "all":
		default:
			continue
		}
		if anc.Name.Local == "choice" {
			minOccurs = xsd.Bounded(0)
		}
		if v := anc.Attr("", "minOccurs"); v != "" {
			if o, err := xsd.ParseOccurs(v); err == nil {
				if n, _ := o.Count(); n == 0 {
					minOccurs = xsd.Bounded(0)
				}
			}
		}
		if v := anc.Attr("", "maxOccurs"); v != "" && maxOccurs == nil {
			if o, err := xsd.ParseOccurs(v); err == nil && o.Repeatable() {
				maxOccurs = &o
			}
		}
	}
	return minOccurs, maxOccurs
}

// bases links extension and restriction bases to their owners.
func (b *Builder) bases() int {
	count := 0
	for _, d := range b.decls {
		if !d.is("extension") && !d.is("restriction") {
			continue
		}
		baseName := d.el.Attr("", "base")
		if baseName == "" {
			continue
		}
		ownerKey, ok := b.ownerKey(d)
		if !ok {
			continue
		}
		owner, ok := b.tree.Get(ownerKey)
		if !ok {
			continue
		}
		base := b.tree.GetOrCreate(b.resolveType(d.el, baseName))

		switch o := owner.(type) {
		case *xsd.Leaf:
			if bl, ok := base.(*xsd.Leaf); ok && o.SetBase(bl) {
				count++
			}
		case *xsd.Node:
			switch bt := base.(type) {
			case *xsd.Leaf:
				if o.Attach(xsd.TextKey, &xsd.Leaf{Base: bt}) {
					count++
				}
			case *xsd.Node:
				if o.SetBase(bt) {
					count++
				} else {
					log.Warn().Str("type", ownerKey).Str("base", baseName).Msg("Ignoring cyclic base")
				}
			}
		}
	}
	return count
}

// facets folds xs:restriction facets into the restriction of their owner.
func (b *Builder) facets() int {
	count := 0
	for _, d := range b.decls {
		if !d.is("restriction") {
			continue
		}
		ownerKey, ok := b.ownerKey(d)
		if !ok {
			continue
		}
		owner, ok := b.tree.Get(ownerKey)
		if !ok {
			continue
		}

		values := make(map[string][]string)
		for i := range d.el.Children {
			child := &d.el.Children[i]
			if child.Name.Space != XSDNamespace {
				continue
			}
			if v, ok := attrValue(child, "value"); ok {
				values[child.Name.Local] = append(values[child.Name.Local], v)
			}
		}
		if len(values) == 0 {
			continue
		}

		target := restrictionTarget(owner)
		if target == nil {
			continue
		}
		if *target == nil {
			*target = &xsd.Restriction{}
		}
		for _, name := range xsd.FacetNames {
			if vs, ok := values[name]; ok {
				if err := (*target).SetFacet(name, vs); err != nil {
					log.Warn().Err(err).Str("type", ownerKey).Msg("Ignoring invalid facet")
					continue
				}
				count++
			}
		}
	}
	return count
}

// restrictionTarget returns where value facets of owner live: the leaf
// itself, or the simple content of a complex type.
func restrictionTarget(owner xsd.Entry) **xsd.Restriction {
	switch o := owner.(type) {
	case *xsd.Leaf:
		return &o.Restriction
	case *xsd.Node:
		if text, ok := o.Own(xsd.TextKey); ok {
			if l, ok := text.(*xsd.Leaf); ok {
				return &l.Restriction
			}
		}
		return &o.Restriction
	}
	return nil
}

// choices records every xs:choice as the alternative set of its owner.
func (b *Builder) choices() int {
	count := 0
	for _, d := range b.decls {
		if !d.is("choice") {
			continue
		}
		ownerKey, ok := b.ownerKey(d)
		if !ok {
			continue
		}
		owner, ok := b.tree.Get(ownerKey)
		if !ok {
			continue
		}
		n, ok := owner.(*xsd.Node)
		if !ok {
			continue
		}

		var names []string
		for i := range d.el.Children {
			child := &d.el.Children[i]
			if child.Name.Space == XSDNamespace && child.Name.Local == "element" {
				if name := child.Attr("", "name"); name != "" {
					names = append(names, name)
				}
			}
		}
		group := xsd.NewChoiceGroup(names...)
		if v := d.el.Attr("", "minOccurs"); v != "" {
			if o, err := xsd.ParseOccurs(v); err == nil {
				group.MinOccurs = o
			}
		}
		if v := d.el.Attr("", "maxOccurs"); v != "" {
			if o, err := xsd.ParseOccurs(v); err == nil {
				group.MaxOccurs = o
			}
		}
		if n.Restriction == nil {
			n.Restriction = &xsd.Restriction{}
		}
		n.Restriction.Choices = group
		count++
	}
	return count
}

func isNamed(el *xmltree.Element) bool {
	return el.Name.Space == XSDNamespace && namedKinds[el.Name.Local] && el.Attr("", "name") != ""
}

func segment(el *xmltree.Element, tns string) string {
	name := el.Attr("", "name")
	if el.Name.Local == "attribute" {
		name = xsd.AttrPrefix + name
	}
	return xsd.Key(tns, name)
}

func pathKey(els []*xmltree.Element, tns string) string {
	var segments []string
	for _, el := range els {
		if isNamed(el) {
			segments = append(segments, segment(el, tns))
		}
	}
	return strings.Join(segments, "/")
}

// keyOf returns the tree key of a named declaration.
func (b *Builder) keyOf(d *declaration) string {
	return pathKey(append(append([]*xmltree.Element(nil), d.ancestors...), d.el), d.schema.tns)
}

// ownerKey returns the key of the nearest named ancestor of d.
func (b *Builder) ownerKey(d *declaration) (string, bool) {
	for i := len(d.ancestors) - 1; i >= 0; i-- {
		if isNamed(d.ancestors[i]) {
			return pathKey(d.ancestors[:i+1], d.schema.tns), true
		}
	}
	return "", false
}

// resolveType resolves a type QName through the namespaces in scope at el,
// falling back to the standard prefix table.
func (b *Builder) resolveType(el *xmltree.Element, qname string) string {
	qname = strings.TrimSpace(qname)
	prefix, local, hasPrefix := strings.Cut(qname, ":")
	if !hasPrefix {
		local = prefix
		prefix = ""
	}
	name := el.Resolve(qname)
	space := name.Space
	if hasPrefix && (space == "" || space == prefix) {
		space = StandardNamespaces[prefix]
	}
	return xsd.Key(space, local)
}

func hasChild(el *xmltree.Element, local string) bool {
	for i := range el.Children {
		if el.Children[i].Name.Space == XSDNamespace && el.Children[i].Name.Local == local {
			return true
		}
	}
	return false
}

func attrValue(el *xmltree.Element, name string) (string, bool) {
	for _, a := range el.StartElement.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// documentation returns the text of xs:annotation/xs:documentation.
func documentation(el *xmltree.Element) string {
	var parts []string
	for i := range el.Children {
		ann := &el.Children[i]
		if ann.Name.Space != XSDNamespace || ann.Name.Local != "annotation" {
			continue
		}
		for j := range ann.Children {
			doc := &ann.Children[j]
			if doc.Name.Space != XSDNamespace || doc.Name.Local != "documentation" {
				continue
			}
			var text string
			if err := xmltree.Unmarshal(doc, &text); err == nil {
				if text = strings.TrimSpace(text); text != "" {
					parts = append(parts, text)
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}
