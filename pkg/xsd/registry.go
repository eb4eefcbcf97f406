package xsd

import (
	"strings"
)

// Namespace is the XML Schema namespace of the built-in types.
const Namespace = "http://www.w3.org/2001/XMLSchema"

// Key returns the tree key "{ns}local".
func Key(ns, local string) string {
	return "{" + ns + "}" + local
}

// SplitKey splits a "{ns}local" key. Keys without a namespace return "".
func SplitKey(key string) (ns, local string) {
	if strings.HasPrefix(key, "{") {
		if end := strings.Index(key, "}"); end > 0 {
			return key[1:end], key[end+1:]
		}
	}
	return "", key
}

// LocalName strips a "{ns}" or "prefix:" qualifier and any path prefix.
func LocalName(name string) string {
	if i := strings.LastIndex(name, "/{"); i >= 0 {
		name = name[i+1:]
	}
	_, name = SplitKey(name)
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

type builtin struct {
	name  string
	kind  Kind
	base  string
	facet func(r *Restriction)
}

func bounds(lo, hiInclusive string) func(*Restriction) {
	return func(r *Restriction) {
		r.MinInclusive = lo
		r.MaxInclusive = hiInclusive
	}
}

func unsignedBelow(hiExclusive string) func(*Restriction) {
	return func(r *Restriction) {
		r.MinInclusive = "0"
		r.MaxExclusive = hiExclusive
	}
}

// builtins lists the XML Schema built-in types with their inherent facets.
// Derived types name their base so the facets chain through Leaf.Base.
var builtins = []builtin{
	{name: "anyType", kind: KindAnySimpleType},
	{name: "anySimpleType", kind: KindAnySimpleType},

	{name: "string", kind: KindString},
	{name: "normalizedString", base: "string", facet: func(r *Restriction) { r.WhiteSpace = "replace" }},
	{name: "token", base: "normalizedString", facet: func(r *Restriction) { r.WhiteSpace = "collapse" }},
	{name: "language", base: "token", facet: func(r *Restriction) {
		r.Pattern = []string{`[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*`}
	}},
	{name: "NMTOKEN", base: "token", facet: func(r *Restriction) { r.Pattern = []string{`[\w.:-]+`} }},
	{name: "NMTOKENS", base: "token"},
	{name: "Name", base: "token", facet: func(r *Restriction) { r.Pattern = []string{`[A-Za-z_:][\w.:-]*`} }},
	{name: "NCName", base: "Name", facet: func(r *Restriction) { r.Pattern = []string{`[A-Za-z_][\w.-]*`} }},
	{name: "ID", base: "NCName"},
	{name: "IDREF", base: "NCName"},
	{name: "IDREFS", base: "token"},
	{name: "ENTITY", base: "NCName"},
	{name: "ENTITIES", base: "token"},
	{name: "QName", kind: KindString},
	{name: "NOTATION", kind: KindString},
	{name: "anyURI", kind: KindString, facet: func(r *Restriction) { r.Custom = "value is a URI reference" }},
	{name: "gYear", kind: KindString, facet: func(r *Restriction) { r.Pattern = []string{`-?\d{4,}(Z|[+-]\d{2}:\d{2})?`} }},
	{name: "gYearMonth", kind: KindString, facet: func(r *Restriction) { r.Pattern = []string{`-?\d{4,}-\d{2}(Z|[+-]\d{2}:\d{2})?`} }},
	{name: "gMonth", kind: KindString, facet: func(r *Restriction) { r.Pattern = []string{`--\d{2}(Z|[+-]\d{2}:\d{2})?`} }},
	{name: "gMonthDay", kind: KindString, facet: func(r *Restriction) { r.Pattern = []string{`--\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?`} }},
	{name: "gDay", kind: KindString, facet: func(r *Restriction) { r.Pattern = []string{`---\d{2}(Z|[+-]\d{2}:\d{2})?`} }},

	{name: "boolean", kind: KindBoolean},
	{name: "decimal", kind: KindDecimal},
	{name: "float", kind: KindFloat},
	{name: "double", kind: KindDouble},
	{name: "base64Binary", kind: KindBase64Binary},
	{name: "hexBinary", kind: KindHexBinary},
	{name: "date", kind: KindDate},
	{name: "time", kind: KindTime},
	{name: "dateTime", kind: KindDateTime},
	{name: "duration", kind: KindDuration},

	{name: "integer", kind: KindInteger, base: "decimal", facet: func(r *Restriction) { r.FractionDigits = intPtr(0) }},
	{name: "long", base: "integer", facet: bounds("-9223372036854775808", "9223372036854775807")},
	{name: "int", base: "long", facet: bounds("-2147483648", "2147483647")},
	{name: "short", base: "int", facet: bounds("-32768", "32767")},
	{name: "byte", base: "short", facet: bounds("-128", "127")},
	{name: "nonPositiveInteger", base: "integer", facet: func(r *Restriction) { r.MaxInclusive = "0" }},
	{name: "negativeInteger", base: "nonPositiveInteger", facet: func(r *Restriction) { r.MaxInclusive = "-1" }},
	{name: "nonNegativeInteger", kind: KindUnsignedInteger, base: "integer", facet: func(r *Restriction) { r.MinInclusive = "0" }},
	{name: "positiveInteger", base: "nonNegativeInteger", facet: func(r *Restriction) { r.MinInclusive = "1" }},
	{name: "unsignedLong", base: "nonNegativeInteger", facet: unsignedBelow("18446744073709551616")},
	{name: "unsignedInt", base: "unsignedLong", facet: unsignedBelow("4294967296")},
	{name: "unsignedShort", base: "unsignedInt", facet: unsignedBelow("65536")},
	{name: "unsignedByte", base: "unsignedShort", facet: unsignedBelow("256")},
}

// IsBuiltin reports whether local names an XML Schema built-in type.
func IsBuiltin(local string) bool {
	for _, b := range builtins {
		if b.name == local {
			return true
		}
	}
	return false
}

// RegisterBuiltins seeds t with a Leaf prototype for every built-in type
// and returns how many were added.
func RegisterBuiltins(t *Tree) int {
	added := 0
	leaves := make(map[string]*Leaf, len(builtins))
	for _, b := range builtins {
		key := Key(Namespace, b.name)
		l := &Leaf{Primitive: b.kind, TypeName: key, Namespace: Namespace}
		if b.facet != nil {
			l.Restriction = &Restriction{}
			b.facet(l.Restriction)
		}
		if b.base != "" {
			l.SetBase(leaves[b.base])
		}
		leaves[b.name] = l
		if _, ok := t.Get(key); !ok {
			added++
		}
		if stored, ok := t.Put(key, l).(*Leaf); ok {
			leaves[b.name] = stored
		}
	}
	return added
}
