package xsd

import (
	"strings"
	"time"
)

const maxSampleDepth = 5

// DefaultValueStrategy generates sensible placeholder values for a type
// tree, used to produce input templates.
type DefaultValueStrategy struct{}

// NewDefaultValueStrategy creates a new default value strategy
func NewDefaultValueStrategy() *DefaultValueStrategy {
	return &DefaultValueStrategy{}
}

// Sample returns a plain value shaped like e, suitable for Merge.
func Sample(e Entry) any {
	return NewDefaultValueStrategy().GenerateForEntry(e)
}

// GenerateForType generates a default lexical value for a built-in XSD type name
func (s *DefaultValueStrategy) GenerateForType(xsdType string) string {
	typeName := strings.ToLower(LocalName(xsdType))

	switch typeName {
	// String types
	case "string", "normalizedstring", "token", "nmtoken", "nmtokens",
		"name", "ncname", "id", "idref", "idrefs", "entity", "entities":
		return "string_value"
	case "language":
		return "en"

	// Integer types
	case "int", "integer", "long", "short", "byte":
		return "1"
	case "positiveinteger", "unsignedint", "unsignedlong", "unsignedshort", "unsignedbyte":
		return "1"
	case "negativeinteger":
		return "-1"
	case "nonpositiveinteger", "nonnegativeinteger":
		return "0"

	// Decimal/Float types
	case "decimal", "float", "double":
		return "1.0"

	case "boolean":
		return "true"

	// Date/Time types
	case "date":
		return time.Now().Format("2006-01-02")
	case "datetime":
		return time.Now().UTC().Format(dateTimeLayout)
	case "time":
		return time.Now().Format("15:04:05")
	case "duration":
		return "P1D"
	case "gyear":
		return time.Now().Format("2006")
	case "gmonth":
		return "--" + time.Now().Format("01")
	case "gday":
		return "---" + time.Now().Format("02")
	case "gyearmonth":
		return time.Now().Format("2006-01")
	case "gmonthday":
		return "--" + time.Now().Format("01-02")

	// Binary types
	case "base64binary":
		return "dGVzdA==" // "test" in base64
	case "hexbinary":
		return "74657374" // "test" in hex

	case "anyuri":
		return "https://example.com"
	case "qname":
		return "prefix:localpart"
	case "notation":
		return "notation"
	}
	return "value"
}

// GenerateForEntry generates a value for any entry of the tree
func (s *DefaultValueStrategy) GenerateForEntry(e Entry) any {
	return s.generate(e, 0)
}

func (s *DefaultValueStrategy) generate(e Entry, depth int) any {
	switch x := e.(type) {
	case *Leaf:
		return s.generateLeafValue(x)
	case *List:
		return []any{s.generate(x.Proto, depth)}
	case *Node:
		if depth > maxSampleDepth {
			return map[string]any{}
		}
		return s.generateNodeValue(x, depth)
	}
	return "value"
}

func (s *DefaultValueStrategy) generateNodeValue(n *Node, depth int) any {
	result := make(map[string]any)
	facets := n.Facets()
	choices := facets.Choices

	// Handle choice (pick first alternative)
	chosen := false
	for _, key := range n.Keys() {
		if choices.Has(key) {
			if chosen {
				continue
			}
			chosen = true
		}
		child, _ := n.Get(key)
		value := s.generate(child, depth+1)
		if child.Facets().Repeatable() {
			if _, isList := child.(*List); !isList {
				value = []any{value}
			}
		}
		result[key] = value
	}

	// Simple content only: a bare value
	if text, ok := result[TextKey]; ok && len(result) == 1 {
		return text
	}
	return result
}

func (s *DefaultValueStrategy) generateLeafValue(l *Leaf) string {
	facets := l.Facets()
	// If enumeration exists, use first value
	if len(facets.Enumeration) > 0 {
		return facets.Enumeration[0]
	}
	if text, ok := l.DefaultText(); ok {
		return text
	}
	name := builtinName(l)
	if name == "" {
		name = l.Kind().String()
	}
	candidate := s.GenerateForType(name)
	if v, err := l.Kind().Parse(candidate); err == nil && facets.Check(v) == nil {
		return candidate
	}
	// Fall back to a bound when the generic value is out of range
	if facets.MinInclusive != "" {
		return facets.MinInclusive
	}
	if facets.MaxInclusive != "" {
		return facets.MaxInclusive
	}
	return candidate
}

// builtinName returns the nearest XMLSchema type name in the chain.
func builtinName(l *Leaf) string {
	prefix := "{" + Namespace + "}"
	for _, cur := range l.chain() {
		if strings.HasPrefix(cur.TypeName, prefix) {
			return strings.TrimPrefix(cur.TypeName, prefix)
		}
	}
	return ""
}
