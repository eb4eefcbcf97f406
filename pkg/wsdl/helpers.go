package wsdl

import (
	"net/url"
	"strings"
)

// QName represents a qualified name with namespace
type QName struct {
	Namespace string
	LocalPart string
	Prefix    string
}

// ParseQName parses a qualified name string like "tns:localName" or "{namespace}localName"
func ParseQName(qname string, namespaces map[string]string) QName {
	qname = strings.TrimSpace(qname)

	// Handle Clark notation: {namespace}localName
	if strings.HasPrefix(qname, "{") {
		idx := strings.Index(qname, "}")
		if idx > 0 {
			return QName{
				Namespace: qname[1:idx],
				LocalPart: qname[idx+1:],
			}
		}
	}

	// Handle prefix:localName
	if idx := strings.Index(qname, ":"); idx > 0 {
		prefix := qname[:idx]
		localPart := qname[idx+1:]
		ns := ""
		if namespaces != nil {
			ns = namespaces[prefix]
		}
		return QName{
			Prefix:    prefix,
			LocalPart: localPart,
			Namespace: ns,
		}
	}

	// No prefix - use default namespace if available
	ns := ""
	if namespaces != nil {
		ns = namespaces[""]
	}
	return QName{
		LocalPart: qname,
		Namespace: ns,
	}
}

// ExtractLocalName extracts the local part from a QName string
func ExtractLocalName(qname string) string {
	qname = strings.TrimSpace(qname)

	// Handle Clark notation: {namespace}localName
	if strings.HasPrefix(qname, "{") {
		idx := strings.Index(qname, "}")
		if idx > 0 {
			return qname[idx+1:]
		}
	}

	// Handle prefix:localName
	if idx := strings.LastIndex(qname, ":"); idx >= 0 {
		return qname[idx+1:]
	}

	return qname
}

// ResolveURL resolves a relative URL against a base URL
func ResolveURL(baseURL, relativeURL string) string {
	if relativeURL == "" {
		return baseURL
	}

	// Check if relativeURL is already absolute
	if strings.HasPrefix(relativeURL, "http://") || strings.HasPrefix(relativeURL, "https://") {
		return relativeURL
	}

	// Parse base URL
	base, err := url.Parse(baseURL)
	if err != nil {
		return relativeURL
	}

	// Parse relative URL
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return relativeURL
	}

	// Resolve
	resolved := base.ResolveReference(rel)
	return resolved.String()
}

// NamespaceMap manages XML namespace prefixes
type NamespaceMap struct {
	prefixToNS map[string]string
	nsToPrefix map[string]string
}

// NewNamespaceMap creates a new namespace map
func NewNamespaceMap() *NamespaceMap {
	return &NamespaceMap{
		prefixToNS: make(map[string]string),
		nsToPrefix: make(map[string]string),
	}
}

// Add adds a prefix-namespace mapping
func (nm *NamespaceMap) Add(prefix, namespace string) {
	nm.prefixToNS[prefix] = namespace
	// Only set reverse mapping if not already present (prefer first prefix)
	if _, exists := nm.nsToPrefix[namespace]; !exists {
		nm.nsToPrefix[namespace] = prefix
	}
}

// GetNamespace returns the namespace for a prefix
func (nm *NamespaceMap) GetNamespace(prefix string) string {
	return nm.prefixToNS[prefix]
}

// GetPrefix returns a prefix for a namespace
func (nm *NamespaceMap) GetPrefix(namespace string) string {
	return nm.nsToPrefix[namespace]
}

// ResolveQName resolves a QName to namespace and local part
func (nm *NamespaceMap) ResolveQName(qname string) (namespace, localPart string) {
	q := ParseQName(qname, nm.prefixToNS)
	return q.Namespace, q.LocalPart
}

// Clone creates a copy of the namespace map
func (nm *NamespaceMap) Clone() *NamespaceMap {
	clone := NewNamespaceMap()
	for k, v := range nm.prefixToNS {
		clone.prefixToNS[k] = v
	}
	for k, v := range nm.nsToPrefix {
		clone.nsToPrefix[k] = v
	}
	return clone
}

// IsEmpty returns true if the map is empty
func (nm *NamespaceMap) IsEmpty() bool {
	return len(nm.prefixToNS) == 0
}

// All returns all prefix-namespace pairs
func (nm *NamespaceMap) All() map[string]string {
	result := make(map[string]string)
	for k, v := range nm.prefixToNS {
		result[k] = v
	}
	return result
}

// GetSOAPContentType returns the appropriate Content-Type header for SOAP version
func GetSOAPContentType(version string) string {
	if version == "1.2" {
		return "application/soap+xml; charset=utf-8"
	}
	return "text/xml; charset=utf-8"
}
