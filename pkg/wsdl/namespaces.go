package wsdl

import "github.com/pyneda/simplesoap/pkg/xsd"

// Common namespace constants
const (
	XSDNamespace    = xsd.Namespace
	XSINamespace    = "http://www.w3.org/2001/XMLSchema-instance"
	SOAP11Namespace = "http://schemas.xmlsoap.org/wsdl/soap/"
	SOAP12Namespace = "http://schemas.xmlsoap.org/wsdl/soap12/"
	WSDLNamespace   = "http://schemas.xmlsoap.org/wsdl/"
	HTTPNamespace   = "http://schemas.xmlsoap.org/wsdl/http/"
	MIMENamespace   = "http://schemas.xmlsoap.org/wsdl/mime/"
	SOAPEncodingNS  = "http://schemas.xmlsoap.org/soap/encoding/"

	// SOAP envelope namespaces
	SOAP11EnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	SOAP12EnvelopeNS = "http://www.w3.org/2003/05/soap-envelope"

	// Transport
	SOAPHTTPTransport = "http://schemas.xmlsoap.org/soap/http"
)

// StandardNamespaces is the fixed prefix table used when a document does
// not declare a prefix it references, and when writing envelopes.
var StandardNamespaces = map[string]string{
	"wsdl":    WSDLNamespace,
	"soap":    SOAP11Namespace,
	"soap12":  SOAP12Namespace,
	"http":    HTTPNamespace,
	"mime":    MIMENamespace,
	"soapenc": SOAPEncodingNS,
	"soapenv": SOAP11EnvelopeNS,
	"xsi":     XSINamespace,
	"xsd":     XSDNamespace,
	"xs":      XSDNamespace,
}

// StandardNamespaceMap returns StandardNamespaces as a NamespaceMap with
// the short prefixes preferred for reverse lookups.
func StandardNamespaceMap() *NamespaceMap {
	nm := NewNamespaceMap()
	for _, prefix := range []string{"soapenv", "xsi", "xsd", "wsdl", "soap", "soap12", "http", "mime", "soapenc", "xs"} {
		nm.Add(prefix, StandardNamespaces[prefix])
	}
	return nm
}
