package soap

import (
	"encoding/xml"
	"errors"
	"fmt"

	"aqwari.net/xml/xmltree"
	"github.com/pyneda/simplesoap/pkg/wsdl"
)

const (
	WSSENamespace = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	// PasswordText is the UsernameToken password type for clear text.
	PasswordText = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordText"
)

func envName(local string) xml.Name {
	return xml.Name{Space: wsdl.SOAP11EnvelopeNS, Local: local}
}

// Security is a WS-Security UsernameToken added to every request header.
type Security struct {
	Username string
	Password string
}

func (s *Security) element() *Element {
	wsse := func(local string) *Element {
		return newElement(xml.Name{Space: WSSENamespace, Local: local})
	}
	username := wsse("Username")
	username.SetText(s.Username)
	password := wsse("Password")
	password.Attrs = []xml.Attr{{Name: xml.Name{Local: "Type"}, Value: PasswordText}}
	password.SetText(s.Password)

	token := wsse("UsernameToken")
	token.Children = []*Element{username, password}
	security := wsse("Security")
	security.Children = []*Element{token}
	return security
}

// NewEnvelope wraps header and body content in a SOAP 1.1 envelope. A nil
// body gives an empty Body; the Header is only written when it has content.
func NewEnvelope(header, body *Element, security *Security) *Element {
	env := newElement(envName("Envelope"))

	var headers []*Element
	if security != nil {
		headers = append(headers, security.element())
	}
	if header != nil {
		headers = append(headers, header)
	}
	if len(headers) > 0 {
		h := newElement(envName("Header"))
		h.Children = headers
		env.Children = append(env.Children, h)
	}

	b := newElement(envName("Body"))
	if body != nil {
		b.Children = []*Element{body}
	}
	env.Children = append(env.Children, b)
	return env
}

// ParsedEnvelope holds the Header and Body of a response.
type ParsedEnvelope struct {
	Header *xmltree.Element
	Body   *xmltree.Element
}

// ParseEnvelope parses a SOAP 1.1 or 1.2 response envelope.
func ParseEnvelope(data []byte) (*ParsedEnvelope, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if root.Name.Local != "Envelope" || (root.Name.Space != wsdl.SOAP11EnvelopeNS && root.Name.Space != wsdl.SOAP12EnvelopeNS) {
		return nil, fmt.Errorf("unexpected response root {%s}%s", root.Name.Space, root.Name.Local)
	}
	env := &ParsedEnvelope{}
	for i := range root.Children {
		c := &root.Children[i]
		if c.Name.Space != root.Name.Space {
			continue
		}
		switch c.Name.Local {
		case "Header":
			env.Header = c
		case "Body":
			env.Body = c
		}
	}
	if env.Body == nil {
		return nil, errors.New("response envelope has no Body")
	}
	return env, nil
}

// Content returns the first element inside the Body.
func (e *ParsedEnvelope) Content() *xmltree.Element {
	return firstChild(e.Body, "")
}

// HeaderContent returns the header entry called local.
func (e *ParsedEnvelope) HeaderContent(local string) *xmltree.Element {
	if e.Header == nil {
		return nil
	}
	return firstChild(e.Header, local)
}

func firstChild(el *xmltree.Element, local string) *xmltree.Element {
	for i := range el.Children {
		if local == "" || el.Children[i].Name.Local == local {
			return &el.Children[i]
		}
	}
	return nil
}
