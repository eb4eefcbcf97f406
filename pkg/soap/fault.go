package soap

import (
	"fmt"
	"strings"

	"aqwari.net/xml/xmltree"
)

// FaultError is a SOAP Fault returned by the service.
type FaultError struct {
	Code   string
	String string
	Actor  string
	Detail string
}

func (e *FaultError) Error() string {
	if e.Code == "" {
		return "soap fault: " + e.String
	}
	return fmt.Sprintf("soap fault %s: %s", e.Code, e.String)
}

// Fault returns the Fault carried by the Body, if any. SOAP 1.2 faults are
// mapped onto the same fields.
func (e *ParsedEnvelope) Fault() *FaultError {
	fault := firstChild(e.Body, "Fault")
	if fault == nil || fault.Name.Space != e.Body.Name.Space {
		return nil
	}
	f := &FaultError{}
	for i := range fault.Children {
		c := &fault.Children[i]
		switch c.Name.Local {
		case "faultcode":
			f.Code = textOf(c)
		case "faultstring":
			f.String = textOf(c)
		case "faultactor", "Role":
			f.Actor = textOf(c)
		case "detail", "Detail":
			f.Detail = strings.TrimSpace(string(c.Content))
		case "Code":
			if v := firstChild(c, "Value"); v != nil {
				f.Code = textOf(v)
			}
		case "Reason":
			if t := firstChild(c, "Text"); t != nil {
				f.String = textOf(t)
			}
		}
	}
	return f
}

func textOf(el *xmltree.Element) string {
	var s string
	if err := xmltree.Unmarshal(el, &s); err != nil {
		return strings.TrimSpace(string(el.Content))
	}
	return strings.TrimSpace(s)
}
