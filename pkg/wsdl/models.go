package wsdl

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/pyneda/simplesoap/pkg/xsd"
)

var (
	// ErrMultipleParts marks an operation whose header or body would need
	// more than one message part.
	ErrMultipleParts = errors.New("more than one message part per header or body is not supported")
	// ErrTypedPart marks an operation whose part is declared with type=
	// (rpc style) instead of element=.
	ErrTypedPart = errors.New("type-based message parts are not supported")
)

// PartRef points at the tree entry of a message part.
type PartRef struct {
	Message string   `json:"message" yaml:"message"`
	Part    string   `json:"part" yaml:"part"`
	Element xml.Name `json:"element" yaml:"element"`
	// Entry is shared with the Tree and must be cloned before it is modified.
	Entry xsd.Entry `json:"-" yaml:"-"`
}

// Operation describes one SOAP 1.1 operation ready to be invoked.
type Operation struct {
	Name          string   `json:"name" yaml:"name"`
	URL           string   `json:"url" yaml:"url"`
	SOAPAction    string   `json:"soap_action" yaml:"soap_action"`
	Binding       string   `json:"binding" yaml:"binding"`
	Documentation string   `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	InputHeader   *PartRef `json:"input_header,omitempty" yaml:"input_header,omitempty"`
	InputBody     *PartRef `json:"input_body,omitempty" yaml:"input_body,omitempty"`
	OutputHeader  *PartRef `json:"output_header,omitempty" yaml:"output_header,omitempty"`
	OutputBody    *PartRef `json:"output_body,omitempty" yaml:"output_body,omitempty"`
	// Err is set when the operation uses a configuration that cannot be
	// invoked. It is reported when the operation is called.
	Err error `json:"-" yaml:"-"`
}

func (o *Operation) String() string {
	return o.Name
}

func (o *Operation) Pretty() string {
	return fmt.Sprintf("%s | %s | %s | %s -> %s", o.Name, o.URL, o.SOAPAction, partName(o.InputBody), partName(o.OutputBody))
}

func (o *Operation) TableHeaders() []string {
	return []string{"Operation", "URL", "SOAPAction", "Input", "Output", "Status"}
}

func (o *Operation) TableRow() []string {
	status := "ok"
	if o.Err != nil {
		status = o.Err.Error()
	}
	return []string{o.Name, o.URL, o.SOAPAction, partName(o.InputBody), partName(o.OutputBody), status}
}

func partName(p *PartRef) string {
	if p == nil {
		return "-"
	}
	return p.Element.Local
}

// Service is the compiled result of a set of documents.
type Service struct {
	Tree       *xsd.Tree
	Operations []*Operation
}

// Operation returns the operation called name.
func (s *Service) Operation(name string) (*Operation, bool) {
	for _, op := range s.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return nil, false
}
