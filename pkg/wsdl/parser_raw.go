package wsdl

import "encoding/xml"

// Raw XML parsing structures for the WSDL 1.1 sections. Schemas are walked
// separately as element trees by the builder.

// rawDefinitions is the root WSDL element
type rawDefinitions struct {
	XMLName         xml.Name          `xml:"definitions"`
	TargetNamespace string            `xml:"targetNamespace,attr"`
	Name            string            `xml:"name,attr"`
	Messages        []rawMessage      `xml:"message"`
	PortTypes       []rawPortType     `xml:"portType"`
	Bindings        []rawBinding      `xml:"binding"`
	Services        []rawService      `xml:"service"`
	Imports         []rawWSDLImport   `xml:"import"`
	Documentation   *rawDocumentation `xml:"documentation"`
}

// rawWSDLImport represents wsdl:import
type rawWSDLImport struct {
	Namespace string `xml:"namespace,attr"`
	Location  string `xml:"location,attr"`
}

// rawDocumentation represents wsdl:documentation
type rawDocumentation struct {
	Content string `xml:",chardata"`
}

// rawMessage represents wsdl:message
type rawMessage struct {
	Name          string            `xml:"name,attr"`
	Parts         []rawMessagePart  `xml:"part"`
	Documentation *rawDocumentation `xml:"documentation"`
}

// rawMessagePart represents wsdl:part
type rawMessagePart struct {
	Name    string `xml:"name,attr"`
	Element string `xml:"element,attr"`
	Type    string `xml:"type,attr"`
}

// rawPortType represents wsdl:portType
type rawPortType struct {
	Name          string            `xml:"name,attr"`
	Operations    []rawOperation    `xml:"operation"`
	Documentation *rawDocumentation `xml:"documentation"`
}

// rawOperation represents wsdl:operation in portType
type rawOperation struct {
	Name          string            `xml:"name,attr"`
	Input         *rawIORef         `xml:"input"`
	Output        *rawIORef         `xml:"output"`
	Documentation *rawDocumentation `xml:"documentation"`
}

// rawIORef represents input/output/fault reference
type rawIORef struct {
	Name    string `xml:"name,attr"`
	Message string `xml:"message,attr"`
}

// rawBinding represents wsdl:binding
type rawBinding struct {
	Name          string                `xml:"name,attr"`
	Type          string                `xml:"type,attr"`
	SOAPBinding   *rawSOAPBinding       `xml:"http://schemas.xmlsoap.org/wsdl/soap/ binding"`
	SOAP12Binding *rawSOAPBinding       `xml:"http://schemas.xmlsoap.org/wsdl/soap12/ binding"`
	Operations    []rawBindingOperation `xml:"operation"`
}

// rawSOAPBinding represents soap:binding
type rawSOAPBinding struct {
	Style     string `xml:"style,attr"`
	Transport string `xml:"transport,attr"`
}

// rawBindingOperation represents wsdl:operation in binding
type rawBindingOperation struct {
	Name            string            `xml:"name,attr"`
	SOAPOperation   *rawSOAPOperation `xml:"http://schemas.xmlsoap.org/wsdl/soap/ operation"`
	SOAP12Operation *rawSOAPOperation `xml:"http://schemas.xmlsoap.org/wsdl/soap12/ operation"`
	Input           *rawBindingIO     `xml:"input"`
	Output          *rawBindingIO     `xml:"output"`
}

// rawSOAPOperation represents soap:operation
type rawSOAPOperation struct {
	SOAPAction string `xml:"soapAction,attr"`
	Style      string `xml:"style,attr"`
}

// rawBindingIO represents input/output in binding operation
type rawBindingIO struct {
	SOAPBody    *rawSOAPBody    `xml:"http://schemas.xmlsoap.org/wsdl/soap/ body"`
	SOAP12Body  *rawSOAPBody    `xml:"http://schemas.xmlsoap.org/wsdl/soap12/ body"`
	SOAPHeaders []rawSOAPHeader `xml:"http://schemas.xmlsoap.org/wsdl/soap/ header"`
}

// rawSOAPBody represents soap:body
type rawSOAPBody struct {
	Use           string `xml:"use,attr"`
	Namespace     string `xml:"namespace,attr"`
	EncodingStyle string `xml:"encodingStyle,attr"`
	Parts         string `xml:"parts,attr"`
}

// rawSOAPHeader represents soap:header
type rawSOAPHeader struct {
	Message       string `xml:"message,attr"`
	Part          string `xml:"part,attr"`
	Use           string `xml:"use,attr"`
	Namespace     string `xml:"namespace,attr"`
	EncodingStyle string `xml:"encodingStyle,attr"`
}

// rawService represents wsdl:service
type rawService struct {
	Name          string            `xml:"name,attr"`
	Ports         []rawPort         `xml:"port"`
	Documentation *rawDocumentation `xml:"documentation"`
}

// rawPort represents wsdl:port
type rawPort struct {
	Name          string          `xml:"name,attr"`
	Binding       string          `xml:"binding,attr"`
	SOAPAddress   *rawSOAPAddress `xml:"http://schemas.xmlsoap.org/wsdl/soap/ address"`
	SOAP12Address *rawSOAPAddress `xml:"http://schemas.xmlsoap.org/wsdl/soap12/ address"`
}

// rawSOAPAddress represents soap:address
type rawSOAPAddress struct {
	Location string `xml:"location,attr"`
}
