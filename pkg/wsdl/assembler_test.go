package wsdl

import (
	"errors"
	"testing"

	"github.com/pyneda/simplesoap/pkg/xsd"
)

func TestCompileOperations(t *testing.T) {
	service, err := Compile(loadFixture(t))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	var names []string
	for _, op := range service.Operations {
		names = append(names, op.Name)
	}
	if want := []string{"GetUser", "Ping", "Broken", "Legacy"}; !equalKeys(names, want) {
		t.Fatalf("operations = %v, want %v", names, want)
	}
	if _, ok := service.Operation("Modern"); ok {
		t.Error("expected SOAP 1.2 only operation to be skipped")
	}

	tests := []struct {
		name   string
		action string
		input  string
		output string
	}{
		{"GetUser", "urn:GetUser", "GetUser", "GetUserResponse"},
		{"Ping", "urn:Ping", "Ping", "PingResponse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := service.Operation(tt.name)
			if !ok {
				t.Fatalf("operation %s not found", tt.name)
			}
			if op.Err != nil {
				t.Fatalf("unexpected operation error: %v", op.Err)
			}
			if op.SOAPAction != tt.action {
				t.Errorf("SOAPAction = %q, want %q", op.SOAPAction, tt.action)
			}
			if op.URL != "http://example.com/users" {
				t.Errorf("URL = %q", op.URL)
			}
			if op.Binding != "UserBinding" {
				t.Errorf("Binding = %q", op.Binding)
			}
			if op.InputBody == nil || op.InputBody.Element.Local != tt.input || op.InputBody.Element.Space != usersNS {
				t.Errorf("unexpected input body %+v", op.InputBody)
			}
			if op.OutputBody == nil || op.OutputBody.Element.Local != tt.output {
				t.Errorf("unexpected output body %+v", op.OutputBody)
			}
		})
	}
}

func TestCompileReferencesTreeEntries(t *testing.T) {
	service, err := Compile(loadFixture(t))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	op, _ := service.Operation("GetUser")

	want, _ := service.Tree.Get(xsd.Key(usersNS, "GetUser"))
	if op.InputBody.Entry != want {
		t.Error("expected the input body to reference the tree entry")
	}
	if op.InputHeader == nil || op.InputHeader.Element.Local != "AuthHeader" || op.InputHeader.Part != "auth" {
		t.Fatalf("unexpected input header %+v", op.InputHeader)
	}
	if op.OutputHeader != nil {
		t.Errorf("expected no output header, got %+v", op.OutputHeader)
	}
	if op.Documentation != "Retrieves a user" {
		t.Errorf("Documentation = %q", op.Documentation)
	}
}

func TestCompileUnsupportedParts(t *testing.T) {
	service, err := Compile(loadFixture(t))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	tests := []struct {
		name string
		want error
	}{
		{"Broken", ErrMultipleParts},
		{"Legacy", ErrTypedPart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := service.Operation(tt.name)
			if !ok {
				t.Fatalf("operation %s not found", tt.name)
			}
			if !errors.Is(op.Err, tt.want) {
				t.Errorf("Err = %v, want %v", op.Err, tt.want)
			}
			if row := op.TableRow(); row[len(row)-1] == "ok" {
				t.Error("expected the table row to report the error")
			}
		})
	}
}

const partsWSDL = `<definitions xmlns="http://schemas.xmlsoap.org/wsdl/"
  xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
  xmlns:tns="urn:parts" xmlns:xs="http://www.w3.org/2001/XMLSchema"
  targetNamespace="urn:parts">
  <types>
    <xs:schema targetNamespace="urn:parts">
      <xs:element name="Token" type="xs:string"/>
      <xs:element name="Query" type="xs:string"/>
    </xs:schema>
  </types>
  <message name="Search">
    <part name="token" element="tns:Token"/>
    <part name="query" element="tns:Query"/>
  </message>
  <portType name="SearchPort">
    <operation name="Search"><input message="tns:Search"/></operation>
    <operation name="Pick"><input message="tns:Search"/></operation>
  </portType>
  <binding name="SearchBinding" type="tns:SearchPort">
    <soap:binding transport="http://schemas.xmlsoap.org/soap/http"/>
    <operation name="Search">
      <soap:operation soapAction=""/>
      <input>
        <soap:header message="tns:Search" part="token" use="literal"/>
        <soap:body use="literal"/>
      </input>
    </operation>
    <operation name="Pick">
      <input><soap:body parts="query" use="literal"/></input>
    </operation>
  </binding>
</definitions>`

func TestCompileHeaderPartsLeaveBody(t *testing.T) {
	doc, err := NewParser().ParseFromBytes([]byte(partsWSDL), "parts.wsdl")
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	service, err := Compile([]*Document{doc})
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	search, ok := service.Operation("Search")
	if !ok || search.Err != nil {
		t.Fatalf("expected Search to compile, got %+v", search)
	}
	if search.InputHeader.Part != "token" || search.InputBody.Part != "query" {
		t.Errorf("unexpected parts: header %+v body %+v", search.InputHeader, search.InputBody)
	}
	if search.URL != "" {
		t.Errorf("expected no URL without a port, got %q", search.URL)
	}

	pick, ok := service.Operation("Pick")
	if !ok || pick.Err != nil {
		t.Fatalf("expected Pick to compile, got %+v", pick)
	}
	if pick.InputBody.Part != "query" || pick.InputHeader != nil {
		t.Errorf("unexpected parts for Pick: %+v", pick.InputBody)
	}
}

func TestCompileRequiresDefinitions(t *testing.T) {
	doc, err := NewParser().ParseFromBytes([]byte(forwardSchema), "order.xsd")
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if _, err := Compile([]*Document{doc}); err == nil {
		t.Fatal("expected an error for a schema-only document set")
	}
}
