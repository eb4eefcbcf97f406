package soap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pyneda/simplesoap/pkg/wsdl"
	"github.com/pyneda/simplesoap/pkg/xsd"
)

const accountsWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<definitions
  xmlns="http://schemas.xmlsoap.org/wsdl/"
  xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
  xmlns:tns="http://example.com/accounts"
  xmlns:xsd="http://www.w3.org/2001/XMLSchema"
  targetNamespace="http://example.com/accounts">

  <types>
    <xsd:schema targetNamespace="http://example.com/accounts" elementFormDefault="qualified">
      <xsd:complexType name="Person">
        <xsd:sequence>
          <xsd:element name="name" type="xsd:string"/>
          <xsd:element name="age" type="xsd:int" minOccurs="0"/>
        </xsd:sequence>
        <xsd:attribute name="id" type="xsd:string"/>
      </xsd:complexType>
      <xsd:complexType name="User">
        <xsd:complexContent>
          <xsd:extension base="tns:Person">
            <xsd:sequence>
              <xsd:element name="email" type="xsd:string"/>
              <xsd:element name="tag" type="xsd:string" minOccurs="0" maxOccurs="unbounded"/>
            </xsd:sequence>
          </xsd:extension>
        </xsd:complexContent>
      </xsd:complexType>
      <xsd:element name="CreateUser">
        <xsd:complexType>
          <xsd:sequence>
            <xsd:element name="user" type="tns:User"/>
          </xsd:sequence>
        </xsd:complexType>
      </xsd:element>
      <xsd:element name="CreateUserResponse">
        <xsd:complexType>
          <xsd:sequence>
            <xsd:element name="created" type="xsd:boolean"/>
            <xsd:element name="user" type="tns:User" minOccurs="0" nillable="true"/>
          </xsd:sequence>
        </xsd:complexType>
      </xsd:element>
      <xsd:element name="Session">
        <xsd:complexType>
          <xsd:sequence>
            <xsd:element name="token" type="xsd:string"/>
          </xsd:sequence>
        </xsd:complexType>
      </xsd:element>
      <xsd:element name="Ping">
        <xsd:complexType>
          <xsd:sequence/>
        </xsd:complexType>
      </xsd:element>
      <xsd:element name="PingResponse" type="xsd:string"/>
    </xsd:schema>
  </types>

  <message name="CreateUserRequest"><part name="parameters" element="tns:CreateUser"/></message>
  <message name="CreateUserResponse"><part name="parameters" element="tns:CreateUserResponse"/></message>
  <message name="SessionHeader"><part name="session" element="tns:Session"/></message>
  <message name="PingRequest"><part name="parameters" element="tns:Ping"/></message>
  <message name="PingResponse"><part name="parameters" element="tns:PingResponse"/></message>

  <portType name="AccountPort">
    <operation name="CreateUser">
      <input message="tns:CreateUserRequest"/>
      <output message="tns:CreateUserResponse"/>
    </operation>
    <operation name="Ping">
      <input message="tns:PingRequest"/>
      <output message="tns:PingResponse"/>
    </operation>
  </portType>

  <binding name="AccountBinding" type="tns:AccountPort">
    <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
    <operation name="CreateUser">
      <soap:operation soapAction="http://example.com/accounts/CreateUser"/>
      <input>
        <soap:header message="tns:SessionHeader" part="session" use="literal"/>
        <soap:body use="literal"/>
      </input>
      <output><soap:body use="literal"/></output>
    </operation>
    <operation name="Ping">
      <soap:operation soapAction="http://example.com/accounts/Ping"/>
      <input><soap:body use="literal"/></input>
      <output><soap:body use="literal"/></output>
    </operation>
  </binding>

  <service name="AccountService">
    <port name="AccountPort" binding="tns:AccountBinding">
      <soap:address location="http://example.com/accounts"/>
    </port>
  </service>
</definitions>`

const accountsNS = "http://example.com/accounts"

var session = map[string]any{"token": "t"}

type stubTransport struct {
	response []byte
	err      error
	calls    int
	last     *Request
}

func (s *stubTransport) Send(ctx context.Context, req *Request) ([]byte, error) {
	s.calls++
	s.last = req
	return s.response, s.err
}

func envelope(body string) []byte {
	return []byte(`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><soapenv:Body>` +
		body + `</soapenv:Body></soapenv:Envelope>`)
}

func compileService(t *testing.T) *wsdl.Service {
	t.Helper()
	doc, err := wsdl.NewParser().ParseFromBytes([]byte(accountsWSDL), "accounts.wsdl")
	if err != nil {
		t.Fatalf("failed to parse WSDL: %v", err)
	}
	service, err := wsdl.Compile([]*wsdl.Document{doc})
	if err != nil {
		t.Fatalf("failed to compile WSDL: %v", err)
	}
	return service
}

func TestPingWithEmptyBody(t *testing.T) {
	stub := &stubTransport{response: envelope(`<tns:PingResponse xmlns:tns="http://example.com/accounts">pong</tns:PingResponse>`)}
	client := NewClient(compileService(t), WithTransport(stub))

	op, ok := client.Operation("Ping")
	if !ok {
		t.Fatal("expected a Ping operation")
	}
	if op.SOAPAction != "http://example.com/accounts/Ping" || op.URL != "http://example.com/accounts" {
		t.Errorf("unexpected descriptor: action %q url %q", op.SOAPAction, op.URL)
	}

	payload, err := client.BuildEnvelope(op, nil, nil)
	if err != nil {
		t.Fatalf("BuildEnvelope returned error: %v", err)
	}
	body := string(payload)
	if !strings.Contains(body, "<soapenv:Body></soapenv:Body>") {
		t.Errorf("expected an empty Body, got:\n%s", body)
	}
	if strings.Contains(body, "Header") {
		t.Errorf("expected no Header, got:\n%s", body)
	}

	resp, err := client.Call(context.Background(), "Ping", nil, nil)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if stub.calls != 1 || stub.last.SOAPAction != op.SOAPAction || stub.last.URL != op.URL {
		t.Errorf("unexpected request %+v after %d calls", stub.last, stub.calls)
	}
	if resp.Value() != "pong" {
		t.Errorf("Value() = %v, want pong", resp.Value())
	}
}

func TestExtensionRequiredElement(t *testing.T) {
	stub := &stubTransport{response: envelope(`<CreateUserResponse xmlns="http://example.com/accounts"><created>true</created></CreateUserResponse>`)}
	client := NewClient(compileService(t), WithTransport(stub))

	_, err := client.Call(context.Background(), "CreateUser", session, map[string]any{
		"user": map[string]any{"name": "ann", "@id": "7"},
	})
	var required *RequiredError
	if !errors.As(err, &required) {
		t.Fatalf("expected RequiredError, got %v", err)
	}
	if len(required.Paths) != 1 || required.Paths[0] != "CreateUser.user.email" {
		t.Errorf("unexpected missing paths %v", required.Paths)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no transport call, got %d", stub.calls)
	}

	resp, err := client.Call(context.Background(), "CreateUser", session, map[string]any{
		"user": map[string]any{"name": "ann", "@id": "7", "email": "ann@example.com", "tag": []any{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	sent := string(stub.last.Body)
	for _, want := range []string{
		`<ns0:CreateUser>`,
		`<ns0:user id="7"><ns0:name>ann</ns0:name><ns0:email>ann@example.com</ns0:email><ns0:tag>a</ns0:tag><ns0:tag>b</ns0:tag></ns0:user>`,
	} {
		if !strings.Contains(sent, want) {
			t.Errorf("request missing %q\n%s", want, sent)
		}
	}
	if !strings.Contains(sent, `xmlns:ns0="`+accountsNS+`"`) {
		t.Errorf("expected the target namespace to be declared:\n%s", sent)
	}

	value, ok := resp.Value().(map[string]any)
	if !ok || value["created"] != true {
		t.Errorf("unexpected response value %#v", resp.Value())
	}
	if _, present := value["user"]; present {
		t.Error("expected absent user to be missing from the value")
	}
}

func TestRequiredHeaderMissing(t *testing.T) {
	stub := &stubTransport{}
	client := NewClient(compileService(t), WithTransport(stub))

	body := map[string]any{"user": map[string]any{"name": "ann", "email": "ann@example.com"}}
	for _, header := range []any{nil, map[string]any{}} {
		_, err := client.Call(context.Background(), "CreateUser", header, body)
		var required *RequiredError
		if !errors.As(err, &required) {
			t.Fatalf("expected RequiredError for header %v, got %v", header, err)
		}
		if len(required.Paths) != 1 || required.Paths[0] != "Session.token" {
			t.Errorf("unexpected missing paths %v", required.Paths)
		}
	}
	if stub.calls != 0 {
		t.Fatalf("expected no transport call, got %d", stub.calls)
	}
}

func TestStrictUnknownKeyMakesNoCall(t *testing.T) {
	stub := &stubTransport{}
	client := NewClient(compileService(t), WithTransport(stub), WithStrict(true))

	_, err := client.Call(context.Background(), "CreateUser", session, map[string]any{
		"user": map[string]any{"name": "ann", "email": "a@b.c", "nickname": "x"},
	})
	var unknown *xsd.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if unknown.Path != "user.nickname" {
		t.Errorf("Path = %q", unknown.Path)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no transport call, got %d", stub.calls)
	}
}

func TestCallRejectsUndeclaredHeader(t *testing.T) {
	stub := &stubTransport{}
	client := NewClient(compileService(t), WithTransport(stub))

	if _, err := client.Call(context.Background(), "Ping", map[string]any{"token": "x"}, nil); err == nil {
		t.Fatal("expected an error for a header on an operation without one")
	}
	if _, err := client.Call(context.Background(), "Missing", nil, nil); err == nil {
		t.Fatal("expected an error for an unknown operation")
	}
	if stub.calls != 0 {
		t.Fatalf("expected no transport call, got %d", stub.calls)
	}
}

func TestHeaderAndSecurity(t *testing.T) {
	client := NewClient(compileService(t), WithTransport(&stubTransport{}), WithSecurity(&Security{Username: "svc", Password: "p&ss"}))
	op, _ := client.Operation("CreateUser")

	payload, err := client.BuildEnvelope(op, map[string]any{"token": "abc"}, map[string]any{
		"user": map[string]any{"name": "ann", "email": "ann@example.com"},
	})
	if err != nil {
		t.Fatalf("BuildEnvelope returned error: %v", err)
	}
	body := string(payload)
	for _, want := range []string{
		"<soapenv:Header>",
		"<wsse:Username>svc</wsse:Username>",
		"p&amp;ss</wsse:Password>",
		"<ns0:Session><ns0:token>abc</ns0:token></ns0:Session>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("envelope missing %q\n%s", want, body)
		}
	}
}

func TestDecodeNilResponse(t *testing.T) {
	stub := &stubTransport{response: envelope(`<CreateUserResponse xmlns="http://example.com/accounts"
	  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><created>false</created><user xsi:nil="true"/></CreateUserResponse>`)}
	client := NewClient(compileService(t), WithTransport(stub))

	resp, err := client.Call(context.Background(), "CreateUser", session, map[string]any{
		"user": map[string]any{"name": "ann", "email": "ann@example.com"},
	})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	value := resp.Value().(map[string]any)
	user, present := value["user"]
	if !present || user != nil {
		t.Errorf("expected an explicit nil user, got %#v (present %v)", user, present)
	}
	n := resp.Body.(*xsd.Node)
	e, _ := n.Get("user")
	if node, ok := e.(*xsd.Node); !ok || !node.Nil {
		t.Errorf("expected the user node to be marked nil, got %#v", e)
	}
}

func TestFaultResponse(t *testing.T) {
	fault := envelope(`<soapenv:Fault><faultcode>soapenv:Server</faultcode><faultstring>boom</faultstring><detail><code>42</code></detail></soapenv:Fault>`)

	tests := []struct {
		name string
		stub *stubTransport
	}{
		{"200 with fault", &stubTransport{response: fault}},
		{"500 with fault", &stubTransport{response: fault, err: &StatusError{StatusCode: 500, Body: fault}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(compileService(t), WithTransport(tt.stub))
			_, err := client.Call(context.Background(), "Ping", nil, nil)
			var f *FaultError
			if !errors.As(err, &f) {
				t.Fatalf("expected FaultError, got %v", err)
			}
			if f.Code != "soapenv:Server" || f.String != "boom" || f.Detail != "<code>42</code>" {
				t.Errorf("unexpected fault %+v", f)
			}
		})
	}

	client := NewClient(compileService(t), WithTransport(&stubTransport{err: &StatusError{StatusCode: 502, Body: []byte("bad gateway")}}))
	_, err := client.Call(context.Background(), "Ping", nil, nil)
	var status *StatusError
	if !errors.As(err, &status) || status.StatusCode != 502 {
		t.Errorf("expected StatusError 502, got %v", err)
	}
}
