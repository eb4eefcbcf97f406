package soap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		content string
		wantErr bool
	}{
		{
			name:    "soap 1.1",
			data:    `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Header><h:Trace xmlns:h="urn:h">1</h:Trace></s:Header><s:Body><r:Reply xmlns:r="urn:r"/></s:Body></s:Envelope>`,
			content: "Reply",
		},
		{
			name:    "soap 1.2",
			data:    `<env:Envelope xmlns:env="http://www.w3.org/2003/05/soap-envelope"><env:Body><Reply/></env:Body></env:Envelope>`,
			content: "Reply",
		},
		{
			name: "empty body",
			data: `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body/></s:Envelope>`,
		},
		{
			name:    "not an envelope",
			data:    `<Envelope><Body/></Envelope>`,
			wantErr: true,
		},
		{
			name:    "missing body",
			data:    `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Header/></s:Envelope>`,
			wantErr: true,
		},
		{
			name:    "malformed",
			data:    `<s:Envelope`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			content := env.Content()
			if tt.content == "" {
				assert.Nil(t, content)
				return
			}
			require.NotNil(t, content)
			assert.Equal(t, tt.content, content.Name.Local)
			assert.Nil(t, env.Fault())
		})
	}
}

func TestHeaderContent(t *testing.T) {
	env, err := ParseEnvelope([]byte(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Header><a/><b>2</b></s:Header><s:Body/></s:Envelope>`))
	require.NoError(t, err)
	require.NotNil(t, env.HeaderContent("b"))
	assert.Equal(t, "2", textOf(env.HeaderContent("b")))
	assert.Nil(t, env.HeaderContent("c"))
}

func TestSOAP12Fault(t *testing.T) {
	env, err := ParseEnvelope([]byte(`<env:Envelope xmlns:env="http://www.w3.org/2003/05/soap-envelope"><env:Body><env:Fault>` +
		`<env:Code><env:Value>env:Sender</env:Value></env:Code>` +
		`<env:Reason><env:Text xml:lang="en">Bad input</env:Text></env:Reason>` +
		`<env:Role>urn:gateway</env:Role>` +
		`<env:Detail><e>1</e></env:Detail>` +
		`</env:Fault></env:Body></env:Envelope>`))
	require.NoError(t, err)
	fault := env.Fault()
	require.NotNil(t, fault)
	assert.Equal(t, &FaultError{Code: "env:Sender", String: "Bad input", Actor: "urn:gateway", Detail: "<e>1</e>"}, fault)
	assert.Equal(t, "soap fault env:Sender: Bad input", fault.Error())
}

func TestFaultOutsideEnvelopeNamespace(t *testing.T) {
	env, err := ParseEnvelope([]byte(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body><Fault><faultcode>x</faultcode></Fault></s:Body></s:Envelope>`))
	require.NoError(t, err)
	assert.Nil(t, env.Fault())
}
