package soap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportSend(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte("<ok/>"))
	}))
	defer server.Close()

	transport := NewHTTPTransport(5*time.Second, false).
		WithUserAgent("simplesoap-test").
		WithAuth(&AuthConfig{
			Username:      "user",
			Password:      "secret",
			CustomHeaders: map[string]string{"X-Tenant": "acme"},
		})

	resp, err := transport.Send(context.Background(), &Request{
		URL:        server.URL,
		SOAPAction: "urn:GetUser",
		Body:       []byte("<envelope/>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "<ok/>", string(resp))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "text/xml; charset=utf-8", got.Header.Get("Content-Type"))
	assert.Equal(t, `"urn:GetUser"`, got.Header.Get("SOAPAction"))
	assert.Equal(t, "simplesoap-test", got.Header.Get("User-Agent"))
	assert.Equal(t, "acme", got.Header.Get("X-Tenant"))
	user, pass, ok := got.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "user", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "<envelope/>", string(gotBody))
}

func TestHTTPTransportEmptyAction(t *testing.T) {
	transport := NewHTTPTransport(time.Second, false)
	req, err := transport.Build(context.Background(), &Request{URL: "http://example.com/soap"})
	require.NoError(t, err)
	assert.Equal(t, `""`, req.Header.Get("SOAPAction"))
	assert.Equal(t, "simplesoap", req.Header.Get("User-Agent"))
	_, _, hasAuth := req.BasicAuth()
	assert.False(t, hasAuth)

	_, err = transport.Build(context.Background(), &Request{})
	assert.Error(t, err, "a request needs an endpoint")
}

func TestHTTPTransportStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down for maintenance"))
	}))
	defer server.Close()

	body, err := NewHTTPTransport(time.Second, false).Send(context.Background(), &Request{URL: server.URL})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "down for maintenance", string(body))
	assert.Contains(t, err.Error(), "503")
}
