package soap

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pyneda/simplesoap/pkg/wsdl"
)

// Request is one serialized envelope ready to be sent.
type Request struct {
	URL        string
	SOAPAction string
	Body       []byte
}

// Transport delivers a request and returns the raw response payload.
type Transport interface {
	Send(ctx context.Context, req *Request) ([]byte, error)
}

// AuthConfig carries HTTP basic credentials and extra headers.
type AuthConfig struct {
	Username      string
	Password      string
	CustomHeaders map[string]string
}

// HTTPTransport posts envelopes over HTTP.
type HTTPTransport struct {
	Client         *http.Client
	DefaultHeaders map[string]string
	AuthConfig     *AuthConfig
}

// NewHTTPTransport returns a transport with the given timeout.
func NewHTTPTransport(timeout time.Duration, insecureSkipVerify bool) *HTTPTransport {
	return &HTTPTransport{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify},
			},
		},
		DefaultHeaders: map[string]string{
			"User-Agent": "simplesoap",
		},
	}
}

func (t *HTTPTransport) WithAuth(config *AuthConfig) *HTTPTransport {
	t.AuthConfig = config
	return t
}

func (t *HTTPTransport) WithUserAgent(userAgent string) *HTTPTransport {
	if userAgent != "" {
		t.DefaultHeaders["User-Agent"] = userAgent
	}
	return t
}

// Build creates the HTTP request for r.
func (t *HTTPTransport) Build(ctx context.Context, r *Request) (*http.Request, error) {
	if r.URL == "" {
		return nil, fmt.Errorf("operation has no endpoint URL")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", wsdl.GetSOAPContentType("1.1"))
	req.Header.Set("SOAPAction", `"`+r.SOAPAction+`"`)

	t.addDefaultHeaders(req)
	t.applyAuth(req)
	return req, nil
}

// Send posts r and returns the response body. A non-2xx status is a
// *StatusError carrying the body.
func (t *HTTPTransport) Send(ctx context.Context, r *Request) ([]byte, error) {
	req, err := t.Build(ctx, r)
	if err != nil {
		return nil, err
	}
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func (t *HTTPTransport) addDefaultHeaders(req *http.Request) {
	for k, v := range t.DefaultHeaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
}

func (t *HTTPTransport) applyAuth(req *http.Request) {
	if t.AuthConfig == nil {
		return
	}

	if t.AuthConfig.Username != "" && t.AuthConfig.Password != "" {
		req.SetBasicAuth(t.AuthConfig.Username, t.AuthConfig.Password)
	}

	for k, v := range t.AuthConfig.CustomHeaders {
		req.Header.Set(k, v)
	}
}
