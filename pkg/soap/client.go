package soap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pyneda/simplesoap/pkg/wsdl"
	"github.com/pyneda/simplesoap/pkg/xsd"
	"github.com/rs/zerolog/log"
)

// Client invokes the operations of a compiled service.
type Client struct {
	service   *wsdl.Service
	transport Transport
	strict    bool
	security  *Security
}

type Option func(*Client)

func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithStrict enables strict validation of caller values and responses.
func WithStrict(strict bool) Option {
	return func(c *Client) {
		c.strict = strict
	}
}

// WithSecurity adds a WS-Security UsernameToken to every request.
func WithSecurity(s *Security) Option {
	return func(c *Client) {
		c.security = s
	}
}

func NewClient(service *wsdl.Service, opts ...Option) *Client {
	c := &Client{service: service}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(30*time.Second, false)
	}
	return c
}

func (c *Client) Service() *wsdl.Service {
	return c.service
}

func (c *Client) Operations() []*wsdl.Operation {
	return c.service.Operations
}

func (c *Client) Operation(name string) (*wsdl.Operation, bool) {
	return c.service.Operation(name)
}

// Response is the decoded result of a call.
type Response struct {
	Header xsd.Entry
	Body   xsd.Entry
	Raw    []byte
}

// Value returns the body as plain values.
func (r *Response) Value() any {
	if r.Body == nil {
		return nil
	}
	v, _ := xsd.ToValue(r.Body)
	return v
}

// HeaderValue returns the header as plain values.
func (r *Response) HeaderValue() any {
	if r.Header == nil {
		return nil
	}
	v, _ := xsd.ToValue(r.Header)
	return v
}

// BuildEnvelope merges header and body into clones of the input
// prototypes of op and serializes the request envelope. Every validation
// failure is reported here, before anything is sent.
func (c *Client) BuildEnvelope(op *wsdl.Operation, header, body any) ([]byte, error) {
	if op.Err != nil {
		return nil, fmt.Errorf("operation %s cannot be invoked: %w", op.Name, op.Err)
	}
	headerEl, err := c.prepare(op, op.InputHeader, header, "header")
	if err != nil {
		return nil, err
	}
	bodyEl, err := c.prepare(op, op.InputBody, body, "body")
	if err != nil {
		return nil, err
	}
	return Marshal(NewEnvelope(headerEl, bodyEl, c.security))
}

func (c *Client) prepare(op *wsdl.Operation, ref *wsdl.PartRef, value any, what string) (*Element, error) {
	if ref == nil {
		if value != nil {
			return nil, fmt.Errorf("operation %s declares no input %s", op.Name, what)
		}
		return nil, nil
	}
	proto := xsd.Clone(ref.Entry)
	if value != nil {
		if err := xsd.Merge(proto, value, xsd.MergeOptions{Strict: c.strict}); err != nil {
			return nil, fmt.Errorf("%s of %s: %w", what, op.Name, err)
		}
	}
	el, err := Encode(ref.Element, proto, EncodeOptions{Strict: c.strict})
	if err != nil {
		var empty *EmptyError
		if !errors.As(err, &empty) {
			return nil, fmt.Errorf("%s of %s: %w", what, op.Name, err)
		}
		if len(empty.Missing) > 0 {
			return nil, fmt.Errorf("%s of %s: %w", what, op.Name, &RequiredError{Paths: empty.Missing})
		}
		return nil, nil
	}
	return el, nil
}

// Call invokes the operation called name with plain header and body
// values and decodes the response.
func (c *Client) Call(ctx context.Context, name string, header, body any) (*Response, error) {
	op, ok := c.Operation(name)
	if !ok {
		return nil, fmt.Errorf("unknown operation %s", name)
	}
	payload, err := c.BuildEnvelope(op, header, body)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	logger := log.With().Str("invocation", id).Str("operation", op.Name).Logger()
	logger.Debug().Str("url", op.URL).Str("soap_action", op.SOAPAction).Int("bytes", len(payload)).Msg("Sending request")

	started := time.Now()
	raw, err := c.transport.Send(ctx, &Request{URL: op.URL, SOAPAction: op.SOAPAction, Body: payload})
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) {
			if env, perr := ParseEnvelope(status.Body); perr == nil {
				if fault := env.Fault(); fault != nil {
					logger.Debug().Str("fault_code", fault.Code).Msg("Received fault")
					return nil, fault
				}
			}
		}
		return nil, err
	}
	logger.Debug().Dur("duration", time.Since(started)).Int("bytes", len(raw)).Msg("Received response")

	return c.decode(op, raw)
}

func (c *Client) decode(op *wsdl.Operation, raw []byte) (*Response, error) {
	env, err := ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if fault := env.Fault(); fault != nil {
		return nil, fault
	}

	opts := DecodeOptions{Strict: c.strict}
	resp := &Response{Raw: raw}
	if op.OutputHeader != nil {
		if el := env.HeaderContent(op.OutputHeader.Element.Local); el != nil {
			if resp.Header, err = Decode(el, op.OutputHeader.Entry, opts); err != nil {
				return nil, err
			}
		}
	}
	if op.OutputBody != nil {
		if el := env.Content(); el != nil {
			if el.Name.Local != op.OutputBody.Element.Local {
				if c.strict {
					return nil, &DecodeError{Path: "/" + el.Name.Local, Err: fmt.Errorf("expected %s", op.OutputBody.Element.Local)}
				}
				log.Warn().Str("expected", op.OutputBody.Element.Local).Str("got", el.Name.Local).Msg("Unexpected response element")
			}
			if resp.Body, err = Decode(el, op.OutputBody.Entry, opts); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}
