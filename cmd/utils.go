package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/pyneda/simplesoap/internal/config"
	"github.com/pyneda/simplesoap/pkg/soap"
	"github.com/pyneda/simplesoap/pkg/wsdl"
	"github.com/pyneda/simplesoap/pkg/xsd"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// loadService reads the documents at locations with the configured
// acquisition settings and compiles them.
func loadService(ctx context.Context, settings *config.Settings, locations []string) (*wsdl.Service, error) {
	parser := wsdl.NewParser().
		WithHeaders(settings.FetchHeaders).
		WithUserAgent(settings.UserAgent).
		WithInsecureSkipVerify(settings.InsecureSkipVerify).
		WithMaxDepth(settings.MaxDepth).
		WithConcurrency(settings.FetchConcurrency).
		WithCache(settings.CacheDirectory())

	docs, err := parser.LoadAll(ctx, locations)
	if err != nil {
		return nil, err
	}
	return wsdl.Compile(docs)
}

func newClient(settings *config.Settings, service *wsdl.Service) *soap.Client {
	transport := soap.NewHTTPTransport(settings.Timeout, settings.InsecureSkipVerify).
		WithUserAgent(settings.UserAgent)
	auth := &soap.AuthConfig{CustomHeaders: settings.Headers}
	opts := []soap.Option{soap.WithStrict(settings.Strict)}
	if settings.WSSE && settings.Username != "" {
		opts = append(opts, soap.WithSecurity(&soap.Security{Username: settings.Username, Password: settings.Password}))
	} else {
		auth.Username = settings.Username
		auth.Password = settings.Password
	}
	opts = append(opts, soap.WithTransport(transport.WithAuth(auth)))
	return soap.NewClient(service, opts...)
}

// findOperation returns the named operation or an error listing the
// available ones.
func findOperation(service *wsdl.Service, name string) (*wsdl.Operation, error) {
	if op, ok := service.Operation(name); ok {
		return op, nil
	}
	names := make([]string, 0, len(service.Operations))
	for _, op := range service.Operations {
		names = append(names, op.Name)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("operation %q not found, available: %v", name, names)
}

// readValueFile decodes a YAML (or JSON) file of plain values. An empty
// path yields nil.
func readValueFile(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	log.Debug().Str("file", path).Msg("Loaded values")
	return value, nil
}

// printable turns decoded values into types every output format can
// render: scalars without a native JSON/YAML form become their XSD text.
func printable(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int64, uint64:
		return x
	case float64:
		if !math.IsInf(x, 0) && !math.IsNaN(x) {
			return x
		}
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = printable(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = printable(item)
		}
		return out
	}
	if text, ok, err := xsd.Format(v); err == nil && ok {
		return text
	}
	return fmt.Sprint(v)
}
