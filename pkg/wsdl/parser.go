package wsdl

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aqwari.net/xml/xmltree"
	"github.com/pyneda/simplesoap/lib"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
)

// Document is one loaded WSDL or bare XML Schema document.
type Document struct {
	Location        string
	Root            *xmltree.Element
	Definitions     *rawDefinitions // nil for a bare schema
	TargetNamespace string
	Namespaces      *NamespaceMap
}

// IsSchema reports whether the document root is xs:schema.
func (d *Document) IsSchema() bool {
	return d.Definitions == nil
}

// References returns the resolved locations of every wsdl:import,
// xs:import and xs:include in the document.
func (d *Document) References() []string {
	var refs []string
	add := func(location string) {
		if location = strings.TrimSpace(location); location != "" {
			refs = append(refs, resolveLocation(d.Location, location))
		}
	}
	if d.Definitions != nil {
		for _, imp := range d.Definitions.Imports {
			add(imp.Location)
		}
	}
	for _, imp := range d.Root.Search(XSDNamespace, "import") {
		add(imp.Attr("", "schemaLocation"))
	}
	for _, inc := range d.Root.Search(XSDNamespace, "include") {
		add(inc.Attr("", "schemaLocation"))
	}
	return refs
}

// Parser loads WSDL documents with import resolution
type Parser struct {
	client      *http.Client
	headers     map[string]string
	userAgent   string
	maxDepth    int // Max import recursion depth
	concurrency int
	cacheDir    string
}

func newHTTPClient(insecureSkipVerify bool) *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify},
		},
	}
}

// NewParser creates a new WSDL parser. Certificates of remote documents are
// verified unless WithInsecureSkipVerify is set.
func NewParser() *Parser {
	return &Parser{
		client:      newHTTPClient(false),
		headers:     make(map[string]string),
		userAgent:   "simplesoap",
		maxDepth:    10,
		concurrency: 4,
	}
}

// WithHeaders sets custom headers for the parser
func (p *Parser) WithHeaders(headers map[string]string) *Parser {
	p.headers = headers
	return p
}

// WithClient sets a custom HTTP client
func (p *Parser) WithClient(client *http.Client) *Parser {
	p.client = client
	return p
}

// WithInsecureSkipVerify replaces the HTTP client with one that does or does
// not verify TLS certificates
func (p *Parser) WithInsecureSkipVerify(insecure bool) *Parser {
	p.client = newHTTPClient(insecure)
	return p
}

// WithMaxDepth sets the maximum import recursion depth
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// WithConcurrency bounds how many documents are fetched at once
func (p *Parser) WithConcurrency(n int) *Parser {
	if n > 0 {
		p.concurrency = n
	}
	return p
}

// WithCache enables the on-disk document cache in dir. An empty dir disables it.
func (p *Parser) WithCache(dir string) *Parser {
	p.cacheDir = dir
	return p
}

// WithUserAgent sets the User-Agent used when fetching documents
func (p *Parser) WithUserAgent(userAgent string) *Parser {
	p.userAgent = userAgent
	return p
}

// Load reads location and every document it imports or includes.
func (p *Parser) Load(ctx context.Context, location string) ([]*Document, error) {
	return p.LoadAll(ctx, []string{location})
}

type loadResult struct {
	doc *Document
	err error
}

// LoadAll reads locations and, level by level, every document they
// reference. Documents are returned in discovery order. Failing to read a
// given location is an error; failing to read an import is logged and the
// import is skipped.
func (p *Parser) LoadAll(ctx context.Context, locations []string) ([]*Document, error) {
	seen := make(map[string]bool)
	var level []string
	for _, loc := range locations {
		if !seen[loc] {
			seen[loc] = true
			level = append(level, loc)
		}
	}

	var docs []*Document
	for depth := 0; len(level) > 0; depth++ {
		if depth > p.maxDepth {
			log.Warn().Int("max_depth", p.maxDepth).Strs("skipped", level).Msg("Max import depth exceeded")
			break
		}
		mapper := iter.Mapper[string, loadResult]{MaxGoroutines: p.concurrency}
		results := mapper.Map(level, func(loc *string) loadResult {
			doc, err := p.loadOne(ctx, *loc)
			return loadResult{doc: doc, err: err}
		})

		var next []string
		for i, res := range results {
			if res.err != nil {
				if depth == 0 {
					return nil, res.err
				}
				log.Warn().Err(res.err).Str("location", level[i]).Msg("Skipping import")
				continue
			}
			docs = append(docs, res.doc)
			for _, ref := range res.doc.References() {
				if !seen[ref] {
					seen[ref] = true
					next = append(next, ref)
				}
			}
		}
		level = next
	}
	log.Debug().Int("documents", len(docs)).Msg("Loaded documents")
	return docs, nil
}

func (p *Parser) loadOne(ctx context.Context, location string) (*Document, error) {
	data, err := p.read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return p.ParseFromBytes(data, location)
}

// read tries location as a local file, then as a cache entry, then fetches it.
func (p *Parser) read(ctx context.Context, location string) ([]byte, error) {
	remote := isRemote(location)
	if !remote {
		path := strings.TrimPrefix(location, "file://")
		if _, err := os.Stat(path); err == nil {
			return os.ReadFile(path)
		}
	}

	cachePath := ""
	if p.cacheDir != "" {
		cachePath = filepath.Join(p.cacheDir, lib.CacheKey(location))
		if data, err := os.ReadFile(cachePath); err == nil {
			log.Debug().Str("location", location).Str("cache", cachePath).Msg("Using cached document")
			return data, nil
		}
	}

	if !remote {
		return nil, fmt.Errorf("file not found: %s", location)
	}

	data, err := p.fetchDocument(ctx, location)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
			log.Warn().Err(err).Str("dir", p.cacheDir).Msg("Could not create cache directory")
		} else if err := os.WriteFile(cachePath, data, 0o644); err != nil {
			log.Warn().Err(err).Str("cache", cachePath).Msg("Could not write cache file")
		}
	}
	return data, nil
}

// resolveLocation resolves ref against the document location base. Local
// paths are joined as file paths so relative bases stay relative.
func resolveLocation(base, ref string) string {
	if isRemote(ref) || isRemote(base) {
		return ResolveURL(base, ref)
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(strings.TrimPrefix(base, "file://")), ref)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// fetchDocument retrieves a document from URL
func (p *Parser) fetchDocument(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/xml, application/xml, application/wsdl+xml")
	req.Header.Set("User-Agent", p.userAgent)

	for key, value := range p.headers {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return io.ReadAll(resp.Body)
}

// ParseFromBytes parses a WSDL or XML Schema document
func (p *Parser) ParseFromBytes(data []byte, location string) (*Document, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML of %s: %w", location, err)
	}

	doc := &Document{
		Location:   location,
		Root:       root,
		Namespaces: p.extractNamespaces(data),
	}

	switch root.Name {
	case xml.Name{Space: WSDLNamespace, Local: "definitions"}:
		var raw rawDefinitions
		if err := xml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse WSDL %s: %w", location, err)
		}
		doc.Definitions = &raw
		doc.TargetNamespace = raw.TargetNamespace
	case xml.Name{Space: XSDNamespace, Local: "schema"}:
		doc.TargetNamespace = root.Attr("", "targetNamespace")
	default:
		return nil, fmt.Errorf("%s: unsupported root element {%s}%s", location, root.Name.Space, root.Name.Local)
	}
	return doc, nil
}

// extractNamespaces parses XML to extract the root namespace declarations
func (p *Parser) extractNamespaces(data []byte) *NamespaceMap {
	nsMap := NewNamespaceMap()
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("Stopped reading namespace declarations")
			}
			break
		}

		if t, ok := token.(xml.StartElement); ok {
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
					prefix := ""
					if attr.Name.Space == "xmlns" {
						prefix = attr.Name.Local
					}
					nsMap.Add(prefix, attr.Value)
				}
			}
			// Only need namespaces from root element for most cases
			return nsMap
		}
	}

	return nsMap
}

// extractDocumentation extracts text from documentation element
func extractDocumentation(doc *rawDocumentation) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Content)
}
