package lib

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockData struct {
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

func (m MockData) String() string {
	return m.Name
}

func (m MockData) Pretty() string {
	return fmt.Sprintf("Name: %s | Content: %s", m.Name, m.Content)
}

func (m MockData) TableHeaders() []string {
	return []string{"Name", "Content"}
}

func (m MockData) TableRow() []string {
	return []string{m.Name, m.Content}
}

func TestFormatOutput(t *testing.T) {
	data := []MockData{{Name: "Test", Content: "Sample Content"}}

	tests := []struct {
		format FormatType
		output string
		hasErr bool
	}{
		{Text, "Test", false},
		{Pretty, "Name: Test | Content: Sample Content", false},
		{JSON, `[
  {
    "name": "Test",
    "content": "Sample Content"
  }
]`, false},
		{YAML, "- name: Test\n  content: Sample Content\n", false},
		{FormatType("unknown"), "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			result, err := FormatOutput(data, tt.format)
			if (err != nil) != tt.hasErr {
				t.Fatalf("expected error %v, got %v", tt.hasErr, err)
			}
			if result != tt.output {
				t.Fatalf("expected output %q, got %q", tt.output, result)
			}
		})
	}
}

func TestFormatTable(t *testing.T) {
	data := []MockData{{Name: "GetUser", Content: "ok"}, {Name: "Ping", Content: "ok"}}
	result, err := FormatOutput(data, Table)
	require.NoError(t, err)
	assert.Contains(t, result, "NAME")
	assert.Contains(t, result, "GetUser")
	assert.Contains(t, result, "Ping")
}

func TestPrintOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintOutput(&buf, []MockData{{Name: "a"}, {Name: "b"}}, Text))
	assert.Equal(t, "a\nb\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	out, err := FormatValue(map[string]any{"user": map[string]any{"name": "x"}}, YAML)
	require.NoError(t, err)
	assert.Equal(t, "user:\n    name: x\n", out)

	_, err = FormatValue(1, Table)
	assert.Error(t, err)
}

func TestParseFormatType(t *testing.T) {
	for _, name := range []string{"pretty", "TEXT", "json", "Yaml", "table"} {
		f, err := ParseFormatType(name)
		require.NoError(t, err)
		assert.Equal(t, FormatType(strings.ToLower(name)), f)
	}
	_, err := ParseFormatType("xml")
	assert.Error(t, err)
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("http://example.com/service?wsdl")
	assert.Len(t, key, 40)
	assert.Equal(t, key, CacheKey("http://example.com/service?wsdl"))
	assert.NotEqual(t, key, CacheKey("http://example.com/other?wsdl"))
}
