package lib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"gopkg.in/yaml.v3"
)

type FormatType string

const (
	Pretty FormatType = "pretty"
	Text   FormatType = "text"
	JSON   FormatType = "json"
	YAML   FormatType = "yaml"
	Table  FormatType = "table"
)

type Formattable interface {
	String() string
	Pretty() string
	TableHeaders() []string
	TableRow() []string
}

func FormatOutput[T Formattable](data []T, format FormatType) (string, error) {
	switch format {
	case Text:
		var textOutput []string
		for _, item := range data {
			textOutput = append(textOutput, item.String())
		}
		return strings.Join(textOutput, "\n"), nil
	case Pretty:
		var prettyOutput []string
		for _, item := range data {
			prettyOutput = append(prettyOutput, item.Pretty())
		}
		return strings.Join(prettyOutput, "\n"), nil
	case JSON:
		return FormatValue(data, format)
	case YAML:
		return FormatValue(data, format)
	case Table:
		var tableData [][]string
		for _, item := range data {
			tableData = append(tableData, item.TableRow())
		}

		buffer := new(bytes.Buffer)
		table := tablewriter.NewWriter(buffer)

		if len(data) > 0 {
			table.SetHeader(data[0].TableHeaders())
		}
		table.SetBorder(true)
		table.SetAutoWrapText(false)
		table.AppendBulk(tableData)
		table.Render()

		return buffer.String(), nil
	default:
		return "", fmt.Errorf("unknown format: %v", format)
	}
}

// FormatValue renders an arbitrary value as JSON or YAML.
func FormatValue(v any, format FormatType) (string, error) {
	switch format {
	case JSON:
		j, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(j), nil
	case YAML:
		y, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(y), nil
	default:
		return "", fmt.Errorf("format %v cannot render plain values", format)
	}
}

// PrintOutput formats data and writes it to w followed by a newline.
func PrintOutput[T Formattable](w io.Writer, data []T, format FormatType) error {
	out, err := FormatOutput(data, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return err
}

// ParseFormatType converts a string format to a FormatType.
func ParseFormatType(format string) (FormatType, error) {
	normalizedFormat := strings.ToLower(format)
	switch normalizedFormat {
	case "pretty":
		return Pretty, nil
	case "text":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	case "table":
		return Table, nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}
