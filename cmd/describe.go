package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pyneda/simplesoap/internal/config"
	"github.com/pyneda/simplesoap/pkg/wsdl"
	"github.com/pyneda/simplesoap/pkg/xsd"
	"github.com/spf13/cobra"
)

var (
	nameColor  = color.New(color.FgCyan, color.Bold)
	typeColor  = color.New(color.FgGreen)
	factColor  = color.New(color.FgYellow)
	docColor   = color.New(color.Faint)
	titleColor = color.New(color.FgMagenta, color.Bold)
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <operation> <wsdl>...",
	Short: "Show the input and output types of an operation",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		service, err := loadService(cmd.Context(), settings, args[1:])
		if err != nil {
			return err
		}
		op, err := findOperation(service, args[0])
		if err != nil {
			return err
		}
		describeOperation(os.Stdout, op)
		return nil
	},
}

func describeOperation(w io.Writer, op *wsdl.Operation) {
	titleColor.Fprintf(w, "%s\n", op.Name)
	fmt.Fprintf(w, "  url: %s\n  soap action: %q\n", op.URL, op.SOAPAction)
	if op.Documentation != "" {
		docColor.Fprintf(w, "  %s\n", op.Documentation)
	}
	if op.Err != nil {
		color.New(color.FgRed).Fprintf(w, "  cannot be invoked: %v\n", op.Err)
		return
	}
	sections := []struct {
		title string
		ref   *wsdl.PartRef
	}{
		{"input header", op.InputHeader},
		{"input body", op.InputBody},
		{"output header", op.OutputHeader},
		{"output body", op.OutputBody},
	}
	for _, s := range sections {
		if s.ref == nil {
			continue
		}
		titleColor.Fprintf(w, "%s\n", s.title)
		describeEntry(w, s.ref.Element.Local, s.ref.Entry, 1, make(map[xsd.Entry]bool))
	}
}

// describeEntry writes one line per slot of e, recursing into nodes. Types
// already on the current path are printed once and marked recursive.
func describeEntry(w io.Writer, name string, e xsd.Entry, depth int, path map[xsd.Entry]bool) {
	indent := strings.Repeat("  ", depth)
	nameColor.Fprintf(w, "%s%s", indent, name)

	switch x := e.(type) {
	case *xsd.Leaf:
		typeColor.Fprintf(w, " %s", leafType(x))
		writeFacets(w, x.Facets())
		writeDoc(w, x.Doc())
		fmt.Fprintln(w)
	case *xsd.Node:
		if t := x.Type(); t != "" {
			typeColor.Fprintf(w, " %s", xsd.LocalName(t))
		}
		writeFacets(w, x.Facets())
		writeDoc(w, x.Doc())
		if path[x] || (x.Base != nil && path[x.Base]) {
			factColor.Fprintln(w, " (recursive)")
			return
		}
		if !x.Resolved() {
			color.New(color.FgRed).Fprintln(w, " (undeclared)")
			return
		}
		fmt.Fprintln(w)
		path[x] = true
		defer delete(path, x)
		if x.Base != nil && !path[x.Base] {
			path[x.Base] = true
			defer delete(path, x.Base)
		}
		for _, key := range x.Keys() {
			child, _ := x.Get(key)
			describeEntry(w, key, child, depth+1, path)
		}
	case *xsd.List:
		fmt.Fprintln(w, " []")
		describeEntry(w, name, x.Proto, depth+1, path)
	}
}

func leafType(l *xsd.Leaf) string {
	if t := l.Type(); t != "" {
		return xsd.LocalName(t)
	}
	return l.Kind().String()
}

func writeFacets(w io.Writer, r *xsd.Restriction) {
	if s := r.String(); s != "" {
		factColor.Fprintf(w, " [%s]", s)
	}
}

func writeDoc(w io.Writer, doc string) {
	if doc != "" {
		docColor.Fprintf(w, " # %s", strings.Join(strings.Fields(doc), " "))
	}
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
