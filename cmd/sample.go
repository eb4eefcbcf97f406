package cmd

import (
	"fmt"

	"github.com/pyneda/simplesoap/internal/config"
	"github.com/pyneda/simplesoap/lib"
	"github.com/pyneda/simplesoap/pkg/xsd"
	"github.com/spf13/cobra"
)

var sampleHeader bool

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample <operation> <wsdl>...",
	Short: "Print a value template for the input of an operation",
	Long: `Print a value template for the input body (or, with --header, the
input header) of an operation. The output can be edited and passed to
"call --body".`,
	Args: cobra.MinimumNArgs(2),
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
		if op.Err != nil {
			return fmt.Errorf("operation %s cannot be invoked: %w", op.Name, op.Err)
		}
		ref := op.InputBody
		if sampleHeader {
			ref = op.InputHeader
		}
		if ref == nil {
			return fmt.Errorf("operation %s declares no input to sample", op.Name)
		}

		formatType, err := lib.ParseFormatType(cmd.Flag("format").Value.String())
		if err != nil {
			return err
		}
		out, err := lib.FormatValue(xsd.Sample(ref.Entry), formatType)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().BoolVar(&sampleHeader, "header", false, "Sample the input header instead of the body")
}
