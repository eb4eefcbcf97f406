package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pyneda/simplesoap/internal/config"
	"github.com/pyneda/simplesoap/lib"
	"github.com/pyneda/simplesoap/pkg/soap"
	"github.com/spf13/cobra"
)

var (
	bodyFile   string
	headerFile string
	dryRun     bool
	rawOutput  bool
	strictCall bool
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call <operation> <wsdl>...",
	Short: "Invoke an operation with values read from YAML files",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := lib.ComponentLogger("call")
		settings, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("strict") {
			settings.Strict = strictCall
		}
		service, err := loadService(cmd.Context(), settings, args[1:])
		if err != nil {
			return err
		}
		op, err := findOperation(service, args[0])
		if err != nil {
			return err
		}
		body, err := readValueFile(bodyFile)
		if err != nil {
			return err
		}
		header, err := readValueFile(headerFile)
		if err != nil {
			return err
		}

		client := newClient(settings, service)
		if dryRun {
			payload, err := client.BuildEnvelope(op, header, body)
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
			return nil
		}

		logger.Info().Str("operation", op.Name).Str("url", op.URL).Msg("Calling operation")
		resp, err := client.Call(cmd.Context(), op.Name, header, body)
		if err != nil {
			var fault *soap.FaultError
			if errors.As(err, &fault) {
				logger.Error().Str("code", fault.Code).Str("actor", fault.Actor).Str("detail", fault.Detail).Msg(fault.String)
			}
			return err
		}
		if rawOutput {
			fmt.Println(string(resp.Raw))
			return nil
		}

		formatType, err := lib.ParseFormatType(cmd.Flag("format").Value.String())
		if err != nil {
			return err
		}
		result := map[string]any{"body": printable(resp.Value())}
		if resp.Header != nil {
			result["header"] = printable(resp.HeaderValue())
		}
		out, err := lib.FormatValue(result, formatType)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVarP(&bodyFile, "body", "b", "", "YAML file with the input body values")
	callCmd.Flags().StringVar(&headerFile, "header", "", "YAML file with the input header values")
	callCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the request envelope without sending it")
	callCmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the raw response envelope")
	callCmd.Flags().BoolVar(&strictCall, "strict", false, "Validate values against the schema (overrides soap.strict)")
}
