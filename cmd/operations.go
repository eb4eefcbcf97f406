package cmd

import (
	"os"

	"github.com/pyneda/simplesoap/internal/config"
	"github.com/pyneda/simplesoap/lib"
	"github.com/spf13/cobra"
)

// operationsCmd represents the operations command
var operationsCmd = &cobra.Command{
	Use:     "operations <wsdl>...",
	Aliases: []string{"ops", "o"},
	Short:   "List the SOAP 1.1 operations of a service",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		service, err := loadService(cmd.Context(), settings, args)
		if err != nil {
			return err
		}
		formatType, err := lib.ParseFormatType(cmd.Flag("format").Value.String())
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("format") {
			formatType = lib.Table
		}
		return lib.PrintOutput(os.Stdout, service.Operations, formatType)
	},
}

func init() {
	rootCmd.AddCommand(operationsCmd)
}
