package cmd

import (
	"fmt"

	"github.com/pyneda/simplesoap/internal/config"
	"github.com/pyneda/simplesoap/lib"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dumpPath string

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		formatType, err := lib.ParseFormatType(cmd.Flag("format").Value.String())
		if err != nil {
			return err
		}
		out, err := lib.FormatValue(viper.AllSettings(), formatType)
		if err != nil {
			return err
		}
		fmt.Print(out)
		log.Debug().Bool("strict", settings.Strict).Str("cache", settings.CacheDirectory()).Msg("Configuration is valid")
		return nil
	},
}

// dumpconfigCmd represents the config dump command
var dumpconfigCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dumps default configuration file",
	Long:  `Dumps default configuration file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.SetDefaultConfig()
		if err := viper.SafeWriteConfigAs(dumpPath); err != nil {
			return fmt.Errorf("could not write config file: %w", err)
		}
		log.Info().Str("path", dumpPath).Msg("Config file written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(dumpconfigCmd)
	dumpconfigCmd.Flags().StringVarP(&dumpPath, "output", "o", "config.yaml", "Where to write the config file")
}
