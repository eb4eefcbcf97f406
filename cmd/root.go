package cmd

import (
	"context"
	"strings"

	"github.com/pyneda/simplesoap/internal/config"
	"github.com/pyneda/simplesoap/lib"
	"github.com/rs/zerolog/log"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string
var debugLogging bool
var prettyLogs bool
var format string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simplesoap",
	Short: "Call SOAP 1.1 services described by WSDL documents",
	Long: `simplesoap loads WSDL and XML Schema documents, builds a type tree of
every declared element and type, and invokes document/literal SOAP 1.1
operations with plain YAML values, validating them against the schema.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.simplesoap.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Use debug level logging")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", true, "Use pretty logging instead JSON")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "yaml", "Output format (json, yaml, text, pretty, table)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		lib.ZeroConsoleLog(prettyLogs, debugLogging)
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("Using config file")
		}
		return nil
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		cobra.CheckErr(viper.ReadInConfig())
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".simplesoap" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".simplesoap")
		viper.SetConfigType("yaml")
		_ = viper.ReadInConfig()
	}

	viper.SetEnvPrefix("simplesoap")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	config.SetDefaultConfig()
}
