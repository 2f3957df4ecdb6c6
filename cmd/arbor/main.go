package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ctreelab/arbor/pkg/config"
	"github.com/ctreelab/arbor/pkg/log"
)

type rootCmdConfig struct {
	configFile string
	logLevel   string
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "arbor",
		Short:         "arbor grows classification trees with ID3, C4.5 or CART",
		Long:          `A tool to grow classification trees from tabular data, evaluate them, export them and use them to make predictions`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rc := &rootCmdConfig{}
	rootCmd.PersistentFlags().StringVarP(&rc.configFile, "config", "c", "", "path to a YAML run configuration (defaults to built-in settings)")
	rootCmd.PersistentFlags().StringVar(&rc.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the configuration)")
	rootCmd.AddCommand(versionCmd(), configCmd(rc), fitCmd(rc), predictCmd(rc))
	return rootCmd
}

// load resolves the run configuration and installs the logger it asks for.
func (rc *rootCmdConfig) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if rc.configFile != "" {
		var err error
		if cfg, err = config.LoadFile(rc.configFile); err != nil {
			return nil, err
		}
	}
	if rc.logLevel != "" {
		cfg.LogLevel = rc.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if err := log.Setup(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	return cfg, nil
}
