package main

import (
	"github.com/spf13/cobra"
)

func configCmd(rc *rootCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective run configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rc.load(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
