package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/triton/pkg/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	var write string
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or write the configuration",
		Long: `Prints the effective configuration as YAML, or writes it to --write.
With --defaults the built-in defaults are used instead of --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if defaults {
				cfg = config.Default()
			}
			if write != "" {
				if err := config.Save(write, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", write)
				return nil
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&write, "write", "w", "", "Write the configuration to this file")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Use the built-in defaults")
	return cmd
}
