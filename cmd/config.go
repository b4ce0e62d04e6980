package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thoreinstein.com/projroot/pkg/bootstrap"
	"thoreinstein.com/projroot/pkg/config"
)

var (
	configForce  bool
	configOutput string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage projroot configuration",
	Long: `Create or inspect the projroot configuration.

Configuration is read from $HOME/.config/projroot/config.toml, then from
.projroot.toml in the version control root and in the working directory,
and finally from PROJROOT_* environment variables.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to path, or to the --config file, or to
$HOME/.config/projroot/config.toml. An existing file is kept unless --force
is given.`,
	Args: cobra.MaximumNArgs(1),
	// The config being replaced may be invalid, so skip loading it.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			var err error
			if path, err = bootstrap.DefaultConfigPath(); err != nil {
				return err
			}
		}
		path, err := config.ExpandPath(path)
		if err != nil {
			return err
		}

		if err := config.Default().WriteFile(path, configForce); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeOutput(cmd, configOutput, appConfig)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configShowCmd.Flags().StringVarP(&configOutput, "output", "o", "toml", "output format: json, yaml, toml")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
