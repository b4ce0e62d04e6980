package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	projerrors "thoreinstein.com/projroot/pkg/errors"
	"thoreinstein.com/projroot/pkg/root"
)

var fileMustExist bool

var fileCmd = &cobra.Command{
	Use:   "file PATH...",
	Short: "Resolve a path relative to the project root",
	Long: `Join the given path components to the project root and print the result.

Only the first component may be absolute, in which case it is printed as is
without searching for a root. With --must-exist the command fails when the
resolved path does not exist.

Examples:
  projroot file data raw.csv
  projroot file --must-exist config/settings.toml
  projroot file -c r_here --start ./analysis inst/extdata`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range args[1:] {
			if filepath.IsAbs(p) {
				return projerrors.NewInvalidPathError(p, "only the first path component may be absolute")
			}
		}

		s, err := selectedSet()
		if err != nil {
			return err
		}
		opts, err := searchOptions(cmd, nil)
		if err != nil {
			return err
		}

		rel := filepath.Join(args...)
		var path string
		if fileMustExist {
			path, err = root.ResolveExisting(s, rel, opts...)
		} else {
			path, err = root.Resolve(s, rel, opts...)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	fileCmd.Flags().BoolVar(&fileMustExist, "must-exist", false, "fail if the resolved path does not exist")
	rootCmd.AddCommand(fileCmd)
}
