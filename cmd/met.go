package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	projerrors "thoreinstein.com/projroot/pkg/errors"
)

var metCmd = &cobra.Command{
	Use:   "met [path]",
	Short: "List the policy entries met by any ancestor",
	Long: `List the names of all entries of the policy that are met by the start
directory or one of its ancestors, in the order a search would find them.

Examples:
  projroot met
  projroot met -c py_here --order directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := selectedSet()
		if err != nil {
			return err
		}
		opts, err := searchOptions(cmd, args)
		if err != nil {
			return err
		}

		names, err := s.MetNames(opts...)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return projerrors.NewRootNotFoundError(startDir(args), s.Names())
		}

		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// startDir reports the directory a search started from, for messages.
func startDir(args []string) string {
	switch {
	case len(args) > 0:
		return args[0]
	case startFlag != "":
		return startFlag
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

func init() {
	rootCmd.AddCommand(metCmd)
}
