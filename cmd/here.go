package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thoreinstein.com/projroot/pkg/here"
)

var (
	setHereUUID bool
	iAmUUID     string
)

var setHereCmd = &cobra.Command{
	Use:   "set-here [dir]",
	Short: "Create the root marker file",
	Long: `Create the marker file (default .here) in dir or the working directory,
so the default policy treats that directory as a project root. An existing
marker is left untouched.

Examples:
  projroot set-here
  projroot set-here ~/src/analysis --uuid`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		path, err := here.SetHere(dir, appConfig.Marker, setHereUUID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var drHereCmd = &cobra.Command{
	Use:   "dr-here",
	Short: "Show where the root is and why",
	Long: `Print the project root and the reason it was chosen.

Examples:
  projroot dr-here
  projroot dr-here -c r_here --start ./vignettes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHere(cmd)
		if err != nil {
			return err
		}
		msg, err := h.DrHere()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var iAmCmd = &cobra.Command{
	Use:   "i-am PATH",
	Short: "Find the root by a file known to live in it",
	Long: `Find the nearest ancestor that contains PATH, given relative to the
project root, and print it. With --uuid the file must also contain the
identifier as a whole line within its first 100 lines.

Examples:
  projroot i-am analysis/report.Rmd
  projroot i-am .here --uuid 3f0c8a52-0f29-4b0e-9d6b-2a34a1b1e0c7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHere(cmd)
		if err != nil {
			return err
		}
		_, dir, err := h.IAm(args[0], iAmUUID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func newHere(cmd *cobra.Command) (*here.Here, error) {
	s, err := selectedSet()
	if err != nil {
		return nil, err
	}
	opts, err := searchOptions(cmd, nil)
	if err != nil {
		return nil, err
	}
	return here.New(s, here.WithSearch(opts...), here.WithLogger(logger)), nil
}

func init() {
	setHereCmd.Flags().BoolVar(&setHereUUID, "uuid", false, "write a fresh UUID into the marker")
	iAmCmd.Flags().StringVar(&iAmUUID, "uuid", "", "identifier the file must contain")

	rootCmd.AddCommand(setHereCmd)
	rootCmd.AddCommand(drHereCmd)
	rootCmd.AddCommand(iAmCmd)
}
