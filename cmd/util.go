package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	projerrors "thoreinstein.com/projroot/pkg/errors"
	"thoreinstein.com/projroot/pkg/render"
)

// addOutputFlag registers -o/--output on flags.
func addOutputFlag(flags *pflag.FlagSet, target *string) {
	flags.StringVarP(target, "output", "o", "text", "output format: text, json, yaml, toml")
}

// writeOutput renders v to the command's stdout in the named format.
func writeOutput(cmd *cobra.Command, format string, v any) error {
	f, err := render.ParseFormat(format)
	if err != nil {
		return projerrors.NewConfigErrorWithCause("output", "unsupported output format", err)
	}
	return render.Write(cmd.OutOrStdout(), f, v)
}
