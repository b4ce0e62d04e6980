package cmd

import (
	"github.com/spf13/cobra"

	"thoreinstein.com/projroot/pkg/root"
)

var whyOutput string

// whyResult is the rendered form of a located root.
type whyResult struct {
	root.Result `yaml:",inline"`
	Policy      string `json:"policy" yaml:"policy" toml:"policy"`
}

func (w whyResult) Text() string {
	return w.Explain()
}

var whyCmd = &cobra.Command{
	Use:   "why [path]",
	Short: "Explain why a directory was chosen as the root",
	Long: `Find the project root and report which criterion matched it.

Examples:
  projroot why
  projroot why -c py_here ./notebooks
  projroot why -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := findRoot(cmd, args)
		if err != nil {
			return err
		}
		policy := appConfig.Criterion
		if criterionName != "" {
			policy = criterionName
		}
		return writeOutput(cmd, whyOutput, whyResult{Result: res, Policy: policy})
	},
}

func init() {
	addOutputFlag(whyCmd.Flags(), &whyOutput)
	rootCmd.AddCommand(whyCmd)
}
