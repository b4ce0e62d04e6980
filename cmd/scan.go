package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"thoreinstein.com/projroot/pkg/config"
	"thoreinstein.com/projroot/pkg/discovery"
	"thoreinstein.com/projroot/pkg/ui"
)

var (
	scanOutput string
	scanDepth  int
	scanNested bool
	scanPick   bool
)

type scanResult struct {
	discovery.Result `yaml:",inline"`
}

func (r scanResult) Text() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, p := range r.Projects {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Path, p.MatchedBy)
	}
	_ = w.Flush()
	fmt.Fprintf(&b, "%d projects in %d directories (%s)", len(r.Projects), r.Scanned, r.Duration.Round(time.Millisecond))
	return b.String()
}

var scanCmd = &cobra.Command{
	Use:   "scan [dir...]",
	Short: "Find project roots below directories",
	Long: `Walk downward from each directory (default: scan.search_paths from the
configuration) and report every directory that meets an entry of the policy.
Directories below a match are not scanned unless --nested is given.

Examples:
  projroot scan
  projroot scan ~/src ~/work --depth 2
  projroot scan -c is_go_module --nested -o json
  cd "$(projroot scan --pick)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := selectedSet()
		if err != nil {
			return err
		}

		scanCfg := appConfig.Scan
		if len(args) > 0 {
			scanCfg.SearchPaths = nil
			for _, arg := range args {
				p, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				if p, err = filepath.Abs(p); err != nil {
					return errors.Wrapf(err, "resolve %s", arg)
				}
				scanCfg.SearchPaths = append(scanCfg.SearchPaths, p)
			}
		}
		if cmd.Flags().Changed("depth") {
			scanCfg.MaxDepth = scanDepth
		}

		scanner := discovery.NewScannerFromConfig(s, scanCfg)
		scanner.Nested = scanNested
		scanner.Logger = logger

		res, err := scanner.Scan(cmd.Context())
		if err != nil {
			return err
		}

		if scanPick {
			p, err := ui.SelectProject(cmd.Context(), res.Projects)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Path)
			return nil
		}
		return writeOutput(cmd, scanOutput, scanResult{*res})
	},
}

func init() {
	addOutputFlag(scanCmd.Flags(), &scanOutput)
	scanCmd.Flags().IntVar(&scanDepth, "depth", 3, "maximum directory depth below each search path")
	scanCmd.Flags().BoolVar(&scanNested, "nested", false, "keep scanning below matched directories")
	scanCmd.Flags().BoolVar(&scanPick, "pick", false, "choose one project with fzf and print its path")
	rootCmd.AddCommand(scanCmd)
}
