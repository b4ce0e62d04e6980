package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"thoreinstein.com/projroot/pkg/catalog"
	projerrors "thoreinstein.com/projroot/pkg/errors"
)

var listOutput string

type listItem struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Kind        string `json:"kind" yaml:"kind" toml:"kind"`
	Source      string `json:"source" yaml:"source" toml:"source"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

type listing struct {
	Items []listItem `json:"items" yaml:"items" toml:"items"`
}

func (l listing) Text() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tSOURCE\tDESCRIPTION")
	for _, item := range l.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.Name, item.Kind, item.Source, item.Description)
	}
	_ = w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

var listCmd = &cobra.Command{
	Use:   "list [name...]",
	Short: "List the known criteria and policies",
	Long: `List the builtin criteria and policies together with any policies
defined in the configuration. Names given as arguments restrict the listing.

Examples:
  projroot list
  projroot list here py_here
  projroot list -o yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []catalog.Item
		if len(args) == 0 {
			items = registry.Items()
		} else {
			for _, name := range args {
				item, ok := registry.Lookup(name)
				if !ok {
					return projerrors.NewPolicyError(name, "unknown criterion or policy; known: "+strings.Join(registry.Names(), ", "))
				}
				items = append(items, item)
			}
		}

		var l listing
		for _, item := range items {
			l.Items = append(l.Items, listItem{
				Name:        item.Name,
				Kind:        string(item.Kind),
				Source:      string(item.Source),
				Description: item.Describe(),
			})
		}
		return writeOutput(cmd, listOutput, l)
	},
}

func init() {
	addOutputFlag(listCmd.Flags(), &listOutput)
	rootCmd.AddCommand(listCmd)
}
