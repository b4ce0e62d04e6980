package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thoreinstein.com/projroot/pkg/bootstrap"
	"thoreinstein.com/projroot/pkg/catalog"
	"thoreinstein.com/projroot/pkg/config"
	projerrors "thoreinstein.com/projroot/pkg/errors"
	projlog "thoreinstein.com/projroot/pkg/log"
	"thoreinstein.com/projroot/pkg/root"
)

var (
	cfgFile           string
	verbose           bool
	criterionName     string
	startFlag         string
	orderFlag         string
	parentLimitFlag   int
	noResolveSymlinks bool
	logLevelFlag      string
	logFormatFlag     string
)

var (
	appConfig *config.Config
	registry  *catalog.Registry
	logger    *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "projroot [path]",
	Short: "Projroot - find the root directory of a project",
	Long: `Projroot finds the root directory of a project by walking upward from a
start directory and testing each ancestor against an ordered policy of
criteria, such as "contains a .git directory" or "has a file matching *.Rproj".

The root is printed to stdout. If no ancestor matches, a diagnostic goes to
stderr and the exit status is 1.

Examples:
  projroot
  projroot ./src/pkg
  projroot -c r_here
  projroot why -o json
  projroot file data/raw.csv --must-exist`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := findRoot(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Dir)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), projerrors.FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/projroot/config.toml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVarP(&criterionName, "criterion", "c", "", "criterion or policy to search with (default from config, see 'projroot list')")
	pf.StringVar(&startFlag, "start", "", "directory to start the search from (default is the working directory)")
	pf.StringVar(&orderFlag, "order", "", "evaluation order: entry or directory (default is the policy's own order)")
	pf.IntVar(&parentLimitFlag, "parent-limit", 0, "test at most N parents; negative N skips the N topmost ancestors")
	pf.BoolVar(&noResolveSymlinks, "no-resolve-symlinks", false, "walk the literal start path without resolving symlinks")
	pf.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormatFlag, "log-format", "", "log format: text, logfmt, json (default depends on the terminal)")
}

// setup loads configuration, the logger and the policy registry.
func setup(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}
	if err := initLogger(cmd); err != nil {
		return err
	}

	registry = catalog.NewRegistry(appConfig.Marker)
	return registry.AddPolicies(appConfig.Policies)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	appConfig, verbose, err = bootstrap.InitConfig(cfgFile, verbose)
	return err
}

func initLogger(cmd *cobra.Command) error {
	level := appConfig.Log.Level
	if verbose {
		level = string(projlog.LevelDebug)
	}
	if cmd.Flags().Changed("log-level") {
		level = logLevelFlag
	}

	format := appConfig.Log.Format
	if cmd.Flags().Changed("log-format") {
		format = logFormatFlag
	}

	h, err := projlog.CreateHandlerWithStrings(cmd.ErrOrStderr(), level, format)
	if err != nil {
		return projerrors.NewConfigErrorWithCause("log", "invalid logging options", err)
	}
	logger = slog.New(h)
	cmd.SetContext(projlog.NewContext(cmd.Context(), logger))
	return nil
}

// selectedSet returns the policy named by --criterion or the config.
func selectedSet() (*root.Set, error) {
	name := appConfig.Criterion
	if criterionName != "" {
		name = criterionName
	}
	return registry.Set(name)
}

// searchOptions combines flags and configuration into search options. A
// positional path takes precedence over --start.
func searchOptions(cmd *cobra.Command, args []string) ([]root.Option, error) {
	opts := []root.Option{root.WithLogger(projlog.WithContext(cmd.Context()))}

	start := startFlag
	if len(args) > 0 {
		start = args[0]
	}
	if start != "" {
		opts = append(opts, root.WithStart(start))
	}

	order := appConfig.Order
	if cmd.Flags().Changed("order") {
		order = orderFlag
	}
	if order != "" {
		o, err := root.ParseOrder(order)
		if err != nil {
			return nil, projerrors.NewConfigErrorWithCause("order", "invalid search order", err)
		}
		opts = append(opts, root.WithOrder(o))
	}

	if cmd.Flags().Changed("parent-limit") {
		opts = append(opts, root.WithParentLimit(parentLimitFlag))
	} else if appConfig.ParentLimit != nil {
		opts = append(opts, root.WithParentLimit(*appConfig.ParentLimit))
	}

	opts = append(opts, root.WithSymlinks(appConfig.ResolveSymlink && !noResolveSymlinks))
	return opts, nil
}

func findRoot(cmd *cobra.Command, args []string) (root.Result, error) {
	s, err := selectedSet()
	if err != nil {
		return root.Result{}, err
	}
	opts, err := searchOptions(cmd, args)
	if err != nil {
		return root.Result{}, err
	}
	return s.FindRoot(opts...)
}

// resetConfig clears the cached configuration.
// This is primarily used in tests to ensure each test starts with a fresh config.
func resetConfig() {
	appConfig = nil
	registry = nil
	logger = nil
	bootstrap.Reset()
	viper.Reset()
}
