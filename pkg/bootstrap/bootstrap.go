package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"thoreinstein.com/projroot/pkg/catalog"
	"thoreinstein.com/projroot/pkg/config"
	projerrors "thoreinstein.com/projroot/pkg/errors"
	"thoreinstein.com/projroot/pkg/root"
)

// LocalConfigName is the repository-local config file.
const LocalConfigName = ".projroot.toml"

var (
	lastLoadedConfig  string
	lastLoadedVerbose bool
	loadedConfig      *config.Config
)

// DefaultConfigPath returns ~/.config/projroot/config.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".config", "projroot", "config.toml"), nil
}

// InitConfig reads in config file and ENV variables if set.
// It returns the loaded config and the actual verbosity state.
func InitConfig(cfgFile string, verbose bool) (*config.Config, bool, error) {
	// Skip if already loaded with same parameters (unless in test)
	if os.Getenv("GO_TEST") != "true" && loadedConfig != nil && cfgFile == lastLoadedConfig && verbose == lastLoadedVerbose {
		return loadedConfig, verbose, nil
	}

	// Reset Viper state to avoid carrying over stale settings from previous loads.
	viper.Reset()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, verbose, errors.Wrap(err, "failed to get home directory")
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "projroot"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("PROJROOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		// An explicitly named config file must be readable
		return nil, verbose, projerrors.NewConfigErrorWithCause("config", "could not read "+cfgFile, err)
	}

	// Load repository-local config (.projroot.toml) if present
	LoadRepoLocalConfig(verbose)

	cfg, err := config.Load()
	if err != nil {
		return nil, verbose, projerrors.NewConfigErrorWithCause("config", "invalid configuration", err)
	}

	// Update state
	lastLoadedConfig = cfgFile
	lastLoadedVerbose = verbose
	loadedConfig = cfg

	return cfg, verbose, nil
}

// LoadRepoLocalConfig loads .projroot.toml from the version control root and
// from the current directory, in that order, so the nearer file wins.
func LoadRepoLocalConfig(verbose bool) {
	var localConfigPaths []string

	cwd, _ := os.Getwd()
	if vcsRoot, err := FindVcsRoot(); err == nil && vcsRoot != "" {
		localConfigPaths = append(localConfigPaths, filepath.Join(vcsRoot, LocalConfigName))
		if cwd != vcsRoot {
			localConfigPaths = append(localConfigPaths, LocalConfigName)
		}
	} else {
		localConfigPaths = append(localConfigPaths, LocalConfigName)
	}

	for _, configPath := range localConfigPaths {
		if _, err := os.Stat(configPath); err == nil {
			localViper := viper.New()
			localViper.SetConfigFile(configPath)
			localViper.SetConfigType("toml")

			if err := localViper.ReadInConfig(); err != nil {
				if verbose {
					fmt.Fprintf(os.Stderr, "Warning: could not read local config %s: %v\n", configPath, err)
				}
				continue
			}

			if verbose {
				fmt.Fprintf(os.Stderr, "Using repository config: %s\n", configPath)
			}

			if err := viper.MergeConfigMap(localViper.AllSettings()); err != nil {
				if verbose {
					fmt.Fprintf(os.Stderr, "Warning: could not merge local config: %v\n", err)
				}
			}
		}
	}
}

// FindVcsRoot finds the root of the version control checkout containing
// the working directory. It returns "" without error outside a checkout.
func FindVcsRoot() (string, error) {
	res, err := root.FindRoot(catalog.IsVcsRoot)
	if err != nil {
		if projerrors.IsRootNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return res.Dir, nil
}

// Reset clears the cached configuration state.
func Reset() {
	lastLoadedConfig = ""
	lastLoadedVerbose = false
	loadedConfig = nil
}
