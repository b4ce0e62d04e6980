package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// ErrConfigExists is returned by WriteFile when the file exists and force is not set.
var ErrConfigExists = errors.New("config file already exists")

// WriteFile writes c as TOML to path, creating parent directories. An
// existing file is only replaced with force.
func (c *Config) WriteFile(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Wrapf(ErrConfigExists, "%s", path)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
