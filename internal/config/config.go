// Package config loads and saves the babble configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/babble/configs"
	"github.com/lepinkainen/babble/pkg/filesystem"
)

// DefaultFileName is the config file looked up in the current directory and in ~/.babble.
const DefaultFileName = "config.yaml"

// Config holds the central application configuration
type Config struct {
	Twitter struct {
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		RedirectPort int    `mapstructure:"redirect_port"`
		TokenFile    string `mapstructure:"token_file"`
	} `mapstructure:"twitter"`

	Feed struct {
		PageSize int           `mapstructure:"page_size"`
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"feed"`

	Cache struct {
		Path string        `mapstructure:"path"`
		TTL  time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`

	// path is the file the config was read from and is saved to.
	path string
}

// Path returns the file the configuration is bound to.
func (c *Config) Path() string {
	return c.path
}

// HasCredentials reports whether an OAuth2 client id is configured.
func (c *Config) HasCredentials() bool {
	return c.Twitter.ClientID != ""
}

// LoadConfig loads the configuration from path, layered over the embedded defaults.
// An empty path selects config.yaml in the current directory if present, else
// ~/.babble/config.yaml. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(configs.Defaults)); err != nil {
		return nil, fmt.Errorf("error reading default config: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		slog.Debug("Loaded config file", "path", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	} else {
		slog.Debug("No config file, using defaults", "path", path)
	}

	config := &Config{path: path}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Twitter.TokenFile, err = filesystem.ExpandHome(config.Twitter.TokenFile); err != nil {
		return nil, err
	}
	if config.Cache.Path, err = filesystem.ExpandHome(config.Cache.Path); err != nil {
		return nil, err
	}

	return config, config.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Feed.PageSize < 1 || c.Feed.PageSize > 100 {
		return fmt.Errorf("feed.page_size must be between 1 and 100, got %d", c.Feed.PageSize)
	}
	if c.Feed.Interval < time.Second {
		return fmt.Errorf("feed.interval must be at least 1s, got %s", c.Feed.Interval)
	}
	if c.Twitter.RedirectPort < 0 || c.Twitter.RedirectPort > 65535 {
		return fmt.Errorf("twitter.redirect_port out of range: %d", c.Twitter.RedirectPort)
	}
	return nil
}

// SaveConfig writes the configuration back to the file it was loaded from
func SaveConfig(config *Config) error {
	if config.path == "" {
		return errors.New("config has no file path")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("twitter.client_id", config.Twitter.ClientID)
	v.Set("twitter.client_secret", config.Twitter.ClientSecret)
	v.Set("twitter.redirect_port", config.Twitter.RedirectPort)
	v.Set("twitter.token_file", config.Twitter.TokenFile)

	v.Set("feed.page_size", config.Feed.PageSize)
	v.Set("feed.interval", config.Feed.Interval.String())

	v.Set("cache.path", config.Cache.Path)
	v.Set("cache.ttl", config.Cache.TTL.String())

	if err := filesystem.EnsureDirectoryExists(config.path); err != nil {
		return err
	}
	if err := v.WriteConfigAs(config.path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", config.path, err)
	}
	// The file holds the client secret.
	if err := os.Chmod(config.path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}

	slog.Info("Saved config", "path", config.path)
	return nil
}

// resolvePath picks the config file when none was given explicitly.
func resolvePath(path string) (string, error) {
	if path != "" {
		return filesystem.ExpandHome(path)
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, nil
	}
	return filesystem.GetDefaultPath(DefaultFileName)
}
