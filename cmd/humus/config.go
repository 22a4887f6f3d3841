package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/humus"
	"github.com/aretw0/humus/pkg/core"
)

// Config is the resolved CLI configuration: flags override HUMUS_* variables,
// which override humus.yaml.
type Config struct {
	Adapter  string `mapstructure:"adapter"`
	Path     string `mapstructure:"path"`
	Format   string `mapstructure:"format"`
	ReadOnly bool   `mapstructure:"read-only"`
	Strict   bool   `mapstructure:"strict"`
	Year     int    `mapstructure:"year"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("adapter", humus.AdapterFS)
	v.SetDefault("path", "")
	v.SetDefault("format", "json")
	v.SetDefault("read-only", false)
	v.SetDefault("strict", false)
	v.SetDefault("year", 0)
}

// loadConfig reads the configuration for cmd. An explicit --config file must exist;
// otherwise humus.yaml is looked up in the working directory and is optional.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(humus.ConfigFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("HUMUS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// options translates the configuration into service options.
func (c *Config) options() []humus.Option {
	opts := []humus.Option{
		humus.WithAdapter(c.Adapter),
		humus.WithFormat(c.Format),
		humus.WithReadOnly(c.ReadOnly),
		humus.WithStrictFields(c.Strict),
		humus.WithLogger(slog.Default()),
	}
	if c.Year > 0 {
		opts = append(opts, humus.WithClock(core.FixedYear(c.Year)))
	}
	return opts
}

// root resolves the storage location: the configured path, or the nearest
// humus root above the working directory, or the working directory itself.
func (c *Config) root() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root, err := humus.FindRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

// openService builds the service described by the command's configuration.
func openService(cmd *cobra.Command) (*core.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	root, err := cfg.root()
	if err != nil {
		return nil, err
	}
	slog.Debug("opening store", "adapter", cfg.Adapter, "path", root, "format", cfg.Format)
	return humus.New(root, cfg.options()...)
}
