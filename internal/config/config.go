// Package config handles configuration loading for the job runner:
// defaults, an optional YAML config file, and ALIASES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the application.
type Config struct {
	// RootDir forces the job-root location instead of auto-probing.
	// Empty means probe the default candidates.
	RootDir string

	// NonInteractive treats the session as non-interactive regardless
	// of actual terminal attachment.
	NonInteractive bool

	// ExitOnCompletion makes the host process terminate with the
	// computed return code even when the session is non-interactive.
	ExitOnCompletion bool

	// Shell is the interpreter commands are passed to, as "<shell> -c <cmd>".
	Shell string

	// Verbose enables debug logging.
	Verbose bool

	// TailLines is the default number of log lines shown by tail.
	TailLines int
}

// Load reads configuration from an optional config file and the environment.
// Environment variables (prefix ALIASES) override file values, which
// override defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("root_dir", "")
	v.SetDefault("non_interactive", false)
	v.SetDefault("exit_on_completion", false)
	v.SetDefault("shell", "/bin/sh")
	v.SetDefault("verbose", false)
	v.SetDefault("tail_lines", 20)

	v.SetEnvPrefix("ALIASES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".aliases")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// A config file is optional when no explicit path is given.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		RootDir:          v.GetString("root_dir"),
		NonInteractive:   v.GetBool("non_interactive"),
		ExitOnCompletion: v.GetBool("exit_on_completion"),
		Shell:            v.GetString("shell"),
		Verbose:          v.GetBool("verbose"),
		TailLines:        v.GetInt("tail_lines"),
	}

	if cfg.Shell == "" {
		return nil, fmt.Errorf("shell must not be empty (env: ALIASES_SHELL)")
	}
	if cfg.TailLines <= 0 {
		return nil, fmt.Errorf("tail_lines must be positive, got %d", cfg.TailLines)
	}

	return cfg, nil
}
