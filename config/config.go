// Package config loads the backend's runtime configuration. Precedence,
// lowest to highest: built-in defaults, optional YAML file, .env file,
// process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-appshell/assets"
)

// Config is the host runtime configuration.
type Config struct {
	// Mode is the build mode: "production" (default) or "development".
	Mode string `yaml:"mode"`
	// ResourceDir is the resource base directory packaged assets live
	// under. Defaults to a "resources" directory next to the executable.
	ResourceDir string `yaml:"resource_dir"`
	// ProjectRoot is the source tree root used by the development
	// fallback. Usually left empty in production.
	ProjectRoot string `yaml:"project_root"`
	// LogLevel is the glog level name, default "info".
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode:        assets.ModeProduction.String(),
		ResourceDir: defaultResourceDir(),
		LogLevel:    "info",
	}
}

// Load reads configuration. path may be empty, in which case only env
// sources apply. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, fmt.Sprintf("read config file %s", path)).
				WithTextCode("CONFIG_READ_FAILED")
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, fmt.Sprintf("decode config file %s", path)).
				WithTextCode("CONFIG_DECODE_FAILED")
		}
	}

	_ = godotenv.Load()

	cfg.Mode = getEnv("APPSHELL_MODE", cfg.Mode)
	cfg.ResourceDir = getEnv("APPSHELL_RESOURCE_DIR", cfg.ResourceDir)
	cfg.ProjectRoot = getEnv("APPSHELL_PROJECT_ROOT", cfg.ProjectRoot)
	cfg.LogLevel = strings.ToLower(getEnv("APPSHELL_LOG_LEVEL", cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := assets.ParseBuildMode(c.Mode); err != nil {
		return err
	}
	if strings.TrimSpace(c.ResourceDir) == "" {
		return errors.New("resource_dir cannot be empty", errors.CategoryValidation).
			WithTextCode("CONFIG_RESOURCE_DIR_EMPTY")
	}
	return nil
}

// BuildMode returns the parsed build mode. Call Validate (or Load) first;
// an unparseable mode falls back to production here.
func (c *Config) BuildMode() assets.BuildMode {
	mode, _ := assets.ParseBuildMode(c.Mode)
	return mode
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func defaultResourceDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "resources"
	}
	return filepath.Join(filepath.Dir(exe), "resources")
}
