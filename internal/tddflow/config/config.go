// Package config resolves tddflow runtime configuration from environment
// variables, optionally filled from a .tddflow.yaml or .tddflow.toml file in
// the project root. Environment values always win over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/tddworks/tddflow/internal/tddflow/i18n"
)

// Defaults applied when neither environment nor file provides a value.
const (
	DefaultLanguage          = "typescript"
	DefaultFramework         = "jest"
	DefaultCoverageThreshold = 80.0
)

// Config is the resolved runtime configuration.
type Config struct {
	// UseNewTools selects the 3-tool simplified surface over the legacy
	// 15-tool surface.
	UseNewTools bool

	// Locale selects the message catalogue for tool descriptions and
	// user-facing strings.
	Locale i18n.Locale

	// ProjectPath is the working tree analyzed by generators and the
	// cycle validator.
	ProjectPath string

	// Language is the default target language for code generation.
	Language string

	// Framework is the default test framework for runners.
	Framework string

	// CoverageThreshold is the pass/fail percentage for coverage checks.
	CoverageThreshold float64

	// DataRoot is the persistence root, normally ~/.tdd-flow.
	DataRoot string
}

// fileConfig is the subset loadable from .tddflow.yaml / .tddflow.toml.
type fileConfig struct {
	Locale            string   `yaml:"locale" toml:"locale"`
	Language          string   `yaml:"language" toml:"language"`
	Framework         string   `yaml:"framework" toml:"framework"`
	CoverageThreshold *float64 `yaml:"coverage_threshold" toml:"coverage_threshold"`
}

// Load resolves configuration for the current process.
func Load() (*Config, error) {
	cfg := &Config{
		Locale:            i18n.LocaleEN,
		Language:          DefaultLanguage,
		Framework:         DefaultFramework,
		CoverageThreshold: DefaultCoverageThreshold,
	}

	cfg.ProjectPath = os.Getenv("PROJECT_PATH")
	if cfg.ProjectPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.ProjectPath = cwd
	}

	if root := os.Getenv("TDDFLOW_HOME"); root != "" {
		cfg.DataRoot = root
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataRoot = filepath.Join(home, ".tdd-flow")
	}

	// Project file fills gaps before environment overrides.
	fc, err := loadProjectFile(cfg.ProjectPath)
	if err != nil {
		return nil, err
	}
	if fc != nil {
		if fc.Locale != "" {
			cfg.Locale = i18n.ParseLocale(fc.Locale)
		}
		if fc.Language != "" {
			cfg.Language = strings.ToLower(fc.Language)
		}
		if fc.Framework != "" {
			cfg.Framework = strings.ToLower(fc.Framework)
		}
		if fc.CoverageThreshold != nil {
			cfg.CoverageThreshold = *fc.CoverageThreshold
		}
	}

	if v := os.Getenv("USE_NEW_TOOLS"); v != "" {
		cfg.UseNewTools = parseBool(v)
	}
	if v := os.Getenv("DEFAULT_LOCALE"); v != "" {
		cfg.Locale = i18n.ParseLocale(v)
	}
	if v := os.Getenv("DEFAULT_LANGUAGE"); v != "" {
		cfg.Language = strings.ToLower(v)
	}
	if v := os.Getenv("DEFAULT_TEST_FRAMEWORK"); v != "" {
		cfg.Framework = strings.ToLower(v)
	}
	if v := os.Getenv("COVERAGE_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid COVERAGE_THRESHOLD %q: %w", v, err)
		}
		cfg.CoverageThreshold = threshold
	}

	return cfg, nil
}

// loadProjectFile reads .tddflow.yaml or .tddflow.toml from the project
// root, whichever exists first. A missing file is not an error.
func loadProjectFile(projectPath string) (*fileConfig, error) {
	candidates := []string{".tddflow.yaml", ".tddflow.yml", ".tddflow.toml"}
	for _, name := range candidates {
		path := filepath.Join(projectPath, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		var fc fileConfig
		if strings.HasSuffix(name, ".toml") {
			if err := toml.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
			}
		} else {
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
			}
		}
		return &fc, nil
	}
	return nil, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Translator returns a translator for the configured locale.
func (c *Config) Translator() i18n.Translator {
	return i18n.New(c.Locale)
}
