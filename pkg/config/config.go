// Package config loads optimizer configuration from defaults, environment
// variables and an optional config file, and parses problem manifests.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
)

// Store backends accepted by Validate.
const (
	StoreBackendMemory = "memory"
	StoreBackendBadger = "badger"
)

// StoreConfig selects and parameterizes the graph store backend.
type StoreConfig struct {
	// Backend is "memory" or "badger".
	Backend string `mapstructure:"backend"`

	// Path is the on-disk database location for the badger backend.
	Path string `mapstructure:"path"`

	// InMemory runs the badger backend without touching disk.
	InMemory bool `mapstructure:"inMemory"`
}

// Config is the full optimizer configuration.
type Config struct {
	Store    StoreConfig `mapstructure:"store"`
	Analyzer string      `mapstructure:"analyzer"`
	Solver   string      `mapstructure:"solver"`
	Runner   string      `mapstructure:"runner"`
	Verbose  bool        `mapstructure:"verbose"`
}

// Load builds the configuration. Precedence, highest first: environment
// variables (NOAH_ prefix, dots replaced by underscores), the config file at
// path when given, then defaults. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("store.backend", StoreBackendMemory)
	v.SetDefault("store.path", "")
	v.SetDefault("store.inMemory", false)
	v.SetDefault("analyzer", "")
	v.SetDefault("solver", "")
	v.SetDefault("runner", "")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("NOAH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the components would fail on later.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendBadger:
		if c.Store.Path == "" && !c.Store.InMemory {
			return fmt.Errorf("store backend %q requires store.path or store.inMemory", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// ParseProblem decodes a NetworkProblem manifest from YAML. The kind and API
// version are verified when present so foreign manifests fail early instead
// of decoding to an all-defaults problem.
func ParseProblem(data []byte) (*v1alpha1.NetworkProblem, error) {
	var problem v1alpha1.NetworkProblem
	if err := yaml.Unmarshal(data, &problem); err != nil {
		return nil, fmt.Errorf("failed to decode problem manifest: %w", err)
	}
	if problem.Kind != "" && problem.Kind != "NetworkProblem" {
		return nil, fmt.Errorf("unexpected kind %q in problem manifest", problem.Kind)
	}
	if problem.APIVersion != "" && problem.APIVersion != v1alpha1.GroupVersion.String() {
		return nil, fmt.Errorf("unexpected apiVersion %q in problem manifest", problem.APIVersion)
	}
	return &problem, nil
}
