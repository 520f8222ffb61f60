package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/folioconv/folioconv/internal/model"
	"github.com/folioconv/folioconv/internal/rules"
)

// FileName is the config file looked up in the working directory when no
// --config flag is given.
const FileName = "folioconv.yaml"

// Config represents the optional folioconv.yaml configuration. Every field
// has a built-in default; no config file is required.
type Config struct {
	MorganStanley MorganStanleyConfig `yaml:"morgan_stanley"`
	Renames       map[string]string   `yaml:"investment_renames,omitempty"`
	TypeRules     []TypeRule          `yaml:"type_rules,omitempty"`
}

// MorganStanleyConfig holds settings for the Morgan Stanley GSU reports.
type MorganStanleyConfig struct {
	// Symbol is the stock ticker inserted into release/withdrawal rows.
	// The reports themselves never name the security.
	Symbol string `yaml:"symbol"`
}

// TypeRule is one prefix-classification override for brokerage exports.
// Overrides are consulted before the built-in table.
type TypeRule struct {
	Prefix string `yaml:"prefix"`
	Type   string `yaml:"type"`
}

// Load reads a folioconv.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.MorganStanley.Symbol == "" {
		c.MorganStanley.Symbol = "GOOG"
	}
	if c.Renames == nil {
		c.Renames = map[string]string{
			"VANG TARGET RET 2070":  "VSVNX",
			"Target Retire 2050 Tr": "Vanguard Target Retirement 2050 Trust",
			"Tgt Retire 2070 Trust": "Vanguard Target Retirement 2070 Trust",
		}
	}
}

func (c *Config) validate() error {
	for _, r := range c.TypeRules {
		if r.Prefix == "" {
			return fmt.Errorf("type rule with empty prefix")
		}
		if !model.TransactionType(r.Type).Valid() {
			return fmt.Errorf("type rule %q: unknown transaction type %q", r.Prefix, r.Type)
		}
	}
	return nil
}

// BrokerageRules returns the classification table for brokerage exports:
// config overrides first, then the built-in defaults.
func (c *Config) BrokerageRules() *rules.Table {
	if len(c.TypeRules) == 0 {
		return rules.DefaultBrokerage()
	}
	rs := make([]rules.Rule, 0, len(c.TypeRules))
	for _, r := range c.TypeRules {
		rs = append(rs, rules.Rule{Prefix: r.Prefix, Type: model.TransactionType(r.Type)})
	}
	rs = append(rs, rules.DefaultBrokerage().Rules()...)
	return rules.NewTable(rs)
}
