// Package config provides configuration loading and management for
// the knowledge-assembly pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mechbio/mechkb/assembler"
	"github.com/mechbio/mechkb/belief"
	"github.com/mechbio/mechkb/statements"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Ontology OntologyConfig `yaml:"ontology"`
	Belief   BeliefConfig   `yaml:"belief"`
	Assembly AssemblyConfig `yaml:"assembly"`
	NATS     NATSConfig     `yaml:"nats"`
}

// OntologyConfig configures the hierarchy sources.
type OntologyConfig struct {
	// Sources are extra hierarchy YAML files layered over the
	// built-in vocabularies, in order.
	Sources []string `yaml:"sources"`
}

// BeliefConfig configures the belief engine's source priors.
type BeliefConfig struct {
	// Priors maps source API names to their error model. Empty uses
	// the built-in defaults.
	Priors map[string]belief.SourcePrior `yaml:"priors"`
}

// AssemblyConfig configures the model compiler.
type AssemblyConfig struct {
	// Policy is the global assembly policy applied to every statement
	// kind without an explicit entry in Policies.
	Policy string `yaml:"policy"`
	// Policies maps statement kinds to assembly policies.
	Policies map[string]string `yaml:"policies"`
	// InitialAmount is the default ground-state copy number.
	InitialAmount float64 `yaml:"initial_amount"`
	// ExtendedInitials also seeds every monomer's fully modified
	// state with zero amount.
	ExtendedInitials bool `yaml:"extended_initials"`
	// ModelName names the compiled model.
	ModelName string `yaml:"model_name"`
}

// NATSConfig configures the corpus persistence backend.
type NATSConfig struct {
	// URL is the NATS server URL (empty = no persistence).
	URL string `yaml:"url"`
	// Bucket is the KV bucket holding corpus snapshots.
	Bucket string `yaml:"bucket"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Belief: BeliefConfig{
			Priors: belief.DefaultPriors(),
		},
		Assembly: AssemblyConfig{
			Policy:        assembler.PolicyDefault,
			InitialAmount: assembler.DefaultInitialAmount,
			ModelName:     "model",
		},
		NATS: NATSConfig{
			Bucket: "MECHKB_CORPORA",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Assembly.InitialAmount < 0 {
		return fmt.Errorf("assembly.initial_amount must not be negative")
	}
	if c.Assembly.ModelName == "" {
		return fmt.Errorf("assembly.model_name is required")
	}
	for source, prior := range c.Belief.Priors {
		if prior.Rand < 0 || prior.Rand > 1 || prior.Syst < 0 || prior.Syst > 1 {
			return fmt.Errorf("belief.priors.%s probabilities must be between 0 and 1", source)
		}
	}
	return nil
}

// AssemblerPolicies converts the YAML policy mapping into the
// compiler's typed form.
func (c *Config) AssemblerPolicies() assembler.Policies {
	p := assembler.Policies{Global: c.Assembly.Policy}
	if len(c.Assembly.Policies) > 0 {
		p.PerKind = make(map[statements.Kind]string, len(c.Assembly.Policies))
		for kind, policy := range c.Assembly.Policies {
			p.PerKind[statements.Kind(kind)] = policy
		}
	}
	return p
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence
// for non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Ontology.Sources) > 0 {
		c.Ontology.Sources = other.Ontology.Sources
	}

	for source, prior := range other.Belief.Priors {
		c.Belief.Priors[source] = prior
	}

	if other.Assembly.Policy != "" {
		c.Assembly.Policy = other.Assembly.Policy
	}
	if len(other.Assembly.Policies) > 0 {
		if c.Assembly.Policies == nil {
			c.Assembly.Policies = make(map[string]string)
		}
		for kind, policy := range other.Assembly.Policies {
			c.Assembly.Policies[kind] = policy
		}
	}
	if other.Assembly.InitialAmount != 0 {
		c.Assembly.InitialAmount = other.Assembly.InitialAmount
	}
	if other.Assembly.ExtendedInitials {
		c.Assembly.ExtendedInitials = true
	}
	if other.Assembly.ModelName != "" {
		c.Assembly.ModelName = other.Assembly.ModelName
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Bucket != "" {
		c.NATS.Bucket = other.NATS.Bucket
	}
}
