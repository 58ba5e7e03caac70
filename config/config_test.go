package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/mechbio/mechkb/assembler"
	"github.com/mechbio/mechkb/belief"
	"github.com/mechbio/mechkb/statements"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assembly.Policy != assembler.PolicyDefault {
		t.Errorf("expected default assembly policy %q, got %q", assembler.PolicyDefault, cfg.Assembly.Policy)
	}
	if cfg.Assembly.InitialAmount != assembler.DefaultInitialAmount {
		t.Errorf("expected default initial amount %g, got %g", assembler.DefaultInitialAmount, cfg.Assembly.InitialAmount)
	}
	if cfg.Assembly.ModelName != "model" {
		t.Errorf("expected default model name \"model\", got %q", cfg.Assembly.ModelName)
	}
	if cfg.NATS.Bucket != "MECHKB_CORPORA" {
		t.Errorf("expected default bucket MECHKB_CORPORA, got %s", cfg.NATS.Bucket)
	}
	if cfg.NATS.URL != "" {
		t.Errorf("expected persistence disabled by default, got URL %s", cfg.NATS.URL)
	}
	if _, ok := cfg.Belief.Priors["reach"]; !ok {
		t.Error("expected built-in belief priors to include reach")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative initial amount",
			modify:  func(c *Config) { c.Assembly.InitialAmount = -1 },
			wantErr: true,
		},
		{
			name:    "missing model name",
			modify:  func(c *Config) { c.Assembly.ModelName = "" },
			wantErr: true,
		},
		{
			name: "prior probability above one",
			modify: func(c *Config) {
				c.Belief.Priors["reach"] = belief.SourcePrior{Rand: 1.3, Syst: 0.05}
			},
			wantErr: true,
		},
		{
			name: "negative prior probability",
			modify: func(c *Config) {
				c.Belief.Priors["reach"] = belief.SourcePrior{Rand: 0.3, Syst: -0.1}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	// The loader distinguishes an absent file from a broken one, so the
	// wrapped error must still match fs.ErrNotExist.
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
ontology:
  sources:
    - /data/famplex.yaml
belief:
  priors:
    reach:
      rand: 0.2
      syst: 0.04
assembly:
  policy: two_step
  policies:
    complex: multi_way
  initial_amount: 500
  model_name: egfr_pathway
nats:
  url: "nats://test:4222"
  bucket: TEST_CORPORA
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(cfg.Ontology.Sources) != 1 || cfg.Ontology.Sources[0] != "/data/famplex.yaml" {
		t.Errorf("expected one ontology source /data/famplex.yaml, got %v", cfg.Ontology.Sources)
	}
	if prior := cfg.Belief.Priors["reach"]; prior.Rand != 0.2 || prior.Syst != 0.04 {
		t.Errorf("expected reach prior {0.2 0.04}, got %+v", prior)
	}
	if prior := cfg.Belief.Priors["trips"]; prior.Rand == 0 {
		t.Error("expected built-in priors to survive for unlisted sources")
	}
	if cfg.Assembly.Policy != "two_step" {
		t.Errorf("expected policy two_step, got %s", cfg.Assembly.Policy)
	}
	if cfg.Assembly.Policies["complex"] != "multi_way" {
		t.Errorf("expected complex policy multi_way, got %s", cfg.Assembly.Policies["complex"])
	}
	if cfg.Assembly.InitialAmount != 500 {
		t.Errorf("expected initial amount 500, got %g", cfg.Assembly.InitialAmount)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	if cfg.NATS.Bucket != "TEST_CORPORA" {
		t.Errorf("expected bucket TEST_CORPORA, got %s", cfg.NATS.Bucket)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Assembly: AssemblyConfig{
			Policy:   "interactions_only",
			Policies: map[string]string{"complex": "multi_way"},
		},
		NATS: NATSConfig{
			URL: "nats://override:4222",
		},
	}

	base.Merge(override)

	if base.Assembly.Policy != "interactions_only" {
		t.Errorf("expected policy interactions_only, got %s", base.Assembly.Policy)
	}
	if base.Assembly.Policies["complex"] != "multi_way" {
		t.Errorf("expected complex policy multi_way, got %s", base.Assembly.Policies["complex"])
	}
	// Fields absent from the override keep their base values.
	if base.Assembly.ModelName != "model" {
		t.Errorf("expected model name to remain default, got %s", base.Assembly.ModelName)
	}
	if base.NATS.URL != "nats://override:4222" {
		t.Errorf("expected NATS URL nats://override:4222, got %s", base.NATS.URL)
	}
	if base.NATS.Bucket != "MECHKB_CORPORA" {
		t.Errorf("expected bucket to remain default, got %s", base.NATS.Bucket)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Assembly.ModelName = "saved_model"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Assembly.ModelName != "saved_model" {
		t.Errorf("expected model name saved_model, got %s", loaded.Assembly.ModelName)
	}
}

func TestAssemblerPolicies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Assembly.Policy = "two_step"
	cfg.Assembly.Policies = map[string]string{"complex": "multi_way"}

	p := cfg.AssemblerPolicies()
	if p.Global != "two_step" {
		t.Errorf("expected global policy two_step, got %s", p.Global)
	}
	if p.For(statements.KindComplex) != "multi_way" {
		t.Errorf("expected complex policy multi_way, got %s", p.For(statements.KindComplex))
	}
	if p.For(statements.KindModification) != "two_step" {
		t.Errorf("expected modification policy two_step, got %s", p.For(statements.KindModification))
	}
}
