// Package config loads the orchestration configuration: platform endpoint and
// credential, model deployment, search index tuple, dataset identity and the
// per-role instruction texts. All values are opaque strings passed through to
// the collaborators; the core never parses them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Search carries the managed search index tuple embedded into the patient
// history agent's tool descriptor.
type Search struct {
	ConnectionID string `yaml:"connection_id"`
	IndexName    string `yaml:"index_name"`
	QueryMode    string `yaml:"query_mode"`
	TopK         int    `yaml:"top_k"`
}

// Dataset identifies the evaluation dataset by name and version.
type Dataset struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	File    string `yaml:"file"`
}

// Config is the full orchestration configuration.
type Config struct {
	Endpoint        string  `yaml:"endpoint"`
	APIKey          string  `yaml:"api_key"`
	ModelDeployment string  `yaml:"model_deployment"`
	JudgeDeployment string  `yaml:"judge_deployment"`
	InstructionsDir string  `yaml:"instructions_dir"`
	Search          Search  `yaml:"search"`
	Dataset         Dataset `yaml:"dataset"`
}

// Default returns the baseline configuration used when no file is given.
func Default() *Config {
	return &Config{
		ModelDeployment: "gpt-4.1-agent",
		InstructionsDir: "config/instructions",
		Search: Search{
			IndexName: "idx-patient-data",
			QueryMode: "vector_semantic_hybrid",
			TopK:      3,
		},
		Dataset: Dataset{
			Name:    "Canadian_ER_Triage_Assessment",
			Version: "1.0",
			File:    "config/evaluation_data.jsonl",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file and loads defaults plus
// environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required (set endpoint in the config file or TRIAGEMESH_ENDPOINT)")
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	overlay(&c.Endpoint, "TRIAGEMESH_ENDPOINT")
	overlay(&c.APIKey, "TRIAGEMESH_API_KEY")
	overlay(&c.ModelDeployment, "TRIAGEMESH_DEPLOYMENT")
	overlay(&c.JudgeDeployment, "TRIAGEMESH_JUDGE_DEPLOYMENT")
	overlay(&c.InstructionsDir, "TRIAGEMESH_INSTRUCTIONS_DIR")
	overlay(&c.Search.ConnectionID, "TRIAGEMESH_SEARCH_CONNECTION_ID")
}

// Instructions loads the instruction text for a role by name from the
// instructions directory (e.g. role "triage" reads triage_instructions.txt).
func (c *Config) Instructions(role string) (string, error) {
	name := fmt.Sprintf("%s_instructions.txt", strings.ToLower(role))
	data, err := os.ReadFile(filepath.Join(c.InstructionsDir, name))
	if err != nil {
		return "", fmt.Errorf("load instructions for role %q: %w", role, err)
	}
	return string(data), nil
}

// UserPrompt loads the top-level user prompt from the instructions directory.
func (c *Config) UserPrompt() (string, error) {
	data, err := os.ReadFile(filepath.Join(c.InstructionsDir, "user_prompt.txt"))
	if err != nil {
		return "", fmt.Errorf("load user prompt: %w", err)
	}
	return string(data), nil
}
