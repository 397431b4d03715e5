// Package config loads the replygen configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (REPLYGEN_*). A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// REPLYGEN_AGENT_NAME -> agent_name, REPLYGEN_UCB_CONFIDENCE stays
	// flat; nested keys are addressed with dots in the variable name.
	if err := k.Load(env.Provider("REPLYGEN_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "REPLYGEN_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validRepliers = map[ReplierType]bool{
	ReplierPattern: true,
	ReplierLLM:     true,
}

var validSelectors = map[SelectorType]bool{
	SelectorRandom:    true,
	SelectorPriority:  true,
	SelectorUCB:       true,
	SelectorCoherence: true,
}

var validStores = map[StoreType]bool{
	StoreJSON:   true,
	StoreSQLite: true,
}

var validCoherenceModes = map[CoherenceMode]bool{
	CoherenceEmbedding: true,
	CoherenceLLM:       true,
}

var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.AgentName == "" {
		return fmt.Errorf("agent_name is required")
	}
	if !validRepliers[c.Replier] {
		return fmt.Errorf("invalid replier %q: must be one of pattern, llm", c.Replier)
	}
	if !validSelectors[c.Selector] {
		return fmt.Errorf("invalid selector %q: must be one of random, priority, ucb, coherence", c.Selector)
	}
	if !validStores[c.UCB.Store] {
		return fmt.Errorf("invalid ucb.store %q: must be one of json, sqlite", c.UCB.Store)
	}
	if !validCoherenceModes[c.Coherence.Mode] {
		return fmt.Errorf("invalid coherence.mode %q: must be one of embedding, llm", c.Coherence.Mode)
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider %q: must be one of openai, ollama", c.LLM.Provider)
	}
	if c.Priority.Epsilon < 0 || c.Priority.Epsilon > 1 {
		return fmt.Errorf("priority.epsilon must be within [0, 1]")
	}
	if c.UCB.Confidence < 0 {
		return fmt.Errorf("ucb.confidence must be non-negative")
	}
	if c.Coherence.History <= 0 {
		return fmt.Errorf("coherence.history must be positive")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number")
	}
	return nil
}
