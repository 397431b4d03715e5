package config

// DefaultConfigFile is the conventional config file name.
const DefaultConfigFile = ".replygen.yml"

// DefaultConfig returns the configuration used when no file exists: a
// pattern phraser with uniform-random selection and no external
// services required.
func DefaultConfig() *Config {
	return &Config{
		AgentName: "nova",
		Replier:   ReplierPattern,
		Selector:  SelectorRandom,
		Priority: PriorityConfig{
			Epsilon: 0.2,
		},
		UCB: UCBConfig{
			Confidence: 2.0,
			Store:      StoreJSON,
			StatePath:  "replygen-utility.json",
		},
		Coherence: CoherenceConfig{
			Mode:    CoherenceEmbedding,
			History: 8,
		},
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			Model:    "gpt-4o-mini",
		},
		Server: ServerConfig{
			Port: 8910,
		},
		MaxDepth: 5,
	}
}
