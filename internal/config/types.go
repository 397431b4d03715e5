package config

// ReplierType selects the phrasing backend.
type ReplierType string

const (
	ReplierPattern ReplierType = "pattern"
	ReplierLLM     ReplierType = "llm"
)

// SelectorType selects the thought-selection strategy.
type SelectorType string

const (
	SelectorRandom    SelectorType = "random"
	SelectorPriority  SelectorType = "priority"
	SelectorUCB       SelectorType = "ucb"
	SelectorCoherence SelectorType = "coherence"
)

// StoreType selects the bandit utility-table backend.
type StoreType string

const (
	StoreJSON   StoreType = "json"
	StoreSQLite StoreType = "sqlite"
)

// CoherenceMode selects the coherence-scoring oracle.
type CoherenceMode string

const (
	CoherenceEmbedding CoherenceMode = "embedding"
	CoherenceLLM       CoherenceMode = "llm"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level replygen configuration, corresponding to
// .replygen.yml.
type Config struct {
	AgentName string       `yaml:"agent_name" koanf:"agent_name"`
	Replier   ReplierType  `yaml:"replier" koanf:"replier"`
	Selector  SelectorType `yaml:"selector" koanf:"selector"`

	Priority  PriorityConfig  `yaml:"priority" koanf:"priority"`
	UCB       UCBConfig       `yaml:"ucb" koanf:"ucb"`
	Coherence CoherenceConfig `yaml:"coherence" koanf:"coherence"`
	LLM       LLMConfig       `yaml:"llm" koanf:"llm"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`

	MaxDepth int  `yaml:"max_depth" koanf:"max_depth"`
	Verbose  bool `yaml:"verbose" koanf:"verbose"`
}

// PriorityConfig tunes the priority-random selector.
type PriorityConfig struct {
	Epsilon float64 `yaml:"epsilon" koanf:"epsilon"`
}

// UCBConfig tunes the bandit selector and its persisted state.
type UCBConfig struct {
	Confidence float64   `yaml:"confidence" koanf:"confidence"`
	Store      StoreType `yaml:"store" koanf:"store"`
	StatePath  string    `yaml:"state_path" koanf:"state_path"`
}

// CoherenceConfig tunes the coherence selector.
type CoherenceConfig struct {
	Mode    CoherenceMode `yaml:"mode" koanf:"mode"`
	History int           `yaml:"history" koanf:"history"`
}

// LLMConfig names the chat provider used by the LLM phraser and the
// LLM coherence scorer.
type LLMConfig struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
