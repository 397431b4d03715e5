package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.AgentName != "nova" {
		t.Errorf("expected default agent_name %q, got %q", "nova", cfg.AgentName)
	}
	if cfg.Replier != ReplierPattern {
		t.Errorf("expected default replier %q, got %q", ReplierPattern, cfg.Replier)
	}
	if cfg.Selector != SelectorRandom {
		t.Errorf("expected default selector %q, got %q", SelectorRandom, cfg.Selector)
	}
	if cfg.Priority.Epsilon != 0.2 {
		t.Errorf("expected default priority.epsilon 0.2, got %f", cfg.Priority.Epsilon)
	}
	if cfg.UCB.Confidence != 2.0 {
		t.Errorf("expected default ucb.confidence 2.0, got %f", cfg.UCB.Confidence)
	}
	if cfg.UCB.Store != StoreJSON {
		t.Errorf("expected default ucb.store %q, got %q", StoreJSON, cfg.UCB.Store)
	}
	if cfg.Coherence.History != 8 {
		t.Errorf("expected default coherence.history 8, got %d", cfg.Coherence.History)
	}
	if cfg.Server.Port != 8910 {
		t.Errorf("expected default server.port 8910, got %d", cfg.Server.Port)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("expected default max_depth 5, got %d", cfg.MaxDepth)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.replygen.yml")

	original := DefaultConfig()
	original.AgentName = "leolani"
	original.Replier = ReplierLLM
	original.Selector = SelectorUCB
	original.Priority.Epsilon = 0.35
	original.UCB.Store = StoreSQLite
	original.UCB.StatePath = filepath.Join(dir, "utility.db")
	original.LLM.Provider = ProviderOllama
	original.LLM.Model = "llama3"
	original.Server.Port = 9999

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.AgentName != original.AgentName {
		t.Errorf("agent_name: got %q, want %q", loaded.AgentName, original.AgentName)
	}
	if loaded.Replier != original.Replier {
		t.Errorf("replier: got %q, want %q", loaded.Replier, original.Replier)
	}
	if loaded.Selector != original.Selector {
		t.Errorf("selector: got %q, want %q", loaded.Selector, original.Selector)
	}
	if loaded.Priority.Epsilon != original.Priority.Epsilon {
		t.Errorf("priority.epsilon: got %f, want %f", loaded.Priority.Epsilon, original.Priority.Epsilon)
	}
	if loaded.UCB.Store != original.UCB.Store {
		t.Errorf("ucb.store: got %q, want %q", loaded.UCB.Store, original.UCB.Store)
	}
	if loaded.UCB.StatePath != original.UCB.StatePath {
		t.Errorf("ucb.state_path: got %q, want %q", loaded.UCB.StatePath, original.UCB.StatePath)
	}
	if loaded.LLM.Provider != original.LLM.Provider {
		t.Errorf("llm.provider: got %q, want %q", loaded.LLM.Provider, original.LLM.Provider)
	}
	if loaded.LLM.Model != original.LLM.Model {
		t.Errorf("llm.model: got %q, want %q", loaded.LLM.Model, original.LLM.Model)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("server.port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Selector != SelectorRandom {
		t.Errorf("expected default selector, got %q", cfg.Selector)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override selector via env var.
	os.Setenv("REPLYGEN_SELECTOR", "priority")
	defer os.Unsetenv("REPLYGEN_SELECTOR")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Selector != SelectorPriority {
		t.Errorf("env override failed: got %q, want %q", loaded.Selector, SelectorPriority)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateEmptyAgentName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AgentName = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty agent_name")
	}
}

func TestValidateInvalidReplier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Replier = "markov"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid replier")
	}
}

func TestValidateInvalidSelector(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Selector = "greedy"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid selector")
	}
}

func TestValidateInvalidStore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UCB.Store = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid ucb.store")
	}
}

func TestValidateInvalidCoherenceMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Coherence.Mode = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid coherence.mode")
	}
}

func TestValidateEpsilonOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Priority.Epsilon = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for epsilon above 1")
	}
}

func TestValidateNegativeConfidence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UCB.Confidence = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative ucb.confidence")
	}
}

func TestValidateZeroHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Coherence.History = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero coherence.history")
	}
}

func TestValidateInvalidPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for port 0")
	}
}
