package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/coherence"
	"github.com/dialogkit/replygen/internal/config"
	"github.com/dialogkit/replygen/internal/embeddings"
	"github.com/dialogkit/replygen/internal/lexicon"
	"github.com/dialogkit/replygen/internal/llm"
	"github.com/dialogkit/replygen/internal/logging"
	"github.com/dialogkit/replygen/internal/phrase"
	"github.com/dialogkit/replygen/internal/reply"
	"github.com/dialogkit/replygen/internal/selector"
	"github.com/dialogkit/replygen/internal/state"
	"github.com/dialogkit/replygen/internal/thought"
)

// pipeline bundles a configured replier with the handles the commands
// need around it.
type pipeline struct {
	cfg     *config.Config
	log     *zap.Logger
	replier *reply.Replier
	ucb     *selector.UCB // nil unless the bandit selector is active
}

// buildPipeline assembles the reply pipeline from the loaded config.
func buildPipeline() (*pipeline, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Verbose)
	if err != nil {
		return nil, err
	}

	resolver := lexicon.NewResolver(cfg.AgentName)
	pattern := phrase.NewPatternPhraser(resolver, phrase.WithLogger(log.Named("phraser")))

	// One provider serves both the LLM phraser and the LLM coherence
	// scorer.
	var provider llm.Provider
	needsProvider := cfg.Replier == config.ReplierLLM ||
		(cfg.Selector == config.SelectorCoherence && cfg.Coherence.Mode == config.CoherenceLLM)
	if needsProvider {
		provider, err = llm.NewProvider(string(cfg.LLM.Provider), cfg.LLM.Model)
		if err != nil {
			return nil, err
		}
	}

	var phraser phrase.Phraser = pattern
	if cfg.Replier == config.ReplierLLM {
		phraser = phrase.NewLLMPhraser(provider, cfg.LLM.Model, pattern, log.Named("phraser"))
	}

	opts := []reply.Option{
		reply.WithLogger(log.Named("replier")),
		reply.WithMaxDepth(cfg.MaxDepth),
	}

	var (
		sel selector.Selector
		ucb *selector.UCB
	)
	switch cfg.Selector {
	case config.SelectorRandom:
		sel = selector.NewUniformRandom(nil)

	case config.SelectorPriority:
		sel = selector.NewPriorityRandom(cfg.Priority.Epsilon, thought.All, nil)

	case config.SelectorUCB:
		var store state.Store
		if cfg.UCB.Store == config.StoreSQLite {
			store, err = state.OpenSQLite(cfg.UCB.StatePath)
			if err != nil {
				return nil, err
			}
		} else {
			store = state.NewJSONStore(cfg.UCB.StatePath)
		}
		ucb, err = selector.NewUCB(cfg.UCB.Confidence, store, log.Named("selector"))
		if err != nil {
			return nil, err
		}
		sel = ucb
		// Per-instance candidates give the bandit its arm names.
		opts = append(opts, reply.WithSplitCandidates())

	case config.SelectorCoherence:
		var scorer selector.Scorer
		if cfg.Coherence.Mode == config.CoherenceLLM {
			scorer = coherence.NewLLMScorer(provider, cfg.LLM.Model)
		} else {
			apiKey := os.Getenv("OPENAI_API_KEY")
			if apiKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY is required for embedding coherence")
			}
			embedder := embeddings.NewOpenAIEmbedder(apiKey, embeddings.ModelTextEmbedding3Small)
			scorer, err = coherence.NewEmbeddingScorer(embedder, cfg.Coherence.History)
			if err != nil {
				return nil, err
			}
		}
		sel = selector.NewUniformRandom(nil)
		opts = append(opts, reply.WithCoherence(selector.NewCoherence(scorer, log.Named("selector"))))

	default:
		return nil, fmt.Errorf("unsupported selector %q", cfg.Selector)
	}

	return &pipeline{
		cfg:     cfg,
		log:     log,
		replier: reply.NewReplier(cfg.AgentName, sel, phraser, opts...),
		ucb:     ucb,
	}, nil
}

// Close flushes the logger and persists bandit state.
func (p *pipeline) Close() {
	if p.ucb != nil {
		if err := p.ucb.Close(); err != nil {
			p.log.Warn("saving bandit state", zap.Error(err))
		}
	}
	_ = p.log.Sync()
}
