// Package reply turns parsed brain responses into natural-language
// utterances. A Replier pairs a thought selector with a phraser and
// walks the select-then-render loop under a bounded retry budget;
// question answering is a separate deterministic assembler.
package reply

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/lexicon"
	"github.com/dialogkit/replygen/internal/phrase"
	"github.com/dialogkit/replygen/internal/selector"
	"github.com/dialogkit/replygen/internal/thought"
)

// DefaultMaxDepth bounds how many times the replier re-selects after a
// renderer declines before it falls back.
const DefaultMaxDepth = 5

// StatementOptions tunes which thought families a statement reply may
// draw from and whether the replier keeps retrying after a miss.
type StatementOptions struct {
	// EntityOnly restricts selection to entity novelty and the gaps.
	EntityOnly bool
	// Proactive adds the gap families on top of the default set.
	Proactive bool
	// Persist re-selects after a renderer returns nothing, up to the
	// retry budget. Without it a single miss yields no reply.
	Persist bool
}

// Replier generates replies to statements, mentions and questions.
type Replier struct {
	resolver lexicon.Resolver

	sel      selector.Selector
	ranker   *selector.Coherence
	phraser  phrase.Phraser
	maxDepth int
	split    bool

	rng *rand.Rand
	log *zap.Logger

	lastThought string
}

// Option configures a Replier.
type Option func(*Replier)

// WithCoherence routes selection through a coherence ranker instead of
// the plain selector. All candidates are rendered and scored.
func WithCoherence(ranker *selector.Coherence) Option {
	return func(r *Replier) { r.ranker = ranker }
}

// WithMaxDepth overrides the retry budget.
func WithMaxDepth(depth int) Option {
	return func(r *Replier) {
		if depth >= 0 {
			r.maxDepth = depth
		}
	}
}

// WithSplitCandidates makes the replier offer per-instance candidates
// (one per gap, per overlap pair, and so on) rather than one candidate
// per thought family. Bandit selectors need the finer arm names.
func WithSplitCandidates() Option {
	return func(r *Replier) { r.split = true }
}

// WithRand fixes the random source, for tests.
func WithRand(rng *rand.Rand) Option {
	return func(r *Replier) { r.rng = rng }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Replier) { r.log = log }
}

// NewReplier builds a Replier around a selector and a phraser. The
// agent name feeds pronoun resolution for question answers.
func NewReplier(agentName string, sel selector.Selector, phraser phrase.Phraser, opts ...Option) *Replier {
	r := &Replier{
		resolver: lexicon.Resolver{Agent: agentName},
		sel:      sel,
		phraser:  phraser,
		maxDepth: DefaultMaxDepth,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LastThought reports the arm name of the most recently selected
// thought, for reward bookkeeping. Empty until a selection happens.
func (r *Replier) LastThought() string { return r.lastThought }

// ReplyToStatement builds a reply to a statement capsule. The second
// return is false when no reply could be produced: a missing triple,
// an unparsable thought record, or a renderer miss without persistence.
// The context only bounds coherence scoring; the pattern path never
// blocks.
func (r *Replier) ReplyToStatement(ctx context.Context, resp *capsule.BrainResponse, opts StatementOptions) (string, bool) {
	if resp == nil || resp.Statement == nil || resp.Statement.Triple == nil {
		r.log.Debug("statement without triple, no reply")
		return "", false
	}

	rec, err := thought.ParseRecord(resp.Thoughts)
	if err != nil {
		r.log.Debug("unparsable thought record", zap.Error(err))
		return "", false
	}

	options := statementThoughtOptions(opts)
	if len(rec.Available(options)) == 0 {
		r.log.Debug("no thoughts available", zap.Bool("entity_only", opts.EntityOnly))
		return r.phraser.Fallback(), true
	}

	utt := resp.Statement.Clone()
	utt.Casefold()

	if r.ranker != nil {
		return r.replyByCoherence(ctx, utt, rec, options)
	}
	return r.replyBySelection(utt, rec, options, opts.Persist)
}

// ReplyToMention builds a reply to an entity mention. Mentions carry no
// triple, only an entity, so selection is restricted to entity novelty
// and the complement gaps.
func (r *Replier) ReplyToMention(resp *capsule.BrainResponse) (string, bool) {
	if resp == nil || resp.Mention == nil || resp.Mention.Entity == nil {
		r.log.Debug("mention without entity, no reply")
		return "", false
	}

	rec, err := thought.ParseRecord(resp.Thoughts)
	if err != nil {
		r.log.Debug("unparsable thought record", zap.Error(err))
		return "", false
	}

	options := thought.MentionOptions
	if len(rec.Available(options)) == 0 {
		return r.phraser.Fallback(), true
	}

	utt := resp.Mention.Clone()
	utt.Casefold()
	return r.replyBySelection(utt, rec, options, false)
}

func (r *Replier) replyBySelection(utt *capsule.Utterance, rec *thought.Record, options []thought.Type, persist bool) (string, bool) {
	for budget := r.maxDepth; ; budget-- {
		cand, ok := r.pick(utt, rec, options)
		if !ok {
			return r.phraser.Fallback(), true
		}
		r.lastThought = cand.Name

		say, ok := r.phraser.Phrase(utt, cand.Type, cand.Record, budget <= 0)
		if ok {
			return say, true
		}
		if budget <= 0 {
			return r.phraser.Fallback(), true
		}
		if !persist {
			r.log.Debug("renderer declined", zap.String("thought", cand.Name))
			return "", false
		}
	}
}

func (r *Replier) replyByCoherence(ctx context.Context, utt *capsule.Utterance, rec *thought.Record, options []thought.Type) (string, bool) {
	candidates := thought.Split(utt, rec, options, r.rng)
	phrased := make([]selector.Phrased, 0, len(candidates))
	for _, cand := range candidates {
		say, ok := r.phraser.Phrase(utt, cand.Type, cand.Record, false)
		if !ok {
			continue
		}
		phrased = append(phrased, selector.Phrased{Candidate: cand, Reply: say})
	}
	if len(phrased) == 0 {
		return r.phraser.Fallback(), true
	}

	best, ok := r.ranker.Rank(ctx, utt.Text, phrased)
	if !ok {
		return r.phraser.Fallback(), true
	}
	r.lastThought = best.Candidate.Name
	return best.Reply, true
}

func (r *Replier) pick(utt *capsule.Utterance, rec *thought.Record, options []thought.Type) (thought.Candidate, bool) {
	var candidates []thought.Candidate
	if r.split {
		candidates = thought.Split(utt, rec, options, r.rng)
	} else {
		candidates = thought.WholeCandidates(rec, options)
	}
	return r.sel.Select(candidates)
}

func statementThoughtOptions(opts StatementOptions) []thought.Type {
	if opts.EntityOnly {
		options := thought.EntityOptions
		if opts.Proactive {
			options = appendMissing(options, thought.ProactiveOptions)
		}
		return options
	}
	options := thought.DefaultOptions
	if opts.Proactive {
		options = appendMissing(options, thought.ProactiveOptions)
	}
	return options
}

func appendMissing(base, extra []thought.Type) []thought.Type {
	out := make([]thought.Type, len(base))
	copy(out, base)
	for _, t := range extra {
		seen := false
		for _, have := range out {
			if have == t {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, t)
		}
	}
	return out
}
