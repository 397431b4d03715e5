package selector

import (
	"context"

	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/thought"
)

// Scorer estimates how well a candidate reply follows the recent
// dialogue, in [0,1]. Implementations live in internal/coherence; the
// pipeline only depends on this interface.
type Scorer interface {
	Score(ctx context.Context, dialogue, candidate string) (float64, error)
}

// Phrased is a candidate thought together with its rendered reply.
type Phrased struct {
	Candidate thought.Candidate
	Reply     string
	Score     float64
}

// Coherence ranks rendered candidates by oracle score. It is not a
// plain Selector: it needs the renderings and the dialogue context, so
// the replier drives it through Rank.
type Coherence struct {
	scorer Scorer
	log    *zap.Logger
}

// NewCoherence builds a ranker around a scoring oracle.
func NewCoherence(scorer Scorer, log *zap.Logger) *Coherence {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coherence{scorer: scorer, log: log.Named("coherence")}
}

// Rank scores every phrased candidate against the dialogue and returns
// the best, ties broken by first-seen order. A failed score counts as
// zero; the turn continues on the surviving candidates.
func (c *Coherence) Rank(ctx context.Context, dialogue string, phrased []Phrased) (Phrased, bool) {
	if len(phrased) == 0 {
		return Phrased{}, false
	}

	best := -1
	for i := range phrased {
		score, err := c.scorer.Score(ctx, dialogue, phrased[i].Reply)
		if err != nil {
			c.log.Warn("scoring failed", zap.String("candidate", phrased[i].Candidate.Name), zap.Error(err))
			score = 0
		}
		phrased[i].Score = score
		if best < 0 || score > phrased[best].Score {
			best = i
		}
	}

	c.log.Info("candidate ranked best",
		zap.String("candidate", phrased[best].Candidate.Name),
		zap.Float64("score", phrased[best].Score))
	return phrased[best], true
}
