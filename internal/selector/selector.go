// Package selector holds the strategies that choose which thought to
// voice: uniform random, priority-ordered random, a UCB1 bandit fed by
// an external reward signal, and a coherence ranker that scores
// rendered candidates against recent dialogue. Selectors only ever see
// candidates whose payloads exist; filtering happens upstream.
package selector

import (
	"math/rand"
	"time"

	"github.com/dialogkit/replygen/internal/thought"
)

// Selector picks one candidate from a non-empty set. ok is false only
// for an empty input, which callers are expected to have prevented.
type Selector interface {
	Select(candidates []thought.Candidate) (thought.Candidate, bool)
}

// UniformRandom picks uniformly at random.
type UniformRandom struct {
	rng *rand.Rand
}

// NewUniformRandom builds a uniform selector; a nil rng gets a
// time-seeded one.
func NewUniformRandom(rng *rand.Rand) *UniformRandom {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &UniformRandom{rng: rng}
}

// Select returns a uniformly random candidate.
func (s *UniformRandom) Select(candidates []thought.Candidate) (thought.Candidate, bool) {
	if len(candidates) == 0 {
		return thought.Candidate{}, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}
