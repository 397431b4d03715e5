package selector

import (
	"math/rand"
	"time"

	"github.com/dialogkit/replygen/internal/thought"
)

// PriorityRandom mostly follows a fixed thought-type ordering, with an
// epsilon chance of a uniformly random pick to keep replies varied.
type PriorityRandom struct {
	epsilon float64
	rank    map[thought.Type]int
	rng     *rand.Rand
}

// NewPriorityRandom builds a priority selector. epsilon is the
// probability of ignoring the ordering; order lists types from most to
// least preferred, and types missing from it sort last.
func NewPriorityRandom(epsilon float64, order []thought.Type, rng *rand.Rand) *PriorityRandom {
	if len(order) == 0 {
		order = thought.All
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rank := make(map[thought.Type]int, len(order))
	for i, t := range order {
		rank[t] = i
	}
	return &PriorityRandom{epsilon: epsilon, rank: rank, rng: rng}
}

// Select returns the best-ranked candidate, or a random one with
// probability epsilon. Ties and unknown types resolve to first-seen.
func (s *PriorityRandom) Select(candidates []thought.Candidate) (thought.Candidate, bool) {
	if len(candidates) == 0 {
		return thought.Candidate{}, false
	}

	if s.rng.Float64() < s.epsilon {
		return candidates[s.rng.Intn(len(candidates))], true
	}

	best := candidates[0]
	bestRank := s.rankOf(best.Type)
	for _, c := range candidates[1:] {
		if r := s.rankOf(c.Type); r < bestRank {
			best, bestRank = c, r
		}
	}
	return best, true
}

func (s *PriorityRandom) rankOf(t thought.Type) int {
	if r, ok := s.rank[t]; ok {
		return r
	}
	return len(s.rank)
}
