package selector

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/state"
	"github.com/dialogkit/replygen/internal/thought"
)

// UCB is a UCB1 multi-armed bandit over thought instances. Arms are
// candidate names; rewards arrive from outside, once per turn, as a
// measure of how much the last voiced thought improved the brain.
// Select and UpdateUtility run on the single-threaded turn loop, so no
// locking is needed as long as the caller keeps that discipline.
type UCB struct {
	confidence float64
	arms       map[string]state.Arm
	store      state.Store
	log        *zap.Logger
}

// NewUCB builds a bandit with exploration constant c, loading any
// persisted utility table from store. A nil store keeps the table in
// memory only.
func NewUCB(c float64, store state.Store, log *zap.Logger) (*UCB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	u := &UCB{
		confidence: c,
		arms:       map[string]state.Arm{},
		store:      store,
		log:        log.Named("ucb"),
	}
	if store != nil {
		arms, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("loading utility table: %w", err)
		}
		u.arms = arms
		u.log.Debug("utility table loaded", zap.Int("arms", len(arms)))
	}
	return u, nil
}

// Select returns the candidate maximizing the UCB1 bound. Any arm that
// was never pulled wins outright, first-seen first, so every candidate
// gets explored at least once.
func (u *UCB) Select(candidates []thought.Candidate) (thought.Candidate, bool) {
	if len(candidates) == 0 {
		return thought.Candidate{}, false
	}

	total := 0
	for _, arm := range u.arms {
		total += arm.Count
	}

	best := candidates[0]
	bestBound := math.Inf(-1)
	for _, c := range candidates {
		arm := u.arms[c.Name]
		if arm.Count == 0 {
			u.log.Debug("exploring unpulled arm", zap.String("arm", c.Name))
			return c, true
		}
		bound := arm.Value + u.confidence*math.Sqrt(math.Log(float64(total))/float64(arm.Count))
		if bound > bestBound {
			best, bestBound = c, bound
		}
	}

	u.log.Debug("arm selected", zap.String("arm", best.Name), zap.Float64("bound", bestBound))
	return best, true
}

// UpdateUtility folds one reward into an arm's running average and
// persists the table.
func (u *UCB) UpdateUtility(armName string, reward float64) error {
	arm := u.arms[armName]
	arm.Count++
	arm.Value += (reward - arm.Value) / float64(arm.Count)
	u.arms[armName] = arm

	u.log.Info("utility updated", zap.String("arm", armName),
		zap.Float64("reward", reward), zap.Float64("value", arm.Value),
		zap.Int("count", arm.Count))

	if u.store == nil {
		return nil
	}
	if err := u.store.Save(u.arms); err != nil {
		return fmt.Errorf("saving utility table: %w", err)
	}
	return nil
}

// Arms returns a copy of the utility table.
func (u *UCB) Arms() map[string]state.Arm {
	out := make(map[string]state.Arm, len(u.arms))
	for k, v := range u.arms {
		out[k] = v
	}
	return out
}

// Close persists the table and releases the store.
func (u *UCB) Close() error {
	if u.store == nil {
		return nil
	}
	if err := u.store.Save(u.arms); err != nil {
		return fmt.Errorf("saving utility table: %w", err)
	}
	return u.store.Close()
}
