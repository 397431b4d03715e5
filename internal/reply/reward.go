package reply

import (
	"context"

	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/selector"
)

// StateEvaluator reports a scalar measure of the external knowledge
// state, sampled once per turn. The tracker turns consecutive samples
// into a reward; it never interprets the scalar itself.
type StateEvaluator interface {
	State(ctx context.Context) (float64, error)
}

// RewardTracker converts state deltas into bandit rewards. After each
// turn the caller samples the state through the tracker, which rewards
// the previously selected arm with the ratio of the new state over the
// old one. Not safe for concurrent use; it shares the single-writer
// discipline of the selector it feeds.
type RewardTracker struct {
	ucb  *selector.UCB
	eval StateEvaluator
	log  *zap.Logger

	states  []float64
	rewards []float64
}

// NewRewardTracker wires an evaluator to a bandit selector.
func NewRewardTracker(ucb *selector.UCB, eval StateEvaluator, log *zap.Logger) *RewardTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RewardTracker{
		ucb:     ucb,
		eval:    eval,
		log:     log,
		rewards: []float64{0},
	}
}

// Observe samples the external state and, when a thought was selected
// this turn, rewards its arm. The first sample only seeds the history.
func (t *RewardTracker) Observe(ctx context.Context, lastThought string) error {
	value, err := t.eval.State(ctx)
	if err != nil {
		return err
	}
	t.states = append(t.states, value)

	if lastThought == "" || len(t.states) < 2 {
		return nil
	}
	prev := t.states[len(t.states)-2]
	if prev == 0 || value == 0 {
		return nil
	}

	reward := value / prev
	t.rewards = append(t.rewards, reward)
	t.log.Debug("rewarding thought",
		zap.String("thought", lastThought),
		zap.Float64("reward", reward))
	return t.ucb.UpdateUtility(lastThought, reward)
}

// States returns the sampled state history.
func (t *RewardTracker) States() []float64 {
	out := make([]float64, len(t.states))
	copy(out, t.states)
	return out
}

// Rewards returns the reward history, seeded with a zero entry.
func (t *RewardTracker) Rewards() []float64 {
	out := make([]float64, len(t.rewards))
	copy(out, t.rewards)
	return out
}
