package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/progress"
	"github.com/dialogkit/replygen/internal/reply"
)

var (
	replyEntityOnly bool
	replyProactive  bool
	replyPersist    bool
	replyQuiet      bool
)

var replyCmd = &cobra.Command{
	Use:   "reply <scenario.json>",
	Short: "Reply to a scenario file of brain responses",
	Long: `Loads a JSON array of brain responses and replies to each in turn.
Statements, questions and mentions are auto-detected. Entries may
carry a "state" number; with the bandit selector active, consecutive
states reward the previously chosen thought.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := buildPipeline()
		exitOnError(err)
		defer p.Close()
		exitOnError(runScenario(p, args[0]))
	},
}

func init() {
	replyCmd.Flags().BoolVar(&replyEntityOnly, "entity-only", false, "restrict statement replies to entity thoughts")
	replyCmd.Flags().BoolVar(&replyProactive, "proactive", false, "add gap questions to statement replies")
	replyCmd.Flags().BoolVar(&replyPersist, "persist", false, "retry selection after renderer misses")
	replyCmd.Flags().BoolVarP(&replyQuiet, "quiet", "q", false, "print replies only")
	rootCmd.AddCommand(replyCmd)
}

// scenarioExtras are the optional per-entry fields next to the capsule.
type scenarioExtras struct {
	State *float64 `json:"state"`
}

func runScenario(p *pipeline, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	opts := reply.StatementOptions{
		EntityOnly: replyEntityOnly,
		Proactive:  replyProactive,
		Persist:    replyPersist,
	}

	var tracker *reply.RewardTracker
	oracle := &pushedState{}
	if p.ucb != nil {
		tracker = reply.NewRewardTracker(p.ucb, oracle, p.log.Named("reward"))
	}

	reporter := progress.NewReporter()
	reporter.Start(len(entries))
	defer reporter.Finish()

	ctx := context.Background()
	for i, raw := range entries {
		reporter.Update(i+1, fmt.Sprintf("turn %d", i+1))

		resp, err := capsule.Parse(raw)
		if err != nil {
			p.log.Warn("skipping unparsable entry", zap.Int("turn", i+1), zap.Error(err))
			continue
		}
		kind, utt, err := resp.Detect()
		if err != nil {
			p.log.Warn("skipping undetectable entry", zap.Int("turn", i+1), zap.Error(err))
			continue
		}

		var (
			say string
			ok  bool
		)
		switch kind {
		case capsule.KindStatement:
			say, ok = p.replier.ReplyToStatement(ctx, resp, opts)
		case capsule.KindMention:
			say, ok = p.replier.ReplyToMention(resp)
		case capsule.KindQuestion:
			say, ok = p.replier.ReplyToQuestion(resp), true
		}

		printTurn(utt, say, ok)

		if tracker != nil {
			var extras scenarioExtras
			if err := json.Unmarshal(raw, &extras); err == nil && extras.State != nil {
				oracle.value = *extras.State
				if err := tracker.Observe(ctx, p.replier.LastThought()); err != nil {
					p.log.Warn("rewarding thought", zap.Error(err))
				}
			}
		}
	}
	return nil
}

func printTurn(utt *capsule.Utterance, say string, ok bool) {
	if !replyQuiet && utt != nil && utt.Text != "" {
		fmt.Printf("U: %s\n", utt.Text)
	}
	if ok {
		fmt.Printf("R: %s\n", say)
	} else if !replyQuiet {
		fmt.Println("R: (silence)")
	}
}

// pushedState replays scenario-supplied state values through the
// StateEvaluator interface.
type pushedState struct {
	value float64
}

func (p *pushedState) State(context.Context) (float64, error) {
	return p.value, nil
}
