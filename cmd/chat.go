package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/reply"
)

var chatCmd = &cobra.Command{
	Use:   "chat <scenario.json>",
	Short: "Step through a scenario interactively",
	Long: `Walks a scenario file one brain response at a time, letting you pick
the reply mode per turn. Useful for inspecting what each selection
mode would say for the same input.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := buildPipeline()
		exitOnError(err)
		defer p.Close()
		exitOnError(runChat(p, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatModes = []string{
	"default",
	"entity-only",
	"proactive",
	"persist",
	"skip",
	"quit",
}

func runChat(p *pipeline, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	ctx := context.Background()
	for i, raw := range entries {
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

		if utt != nil && utt.Text != "" {
			fmt.Printf("\n[%d/%d] %s: %s\n", i+1, len(entries), kind, utt.Text)
		} else {
			fmt.Printf("\n[%d/%d] %s\n", i+1, len(entries), kind)
		}

		modePrompt := promptui.Select{
			Label: "Reply mode",
			Items: chatModes,
		}
		_, mode, err := modePrompt.Run()
		if err != nil {
			return fmt.Errorf("mode selection: %w", err)
		}

		switch mode {
		case "skip":
			continue
		case "quit":
			return nil
		}

		opts := reply.StatementOptions{
			EntityOnly: mode == "entity-only",
			Proactive:  mode == "proactive",
			Persist:    mode == "persist",
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

		if ok {
			fmt.Printf("R: %s\n", say)
		} else {
			fmt.Println("R: (silence)")
		}
	}
	return nil
}
