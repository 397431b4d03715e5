package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dialogkit/replygen/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "replygen",
	Short: "Turn structured brain responses into natural-language replies",
	Long: `Replygen converts the output of a triple-store reasoning engine into
spoken-style English utterances: statements with derived thoughts,
questions with answer bindings, and entity mentions. Thought selection
is pluggable: uniform random, priority-ordered, a UCB1 bandit with
persisted utilities, or coherence ranking against recent dialogue.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
