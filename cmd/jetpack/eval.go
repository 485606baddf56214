package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jetpack-runner/internal/env"
	"github.com/vovakirdan/jetpack-runner/internal/harness"
	"github.com/vovakirdan/jetpack-runner/internal/registry"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run headless agent episodes",
	Long: `Run an agent through consecutive episodes without rendering and print
per-episode results and aggregate statistics.

Episode seeds start at --seed and increase by one, so a fixed seed
reproduces the whole batch. Runs are recorded in the run history.
Ctrl+C stops after the current step and still prints what finished.

Examples:
  jetpack eval
  jetpack eval --agent random --episodes 50
  jetpack eval --seed 7 --record ./replays`,
	Args: cobra.NoArgs,
	Run:  runEval,
}

// Separate from the play flags: each command keeps its own defaults.
var (
	flagEvalAgent     string
	flagEvalEpisodes  int
	flagEvalRecord    string
	flagEvalCharacter string
)

func init() {
	evalCmd.Flags().StringVar(&flagEvalAgent, "agent", "rule", "Agent to evaluate (see 'jetpack agents')")
	evalCmd.Flags().IntVar(&flagEvalEpisodes, "episodes", 10, "Number of episodes")
	evalCmd.Flags().StringVar(&flagEvalRecord, "record", "", "Directory to record replay bundles into")
	evalCmd.Flags().StringVar(&flagEvalCharacter, "character", "", "Pilot ID (default from config)")
}

func runEval(_ *cobra.Command, _ []string) {
	if err := evaluate(flagEvalAgent, flagEvalEpisodes, flagEvalRecord, flagEvalCharacter); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func evaluate(agentID string, episodes int, recordDir, character string) error {
	if episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", episodes)
	}
	cfg, err := loadConfig(flagDifficulty)
	if err != nil {
		return err
	}
	agent, err := registry.Create(agentID)
	if err != nil {
		return fmt.Errorf("%w (run 'jetpack agents' to list them)", err)
	}
	e, err := env.New(cfg, env.WithSeed(runSeed()), env.WithCharacter(character))
	if err != nil {
		return err
	}

	logger := newLogger("jetpack-eval")
	runner := &harness.Runner{
		Env:       e,
		Agent:     agent,
		Logger:    logger,
		RecordDir: recordDir,
		Preset:    flagDifficulty,
	}
	if store := openStore(logger); store != nil {
		runner.Store = store
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, eps, err := runner.Run(ctx, episodes)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	printEpisodes(agentID, eps, stats)
	return nil
}

func printEpisodes(agentID string, eps []harness.Episode, stats harness.Stats) {
	fmt.Printf("Agent %s - %d episodes\n", agentID, stats.Episodes)
	fmt.Println()

	if len(eps) == 0 {
		fmt.Println("No episode finished.")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-20s  %-9s  %-6s  %-9s  %s\n", "#", "Seed", "Distance", "Coins", "Reward", "End")
	fmt.Printf("  %-4s  %-20s  %-9s  %-6s  %-9s  %s\n", "-", "----", "--------", "-----", "------", "---")

	for i, ep := range eps {
		end := ep.Cause
		if ep.Truncated {
			end = "truncated"
		}
		fmt.Printf("  %-4d  %-20d  %-9d  %-6d  %-9.1f  %s\n", i+1, ep.Seed, int(ep.Distance), ep.Coins, ep.Reward, end)
	}

	fmt.Println()
	fmt.Printf("Mean distance: %.1f   Max: %.0f\n", stats.MeanDistance, stats.MaxDistance)
	fmt.Printf("Mean coins:    %.2f\n", stats.MeanCoins)
	fmt.Printf("Mean reward:   %.2f\n", stats.MeanReward)

	causes := make([]string, 0, len(stats.Deaths))
	for c := range stats.Deaths {
		causes = append(causes, c)
	}
	sort.Strings(causes)
	for _, c := range causes {
		fmt.Printf("Deaths by %-8s %d\n", c+":", stats.Deaths[c])
	}
}
