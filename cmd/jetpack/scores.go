package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/jetpack-runner/internal/platform/tui"
	"github.com/vovakirdan/jetpack-runner/internal/storage"
)

var (
	flagScoresLimit       int
	flagScoresInteractive bool
	flagScoresClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the longest runs",
	Long: `Display the longest recorded runs and overall statistics.

With --interactive the runs are shown in a scrollable table that can be
filtered by pilot (humans or a specific agent).

With --progress the flat progress file is shown instead; it only keeps
the high score and the lifetime distance.

Examples:
  jetpack scores
  jetpack scores --limit 25
  jetpack scores --interactive
  jetpack scores --progress ~/.jetpack/progress.txt`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Browse runs in a table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every stored run")
}

func runScores(_ *cobra.Command, _ []string) {
	if err := showScores(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showScores() error {
	if flagProgressPath != "" {
		file, err := storage.OpenFile(flagProgressPath)
		if err != nil {
			return err
		}
		defer file.Close()
		p, err := file.Progress()
		if err != nil {
			return err
		}
		fmt.Printf("Progress - %s\n", file.Path())
		fmt.Println()
		fmt.Printf("  High score:        %dm\n", p.HighScore)
		fmt.Printf("  Lifetime distance: %dm\n", p.LifetimeDistance)
		return nil
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	}

	if flagScoresInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunScoreboard(store, width, height)
	}

	runs, err := store.TopRuns(flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Println("Longest Runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'jetpack play' to set the first record!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-9s  %-6s  %-8s  %-8s  %s\n", "Rank", "Distance", "Coins", "Pilot", "Cause", "Date")
	fmt.Printf("  %-4s  %-9s  %-6s  %-8s  %-8s  %s\n", "----", "--------", "-----", "-----", "-----", "----")

	for i, r := range runs {
		pilot := r.Agent
		if pilot == "" {
			pilot = r.Character
		}
		fmt.Printf("  %-4d  %-9d  %-6d  %-8s  %-8s  %s\n",
			i+1, r.Score(), r.Coins, pilot, orDash(r.Cause), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d   Best: %dm   Average: %.0fm   Coins: %d\n",
			stats.Runs, stats.HighScore, stats.AvgDistance, stats.TotalCoins)
	}
	return nil
}
