// jetpack is an endless jetpack runner for the terminal, playable by humans
// and by agents, with a remote environment server for training.
//
// Usage:
//
//	jetpack play               - Play in the terminal
//	jetpack play --agent rule  - Watch an agent play
//	jetpack eval               - Run headless episodes and print statistics
//	jetpack replay <dir>       - Verify a recorded replay bundle
//	jetpack env serve          - Serve the environment over HTTP, WebSocket and gRPC
//	jetpack serve              - Start the SSH server for remote play
//	jetpack scores             - Show the longest runs
//	jetpack agents             - List registered agents
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible runs
//	--db <path>           - Set run history path (default: ~/.jetpack/runs.db)
//	--progress <path>     - Keep progress in a flat file instead of the database
//	--config <path>       - Load a custom game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import agents to register them
	_ "github.com/vovakirdan/jetpack-runner/internal/agent"
)

var (
	// Global flags
	flagFPS          int
	flagSeed         int64
	flagDBPath       string
	flagProgressPath string
	flagConfig       string
	flagDifficulty   string
	flagLogLevel     string
	flagLogFile      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jetpack",
	Short: "Jetpack Runner - fly, dodge and collect in your terminal",
	Long: `Jetpack Runner is an endless side-scroller for the terminal. Fly
between the ceiling and the floor, dodge lasers, rockets and meteors,
shoot what you can and collect coins on the way.

The same simulation is exposed as a reinforcement learning environment,
locally through the headless harness and remotely through the env server.

Available commands:
  play     - Play, or watch an agent play
  eval     - Run headless agent episodes
  replay   - Verify a recorded replay
  env      - Environment server
  serve    - Start SSH server for remote play
  scores   - View the longest runs
  agents   - List available agents

Examples:
  jetpack play
  jetpack play --agent rule --record ./replays
  jetpack eval --agent rule --episodes 20
  jetpack replay ./replays/rule-1a2b3c4d-20260301T120000.000Z
  jetpack env serve --http :8088 --grpc :8089
  jetpack serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.jetpack/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagProgressPath, "progress", "", "Path to a flat progress file (replaces the database for progress)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.jetpack/jetpack.log", "Log file used while the terminal UI is running")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(agentsCmd)
}
