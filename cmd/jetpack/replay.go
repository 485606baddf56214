package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jetpack-runner/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <dir>",
	Short: "Verify a recorded replay bundle",
	Long: `Load a replay bundle, re-simulate its inputs on a fresh game and compare
every recorded checkpoint.

The game config must match the one used for recording: pass the same
--config, and --difficulty unless the bundle's own preset should be used.

Examples:
  jetpack replay ./replays/rule-1a2b3c4d-20260301T120000.000Z
  jetpack replay ./replays/human-20260301T120000.000Z --config ./my-jetpack.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	if err := verifyReplay(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func verifyReplay(dir string) error {
	b, err := replay.Load(dir)
	if err != nil {
		return err
	}

	preset := flagDifficulty
	if preset == "" {
		preset = b.Header.Preset
	}
	cfg, err := loadConfig(preset)
	if err != nil {
		return err
	}

	pilot := b.Header.Agent
	if pilot == "" {
		pilot = "human"
	}
	fmt.Printf("Replay %s\n", b.Dir)
	fmt.Println()
	fmt.Printf("  Recorded:  %s\n", b.Manifest.CreatedAt)
	fmt.Printf("  Pilot:     %s (%s)\n", pilot, b.Header.Character)
	fmt.Printf("  Seed:      %d\n", b.Header.Seed)
	fmt.Printf("  Inputs:    %d\n", len(b.Inputs))
	fmt.Printf("  Frames:    %d\n", len(b.Frames))
	fmt.Printf("  Result:    %dm, %d coins, %s\n", int(b.Manifest.Distance), b.Manifest.Coins, orDash(b.Manifest.Cause))
	fmt.Println()

	res, err := replay.Verify(b, cfg)
	if errors.Is(err, replay.ErrDivergence) && res.Divergent > 0 {
		fmt.Printf("DIVERGED at input %d after %d matching checkpoints\n", res.Divergent, res.Checked-1)
		return err
	}
	if err != nil {
		return err
	}

	fmt.Printf("OK: %d inputs re-simulated, %d checkpoints match\n", res.Ticks, res.Checked)
	fmt.Printf("Final: %dm, %d coins, phase %s\n", int(res.Final.Run.Distance), res.Final.Run.Coins, res.Final.Phase)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
