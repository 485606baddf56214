package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
	"github.com/vovakirdan/jetpack-runner/internal/platform/tui"
	"github.com/vovakirdan/jetpack-runner/internal/registry"
	"github.com/vovakirdan/jetpack-runner/internal/replay"
)

var (
	flagAgent     string
	flagNoRender  bool
	flagEpisodes  int
	flagRecord    string
	flagCharacter string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start the jetpack runner in the terminal.

Controls:
  Space/W/Up       - Thrust (hold)
  A/D, Left/Right  - Drift left or right
  F/X              - Shoot
  Enter            - Start / confirm
  C                - Choose a pilot
  P/Esc            - Pause
  R                - Restart
  M                - Back to the start screen after game over
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

With --agent the pilot is flown by a registered agent while the keyboard
still controls pause, restart and the menus. With --no-render the agent
plays headless episodes instead, like 'jetpack eval'.

Difficulty options:
  easy   - Slower speed ramp, fewer rockets and meteors
  normal - The configured defaults
  hard   - Faster ramp, more hazards
  fixed  - No speed progression

Examples:
  jetpack play
  jetpack play --difficulty hard
  jetpack play --agent rule
  jetpack play --agent rule --no-render --episodes 5
  jetpack play --seed 42 --record ./replays`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagAgent, "agent", "", "Agent flying the pilot (see 'jetpack agents')")
	playCmd.Flags().BoolVar(&flagNoRender, "no-render", false, "Run headless episodes instead of the terminal UI")
	playCmd.Flags().IntVar(&flagEpisodes, "episodes", 1, "Episodes to run with --no-render")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Directory to record replay bundles into")
	playCmd.Flags().StringVar(&flagCharacter, "character", "", "Pilot ID (default from config)")
}

func runPlay(_ *cobra.Command, _ []string) {
	var err error
	if flagNoRender {
		agentID := flagAgent
		if agentID == "" {
			agentID = "rule"
		}
		err = evaluate(agentID, flagEpisodes, flagRecord, flagCharacter)
	} else {
		err = play()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func play() error {
	cfg, err := loadConfig(flagDifficulty)
	if err != nil {
		return err
	}
	character, ok := cfg.Character(flagCharacter)
	if !ok {
		return fmt.Errorf("unknown character %q", flagCharacter)
	}

	var agent registry.Agent
	if flagAgent != "" {
		if agent, err = registry.Create(flagAgent); err != nil {
			return fmt.Errorf("%w (run 'jetpack agents' to list them)", err)
		}
	}

	logger, closeLog := newFileLogger("jetpack")
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:   width,
		ScreenH:   height,
		TickRate:  flagFPS,
		Seed:      flagSeed,
		Character: character.ID,
	}

	opts := tui.Options{Agent: agent, Logger: logger}
	if store := openStore(logger); store != nil {
		opts.Store = store
		defer store.Close()
	}

	if flagRecord != "" {
		// A recording needs a seed known up front
		rt.Seed = runSeed()
		rec, recErr := newRecorder(cfg, rt, agent)
		if recErr != nil {
			return recErr
		}
		opts.Recorder = rec
		defer func() {
			if closeErr := rec.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: replay incomplete: %v\n", closeErr)
				return
			}
			fmt.Printf("Replay saved to %s\n", rec.Dir())
		}()
	}

	return tui.Run(jetpack.New(cfg), rt, opts)
}

// newRecorder opens a replay bundle for an interactive session. The
// session starts on the start screen, so every menu command is recorded.
func newRecorder(cfg config.JetpackConfig, rt core.RuntimeConfig, agent registry.Agent) (*replay.Writer, error) {
	digest, err := replay.ConfigDigest(cfg)
	if err != nil {
		return nil, err
	}
	header := replay.Header{
		Seed:         rt.Seed,
		Character:    rt.Character,
		Preset:       flagDifficulty,
		ConfigDigest: digest,
	}
	name := "human"
	if agent != nil {
		header.Agent = agent.ID()
		name = agent.ID()
	}
	return replay.NewWriter(flagRecord, name, header, nil)
}
