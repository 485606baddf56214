package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
	"github.com/vovakirdan/jetpack-runner/internal/registry"
	"github.com/vovakirdan/jetpack-runner/internal/replay"
	"github.com/vovakirdan/jetpack-runner/internal/storage"
)

// Options wires the optional collaborators of a Model.
type Options struct {
	// Store records finished runs. Nil disables persistence.
	Store storage.ProgressStore
	// Agent drives the pilot instead of the keyboard. Commands still come
	// from the keyboard.
	Agent registry.Agent
	// Recorder receives every frame the game is stepped with. A recorded
	// session keeps its seed across runs so the bundle stays replayable.
	Recorder *replay.Writer
	// HoldTicks overrides DefaultHoldTicks.
	HoldTicks int
	// Renderer binds colors to the client terminal. Nil means stdout.
	Renderer *lipgloss.Renderer
	Logger   *log.Logger
}

// Model is the Bubble Tea model for the jetpack runner.
type Model struct {
	game     *jetpack.Game
	screen   *core.Screen
	painter  *Painter
	config   core.RuntimeConfig
	opts     Options
	keys     *KeyMapper
	help     help.Model
	frame    core.InputFrame
	state    jetpack.State
	progress storage.Progress
	reseed   bool // no fixed seed was given: every fresh run draws a new one
	runID    string
	recorded bool
	quitting bool
	err      error
}

// NewModel creates a Bubble Tea model for the given game.
func NewModel(game *jetpack.Game, cfg core.RuntimeConfig, opts Options) Model {
	cfg = cfg.Normalize()
	reseed := cfg.Seed == 0 && opts.Recorder == nil
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr)
	}

	m := Model{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, gameRows(cfg.ScreenH)),
		painter: NewPainter(opts.Renderer),
		config:  cfg,
		opts:    opts,
		keys:    NewKeyMapper(opts.HoldTicks),
		help:    help.New(),
		frame:   core.NewInputFrame(),
		reseed:  reseed,
	}
	m.help.Width = cfg.ScreenW

	game.Reset(cfg)
	game.SetAgentControlled(opts.Agent != nil)
	m.state = game.State()

	if opts.Store != nil {
		p, err := opts.Store.Progress()
		if err != nil {
			opts.Logger.Warn("could not read progress", "error", err)
		}
		m.progress = p
	}
	return m
}

// gameRows leaves the bottom row for the help bar.
func gameRows(h int) int {
	if h > 1 {
		return h - 1
	}
	return 1
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, gameRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKey(msg, &m.frame) {
		m.quitting = true
		return m, tea.Quit
	}
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
	}
	return m, nil
}

// handleTick steps the game with everything gathered since the last tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	phase := m.game.Phase()
	if cmd, ok := jetpack.Command(phase, m.frame); ok {
		if _, fresh, err := jetpack.Transition(phase, cmd); err == nil && fresh {
			m.beginRun()
		}
	} else {
		if m.opts.Agent != nil && phase == jetpack.PhasePlaying {
			m.frame.Intent = m.opts.Agent.Decide(m.game.Snapshot())
		}
		m.keys.Tick(&m.frame)
	}

	result := m.game.Step(m.frame)
	m.state = result.State

	if m.opts.Recorder != nil {
		if err := m.opts.Recorder.Record(m.frame, m.game.Snapshot()); err != nil {
			m.opts.Logger.Error("replay recording stopped", "error", err)
			m.err = err
			m.opts.Recorder = nil
		}
	}

	for _, ev := range result.Events {
		if ev.Kind == jetpack.EventRunEnded {
			m.recordRun()
		}
	}

	m.frame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// beginRun prepares the collaborators for the fresh run the next step starts.
func (m *Model) beginRun() {
	if m.reseed {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reseed(m.config.Seed)
	}
	if m.opts.Agent != nil {
		m.opts.Agent.Reset(m.config.Seed)
	}
	m.keys.Release()
	m.runID = uuid.NewString()
	m.recorded = false
}

// recordRun saves the finished run once.
func (m *Model) recordRun() {
	if m.recorded {
		return
	}
	m.recorded = true

	run := m.game.Run()
	agentID := ""
	if m.opts.Agent != nil {
		agentID = m.opts.Agent.ID()
	}
	m.opts.Logger.Info("run ended",
		"distance", int(run.Distance),
		"coins", run.Coins,
		"cause", run.Cause,
		"seed", m.config.Seed,
	)
	if m.opts.Store == nil {
		return
	}

	p, err := m.opts.Store.RecordRun(storage.RunRecord{
		RunID:     m.runID,
		Agent:     agentID,
		Character: m.state.Character,
		Seed:      m.config.Seed,
		Distance:  run.Distance,
		Coins:     run.Coins,
		Level:     m.state.Level,
		Cause:     run.Cause,
		Ticks:     run.Ticks,
		CreatedAt: time.Now(),
	})
	if err != nil {
		m.opts.Logger.Warn("could not record run", "error", err)
		return
	}
	m.progress = p
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".jetpack", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if p := m.state.Phase; p == jetpack.PhaseStart || p == jetpack.PhaseGameOver {
		line := fmt.Sprintf("best %dm   lifetime %dm", m.progress.HighScore, m.progress.LifetimeDistance)
		m.screen.DrawTextCenteredColored(m.screen.Height()-2, line, core.ColorGray)
	}

	return m.painter.Paint(m.screen) + "\n" + m.help.ShortHelpView(m.keys.Keys.HelpFor(m.state.Phase))
}

// State returns the game state after the last tick.
func (m Model) State() jetpack.State {
	return m.state
}

// Progress returns the cross-run progress shown on the start screen.
func (m Model) Progress() storage.Progress {
	return m.progress
}

// Err returns the error that stopped replay recording, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(game *jetpack.Game, cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return fmt.Errorf("replay: %w", m.err)
	}
	return nil
}
