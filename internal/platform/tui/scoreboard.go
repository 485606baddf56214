package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/jetpack-runner/internal/registry"
	"github.com/vovakirdan/jetpack-runner/internal/storage"
)

const (
	statsMinWidth = 84 // narrower terminals hide the stats panel
	statsWidth    = 24
	dateMinWidth  = 50  // narrower tables drop the date column
	maxRuns       = 500 // loaded once, filtered in memory
)

// Pilot filters besides the agent IDs. Human runs have no agent.
const (
	filterAll   = "all"
	filterHuman = "human"
)

var (
	boardAccent = lipgloss.Color("229")
	boardMuted  = lipgloss.Color("241")
	boardBorder = lipgloss.Color("240")
)

// RunLister is the part of the run history the scoreboard reads.
type RunLister interface {
	TopRuns(limit int) ([]storage.RunEntry, error)
}

type scoreboardKeys struct {
	Up, Down   key.Binding
	Next, Prev key.Binding
	Reload     key.Binding
	Quit       key.Binding
}

func (k scoreboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Reload, k.Quit}
}

func (k scoreboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultScoreboardKeys() scoreboardKeys {
	return scoreboardKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next pilot")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev pilot")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// pilotStats summarises the runs shown for one filter.
type pilotStats struct {
	Runs      int
	Best      int
	Average   float64
	Coins     int
	TopCause  string
	CauseRuns int
}

func summarize(runs []storage.RunEntry) pilotStats {
	var st pilotStats
	if len(runs) == 0 {
		return st
	}
	causes := map[string]int{}
	var total float64
	for _, r := range runs {
		st.Best = max(st.Best, r.Score())
		st.Coins += r.Coins
		total += r.Distance
		if r.Cause != "" {
			causes[r.Cause]++
		}
	}
	st.Runs = len(runs)
	st.Average = total / float64(len(runs))

	names := make([]string, 0, len(causes))
	for c := range causes {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		if causes[c] > st.CauseRuns {
			st.TopCause, st.CauseRuns = c, causes[c]
		}
	}
	return st
}

// ScoreboardModel lists the longest stored runs, filtered by pilot.
type ScoreboardModel struct {
	store   RunLister
	all     []storage.RunEntry
	runs    []storage.RunEntry
	filters []string // all, human, then every registered agent
	cursor  int
	stats   pilotStats
	err     error

	table table.Model
	help  help.Model
	keys  scoreboardKeys

	width, height int
	wide          bool // date column shown
	quitting      bool
}

// NewScoreboardModel creates the scoreboard and loads the run history.
func NewScoreboardModel(store RunLister, width, height int) ScoreboardModel {
	filters := []string{filterAll, filterHuman}
	for _, a := range registry.List() {
		filters = append(filters, a.ID)
	}

	m := ScoreboardModel{
		store:   store,
		filters: filters,
		help:    help.New(),
		keys:    defaultScoreboardKeys(),
		width:   width,
		height:  height,
	}
	m.help.Width = width
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) showStats() bool {
	return m.width >= statsMinWidth
}

func (m *ScoreboardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Distance", Width: 9},
		{Title: "Coins", Width: 6},
		{Title: "Pilot", Width: 10},
		{Title: "Cause", Width: 8},
	}

	avail := m.width - 4
	if m.showStats() {
		avail -= statsWidth + 4
	}
	m.wide = avail >= dateMinWidth
	if m.wide {
		columns = append(columns, table.Column{Title: "Date", Width: 12})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(boardBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(boardAccent).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload reads the run history again and reapplies the filter.
func (m *ScoreboardModel) reload() {
	m.all, m.err = nil, nil
	if m.store != nil {
		m.all, m.err = m.store.TopRuns(maxRuns)
	}
	m.applyFilter()
}

func (m *ScoreboardModel) applyFilter() {
	filter := m.filters[m.cursor]
	m.runs = nil
	for _, r := range m.all {
		if matchesFilter(r.Agent, filter) {
			m.runs = append(m.runs, r)
		}
	}
	m.stats = summarize(m.runs)
	m.fillTable()
}

func matchesFilter(agent, filter string) bool {
	switch filter {
	case filterAll:
		return true
	case filterHuman:
		return agent == ""
	}
	return agent == filter
}

// pilotName labels a run by who flew it.
func pilotName(r storage.RunEntry) string {
	if r.Agent == "" {
		return r.Character
	}
	return r.Agent
}

func (m *ScoreboardModel) fillTable() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		row := table.Row{
			fmt.Sprint(i + 1),
			fmt.Sprintf("%dm", r.Score()),
			fmt.Sprint(r.Coins),
			pilotName(r),
			r.Cause,
		}
		if m.wide {
			row = append(row, r.CreatedAt.Format("Jan 02 15:04"))
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Runs returns the runs currently listed.
func (m ScoreboardModel) Runs() []storage.RunEntry {
	return m.runs
}

// Filter returns the selected pilot filter.
func (m ScoreboardModel) Filter() string {
	return m.filters[m.cursor]
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.cursor = (m.cursor + 1) % len(m.filters)
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.cursor = (m.cursor + len(m.filters) - 1) % len(m.filters)
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.fillTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(boardAccent).
		Render("LONGEST RUNS · " + m.filters[m.cursor])
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(boardBorder).
		Padding(0, 1)

	body := box.Render(m.tableView())
	if m.showStats() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, box.Width(statsWidth).Render(m.statsView()), " ", body)
	}

	muted := lipgloss.NewStyle().Foreground(boardMuted)
	parts := []string{
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.tabsView()),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body),
		muted.Render(m.detailLine()),
		muted.Render(m.help.View(m.keys)),
	}
	return strings.Join(parts, "\n")
}

func (m ScoreboardModel) tabsView() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(boardAccent).Background(lipgloss.Color("57")).Padding(0, 1)
	idle := lipgloss.NewStyle().Foreground(boardMuted).Padding(0, 1)

	tabs := make([]string, len(m.filters))
	for i, f := range m.filters {
		if i == m.cursor {
			tabs[i] = active.Render(f)
		} else {
			tabs[i] = idle.Render(f)
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(line) > m.width {
		return active.Render("‹ " + m.filters[m.cursor] + " ›")
	}
	return line
}

func (m ScoreboardModel) statsView() string {
	st := m.stats
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Pilot stats"),
		"",
		fmt.Sprintf("runs     %d", st.Runs),
		fmt.Sprintf("best     %dm", st.Best),
		fmt.Sprintf("average  %.0fm", st.Average),
		fmt.Sprintf("coins    %d", st.Coins),
	}
	if st.TopCause != "" {
		lines = append(lines, fmt.Sprintf("killer   %s (%d)", st.TopCause, st.CauseRuns))
	}
	return strings.Join(lines, "\n")
}

func (m ScoreboardModel) tableView() string {
	empty := lipgloss.NewStyle().Foreground(boardMuted).Italic(true).Padding(1, 3)
	switch {
	case m.err != nil:
		return empty.Render("Could not read the run history:\n" + m.err.Error())
	case len(m.runs) == 0:
		return empty.Render("No runs recorded yet.\nFly one to set a record!")
	}
	return m.table.View()
}

// detailLine describes the highlighted run well enough to replay it.
func (m ScoreboardModel) detailLine() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return ""
	}
	r := m.runs[i]
	return fmt.Sprintf("run %s  seed %d  level %d  %d ticks", orNone(r.RunID), r.Seed, r.Level, r.Ticks)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RunScoreboard shows the scoreboard until the user quits.
func RunScoreboard(store RunLister, width, height int) error {
	_, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	return err
}
