package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	huntingdto "ansitzplaner/internal/modules/hunting/dto"
	scoringdto "ansitzplaner/internal/modules/scoring/dto"
	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
	weatherdto "ansitzplaner/internal/modules/weather/dto"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/ui/components"
	"ansitzplaner/internal/ui/theme"
	heatmapview "ansitzplaner/internal/ui/views/heatmap"
	sessionview "ansitzplaner/internal/ui/views/session"
	statsview "ansitzplaner/internal/ui/views/stats"
	syncview "ansitzplaner/internal/ui/views/sync"
	weatherview "ansitzplaner/internal/ui/views/weather"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type huntingPort interface {
	Start(ctx context.Context, standID, notes string) (huntingdto.SessionOutput, error)
	Sighting(ctx context.Context, input huntingdto.SightingInput) (huntingdto.SessionOutput, error)
	Harvest(ctx context.Context, input huntingdto.HarvestInput) (huntingdto.SessionOutput, error)
	End(ctx context.Context, sessionID string, success bool, notes string) (huntingdto.EndSessionOutput, error)
	Active(ctx context.Context) (huntingdto.SessionOutput, error)
	ListSessions(ctx context.Context) (huntingdto.SessionsOutput, error)
}

type scoringPort interface {
	Heatmap(ctx context.Context, input scoringdto.HeatmapInput) (scoringdto.HeatmapOutput, error)
	BestTimes(ctx context.Context, input scoringdto.HeatmapInput) (scoringdto.BestTimesOutput, error)
	Statistics(ctx context.Context, since time.Time) (scoringdto.StatisticsOutput, error)
}

type weatherPort interface {
	Overview(ctx context.Context, lat, lng float64) (weatherdto.OverviewOutput, error)
	Astronomy(ctx context.Context, lat, lng float64, at time.Time) (weatherdto.AstronomyOutput, error)
}

type syncPort interface {
	Status(ctx context.Context) (syncdto.StatusOutput, error)
	Drain(ctx context.Context, onConflict func(message string)) (syncdto.DrainOutput, error)
	Discard(ctx context.Context, operationID string) error
}

type Deps struct {
	Hunting   huntingPort
	Scoring   scoringPort
	Weather   weatherPort
	Sync      syncPort
	Conflicts <-chan string
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabHeatmap tabID = iota
	tabSession
	tabWeather
	tabStats
	tabSync
	tabCount
)

var tabLabels = [tabCount]string{
	"Heatmap", "Ansitz", "Wetter", "Statistik", "Sync",
}

// ─── async messages ──────────────────────────────────────────────────────────

type sessionChangedMsg struct {
	status string
	err    error
}

type conflictMsg struct{ message string }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Weather key.Binding
	Refresh key.Binding
	Drain   key.Binding
	Discard key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session on stand")),
		Weather: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "weather at stand")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh tab")),
		Drain:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drain queue")),
		Discard: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard operation")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start, k.Weather, k.Refresh},
		{k.Drain, k.Discard},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes tabs, runs palette commands
// against the hunting log and forwards background sync conflicts to the sync
// tab.
type Model struct {
	hunting   huntingPort
	conflicts <-chan string

	heatView    heatmapview.Model
	sessionView sessionview.Model
	weatherView weatherview.Model
	statsView   statsview.Model
	syncView    syncview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(deps Deps) Model {
	return Model{
		hunting:   deps.Hunting,
		conflicts: deps.Conflicts,
		activeTab: tabHeatmap,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "bereit",

		heatView:    heatmapview.New(deps.Scoring),
		sessionView: sessionview.New(deps.Hunting),
		weatherView: weatherview.New(deps.Weather),
		statsView:   statsview.New(deps.Scoring),
		syncView:    syncview.New(deps.Sync),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.heatView.Init(),
		m.sessionView.Init(),
		m.statsView.Init(),
		m.syncView.Init(),
		m.waitConflictCmd(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case sessionChangedMsg:
		if msg.err != nil {
			m.status = msg.status + ": " + msg.err.Error()
		} else {
			m.status = msg.status
		}
		return m, tea.Batch(m.sessionView.Refresh(), m.syncView.Refresh())

	case conflictMsg:
		m.syncView.AddConflict(msg.message)
		m.status = "Konflikt: " + msg.message
		return m, tea.Batch(m.syncView.Refresh(), m.waitConflictCmd())

	// Data messages go to their view regardless of the active tab.
	case heatmapview.LoadedMsg:
		if msg.Err != nil {
			m.status = "Heatmap: " + msg.Err.Error()
		}
		var cmd tea.Cmd
		m.heatView, cmd = m.heatView.Update(msg)
		return m, cmd
	case sessionview.LoadedMsg:
		var cmd tea.Cmd
		m.sessionView, cmd = m.sessionView.Update(msg)
		return m, cmd
	case weatherview.LoadedMsg:
		var cmd tea.Cmd
		m.weatherView, cmd = m.weatherView.Update(msg)
		return m, cmd
	case statsview.LoadedMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd
	case syncview.StatusMsg, syncview.DrainedMsg, syncview.DiscardedMsg, syncview.TickMsg:
		var cmd tea.Cmd
		m.syncView, cmd = m.syncView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "bereit"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabHeatmap && m.heatView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			return m.switchTab((m.activeTab + 1) % tabCount)
		case "shift+tab":
			return m.switchTab((m.activeTab + tabCount - 1) % tabCount)
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "s":
			if m.activeTab == tabHeatmap {
				if stand, ok := m.heatView.SelectedStand(); ok {
					return m, m.startSessionCmd(stand.StandID, "")
				}
			}
		case "w":
			if cmd := m.loadWeather(); cmd != nil {
				m.activeTab = tabWeather
				return m, cmd
			}
			m.status = "keine Einrichtung mit Position"
			return m, nil
		case "r":
			return m, m.refreshActive()
		case "d":
			if m.activeTab == tabSync {
				m.status = "Abgleich gestartet"
				return m, m.syncView.Drain()
			}
		case "x":
			if m.activeTab == tabSync {
				if id, ok := m.syncView.SelectedOperation(); ok {
					return m, m.syncView.Discard(id)
				}
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabHeatmap:
		m.heatView, tabCmd = m.heatView.Update(msg)
	case tabSession:
		m.sessionView, tabCmd = m.sessionView.Update(msg)
	case tabWeather:
		m.weatherView, tabCmd = m.weatherView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	case tabSync:
		m.syncView, tabCmd = m.syncView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabHeatmap:
		return m.heatView.View()
	case tabSession:
		return m.sessionView.View()
	case tabWeather:
		return m.weatherView.View()
	case tabStats:
		return m.statsView.View()
	case tabSync:
		return m.syncView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "ansitzplaner  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	args := parts[1:]

	switch parts[0] {
	case "session:start":
		stand, ok := m.heatView.SelectedStand()
		if !ok {
			m.status = "keine Einrichtung ausgewählt"
			return m, nil
		}
		return m, m.startSessionCmd(stand.StandID, strings.Join(args, " "))

	case "session:sighting":
		if len(args) < 1 {
			m.status = "usage: session:sighting <species> [count] [behavior]"
			return m, nil
		}
		in := huntingdto.SightingInput{Species: args[0], Count: 1}
		if len(args) >= 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				m.status = "invalid count"
				return m, nil
			}
			in.Count = n
		}
		if len(args) >= 3 {
			in.Behavior = args[2]
		}
		return m, m.sightingCmd(in)

	case "session:harvest":
		if len(args) < 1 {
			m.status = "usage: session:harvest <species> [count] [caliber]"
			return m, nil
		}
		in := huntingdto.HarvestInput{Species: args[0], Count: 1}
		if len(args) >= 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				m.status = "invalid count"
				return m, nil
			}
			in.Count = n
		}
		if len(args) >= 3 {
			in.Caliber = args[2]
		}
		return m, m.harvestCmd(in)

	case "session:end":
		success := false
		if len(args) > 0 && args[0] == "erfolg" {
			success = true
			args = args[1:]
		}
		return m, m.endSessionCmd(success, strings.Join(args, " "))

	case "heatmap:month":
		month, err := singleInt(args)
		if err != nil || month < 1 || month > 12 {
			m.status = "usage: heatmap:month <1-12>"
			return m, nil
		}
		m.activeTab = tabHeatmap
		return m, m.heatView.SetMonth(month)

	case "heatmap:window":
		if len(args) != 2 {
			m.status = "usage: heatmap:window <from> <to>"
			return m, nil
		}
		from, err1 := strconv.Atoi(args[0])
		to, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			m.status = "usage: heatmap:window <from> <to>"
			return m, nil
		}
		m.activeTab = tabHeatmap
		return m, m.heatView.SetWindow(from, to)

	case "heatmap:species":
		if len(args) != 1 {
			m.status = "usage: heatmap:species <species|alle>"
			return m, nil
		}
		m.activeTab = tabHeatmap
		return m, m.heatView.SetSpecies(args[0])

	case "heatmap:reset":
		m.activeTab = tabHeatmap
		return m, m.heatView.Reset()

	case "stats:since":
		if len(args) != 1 {
			m.status = "usage: stats:since <YYYY-MM-DD>"
			return m, nil
		}
		since, err := time.Parse(time.DateOnly, args[0])
		if err != nil {
			m.status = "invalid date"
			return m, nil
		}
		m.activeTab = tabStats
		return m, m.statsView.SetSince(since)

	case "sync:drain":
		m.activeTab = tabSync
		m.status = "Abgleich gestartet"
		return m, m.syncView.Drain()

	case "sync:discard":
		if len(args) != 1 {
			m.status = "usage: sync:discard <operation-id>"
			return m, nil
		}
		m.activeTab = tabSync
		return m, m.syncView.Discard(args[0])

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func singleInt(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one argument")
	}
	return strconv.Atoi(args[0])
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) switchTab(tab tabID) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	if tab == tabWeather {
		return m, m.loadWeather()
	}
	return m, nil
}

// loadWeather targets the selected stand, or the first located one.
func (m Model) loadWeather() tea.Cmd {
	if stand, ok := m.heatView.SelectedStand(); ok && (stand.Lat != 0 || stand.Lng != 0) {
		return m.weatherView.Load(stand.Name, stand.Lat, stand.Lng)
	}
	for _, stand := range m.heatView.Stands() {
		if stand.Lat != 0 || stand.Lng != 0 {
			return m.weatherView.Load(stand.Name, stand.Lat, stand.Lng)
		}
	}
	return nil
}

func (m Model) refreshActive() tea.Cmd {
	switch m.activeTab {
	case tabHeatmap:
		return m.heatView.Refresh()
	case tabSession:
		return m.sessionView.Refresh()
	case tabWeather:
		return m.loadWeather()
	case tabStats:
		return m.statsView.Refresh()
	case tabSync:
		return m.syncView.Refresh()
	}
	return nil
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.heatView, _ = m.heatView.Update(sz)
	m.sessionView, _ = m.sessionView.Update(sz)
	m.weatherView, _ = m.weatherView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
	m.syncView, _ = m.syncView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) waitConflictCmd() tea.Cmd {
	if m.conflicts == nil {
		return nil
	}
	ch := m.conflicts
	return func() tea.Msg {
		message, ok := <-ch
		if !ok {
			return nil
		}
		return conflictMsg{message: message}
	}
}

func (m Model) startSessionCmd(standID, notes string) tea.Cmd {
	if m.hunting == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := m.hunting.Start(context.Background(), standID, notes)
		if errors.Is(err, apperrors.ErrActiveSessionExists) {
			return sessionChangedMsg{status: "Ansitz läuft bereits", err: err}
		}
		return sessionChangedMsg{status: "Ansitz gestartet " + out.Start.Format("15:04"), err: err}
	}
}

func (m Model) sightingCmd(in huntingdto.SightingInput) tea.Cmd {
	if m.hunting == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := m.hunting.Sighting(context.Background(), in)
		return sessionChangedMsg{status: fmt.Sprintf("Beobachtung %d erfasst", len(out.Sightings)), err: err}
	}
}

func (m Model) harvestCmd(in huntingdto.HarvestInput) tea.Cmd {
	if m.hunting == nil {
		return nil
	}
	return func() tea.Msg {
		_, err := m.hunting.Harvest(context.Background(), in)
		return sessionChangedMsg{status: "Abschuss erfasst", err: err}
	}
}

func (m Model) endSessionCmd(success bool, notes string) tea.Cmd {
	if m.hunting == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := m.hunting.End(context.Background(), "", success, notes)
		if err != nil {
			return sessionChangedMsg{status: "Ansitz beenden", err: err}
		}
		status := "Ansitz beendet, synchronisiert"
		if !out.Synced {
			status = fmt.Sprintf("Ansitz beendet, %d Vorgänge in der Warteschlange", out.Queued)
		}
		return sessionChangedMsg{status: status}
	}
}
