package heatmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scoringdto "ansitzplaner/internal/modules/scoring/dto"
	"ansitzplaner/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Heatmap(ctx context.Context, input scoringdto.HeatmapInput) (scoringdto.HeatmapOutput, error)
	BestTimes(ctx context.Context, input scoringdto.HeatmapInput) (scoringdto.BestTimesOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Heatmap   scoringdto.HeatmapOutput
	BestTimes scoringdto.BestTimesOutput
	Err       error
}

// ─── list item ───────────────────────────────────────────────────────────────

type standItem struct {
	score scoringdto.StandScoreOutput
	best  *scoringdto.BestTimeOutput
}

func (i standItem) Title() string {
	return theme.Score(i.score.Hex, fmt.Sprintf("%3d", i.score.Score)) + "  " + i.score.Name
}

func (i standItem) Description() string {
	desc := fmt.Sprintf("%d Ansitze", i.score.DataPoints)
	if i.best != nil {
		desc += "  beste Zeit " + i.best.Label
	}
	return desc
}

func (i standItem) FilterValue() string { return i.score.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	query   scoringdto.HeatmapInput
	list    list.Model
	spinner spinner.Model
	last    scoringdto.HeatmapOutput
	errText string
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Einrichtungen"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, spinner: sp, loading: port != nil}
}

func (m Model) Init() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listWidth(), max(m.height-2, 1))

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			cmds = append(cmds, m.list.SetItems(nil))
			return m, tea.Batch(cmds...)
		}
		m.errText = ""
		m.last = msg.Heatmap
		best := make(map[string]scoringdto.BestTimeOutput, len(msg.BestTimes.Stands))
		for _, b := range msg.BestTimes.Stands {
			best[b.StandID] = b
		}
		items := make([]list.Item, len(msg.Heatmap.Stands))
		for i, s := range msg.Heatmap.Stands {
			item := standItem{score: s}
			if b, ok := best[s.StandID]; ok {
				item.best = &b
			}
			items[i] = item
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	if m.loading {
		return header + "\n" + m.spinner.View() + " Heatmap wird berechnet…"
	}
	if m.errText != "" {
		return header + "\n" + theme.Bad.Render(m.errText)
	}
	detail := theme.Pane.Width(max(m.width-m.listWidth()-4, 20)).Render(m.renderDetail())
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), detail)
}

// Refresh reloads the heatmap with the current query.
func (m *Model) Refresh() tea.Cmd {
	if m.port == nil {
		return nil
	}
	m.loading = true
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m *Model) SetMonth(month int) tea.Cmd {
	m.query.Month = month
	return m.Refresh()
}

func (m *Model) SetWindow(from, to int) tea.Cmd {
	m.query.HourFrom = &from
	m.query.HourTo = &to
	return m.Refresh()
}

func (m *Model) SetSpecies(species string) tea.Cmd {
	m.query.Species = species
	return m.Refresh()
}

func (m *Model) Reset() tea.Cmd {
	m.query = scoringdto.HeatmapInput{}
	return m.Refresh()
}

// SelectedStand returns the highlighted stand, if any.
func (m Model) SelectedStand() (scoringdto.StandScoreOutput, bool) {
	item, ok := m.list.SelectedItem().(standItem)
	if !ok {
		return scoringdto.StandScoreOutput{}, false
	}
	return item.score, true
}

// Stands returns the last scored stands.
func (m Model) Stands() []scoringdto.StandScoreOutput {
	return m.last.Stands
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) listWidth() int {
	return max(m.width/2, 30)
}

func (m Model) renderHeader() string {
	h := m.last
	if h.GroundID == "" {
		return theme.Title.Render("Heatmap")
	}
	parts := []string{
		theme.Title.Render("Heatmap " + h.GroundID),
		theme.Muted.Render(fmt.Sprintf("Monat %d  %02d-%02d Uhr  %s", h.Month, h.HourFrom, h.HourTo, h.Species)),
	}
	if h.MoonPhase != "" {
		parts = append(parts, theme.Muted.Render("Mond "+strings.ReplaceAll(h.MoonPhase, "_", " ")))
	}
	if !h.WeatherKnown {
		parts = append(parts, theme.Muted.Render("ohne Wetter"))
	}
	if h.Source != "" && h.Source != "remote" {
		parts = append(parts, theme.Hot.Render("offline"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(standItem)
	if !ok {
		return theme.Muted.Render("Keine Einrichtung ausgewählt")
	}
	s := item.score
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Name) + "\n\n")
	sb.WriteString(fmt.Sprintf("Score     %s (%s)\n", theme.Score(s.Hex, fmt.Sprintf("%d", s.Score)), s.Color))
	sb.WriteString(fmt.Sprintf("Basis     %d\n", s.Factors.Basis))
	sb.WriteString(fmt.Sprintf("Wetter    x%.2f\n", s.Factors.Weather))
	sb.WriteString(fmt.Sprintf("Mond      x%.2f\n", s.Factors.Lunar))
	sb.WriteString(fmt.Sprintf("Jagddruck x%.2f\n", s.Factors.Pressure))
	sb.WriteString(fmt.Sprintf("Ansitze   %d\n", s.DataPoints))
	if item.best != nil {
		sb.WriteString(fmt.Sprintf("\nBeste Zeit %s (%d)\n", item.best.Label, item.best.Score))
	}
	if s.Lat != 0 || s.Lng != 0 {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("\n%.5f, %.5f", s.Lat, s.Lng)))
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	query := m.query
	return func() tea.Msg {
		ctx := context.Background()
		heat, err := m.port.Heatmap(ctx, query)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		best, err := m.port.BestTimes(ctx, query)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Heatmap: heat, BestTimes: best}
	}
}
