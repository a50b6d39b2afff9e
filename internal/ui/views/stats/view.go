package stats

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	scoringdto "ansitzplaner/internal/modules/scoring/dto"
	"ansitzplaner/internal/ui/theme"
)

type Port interface {
	Statistics(ctx context.Context, since time.Time) (scoringdto.StatisticsOutput, error)
}

type LoadedMsg struct {
	Out scoringdto.StatisticsOutput
	Err error
}

// Model renders the markdown statistics report through glamour.
type Model struct {
	port     Port
	since    time.Time
	viewport viewport.Model
	renderer *glamour.TermRenderer
	loaded   LoadedMsg
	width    int
}

func New(port Port) Model {
	r, _ := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(0))
	return Model{port: port, viewport: viewport.New(0, 0), renderer: r}
}

func (m Model) Init() tea.Cmd { return m.Refresh() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-1, 1)
		if r, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(m.width)); err == nil {
			m.renderer = r
		}
		m.viewport.SetContent(m.render())
	case LoadedMsg:
		m.loaded = msg
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Title.Render("Statistik")
	if !m.since.IsZero() {
		header += theme.Muted.Render("  seit " + m.since.Format("02.01.2006"))
	}
	return header + "\n" + m.viewport.View()
}

// SetSince restricts the report to sessions started on or after since.
func (m *Model) SetSince(since time.Time) tea.Cmd {
	m.since = since
	return m.Refresh()
}

func (m Model) Refresh() tea.Cmd {
	if m.port == nil {
		return nil
	}
	since := m.since
	return func() tea.Msg {
		out, err := m.port.Statistics(context.Background(), since)
		return LoadedMsg{Out: out, Err: err}
	}
}

func (m Model) render() string {
	if m.loaded.Err != nil {
		return theme.Bad.Render(m.loaded.Err.Error())
	}
	report := m.loaded.Out.Report
	if report == "" {
		return theme.Muted.Render("(keine Daten)")
	}
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(report); err == nil {
			return rendered
		}
	}
	return report
}
