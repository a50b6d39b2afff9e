package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	huntingdto "ansitzplaner/internal/modules/hunting/dto"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/ui/theme"
)

type Port interface {
	Active(ctx context.Context) (huntingdto.SessionOutput, error)
	ListSessions(ctx context.Context) (huntingdto.SessionsOutput, error)
}

type LoadedMsg struct {
	Active    huntingdto.SessionOutput
	HasActive bool
	Recent    huntingdto.SessionsOutput
	Err       error
}

const recentLimit = 10

// Model shows the running session and the most recent closed ones.
type Model struct {
	port     Port
	viewport viewport.Model
	loaded   LoadedMsg
	width    int
	height   int
}

func New(port Port) Model {
	return Model{port: port, viewport: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = max(m.height-1, 1)
		m.viewport.SetContent(m.render())
	case LoadedMsg:
		m.loaded = msg
		m.viewport.SetContent(m.render())
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return theme.Title.Render("Ansitz") + "\n" + m.viewport.View()
}

func (m Model) Refresh() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		var out LoadedMsg
		active, err := m.port.Active(ctx)
		switch {
		case err == nil:
			out.Active, out.HasActive = active, true
		case !errors.Is(err, apperrors.ErrNoActiveSession) && !errors.Is(err, apperrors.ErrNoActiveGround):
			out.Err = err
			return out
		}
		recent, err := m.port.ListSessions(ctx)
		if err != nil && !errors.Is(err, apperrors.ErrNoActiveGround) {
			out.Err = err
		}
		out.Recent = recent
		return out
	}
}

func (m Model) render() string {
	if m.loaded.Err != nil {
		return theme.Bad.Render(m.loaded.Err.Error())
	}
	var sb strings.Builder
	if m.loaded.HasActive {
		s := m.loaded.Active
		sb.WriteString(theme.Hot.Render("● läuft seit "+s.Start.Format("15:04")) + "  " + theme.Muted.Render("Einrichtung "+s.StandID) + "\n")
		sb.WriteString(conditions(s.Conditions) + "\n\n")
		if len(s.Sightings) == 0 {
			sb.WriteString(theme.Muted.Render("Noch keine Beobachtungen") + "\n")
		}
		for _, o := range s.Sightings {
			sb.WriteString(fmt.Sprintf("  %s  %dx %s %s %s\n", o.At.Format("15:04"), o.Count, o.Species, o.Sex, o.Behavior))
		}
		if s.Harvest != nil {
			sb.WriteString("\n" + theme.Good.Render(fmt.Sprintf("Abschuss: %dx %s %s", s.Harvest.Count, s.Harvest.Species, s.Harvest.Sex)) + "\n")
		}
	} else {
		sb.WriteString(theme.Muted.Render("Kein aktiver Ansitz. Einrichtung wählen und s drücken.") + "\n")
	}

	sb.WriteString("\n" + theme.Title.Render("Letzte Ansitze") + "  " + theme.Muted.Render(m.loaded.Recent.Source) + "\n")
	shown := 0
	for _, s := range m.loaded.Recent.Sessions {
		if s.End == nil {
			continue
		}
		mark := theme.Muted.Render("·")
		if s.Success {
			mark = theme.Good.Render("✓")
		}
		sb.WriteString(fmt.Sprintf("%s %s %s-%s  %s  %d Beob.  %s\n", mark, s.Date, s.Start.Format("15:04"), s.End.Format("15:04"), s.StandID, len(s.Sightings), theme.Muted.Render(s.State)))
		if shown++; shown == recentLimit {
			break
		}
	}
	return sb.String()
}

func conditions(c huntingdto.ConditionsOutput) string {
	var parts []string
	if c.TemperatureC != nil {
		parts = append(parts, fmt.Sprintf("%.1f°C", *c.TemperatureC))
	}
	if c.WindDirection != "" {
		wind := "Wind " + c.WindDirection
		if c.WindBeaufort != nil {
			wind += fmt.Sprintf(" %d Bft", *c.WindBeaufort)
		}
		parts = append(parts, wind)
	}
	if c.Precipitation != "" {
		parts = append(parts, c.Precipitation)
	}
	if c.MoonPhase != "" {
		parts = append(parts, "Mond "+strings.ReplaceAll(c.MoonPhase, "_", " "))
	}
	if len(parts) == 0 {
		return theme.Muted.Render("keine Wetterdaten")
	}
	return theme.Muted.Render(strings.Join(parts, "  "))
}
