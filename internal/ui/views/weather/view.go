package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	weatherdto "ansitzplaner/internal/modules/weather/dto"
	"ansitzplaner/internal/ui/theme"
)

type Port interface {
	Overview(ctx context.Context, lat, lng float64) (weatherdto.OverviewOutput, error)
	Astronomy(ctx context.Context, lat, lng float64, at time.Time) (weatherdto.AstronomyOutput, error)
}

type LoadedMsg struct {
	Label     string
	Overview  weatherdto.OverviewOutput
	Astronomy weatherdto.AstronomyOutput
	Err       error
}

type Model struct {
	port   Port
	loaded LoadedMsg
	width  int
}

func New(port Port) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case LoadedMsg:
		m.loaded = msg
	}
	return m, nil
}

// Load fetches weather and astronomy for a position, labelled for the header.
func (m Model) Load(label string, lat, lng float64) tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		out := LoadedMsg{Label: label}
		out.Overview, out.Err = m.port.Overview(ctx, lat, lng)
		if out.Err != nil {
			return out
		}
		out.Astronomy, out.Err = m.port.Astronomy(ctx, lat, lng, time.Time{})
		return out
	}
}

func (m Model) View() string {
	l := m.loaded
	if l.Label == "" {
		return theme.Title.Render("Wetter") + "\n" + theme.Muted.Render("Einrichtung mit Position auswählen")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Wetter "+l.Label) + "\n\n")
	if l.Err != nil {
		sb.WriteString(theme.Bad.Render(l.Err.Error()))
		return sb.String()
	}

	if l.Overview.CurrentErr != "" {
		sb.WriteString(theme.Bad.Render("aktuell nicht verfügbar: "+l.Overview.CurrentErr) + "\n")
	} else {
		c := l.Overview.Current
		sb.WriteString(fmt.Sprintf("%.1f°C  Wind %s %d Bft  %s  Wolken %.0f%%  %.0f hPa\n",
			c.TemperatureC, c.WindDirection, c.WindBeaufort, c.Precipitation, c.CloudCoverPct, c.PressureHPa))
	}

	a := l.Astronomy
	hunting := theme.Muted.Render("außerhalb der Jagdzeit")
	if a.HuntingHour {
		hunting = theme.Good.Render("Jagdzeit")
	}
	sb.WriteString(fmt.Sprintf("Mond %s (%d%%)  Dämmerung %s-%s  %s\n\n",
		strings.ReplaceAll(a.MoonPhase, "_", " "), a.Illumination, a.Dawn.Format("15:04"), a.Dusk.Format("15:04"), hunting))

	if l.Overview.ForecastErr != "" {
		sb.WriteString(theme.Bad.Render("Vorhersage nicht verfügbar: " + l.Overview.ForecastErr))
		return sb.String()
	}
	for _, d := range l.Overview.Forecast {
		score := fmt.Sprintf("%3d", d.Favorability)
		if d.Best {
			score = theme.Good.Render(score + " ★")
		}
		sb.WriteString(fmt.Sprintf("%s  %5.1f/%5.1f°C  %4.1f mm  %s %d Bft  %s\n",
			d.Date.Format("Mon 02.01."), d.TempMinC, d.TempMaxC, d.PrecipMM, d.WindDirection, d.WindBeaufort, score))
	}
	return sb.String()
}
