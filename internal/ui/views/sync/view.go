package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
	"ansitzplaner/internal/ui/theme"
)

type Port interface {
	Status(ctx context.Context) (syncdto.StatusOutput, error)
	Drain(ctx context.Context, onConflict func(message string)) (syncdto.DrainOutput, error)
	Discard(ctx context.Context, operationID string) error
}

const (
	pollInterval = 5 * time.Second
	conflictKeep = 20
)

type StatusMsg struct {
	Out syncdto.StatusOutput
	Err error
}

type DrainedMsg struct {
	Out syncdto.DrainOutput
	Err error
}

type DiscardedMsg struct {
	ID  string
	Err error
}

// TickMsg polls the queue status.
type TickMsg time.Time

// Model lists pending queue operations and conflict messages from drains.
type Model struct {
	port      Port
	table     table.Model
	status    syncdto.StatusOutput
	conflicts []string
	note      string
	width     int
	height    int
}

func New(port Port) Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).BorderForeground(theme.Surface1)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender)
	t.SetStyles(styles)
	return Model{port: port, table: t}
}

func columns(width int) []table.Column {
	rest := max(width-12-10-8-20, 12)
	return []table.Column{
		{Title: "Operation", Width: rest},
		{Title: "Art", Width: 8},
		{Title: "Tabelle", Width: 10},
		{Title: "Erstellt", Width: 18},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Refresh(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(m.width))
		m.table.SetHeight(max(m.height-8-min(len(m.conflicts), 5), 3))

	case TickMsg:
		cmds = append(cmds, m.Refresh(), tick())

	case StatusMsg:
		if msg.Err != nil {
			m.note = "Status: " + msg.Err.Error()
			break
		}
		m.status = msg.Out
		rows := make([]table.Row, len(msg.Out.Pending))
		for i, op := range msg.Out.Pending {
			rows[i] = table.Row{op.ID, op.Kind, op.Table, op.CreatedAt.Local().Format("02.01. 15:04:05")}
		}
		m.table.SetRows(rows)

	case DrainedMsg:
		if msg.Err != nil {
			m.note = "Abgleich: " + msg.Err.Error()
		} else {
			m.note = drainSummary(msg.Out)
			for _, message := range msg.Out.Messages {
				m.AddConflict(message)
			}
		}
		cmds = append(cmds, m.Refresh())

	case DiscardedMsg:
		if msg.Err != nil {
			m.note = "Verwerfen: " + msg.Err.Error()
		} else {
			m.note = "verworfen: " + msg.ID
		}
		cmds = append(cmds, m.Refresh())
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	s := m.status
	online := theme.Bad.Render("offline")
	if s.Online {
		online = theme.Good.Render("online")
	}
	header := fmt.Sprintf("%s  %s  %s  %d ausstehend  %d übertragen  %d Konflikte",
		theme.Title.Render("Synchronisation"), online, theme.Health(s.Health), len(s.Pending), s.Replayed, s.Conflicts)
	lines := []string{header}
	if s.Reason != "" {
		lines = append(lines, theme.Muted.Render(s.Reason))
	}
	if !s.LastDrainAt.IsZero() {
		lines = append(lines, theme.Muted.Render("letzter Abgleich "+s.LastDrainAt.Local().Format("02.01. 15:04:05")))
	}
	lines = append(lines, m.table.View())
	if len(m.conflicts) > 0 {
		lines = append(lines, theme.Hot.Render("Konflikte"))
		start := max(len(m.conflicts)-5, 0)
		for _, c := range m.conflicts[start:] {
			lines = append(lines, "  "+c)
		}
	}
	if m.note != "" {
		lines = append(lines, theme.Muted.Render(m.note))
	}
	lines = append(lines, theme.Muted.Render("d: abgleichen  x: auswahl verwerfen"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// AddConflict records a conflict message from a background drain.
func (m *Model) AddConflict(message string) {
	m.conflicts = append(m.conflicts, time.Now().Format("15:04:05")+" "+message)
	if len(m.conflicts) > conflictKeep {
		m.conflicts = m.conflicts[len(m.conflicts)-conflictKeep:]
	}
}

// SelectedOperation returns the operation ID under the cursor.
func (m Model) SelectedOperation() (string, bool) {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return row[0], true
}

func (m Model) Refresh() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := m.port.Status(context.Background())
		return StatusMsg{Out: out, Err: err}
	}
}

// Drain replays the queue. Conflict messages arrive through DrainedMsg.
func (m Model) Drain() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := m.port.Drain(context.Background(), func(string) {})
		return DrainedMsg{Out: out, Err: err}
	}
}

func (m Model) Discard(id string) tea.Cmd {
	if m.port == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	return func() tea.Msg {
		return DiscardedMsg{ID: id, Err: m.port.Discard(context.Background(), id)}
	}
}

func drainSummary(out syncdto.DrainOutput) string {
	switch {
	case out.Skipped:
		return "Abgleich läuft bereits"
	case out.Offline:
		return fmt.Sprintf("offline, %d ausstehend", out.Remaining)
	}
	return fmt.Sprintf("%d/%d übertragen, %d Konflikte, %d fehlgeschlagen, %d ausstehend",
		out.Replayed, out.Attempted, out.Conflicts, out.Failed, out.Remaining)
}
