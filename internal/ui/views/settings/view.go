package settings

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deskpulse/internal/platform/config"
	"deskpulse/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SettingsPort interface {
	Current(ctx context.Context) (config.Config, error)
	Apply(ctx context.Context, field, value string) (config.Config, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Cfg config.Config
	Err error
}

type AppliedMsg struct {
	Cfg config.Config
	Err error
}

// fieldOrder drives both rendering and cursor movement.
var fieldOrder = []string{
	"break_frequency_minutes",
	"break_length_minutes",
	"auto_refresh_enabled",
	"refresh_interval_seconds",
	"lookback_hours",
	"sample_limit",
	"harvest_interval_seconds",
	"demo_mode",
	"log_level",
}

var fieldHints = map[string]string{
	"break_frequency_minutes":  "minutes between breaks: 1, 5, 10, 15 or 30",
	"break_length_minutes":     "break duration: 1, 5, 10, 15 or 30",
	"auto_refresh_enabled":     "true/false — refresh the dashboard automatically",
	"refresh_interval_seconds": "dashboard refresh cadence, >= 1",
	"lookback_hours":           "summary window, >= 1",
	"sample_limit":             "samples per fetch, 1..1000",
	"harvest_interval_seconds": "background harvest cadence, 0 = manual only",
	"demo_mode":                "true/false — serve synthetic samples",
	"log_level":                "trace, debug, info, warn or error",
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       SettingsPort
	cfg        config.Config
	cursor     int
	editing    bool
	input      textinput.Model
	statusLine string
	width      int
	height     int
}

func New(port SettingsPort) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	return Model{port: port, input: ti}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		if msg.Err != nil {
			m.statusLine = "settings load failed: " + msg.Err.Error()
			return m, nil
		}
		m.cfg = msg.Cfg

	case AppliedMsg:
		if msg.Err != nil {
			m.statusLine = msg.Err.Error()
			return m, nil
		}
		m.cfg = msg.Cfg
		m.statusLine = "saved — timer changes apply to the next session"

	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "esc":
				m.editing = false
				m.input.Blur()
				m.statusLine = ""
				return m, nil
			case "enter":
				field := fieldOrder[m.cursor]
				value := strings.TrimSpace(m.input.Value())
				m.editing = false
				m.input.Blur()
				return m, m.applyCmd(field, value)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(fieldOrder)-1 {
				m.cursor++
			}
		case "enter":
			field := fieldOrder[m.cursor]
			m.editing = true
			m.statusLine = fieldHints[field]
			m.input.SetValue(fieldValue(m.cfg, field))
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	}

	return m, nil
}

// Filtering reports whether a value edit is in progress, so global key
// bindings yield to free typing.
func (m Model) Filtering() bool {
	return m.editing
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Settings") + "\n\n")

	for i, field := range fieldOrder {
		if i == m.cursor {
			marker := theme.Hot.Render("› ")
			if m.editing {
				sb.WriteString(marker + padField(field) + " " + m.input.View() + "\n")
			} else {
				sb.WriteString(marker + padField(field) + " " + theme.Hot.Render(fieldValue(m.cfg, field)) + "\n")
			}
			continue
		}
		sb.WriteString("  " + theme.Muted.Render(padField(field)) + " " + fieldValue(m.cfg, field) + "\n")
	}

	sb.WriteString("\n" + theme.Muted.Render("↑/↓: select   enter: edit   esc: cancel") + "\n")
	if m.statusLine != "" {
		sb.WriteString("\n" + theme.Hot.Render(m.statusLine) + "\n")
	}

	pane := theme.Pane.Width(min(m.width-2, 72)).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, pane)
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		cfg, err := m.port.Current(context.Background())
		return LoadedMsg{Cfg: cfg, Err: err}
	}
}

func (m Model) applyCmd(field, value string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := m.port.Apply(context.Background(), field, value)
		return AppliedMsg{Cfg: cfg, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func fieldValue(cfg config.Config, field string) string {
	switch field {
	case "break_frequency_minutes":
		return strconv.Itoa(cfg.BreakFrequencyMinutes)
	case "break_length_minutes":
		return strconv.Itoa(cfg.BreakLengthMinutes)
	case "auto_refresh_enabled":
		return strconv.FormatBool(cfg.AutoRefreshEnabled)
	case "refresh_interval_seconds":
		return strconv.Itoa(cfg.RefreshIntervalSeconds)
	case "lookback_hours":
		return strconv.Itoa(cfg.LookbackHours)
	case "sample_limit":
		return strconv.Itoa(cfg.SampleLimit)
	case "harvest_interval_seconds":
		return strconv.Itoa(cfg.HarvestIntervalSeconds)
	case "demo_mode":
		return strconv.FormatBool(cfg.DemoMode)
	case "log_level":
		return cfg.LogLevel
	}
	return ""
}

func padField(field string) string {
	const width = 26
	if len(field) >= width {
		return field
	}
	return field + strings.Repeat(" ", width-len(field))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
