package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	collectordto "deskpulse/internal/modules/collector/dto"
	sessiondto "deskpulse/internal/modules/session/dto"
	wellnessdto "deskpulse/internal/modules/wellness/dto"
	"deskpulse/internal/platform/config"
	"deskpulse/internal/ui/components"
	"deskpulse/internal/ui/theme"
	collectorsview "deskpulse/internal/ui/views/collectors"
	dashboardview "deskpulse/internal/ui/views/dashboard"
	focusview "deskpulse/internal/ui/views/focus"
	settingsview "deskpulse/internal/ui/views/settings"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type wellnessPort interface {
	Summary(ctx context.Context, windowHours, limit int) (wellnessdto.SummaryOutput, error)
}

type sessionPort interface {
	Start(ctx context.Context) (sessiondto.StartOutput, error)
	TogglePause(ctx context.Context) (sessiondto.StatusOutput, error)
	Stop(ctx context.Context) (sessiondto.StopOutput, error)
	Tick(ctx context.Context) (sessiondto.StatusOutput, error)
	Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error)
	Today(ctx context.Context) (sessiondto.TodayOutput, error)
}

type collectorPort interface {
	List(ctx context.Context) ([]collectordto.CollectorInfo, error)
	Doctor(ctx context.Context) ([]collectordto.DoctorResult, error)
	Status(ctx context.Context, name string) (collectordto.StatusOutput, error)
	Harvest(ctx context.Context) (collectordto.HarvestOutput, error)
}

type settingsPort interface {
	Current(ctx context.Context) (config.Config, error)
	Apply(ctx context.Context, field, value string) (config.Config, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabFocus
	tabCollectors
	tabSettings
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Focus", "Collectors", "Settings",
}

// ─── timer messages ──────────────────────────────────────────────────────────

type sessionTickMsg struct{}

type refreshTickMsg struct{}

type harvestTickMsg struct{}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Refresh key.Binding
	Start   key.Binding
	Pause   key.Binding
	Stop    key.Binding
	Doctor  key.Binding
	Harvest key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh report")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop session")),
		Doctor:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "collector doctor")),
		Harvest: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "harvest now")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh},
		{k.Start, k.Pause, k.Stop},
		{k.Doctor, k.Harvest},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the second-by-second
// session tick, the background refresh and harvest timers, the global help
// overlay, and the command palette. All business logic is delegated to port
// interfaces; all rendering is delegated to sub-views.
type Model struct {
	cfg config.Config

	// ports used at this orchestration level only
	settings settingsPort

	// sub-views (one per tab)
	dashView  dashboardview.Model
	focusView focusview.Model
	collView  collectorsview.Model
	setView   settingsview.Model

	// global UI state
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int

	// timer intervals, fixed at startup; interval edits apply on restart
	refreshEvery time.Duration
	harvestEvery time.Duration
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	cfg config.Config,
	wellness wellnessPort,
	session sessionPort,
	collector collectorPort,
	settings settingsPort,
) Model {
	return Model{
		cfg:          cfg,
		settings:     settings,
		dashView:     dashboardview.New(wellnessPortBridge{p: wellness}),
		focusView:    focusview.New(sessionPortBridge{p: session}),
		collView:     collectorsview.New(collectorPortBridge{p: collector}),
		setView:      settingsview.New(settingsPortBridge{p: settings}),
		activeTab:    tabDashboard,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
		refreshEvery: cfg.RefreshInterval(),
		harvestEvery: cfg.HarvestInterval(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.dashView.Init(),
		m.focusView.Init(),
		m.collView.Init(),
		m.setView.Init(),
		m.sessionTickCmd(),
	}
	if m.refreshEvery > 0 {
		cmds = append(cmds, m.refreshTickCmd())
	}
	if m.harvestEvery > 0 {
		cmds = append(cmds, m.harvestTickCmd())
	}
	return tea.Batch(cmds...)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
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

	case sessionTickMsg:
		// Re-arm first so a slow Tick round-trip never stalls the clock.
		return m, tea.Batch(m.sessionTickCmd(), m.focusView.Tick())

	case refreshTickMsg:
		// The loop stays armed even while auto-refresh is off, so toggling
		// the setting takes effect at the next tick without a restart.
		if !m.cfg.AutoRefreshEnabled {
			return m, m.refreshTickCmd()
		}
		return m, tea.Batch(m.refreshTickCmd(), m.dashView.Refresh())

	case harvestTickMsg:
		return m, tea.Batch(m.harvestTickCmd(), m.collView.HarvestCmd())

	// Focus messages bypass tab routing: the session clock keeps running and
	// the status bar indicator stays fresh while any other tab is open.
	case focusview.StartedMsg:
		if msg.Err != nil {
			m.status = "session start: " + msg.Err.Error()
		} else {
			m.status = "focus session started"
		}
		var cmd tea.Cmd
		m.focusView, cmd = m.focusView.Update(msg)
		return m, cmd

	case focusview.StoppedMsg:
		switch {
		case msg.Err != nil:
			m.status = "session stop: " + msg.Err.Error()
		case msg.Out.Saved:
			m.status = fmt.Sprintf("session saved (%dm%02ds focused)",
				msg.Out.DurationSeconds/60, msg.Out.DurationSeconds%60)
		default:
			m.status = "short session discarded"
		}
		var cmd tea.Cmd
		m.focusView, cmd = m.focusView.Update(msg)
		return m, cmd

	case focusview.TickedMsg, focusview.RecentMsg, focusview.TodayMsg:
		var cmd tea.Cmd
		m.focusView, cmd = m.focusView.Update(msg)
		return m, cmd

	// Summaries land on the dashboard even when a timer fired them from
	// another tab.
	case dashboardview.SummaryMsg:
		var cmd tea.Cmd
		m.dashView, cmd = m.dashView.Update(msg)
		return m, cmd

	case collectorsview.HarvestMsg:
		switch {
		case msg.Err != nil:
			m.status = "harvest: " + msg.Err.Error()
		case msg.Out.Stored > 0:
			m.status = fmt.Sprintf("harvest stored %d sample(s)", msg.Out.Stored)
			cmds = append(cmds, m.dashView.Refresh())
		default:
			m.status = "harvest: no new samples"
		}
		var cmd tea.Cmd
		m.collView, cmd = m.collView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case settingsview.AppliedMsg:
		if msg.Err == nil {
			m.cfg = msg.Cfg
			m.status = "config saved"
		}
		var cmd tea.Cmd
		m.setView, cmd = m.setView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its filter or editor is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "r":
			if m.activeTab == tabDashboard {
				m.status = "refreshing…"
				cmds = append(cmds, m.dashView.Refresh())
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, tabCmd = m.dashView.Update(msg)
	case tabFocus:
		m.focusView, tabCmd = m.focusView.Update(msg)
	case tabCollectors:
		m.collView, tabCmd = m.collView.Update(msg)
	case tabSettings:
		m.setView, tabCmd = m.setView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabFocus:
		return m.focusView.View()
	case tabCollectors:
		return m.collView.View()
	case tabSettings:
		return m.setView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "deskpulse  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if label, ok := m.focusView.Active(); ok {
		left = theme.Hot.Render("● "+label) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:start":
		m.activeTab = tabFocus
		return m, m.focusView.StartCmd()

	case "session:pause":
		m.activeTab = tabFocus
		return m, m.focusView.TogglePauseCmd()

	case "session:stop":
		m.activeTab = tabFocus
		return m, m.focusView.StopCmd()

	case "report":
		hours := 0
		if len(parts) >= 2 {
			h, err := strconv.Atoi(parts[1])
			if err != nil || h < 1 {
				m.status = "usage: report [hours]"
				return m, nil
			}
			hours = h
		}
		m.activeTab = tabDashboard
		m.dashView.SetWindow(hours)
		m.status = "refreshing…"
		return m, m.dashView.Refresh()

	case "harvest:now":
		m.status = "harvesting…"
		return m, m.collView.HarvestCmd()

	case "collector:doctor":
		m.activeTab = tabCollectors
		return m, m.collView.DoctorCmd()

	case "collector:status":
		if len(parts) < 2 {
			m.status = "usage: collector:status <name>"
			return m, nil
		}
		m.activeTab = tabCollectors
		return m, m.collView.StatusCmd(parts[1])

	case "config:set":
		if len(parts) < 3 {
			m.status = "usage: config:set <field> <value>"
			return m, nil
		}
		m.activeTab = tabSettings
		return m, m.applySettingCmd(parts[1], strings.Join(parts[2:], " "))

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter or field
// editor is open, in which case global key bindings must yield to allow free
// typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabFocus:
		return m.focusView.Filtering()
	case tabCollectors:
		return m.collView.Filtering()
	case tabSettings:
		return m.setView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.focusView, _ = m.focusView.Update(sz)
	m.collView, _ = m.collView.Update(sz)
	m.setView, _ = m.setView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) sessionTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return sessionTickMsg{}
	})
}

func (m Model) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.refreshEvery, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m Model) harvestTickCmd() tea.Cmd {
	return tea.Tick(m.harvestEvery, func(time.Time) tea.Msg {
		return harvestTickMsg{}
	})
}

func (m Model) applySettingCmd(field, value string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := m.settings.Apply(context.Background(), field, value)
		return settingsview.AppliedMsg{Cfg: cfg, Err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view, keeping view packages free of knowledge about the wider
// port surface.

type wellnessPortBridge struct{ p wellnessPort }

func (b wellnessPortBridge) Summary(ctx context.Context, query wellnessdto.SummaryQuery) (wellnessdto.SummaryOutput, error) {
	return b.p.Summary(ctx, query.WindowHours, query.Limit)
}

type sessionPortBridge struct{ p sessionPort }

func (b sessionPortBridge) Start(ctx context.Context) (sessiondto.StartOutput, error) {
	return b.p.Start(ctx)
}
func (b sessionPortBridge) TogglePause(ctx context.Context) (sessiondto.StatusOutput, error) {
	return b.p.TogglePause(ctx)
}
func (b sessionPortBridge) Stop(ctx context.Context) (sessiondto.StopOutput, error) {
	return b.p.Stop(ctx)
}
func (b sessionPortBridge) Tick(ctx context.Context) (sessiondto.StatusOutput, error) {
	return b.p.Tick(ctx)
}
func (b sessionPortBridge) Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error) {
	return b.p.Recent(ctx, limit)
}
func (b sessionPortBridge) Today(ctx context.Context) (sessiondto.TodayOutput, error) {
	return b.p.Today(ctx)
}

type collectorPortBridge struct{ p collectorPort }

func (b collectorPortBridge) List(ctx context.Context) ([]collectordto.CollectorInfo, error) {
	return b.p.List(ctx)
}
func (b collectorPortBridge) Doctor(ctx context.Context) ([]collectordto.DoctorResult, error) {
	return b.p.Doctor(ctx)
}
func (b collectorPortBridge) Status(ctx context.Context, name string) (collectordto.StatusOutput, error) {
	return b.p.Status(ctx, name)
}
func (b collectorPortBridge) Harvest(ctx context.Context) (collectordto.HarvestOutput, error) {
	return b.p.Harvest(ctx)
}

type settingsPortBridge struct{ p settingsPort }

func (b settingsPortBridge) Current(ctx context.Context) (config.Config, error) {
	return b.p.Current(ctx)
}
func (b settingsPortBridge) Apply(ctx context.Context, field, value string) (config.Config, error) {
	return b.p.Apply(ctx, field, value)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
