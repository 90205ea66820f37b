package bootstrap

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	collectorinadapter "deskpulse/internal/modules/collector/adapter/in"
	collectoroutadapter "deskpulse/internal/modules/collector/adapter/out"
	collectorservice "deskpulse/internal/modules/collector/service"
	collectorusecase "deskpulse/internal/modules/collector/usecase"
	sessioninadapter "deskpulse/internal/modules/session/adapter/in"
	sessionoutadapter "deskpulse/internal/modules/session/adapter/out"
	sessionservice "deskpulse/internal/modules/session/service"
	sessionusecase "deskpulse/internal/modules/session/usecase"
	wellnessinadapter "deskpulse/internal/modules/wellness/adapter/in"
	wellnessoutadapter "deskpulse/internal/modules/wellness/adapter/out"
	wellnessout "deskpulse/internal/modules/wellness/port/out"
	wellnessservice "deskpulse/internal/modules/wellness/service"
	wellnessusecase "deskpulse/internal/modules/wellness/usecase"
	"deskpulse/internal/platform/clock"
	"deskpulse/internal/platform/config"
	"deskpulse/internal/platform/id"
	uiapp "deskpulse/internal/ui/app"
)

type App struct {
	Config       config.Config
	Settings     *ConfigAdapter
	WellnessCLI  wellnessinadapter.CLIHandler
	SessionCLI   sessioninadapter.CLIHandler
	CollectorCLI collectorinadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "deskpulse",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: os.Stderr,
	})

	clk := clock.SystemClock{}

	sampleStore, err := wellnessoutadapter.NewSQLiteSampleStore(cfg.DBPath, clk)
	if err != nil {
		return nil, fmt.Errorf("new sample store: %w", err)
	}
	var source wellnessout.SampleSource = sampleStore
	if cfg.DemoMode {
		source = wellnessoutadapter.NewDemoSource(clk, clk.Now().UnixNano())
	}
	wellnessSvc := wellnessservice.NewWellnessService(source, sampleStore, logger.Named("wellness"))
	wellnessUC := wellnessusecase.NewInteractor(wellnessSvc, cfg.LookbackHours, cfg.SampleLimit)

	recordStore, err := sessionoutadapter.NewSQLiteRecordStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new record store: %w", err)
	}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, id.UUID{}, recordStore),
		sessionoutadapter.NewFileActiveSessionStore(cfg.StateDir),
		cfg.BreakFrequency(),
		cfg.BreakLength(),
	)

	collectorSvc := collectorservice.NewCollectorService(
		collectoroutadapter.NewFileManifestStore(cfg.DataPath),
		collectoroutadapter.NewGRPCHost(),
		logger.Named("collector"),
	)
	collectorUC := collectorusecase.NewInteractor(collectorSvc, wellnessUC, cfg.SampleLimit, logger.Named("harvest"))

	return &App{
		Config:       cfg,
		Settings:     NewConfigAdapter(cfg),
		WellnessCLI:  wellnessinadapter.NewCLIHandler(wellnessUC),
		SessionCLI:   sessioninadapter.NewCLIHandler(sessionUC),
		CollectorCLI: collectorinadapter.NewCLIHandler(collectorUC),
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Config, app.WellnessCLI, app.SessionCLI, app.CollectorCLI, app.Settings)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// ─── config adapter ──────────────────────────────────────────────────────────

// ConfigAdapter exposes the layered configuration to the settings screen and
// the config CLI commands. Edits are validated and written back to
// config.yaml; running timers keep their startup intervals.
type ConfigAdapter struct {
	mu  sync.Mutex
	cfg config.Config
}

func NewConfigAdapter(cfg config.Config) *ConfigAdapter {
	return &ConfigAdapter{cfg: cfg}
}

func (a *ConfigAdapter) Current(ctx context.Context) (config.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg, nil
}

func (a *ConfigAdapter) Apply(ctx context.Context, field, value string) (config.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.cfg
	if err := next.Set(field, value); err != nil {
		return config.Config{}, err
	}
	if err := next.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := next.Save(); err != nil {
		return config.Config{}, err
	}
	a.cfg = next
	return next, nil
}
