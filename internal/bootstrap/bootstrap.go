package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	huntinginadapter "ansitzplaner/internal/modules/hunting/adapter/in"
	huntingoutadapter "ansitzplaner/internal/modules/hunting/adapter/out"
	huntingservice "ansitzplaner/internal/modules/hunting/service"
	huntingusecase "ansitzplaner/internal/modules/hunting/usecase"
	remoteoutadapter "ansitzplaner/internal/modules/remote/adapter/out"
	remotedomain "ansitzplaner/internal/modules/remote/domain"
	remoteout "ansitzplaner/internal/modules/remote/port/out"
	remoteusecase "ansitzplaner/internal/modules/remote/usecase"
	scoringinadapter "ansitzplaner/internal/modules/scoring/adapter/in"
	scoringoutadapter "ansitzplaner/internal/modules/scoring/adapter/out"
	scoringservice "ansitzplaner/internal/modules/scoring/service"
	scoringusecase "ansitzplaner/internal/modules/scoring/usecase"
	syncinadapter "ansitzplaner/internal/modules/syncqueue/adapter/in"
	syncoutadapter "ansitzplaner/internal/modules/syncqueue/adapter/out"
	syncservice "ansitzplaner/internal/modules/syncqueue/service"
	syncusecase "ansitzplaner/internal/modules/syncqueue/usecase"
	weatherinadapter "ansitzplaner/internal/modules/weather/adapter/in"
	weatheroutadapter "ansitzplaner/internal/modules/weather/adapter/out"
	weatherservice "ansitzplaner/internal/modules/weather/service"
	weatherusecase "ansitzplaner/internal/modules/weather/usecase"
	"ansitzplaner/internal/platform/clock"
	"ansitzplaner/internal/platform/config"
	"ansitzplaner/internal/platform/id"
	"ansitzplaner/internal/platform/logging"
	"ansitzplaner/internal/platform/sqlitedb"
	uiapp "ansitzplaner/internal/ui/app"
)

const conflictBuffer = 16

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	HuntingCLI huntinginadapter.CLIHandler
	ScoringCLI scoringinadapter.CLIHandler
	WeatherCLI weatherinadapter.CLIHandler
	SyncCLI    syncinadapter.CLIHandler
	Router     http.Handler

	monitor   *syncoutadapter.Monitor
	trigger   *syncservice.ReconnectTrigger
	conflicts chan string
	closers   []io.Closer
}

// NewLogger builds the root logger from the configured level and format.
func NewLogger(cfg config.Config, out io.Writer) hclog.Logger {
	return logging.New("ansitzplaner", cfg.LogLevel, cfg.LogJSON, out)
}

func New(ctx context.Context, cfg config.Config, logger hclog.Logger) (*App, error) {
	logger = logging.OrNull(logger)
	clk := clock.SystemClock{}
	ids := id.UUID{}
	app := &App{Config: cfg, Logger: logger, conflicts: make(chan string, conflictBuffer)}

	db, err := sqlitedb.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	app.closers = append(app.closers, db)

	backend, probe, closer := openRemote(ctx, cfg, logger.Named("remote"))
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	remoteUC := remoteusecase.NewInteractor(backend, cfg.Remote.CallTimeout, logger.Named("remote"))

	app.monitor = syncoutadapter.NewMonitor(probe, cfg.Connectivity.ProbeInterval, cfg.Connectivity.ProbeTimeout, logger.Named("connectivity"))
	queue, err := syncoutadapter.NewSQLiteQueue(ctx, db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("new sync queue: %w", err)
	}
	confirmations, err := syncoutadapter.NewSQLiteConfirmationStore(ctx, db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("new confirmation store: %w", err)
	}
	syncManager := syncservice.NewManager(queue, confirmations, remoteUC, app.monitor, clk, ids, logger.Named("sync"))
	syncUC := syncusecase.NewInteractor(syncManager)
	app.trigger = syncservice.NewReconnectTrigger(syncManager, app.monitor, app.notifyConflict, logger.Named("sync"))

	loc, err := time.LoadLocation(cfg.Weather.Timezone)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("load weather timezone: %w", err)
	}
	weatherSource := weatheroutadapter.NewOpenMeteoClient(cfg.Weather.BaseURL, loc, &http.Client{Timeout: cfg.Weather.HTTPTimeout})
	weatherUC := weatherusecase.NewInteractor(weatherservice.NewProvider(weatherSource, clk, weatherservice.Options{
		CurrentTTL:  cfg.Weather.CurrentTTL,
		ForecastTTL: cfg.Weather.ForecastTTL,
		Location:    loc,
		Logger:      logger.Named("weather"),
	}), clk.Now)

	localStore, err := huntingoutadapter.NewSQLiteStore(ctx, db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("new hunting store: %w", err)
	}
	huntingLogger := logger.Named("hunting")
	huntingUC := huntingusecase.NewInteractor(huntingusecase.Deps{
		Stands:      huntingservice.NewStandService(remoteUC, syncUC, localStore, clk, ids, huntingLogger),
		Sessions:    huntingservice.NewSessionService(remoteUC, syncUC, localStore, huntingoutadapter.NewMarkdownJournal(cfg.JournalDir, loc), clk, ids, huntingLogger),
		ActiveStore: huntingoutadapter.NewFileActiveSessionStore(cfg.ActiveSessionPath),
		Preferences: huntingoutadapter.NewFilePreferenceStore(cfg.PreferencesPath),
		Weather:     weatherUC,
		Sync:        syncUC,
		HunterID:    cfg.HunterID,
		Logger:      huntingLogger,
	})

	scoringUC := scoringusecase.NewInteractor(scoringservice.NewPlanner(
		scoringoutadapter.NewHuntingHistory(huntingUC),
		scoringoutadapter.NewWeatherConditions(weatherUC),
		clk,
		logger.Named("scoring"),
	))

	app.HuntingCLI = huntinginadapter.NewCLIHandler(huntingUC)
	app.ScoringCLI = scoringinadapter.NewCLIHandler(scoringUC)
	app.WeatherCLI = weatherinadapter.NewCLIHandler(weatherUC)
	app.SyncCLI = syncinadapter.NewCLIHandler(syncUC)
	app.Router = newRouter(huntingUC, scoringUC, weatherUC, syncUC, logger.Named("http"))
	return app, nil
}

// openRemote never fails: an unreachable or unstartable backend leaves the
// app offline and every write goes to the queue.
func openRemote(ctx context.Context, cfg config.Config, logger hclog.Logger) (remoteout.Backend, syncoutadapter.Probe, io.Closer) {
	switch cfg.Remote.Mode {
	case config.RemoteModePlugin:
		manifests, err := remoteoutadapter.NewFileDriverManifestStore(cfg.Remote.PluginDir).Load(ctx)
		if err == nil {
			var manifest remotedomain.DriverManifest
			if manifest, err = remotedomain.SelectDriver(manifests, cfg.Remote.PluginName); err == nil {
				var backend *remoteoutadapter.PluginBackend
				if backend, err = remoteoutadapter.StartPluginBackend(manifest, logger.Named("driver")); err == nil {
					return backend, pluginProbe(backend), backend
				}
			}
		}
		logger.Warn("remote driver unavailable, working offline", "driver", cfg.Remote.PluginName, "error", err)
		return nil, unreachable(err), nil
	default:
		backend, err := remoteoutadapter.DialGRPC(cfg.Remote.Address)
		if err != nil {
			logger.Warn("remote client unavailable, working offline", "address", cfg.Remote.Address, "error", err)
			return nil, unreachable(err), nil
		}
		return backend, syncoutadapter.DialProbe(cfg.Remote.Address), backend
	}
}

func pluginProbe(backend *remoteoutadapter.PluginBackend) syncoutadapter.Probe {
	return func(context.Context) error {
		if backend.Exited() {
			return errors.New("remote driver exited")
		}
		return nil
	}
}

func unreachable(cause error) syncoutadapter.Probe {
	return func(context.Context) error { return cause }
}

func (a *App) notifyConflict(message string) {
	a.Logger.Info("sync conflict resolved by overwrite", "message", message)
	select {
	case a.conflicts <- message:
	default:
	}
}

// Conflicts delivers user-facing messages from conflicts resolved by
// background drains. Messages are dropped when nobody reads them.
func (a *App) Conflicts() <-chan string {
	return a.conflicts
}

// Run keeps the reconnect drain registered and polls connectivity until ctx
// is done.
func (a *App) Run(ctx context.Context) error {
	a.trigger.Register(ctx)
	defer a.trigger.Unregister()
	return a.monitor.Run(ctx)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.Error("connectivity loop stopped", "error", err)
		}
	}()
	model := uiapp.NewModel(uiapp.Deps{
		Hunting:   app.HuntingCLI,
		Scoring:   app.ScoringCLI,
		Weather:   app.WeatherCLI,
		Sync:      app.SyncCLI,
		Conflicts: app.Conflicts(),
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
