package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"ansitzplaner/internal/httpapi"
	huntingin "ansitzplaner/internal/modules/hunting/port/in"
	remoteoutadapter "ansitzplaner/internal/modules/remote/adapter/out"
	scoringin "ansitzplaner/internal/modules/scoring/port/in"
	syncin "ansitzplaner/internal/modules/syncqueue/port/in"
	weatherin "ansitzplaner/internal/modules/weather/port/in"
	"ansitzplaner/internal/platform/config"
	"ansitzplaner/internal/platform/logging"
	"ansitzplaner/internal/platform/sqlitedb"
)

const shutdownTimeout = 5 * time.Second

func newRouter(hunting huntingin.Usecase, scoring scoringin.Usecase, weather weatherin.Usecase, sync syncin.Usecase, logger hclog.Logger) http.Handler {
	return httpapi.NewRouter(httpapi.Services{
		Hunting: hunting,
		Scoring: scoring,
		Weather: weather,
		Sync:    sync,
		Logger:  logger,
	})
}

// Serve runs the HTTP API next to the connectivity loop until ctx is done
// or either of them fails.
func Serve(ctx context.Context, app *App) error {
	srv := &http.Server{
		Addr:              app.Config.HTTPAddr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Logger.Info("http api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := app.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ServeRemote exposes a SQLite-backed remote store over gRPC until ctx is
// done.
func ServeRemote(ctx context.Context, cfg config.Config, address string, logger hclog.Logger) error {
	logger = logging.OrNull(logger)
	db, err := sqlitedb.Open(cfg.Remote.ServerDB)
	if err != nil {
		return fmt.Errorf("open remote db: %w", err)
	}
	defer db.Close()
	backend, err := remoteoutadapter.NewSQLiteBackend(ctx, db)
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", address, err)
	}
	srv := remoteoutadapter.NewGRPCServer(backend, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("remote store listening", "addr", lis.Addr().String(), "db", cfg.Remote.ServerDB)
		return srv.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		srv.GracefulStop()
		return nil
	})
	return g.Wait()
}
