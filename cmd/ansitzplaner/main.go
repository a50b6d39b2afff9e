package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"ansitzplaner/internal/bootstrap"
	"ansitzplaner/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "ansitzplaner",
		Short:         "Offline-first hunting log and stand planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newServeCmd(&dataDir))
	root.AddCommand(newHeatmapCmd(&dataDir))
	root.AddCommand(newBestTimesCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newWeatherCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newStandCmd(&dataDir))
	root.AddCommand(newGroundCmd(&dataDir))
	root.AddCommand(newSyncCmd(&dataDir))
	root.AddCommand(newRemoteCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	if dir := os.Getenv("ANSITZ_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ansitzplaner"
	}
	return filepath.Join(home, ".ansitzplaner")
}

func loadConfig(dataDir string) (config.Config, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return config.Config{}, fmt.Errorf("create data dir: %w", err)
	}
	return config.Load(dataDir)
}

func loadApp(ctx context.Context, dataDir string, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := loadConfig(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, bootstrap.NewLogger(cfg, logOut))
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(cmd *cobra.Command, dataDir string, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := loadApp(cmd.Context(), dataDir, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(cmd.Context(), app)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(*dataDir, 0o755); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(*dataDir, "ansitzplaner.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()
			app, err := loadApp(cmd.Context(), *dataDir, logFile)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newServeCmd(dataDir *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and keep the sync queue draining",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				if addr != "" {
					app.Config.HTTPAddr = addr
				}
				return bootstrap.Serve(ctx, app)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http_addr)")
	return cmd
}

func newRemoteCmd(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Run the shared remote store",
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose a SQLite remote store over gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*dataDir)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Remote.Address
			}
			return bootstrap.ServeRemote(cmd.Context(), cfg, addr, bootstrap.NewLogger(cfg, cmd.ErrOrStderr()))
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to remote.address)")

	cmd.AddCommand(serveCmd)
	return cmd
}
