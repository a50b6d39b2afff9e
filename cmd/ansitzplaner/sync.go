package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ansitzplaner/internal/bootstrap"
	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
)

func newSyncCmd(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect and drain the offline queue",
	}

	var asJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show connectivity and pending operations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SyncCLI.Status(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				printStatus(cmd, out)
				return nil
			})
		},
	}
	statusCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	drainCmd := &cobra.Command{
		Use:   "drain",
		Short: "Replay pending operations against the remote store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SyncCLI.Drain(ctx, func(message string) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "conflict: %s\n", message)
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "attempted=%d replayed=%d conflicts=%d failed=%d remaining=%d offline=%t skipped=%t\n",
					out.Attempted, out.Replayed, out.Conflicts, out.Failed, out.Remaining, out.Offline, out.Skipped)
				return nil
			})
		},
	}

	var discardID string
	discardCmd := &cobra.Command{
		Use:   "discard",
		Short: "Drop a pending operation without replaying it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(discardID) == "" {
				return fmt.Errorf("--id is required")
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.SyncCLI.Discard(ctx, discardID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "discarded %s\n", discardID)
				return nil
			})
		},
	}
	discardCmd.Flags().StringVar(&discardID, "id", "", "operation id")

	var every time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll connectivity and drain on reconnect until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				return watch(ctx, cmd, app, every)
			})
		},
	}
	watchCmd.Flags().DurationVar(&every, "every", 30*time.Second, "status print interval")

	cmd.AddCommand(statusCmd, drainCmd, discardCmd, watchCmd)
	return cmd
}

func watch(ctx context.Context, cmd *cobra.Command, app *bootstrap.App, every time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := app.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case message := <-app.Conflicts():
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "conflict: %s\n", message)
			case <-ticker.C:
				out, err := app.SyncCLI.Status(gctx)
				if err != nil {
					return err
				}
				printStatus(cmd, out)
			}
		}
	})
	return g.Wait()
}

func printStatus(cmd *cobra.Command, out syncdto.StatusOutput) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "online=%t health=%s pending=%d replayed=%d conflicts=%d\n",
		out.Online, out.Health, len(out.Pending), out.Replayed, out.Conflicts)
	if out.Reason != "" {
		_, _ = fmt.Fprintf(w, "reason: %s\n", out.Reason)
	}
	for _, op := range out.Pending {
		_, _ = fmt.Fprintf(w, "  %s %s %s %s %s\n", op.ID, op.Kind, op.Table, op.RecordID, op.CreatedAt.Format(time.DateTime))
	}
}
