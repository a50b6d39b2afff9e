package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ansitzplaner/internal/bootstrap"
	scoringdto "ansitzplaner/internal/modules/scoring/dto"
)

type windowFlags struct {
	month   int
	from    int
	to      int
	species string
}

func (w *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&w.month, "month", 0, "month 1-12 (0 = current month)")
	cmd.Flags().IntVar(&w.from, "from", 0, "first hour of the window")
	cmd.Flags().IntVar(&w.to, "to", 0, "last hour of the window")
	cmd.Flags().StringVar(&w.species, "species", "", "species filter (default alle)")
}

func (w *windowFlags) input(cmd *cobra.Command) scoringdto.HeatmapInput {
	in := scoringdto.HeatmapInput{Month: w.month, Species: w.species}
	if cmd.Flags().Changed("from") {
		in.HourFrom = &w.from
	}
	if cmd.Flags().Changed("to") {
		in.HourTo = &w.to
	}
	return in
}

func newHeatmapCmd(dataDir *string) *cobra.Command {
	var window windowFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Score every stand of the active ground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ScoringCLI.Heatmap(ctx, window.input(cmd))
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "ground=%s month=%d window=%02d-%02d species=%s moon=%s weather=%t source=%s\n",
					out.GroundID, out.Month, out.HourFrom, out.HourTo, out.Species, out.MoonPhase, out.WeatherKnown, out.Source)
				for _, s := range out.Stands {
					_, _ = fmt.Fprintf(w, "%3d %-6s %s\t%s\tdata=%d\n", s.Score, s.Color, s.StandID, s.Name, s.DataPoints)
				}
				return nil
			})
		},
	}
	window.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newBestTimesCmd(dataDir *string) *cobra.Command {
	var window windowFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "best-times",
		Short: "Rank stands by their best hour",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ScoringCLI.BestTimes(ctx, window.input(cmd))
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				for _, t := range out.Stands {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%3d %s\t%s\t%s\n", t.Score, t.Label, t.StandID, t.Name)
				}
				return nil
			})
		},
	}
	window.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newStatsCmd(dataDir *string) *cobra.Command {
	var since string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the markdown statistics report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var from time.Time
			if strings.TrimSpace(since) != "" {
				parsed, err := time.Parse(time.DateOnly, since)
				if err != nil {
					return fmt.Errorf("--since must be YYYY-MM-DD: %w", err)
				}
				from = parsed
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ScoringCLI.Statistics(ctx, from)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Report)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "only sessions started on or after this date")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
