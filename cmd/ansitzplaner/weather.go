package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ansitzplaner/internal/bootstrap"
)

type coordinateFlags struct {
	lat float64
	lng float64
}

func (c *coordinateFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&c.lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&c.lng, "lng", 0, "longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
}

func newWeatherCmd(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Query weather and astronomy for a position",
	}

	var current coordinateFlags
	currentCmd := &cobra.Command{
		Use:   "current",
		Short: "Current conditions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.WeatherCLI.Current(ctx, current.lat, current.lng)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%.1f°C wind %s %d Bft, %s (%.1f mm), wolken %.0f%%, %.0f hPa, mond %s %d%%\n",
					out.TemperatureC, out.WindDirection, out.WindBeaufort, out.Precipitation, out.PrecipMM,
					out.CloudCoverPct, out.PressureHPa, out.MoonPhase, out.MoonIllumination)
				return nil
			})
		},
	}
	current.register(currentCmd)

	var week coordinateFlags
	weekCmd := &cobra.Command{
		Use:   "week",
		Short: "Seven-day forecast with hunting score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.WeatherCLI.Week(ctx, week.lat, week.lng)
				if err != nil {
					return err
				}
				for _, d := range out.Days {
					best := ""
					if d.Best {
						best = " *"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %5.1f/%5.1f°C %4.1f mm wind %s %d Bft score %3d%s\n",
						d.Date.Format("Mon 02.01."), d.TempMinC, d.TempMaxC, d.PrecipMM, d.WindDirection, d.WindBeaufort, d.Favorability, best)
				}
				return nil
			})
		},
	}
	week.register(weekCmd)

	var moon coordinateFlags
	var at string
	moonCmd := &cobra.Command{
		Use:   "moon",
		Short: "Moon phase, sun times and twilight",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var when time.Time
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				when = parsed
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.WeatherCLI.Astronomy(ctx, moon.lat, moon.lng, when)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "mond %s (%d%%)\n", out.MoonPhase, out.Illumination)
				_, _ = fmt.Fprintf(w, "daemmerung %s - %s, sonne %s - %s, jagdzeit=%t\n",
					out.Dawn.Format("15:04"), out.Dusk.Format("15:04"), out.Sunrise.Format("15:04"), out.Sunset.Format("15:04"), out.HuntingHour)
				return nil
			})
		},
	}
	moon.register(moonCmd)
	moonCmd.Flags().StringVar(&at, "at", "", "instant (RFC3339, default now)")

	cmd.AddCommand(currentCmd, weekCmd, moonCmd)
	return cmd
}
