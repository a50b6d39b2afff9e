package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ansitzplaner/internal/bootstrap"
	huntingdto "ansitzplaner/internal/modules/hunting/dto"
)

func newSessionCmd(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record a hunting session",
	}
	cmd.AddCommand(
		newSessionStartCmd(dataDir),
		newSessionSightingCmd(dataDir),
		newSessionHarvestCmd(dataDir),
		newSessionEndCmd(dataDir),
		newSessionActiveCmd(dataDir),
		newSessionListCmd(dataDir),
	)
	return cmd
}

func newSessionStartCmd(dataDir *string) *cobra.Command {
	var standID string
	var notes string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a session on a stand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(standID) == "" {
				return fmt.Errorf("--stand is required")
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.Start(ctx, standID, notes)
				if err != nil {
					return err
				}
				printSession(cmd, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&standID, "stand", "", "stand id")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newSessionSightingCmd(dataDir *string) *cobra.Command {
	var (
		in       huntingdto.SightingInput
		lat      float64
		lng      float64
		at       string
		distance float64
	)
	cmd := &cobra.Command{
		Use:   "sighting",
		Short: "Add a sighting to the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(in.Species) == "" {
				return fmt.Errorf("--species is required")
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				in.Position = &huntingdto.Position{Lat: lat, Lng: lng}
			}
			if cmd.Flags().Changed("distance") {
				in.DistanceM = &distance
			}
			if strings.TrimSpace(at) != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				in.At = parsed
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.Sighting(ctx, in)
				if err != nil {
					return err
				}
				printSession(cmd, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Species, "species", "", "species")
	cmd.Flags().IntVar(&in.Count, "count", 1, "number of animals")
	cmd.Flags().StringVar(&in.Sex, "sex", "", "maennlich, weiblich, unbekannt")
	cmd.Flags().StringVar(&in.Behavior, "behavior", "", "aesend, ziehend, fluechtend, ...")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.Flags().StringVar(&at, "at", "", "time of the sighting (RFC3339, default now)")
	cmd.Flags().Float64Var(&distance, "distance", 0, "distance in meters")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	return cmd
}

func newSessionHarvestCmd(dataDir *string) *cobra.Command {
	var (
		in     huntingdto.HarvestInput
		age    float64
		weight float64
	)
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Record the harvest of the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(in.Species) == "" {
				return fmt.Errorf("--species is required")
			}
			if cmd.Flags().Changed("age") {
				in.AgeYears = &age
			}
			if cmd.Flags().Changed("weight") {
				in.WeightKG = &weight
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.Harvest(ctx, in)
				if err != nil {
					return err
				}
				printSession(cmd, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Species, "species", "", "species")
	cmd.Flags().IntVar(&in.Count, "count", 1, "number of animals")
	cmd.Flags().StringVar(&in.Sex, "sex", "", "maennlich, weiblich, unbekannt")
	cmd.Flags().Float64Var(&age, "age", 0, "age in years")
	cmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg")
	cmd.Flags().StringVar(&in.Weapon, "weapon", "", "weapon")
	cmd.Flags().StringVar(&in.Caliber, "caliber", "", "caliber")
	cmd.Flags().StringVar(&in.Hit, "hit", "", "hit placement")
	cmd.Flags().StringVar(&in.Tracking, "tracking", "", "tracking notes")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	return cmd
}

func newSessionEndCmd(dataDir *string) *cobra.Command {
	var sessionID string
	var success bool
	var notes string
	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the active session and sync it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.End(ctx, sessionID, success, notes)
				if err != nil {
					return err
				}
				printSession(cmd, out.Session)
				w := cmd.OutOrStdout()
				if out.Synced {
					_, _ = fmt.Fprintln(w, "synced")
				} else {
					_, _ = fmt.Fprintf(w, "offline: %d operations queued\n", out.Queued)
				}
				if out.JournalPath != "" {
					_, _ = fmt.Fprintf(w, "journal: %s\n", out.JournalPath)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (defaults to the active session)")
	cmd.Flags().BoolVar(&success, "success", false, "mark the session successful")
	cmd.Flags().StringVar(&notes, "notes", "", "closing notes")
	return cmd
}

func newSessionActiveCmd(dataDir *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "active",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.Active(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				printSession(cmd, out)
				for _, s := range out.Sightings {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s %dx %s %s\n", s.At.Format("15:04"), s.Count, s.Species, s.Behavior)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newSessionListCmd(dataDir *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions of the active ground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.ListSessions(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				for _, s := range out.Sessions {
					printSession(cmd, s)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "source=%s\n", out.Source)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printSession(cmd *cobra.Command, s huntingdto.SessionOutput) {
	end := "offen"
	if s.End != nil {
		end = s.End.Format("15:04")
	}
	harvest := ""
	if s.Harvest != nil {
		harvest = fmt.Sprintf(" abschuss=%dx %s", s.Harvest.Count, s.Harvest.Species)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tstand=%s\t%s %s-%s\tsightings=%d success=%t%s\t%s\n",
		s.ID, s.StandID, s.Date, s.Start.Format("15:04"), end, len(s.Sightings), s.Success, harvest, s.State)
}
