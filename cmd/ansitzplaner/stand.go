package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ansitzplaner/internal/bootstrap"
	huntingdto "ansitzplaner/internal/modules/hunting/dto"
)

type standFlags struct {
	kind        string
	name        string
	description string
	lat         float64
	lng         float64
	height      float64
	orientation float64
	visibility  float64
	condition   string
	lastMaint   string
	nextMaint   string
	notes       string
	winds       []string
}

func (f *standFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "type", "", "hochsitz, kanzel, drueckjagdbock, ...")
	cmd.Flags().StringVar(&f.name, "name", "", "stand name")
	cmd.Flags().StringVar(&f.description, "description", "", "free-text description")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "longitude")
	cmd.Flags().Float64Var(&f.height, "height", 0, "height in meters")
	cmd.Flags().Float64Var(&f.orientation, "orientation", 0, "orientation in degrees")
	cmd.Flags().Float64Var(&f.visibility, "visibility", 0, "view distance in meters")
	cmd.Flags().StringVar(&f.condition, "condition", "", "gut, maessig, schlecht, ...")
	cmd.Flags().StringVar(&f.lastMaint, "last-maintenance", "", "YYYY-MM-DD")
	cmd.Flags().StringVar(&f.nextMaint, "next-maintenance", "", "YYYY-MM-DD")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
	cmd.Flags().StringSliceVar(&f.winds, "winds", nil, "favorable wind directions (N, NO, O, ...)")
}

func (f *standFlags) optional(cmd *cobra.Command, name string, v *float64) *float64 {
	if cmd.Flags().Changed(name) {
		return v
	}
	return nil
}

func (f *standFlags) input(cmd *cobra.Command) huntingdto.StandInput {
	return huntingdto.StandInput{
		Type:            f.kind,
		Name:            f.name,
		Description:     f.description,
		Position:        huntingdto.Position{Lat: f.lat, Lng: f.lng},
		HeightM:         f.optional(cmd, "height", &f.height),
		OrientationDeg:  f.optional(cmd, "orientation", &f.orientation),
		VisibilityM:     f.optional(cmd, "visibility", &f.visibility),
		Condition:       f.condition,
		LastMaintenance: f.lastMaint,
		NextMaintenance: f.nextMaint,
		Notes:           f.notes,
		FavorableWinds:  f.winds,
	}
}

func (f *standFlags) patch(cmd *cobra.Command) huntingdto.StandPatchInput {
	str := func(name string, v *string) *string {
		if cmd.Flags().Changed(name) {
			return v
		}
		return nil
	}
	patch := huntingdto.StandPatchInput{
		Type:            str("type", &f.kind),
		Name:            str("name", &f.name),
		Description:     str("description", &f.description),
		HeightM:         f.optional(cmd, "height", &f.height),
		OrientationDeg:  f.optional(cmd, "orientation", &f.orientation),
		VisibilityM:     f.optional(cmd, "visibility", &f.visibility),
		Condition:       str("condition", &f.condition),
		LastMaintenance: str("last-maintenance", &f.lastMaint),
		NextMaintenance: str("next-maintenance", &f.nextMaint),
		Notes:           str("notes", &f.notes),
	}
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
		patch.Position = &huntingdto.Position{Lat: f.lat, Lng: f.lng}
	}
	if cmd.Flags().Changed("winds") {
		patch.FavorableWinds = f.winds
	}
	return patch
}

func newStandCmd(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stand",
		Short: "Manage the stands of the active ground",
	}

	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.ListStands(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				w := cmd.OutOrStdout()
				for _, s := range out.Stands {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.5f,%.5f\t%s\n", s.ID, s.Type, s.Name, s.Position.Lat, s.Position.Lng, s.State)
				}
				_, _ = fmt.Fprintf(w, "source=%s\n", out.Source)
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	var add standFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a stand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(add.name) == "" {
				return fmt.Errorf("--name is required")
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.AddStand(ctx, add.input(cmd))
				if err != nil {
					return err
				}
				printStandWrite(cmd, out)
				return nil
			})
		},
	}
	add.register(addCmd)

	var update standFlags
	var updateID string
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change fields of a stand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(updateID) == "" {
				return fmt.Errorf("--id is required")
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.UpdateStand(ctx, updateID, update.patch(cmd))
				if err != nil {
					return err
				}
				printStandWrite(cmd, out)
				return nil
			})
		},
	}
	update.register(updateCmd)
	updateCmd.Flags().StringVar(&updateID, "id", "", "stand id")

	var removeID string
	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete a stand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(removeID) == "" {
				return fmt.Errorf("--id is required")
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.RemoveStand(ctx, removeID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s%s\n", removeID, queuedSuffix(out))
				return nil
			})
		},
	}
	removeCmd.Flags().StringVar(&removeID, "id", "", "stand id")

	cmd.AddCommand(listCmd, addCmd, updateCmd, removeCmd)
	return cmd
}

func printStandWrite(cmd *cobra.Command, out huntingdto.StandWriteOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s%s\n", out.Stand.ID, out.Stand.Name, queuedSuffix(out.WriteOutput))
}

func queuedSuffix(out huntingdto.WriteOutput) string {
	if !out.Queued {
		return ""
	}
	return fmt.Sprintf(" (offline, queued as %s)", out.OperationID)
}
