package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ansitzplaner/internal/bootstrap"
	huntingdto "ansitzplaner/internal/modules/hunting/dto"
)

func newGroundCmd(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ground",
		Short: "Select and inspect the active hunting ground",
	}

	var (
		id       string
		name     string
		role     string
		timezone string
		species  []string
		seasons  []string
		heatmap  bool
	)
	useCmd := &cobra.Command{
		Use:   "use",
		Short: "Make a ground the active one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("--id is required")
			}
			parsed, err := parseSeasons(seasons)
			if err != nil {
				return err
			}
			in := huntingdto.GroundInput{
				ID:             id,
				Name:           name,
				Role:           role,
				Timezone:       timezone,
				DefaultSpecies: species,
				Seasons:        parsed,
			}
			if cmd.Flags().Changed("heatmap") {
				in.HeatmapEnabled = &heatmap
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.UseGround(ctx, in)
				if err != nil {
					return err
				}
				printGround(cmd, out)
				return nil
			})
		},
	}
	useCmd.Flags().StringVar(&id, "id", "", "ground id")
	useCmd.Flags().StringVar(&name, "name", "", "ground name")
	useCmd.Flags().StringVar(&role, "role", "", "your role on the ground (default jaeger)")
	useCmd.Flags().StringVar(&timezone, "timezone", "", "IANA time zone of the ground")
	useCmd.Flags().StringSliceVar(&species, "species", nil, "default species")
	useCmd.Flags().StringArrayVar(&seasons, "season", nil, "open season as Species=MM-DD:MM-DD (repeatable)")
	useCmd.Flags().BoolVar(&heatmap, "heatmap", true, "enable the heatmap for this ground")

	var asJSON bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active ground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.HuntingCLI.ActiveGround(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), out)
				}
				printGround(cmd, out)
				return nil
			})
		},
	}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	cmd.AddCommand(useCmd, showCmd)
	return cmd
}

func parseSeasons(raw []string) (map[string]huntingdto.SeasonOutput, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]huntingdto.SeasonOutput, len(raw))
	for _, entry := range raw {
		species, span, ok := strings.Cut(entry, "=")
		from, to, ok2 := strings.Cut(span, ":")
		if !ok || !ok2 || strings.TrimSpace(species) == "" {
			return nil, fmt.Errorf("--season %q must look like Rehwild=05-01:01-31", entry)
		}
		out[strings.TrimSpace(species)] = huntingdto.SeasonOutput{From: from, To: to}
	}
	return out, nil
}

func printGround(cmd *cobra.Command, g huntingdto.GroundOutput) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "id=%s name=%s role=%s tz=%s heatmap=%t\n", g.ID, g.Name, g.Role, g.Timezone, g.HeatmapEnabled)
	_, _ = fmt.Fprintf(w, "permissions=%s\n", strings.Join(g.Permissions, ","))
	for species, season := range g.Seasons {
		_, _ = fmt.Fprintf(w, "season %s %s-%s\n", species, season.From, season.To)
	}
}
