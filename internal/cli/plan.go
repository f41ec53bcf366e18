package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/icon-backdrop/internal/config"
	"github.com/ironsheep/icon-backdrop/internal/imaging"
	"github.com/ironsheep/icon-backdrop/internal/layout"
	"github.com/ironsheep/icon-backdrop/internal/pipeline"
)

// planReport is the JSON document printed by the plan command.
type planReport struct {
	Icons   []string         `json:"icons"`
	Skipped []skippedReport  `json:"skipped,omitempty"`
	Outputs []string         `json:"outputs"`
	Plan    *layout.GridPlan `json:"plan"`
}

type skippedReport struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func newPlanCmd(configPath *string) *cobra.Command {
	var (
		overlayPath  string
		overlayColor string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the grid layout as JSON without rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			preview, err := pipeline.Prepare(ctx, cfg, logger)
			if err != nil {
				return err
			}

			report := planReport{
				Outputs: cfg.OutputPaths().All(),
				Plan:    preview.Plan,
			}
			for _, icon := range preview.Inventory.Icons {
				report.Icons = append(report.Icons, icon.Path)
			}
			for _, s := range preview.Inventory.Skipped {
				report.Skipped = append(report.Skipped, skippedReport{Path: s.Path, Reason: s.Err.Error()})
			}

			if overlayPath != "" {
				if err := writeOverlay(overlayPath, overlayColor, cfg, preview.Plan); err != nil {
					return err
				}
				logger.Info("Wrote layout overlay", "path", overlayPath)
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode plan: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&overlayPath, "overlay", "", "also write a PNG showing each placement as an outlined, numbered square")
	cmd.Flags().StringVar(&overlayColor, "overlay-color", "#FF0000", "outline colour for --overlay")
	return cmd
}

// writeOverlay draws the plan's placements on a blank canvas and saves it.
func writeOverlay(path, outlineHex string, cfg *config.Config, plan *layout.GridPlan) error {
	bg, err := imaging.ParseBackground(cfg.BackgroundColor, cfg.ImageTransparency)
	if err != nil {
		return err
	}
	outline, err := imaging.ParseBackground(outlineHex, 255)
	if err != nil {
		return err
	}
	return imaging.SavePNG(path, imaging.OverlayPlan(imaging.Blank(plan, bg), plan, outline))
}
