// Count command: fetch one full image, segment it, and write figures
// plus per-region measurements.
package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/omero-tools/cellscout/internal/utils"
	"github.com/omero-tools/cellscout/pkg/export"
	"github.com/omero-tools/cellscout/pkg/render"
)

var countCmd = &cobra.Command{
	Use:   "count <image-id>",
	Short: "Segment one image and count cells",
	Long: `Count fetches the full rendered image, converts it to grayscale,
binarizes it with --threshold, extracts 8-connected regions, rejects
debris with --min-area, and writes the grayscale, mask, and overlay
figures next to a regions spreadsheet. Zero regions is a valid result;
the overlay figure is skipped in that case.`,
	Args: cobra.ExactArgs(1),
	RunE: runCount,
}

func runCount(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	img, result, err := scout.Count(cmd.Context(), id)
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(cfg.OutputDir); err != nil {
		return fmt.Errorf("create output dir %s: %w", cfg.OutputDir, err)
	}

	figures := []struct {
		name string
		img  image.Image
	}{
		{export.FigImage, img},
		{export.FigGrayscale, result.Gray},
		{export.FigMask, result.Mask},
	}
	for _, fig := range figures {
		path := export.FigurePath(cfg.OutputDir, fig.name)
		if err := render.Save(fig.img, path, 90); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}

	if result.Count() > 0 {
		overlay := render.Overlay(img, result.Regions, cfg.SmoothWindow)
		path := export.FigurePath(cfg.OutputDir, export.FigOverlay)
		if err := render.Save(overlay, path, 90); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}

	path := export.FigurePath(cfg.OutputDir, export.RegionsWorkbook)
	if err := export.WriteRegions(path, result.Regions); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)

	fmt.Printf("image %d: %d cells (threshold %d, min area %d)\n",
		id, result.Count(), cfg.Threshold, cfg.MinArea)
	for i, r := range result.Regions {
		fmt.Printf("  %3d  area %5d  centroid (%.1f, %.1f)\n", i+1, r.Area, r.Centroid.X, r.Centroid.Y)
	}
	return nil
}
