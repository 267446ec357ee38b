// Thumbs command: fetch a dataset's thumbnails and write a grid montage.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omero-tools/cellscout/internal/utils"
	"github.com/omero-tools/cellscout/pkg/render"
)

var thumbsCmd = &cobra.Command{
	Use:   "thumbs <dataset-id>",
	Short: "Fetch a dataset's thumbnails into a montage",
	Long: `Thumbs fetches every thumbnail of the dataset (bounded by --workers)
and lays them out on a grid in dataset order. The montage is written to
montage_<dataset-name>.png in the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runThumbs,
}

func runThumbs(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	dataset, err := scout.Client().Dataset(cmd.Context(), id)
	if err != nil {
		return err
	}

	montage, images, err := scout.MontageDataset(cmd.Context(), id)
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(cfg.OutputDir); err != nil {
		return fmt.Errorf("create output dir %s: %w", cfg.OutputDir, err)
	}

	name := fmt.Sprintf("montage_%s.png", utils.SanitizeFilename(dataset.Name))
	path := filepath.Join(cfg.OutputDir, name)
	if err := render.Save(montage, path, 90); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d thumbnails)\n", path, len(images))
	return nil
}
