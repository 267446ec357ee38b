// Images command: list the child images of a dataset.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:   "images <dataset-id>",
	Short: "List the images of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		images, err := scout.Client().Images(cmd.Context(), id)
		if err != nil {
			return err
		}

		if len(images) == 0 {
			fmt.Println("dataset has no images")
		}
		for _, img := range images {
			fmt.Printf("%6d  %-30s %s\n", img.ID, img.Name, img.ThumbURL)
		}
		return nil
	},
}
