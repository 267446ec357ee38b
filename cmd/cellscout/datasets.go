// Datasets command: list the child datasets of a project.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets <project-id>",
	Short: "List the datasets of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		datasets, err := scout.Client().Datasets(cmd.Context(), id)
		if err != nil {
			return err
		}

		if len(datasets) == 0 {
			fmt.Println("project has no datasets")
		}
		for _, d := range datasets {
			fmt.Printf("%6d  %s\n", d.ID, d.Name)
		}
		return nil
	},
}
