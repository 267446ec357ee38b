// Projects command: list curated experiment projects and optionally
// write the project table to a spreadsheet.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omero-tools/cellscout/internal/utils"
	"github.com/omero-tools/cellscout/pkg/export"
)

var flagProjectsSave bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List experiment projects, sorted by id",
	Long: `Projects lists all projects on the server whose name carries the
experiment marker, sorted ascending by id. With --save the table is also
written to ` + export.ProjectsWorkbook + ` in the output directory.`,
	Args: cobra.NoArgs,
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&flagProjectsSave, "save", false, "write the table to a spreadsheet")
}

func runProjects(cmd *cobra.Command, args []string) error {
	projects, err := scout.Projects(cmd.Context())
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Println("no experiment projects found")
	}
	for _, p := range projects {
		fmt.Printf("%6d  %s\n", p.ID, p.Name)
	}

	if flagProjectsSave {
		if err := utils.EnsureDir(cfg.OutputDir); err != nil {
			return fmt.Errorf("create output dir %s: %w", cfg.OutputDir, err)
		}
		path := export.FigurePath(cfg.OutputDir, export.ProjectsWorkbook)
		if err := export.WriteProjects(path, projects); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}
