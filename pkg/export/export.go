// Package export persists flat tables to spreadsheet files and owns the
// deterministic naming of output figures.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/omero-tools/cellscout/pkg/omero"
	"github.com/omero-tools/cellscout/pkg/segment"
)

// Fixed figure file names, stable across runs.
const (
	FigMontage   = "montage.png"
	FigImage     = "image.png"
	FigGrayscale = "grayscale.png"
	FigMask      = "mask.png"
	FigOverlay   = "overlay.png"

	// ProjectsWorkbook is the spreadsheet holding the project table.
	ProjectsWorkbook = "projects.xlsx"
	// RegionsWorkbook is the spreadsheet holding per-region measurements.
	RegionsWorkbook = "regions.xlsx"
)

// FigurePath joins an output directory with one of the fixed names.
func FigurePath(dir, name string) string {
	return filepath.Join(dir, name)
}

// WriteProjects serializes a project table to an .xlsx workbook,
// overwriting any existing file. An empty table writes a header-only
// sheet. Failures carry the path and cause.
func WriteProjects(path string, projects []omero.Project) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "projects"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	header := []interface{}{"id", "name", "description"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	for i, p := range projects {
		row := []interface{}{p.ID, p.Name, p.Description}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteRegions serializes region measurements to an .xlsx workbook,
// overwriting any existing file. Row order matches the region order.
func WriteRegions(path string, regions []segment.Region) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "regions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	header := []interface{}{"region", "area", "centroid_x", "centroid_y"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	for i, r := range regions {
		row := []interface{}{i + 1, r.Area, r.Centroid.X, r.Centroid.Y}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
