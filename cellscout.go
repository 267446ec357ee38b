// Package cellscout navigates OMERO-style microscopy image repositories
// and runs a threshold-based cell count over the images it finds.
//
// The repository exposes a three-level Project -> Dataset -> Image
// hierarchy over a plain HTTP JSON API. cellscout walks it in order:
// list projects, resolve one project's metadata and annotations, drill
// into one dataset, fetch thumbnails and one full image, then segment
// that image and report per-cell area, centroid, and boundary.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		"github.com/omero-tools/cellscout"
//		"github.com/omero-tools/cellscout/internal/config"
//	)
//
//	func main() {
//		cfg := config.Default()
//		cfg.ProjectID = 101
//
//		scout, err := cellscout.New(cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		report, err := scout.Run(context.Background())
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("counted %d cells\n", len(report.Regions))
//	}
//
// The package consists of four main components:
//
// 1. Client (pkg/omero): hierarchy navigation and image fetching
// 2. Flattener (pkg/meta): description fields and annotation maps
// 3. Segmenter (pkg/segment): thresholding and region extraction
// 4. Render/Export (pkg/render, pkg/export): figures and spreadsheets
package cellscout

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/omero-tools/cellscout/internal/config"
	"github.com/omero-tools/cellscout/internal/utils"
	"github.com/omero-tools/cellscout/pkg/export"
	"github.com/omero-tools/cellscout/pkg/meta"
	"github.com/omero-tools/cellscout/pkg/omero"
	"github.com/omero-tools/cellscout/pkg/render"
	"github.com/omero-tools/cellscout/pkg/segment"
)

// Version of the cellscout library.
const Version = "1.0.0"

// Scout wires the repository client to the segmentation pipeline.
type Scout struct {
	client    *omero.Client
	segmenter *segment.Segmenter
	schema    meta.DescriptionSchema
	config    config.Config
	log       zerolog.Logger
}

// Option configures a Scout.
type Option func(*Scout)

// WithLogger attaches a logger to the Scout and its client.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scout) { s.log = log }
}

// New creates a Scout for the repository named in cfg.
func New(cfg config.Config, opts ...Option) (*Scout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scout{
		segmenter: segment.NewWithConfig(segment.Config{
			Threshold:    uint8(cfg.Threshold),
			MinArea:      cfg.MinArea,
			SmoothWindow: cfg.SmoothWindow,
		}),
		schema: meta.DefaultDescriptionSchema(),
		config: cfg,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	client, err := omero.NewClient(cfg.BaseURL, omero.WithLogger(s.log))
	if err != nil {
		return nil, err
	}
	s.client = client
	return s, nil
}

// Client exposes the underlying repository client.
func (s *Scout) Client() *omero.Client {
	return s.client
}

// Projects lists the curated experiment projects, sorted by id.
func (s *Scout) Projects(ctx context.Context) ([]omero.Project, error) {
	projects, err := s.client.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return omero.FilterExperiments(projects, s.config.ExperimentMarker), nil
}

// Describe fetches one project's detail record, resolves its
// description fields, and flattens its annotations.
func (s *Scout) Describe(ctx context.Context, projectID int64) (meta.ProjectDetail, map[string]string, error) {
	project, err := s.client.Project(ctx, projectID)
	if err != nil {
		return meta.ProjectDetail{}, nil, err
	}

	detail, err := meta.ResolveProject(project, s.schema)
	if err != nil {
		return meta.ProjectDetail{}, nil, fmt.Errorf("project %d: %w", projectID, err)
	}

	annotations, err := s.client.Annotations(ctx, projectID)
	if err != nil {
		return meta.ProjectDetail{}, nil, err
	}

	return detail, meta.FlattenAnnotation(annotations), nil
}

// MontageDataset fetches every thumbnail of a dataset and lays them out
// on a grid in dataset order.
func (s *Scout) MontageDataset(ctx context.Context, datasetID int64) (*image.NRGBA, []omero.Image, error) {
	images, err := s.client.Images(ctx, datasetID)
	if err != nil {
		return nil, nil, err
	}

	thumbs, err := s.client.Thumbnails(ctx, images, s.config.Workers)
	if err != nil {
		return nil, nil, err
	}

	return render.Montage(thumbs, s.config.MontageColumns, s.config.MontageTile), images, nil
}

// Count fetches one full-resolution image and segments it.
func (s *Scout) Count(ctx context.Context, imageID int64) (image.Image, segment.Result, error) {
	img, err := s.client.RenderImage(ctx, imageID)
	if err != nil {
		return nil, segment.Result{}, err
	}
	result := s.segmenter.Segment(img)
	s.log.Info().Int64("image", imageID).Int("regions", result.Count()).Msg("segmented image")
	return img, result, nil
}

// Report collects everything one full pass produced.
type Report struct {
	Projects []omero.Project
	Detail   meta.ProjectDetail
	Metadata map[string]string
	Datasets []omero.Dataset
	Images   []omero.Image
	Regions  []segment.Region
	// Outputs lists every file written, in write order.
	Outputs []string
}

// Run executes the full pass: list and filter projects, write the
// project table, resolve the selected project, drill into the selected
// dataset, build the thumbnail montage, then fetch and segment the
// selected image and write its figures and measurements.
//
// Selection falls back to the first entry at each level when the
// configured id is zero. An empty level (no matching projects, no
// datasets, no images) ends the run early with a valid partial report.
func (s *Scout) Run(ctx context.Context) (Report, error) {
	var report Report

	if err := utils.EnsureDir(s.config.OutputDir); err != nil {
		return report, fmt.Errorf("create output dir %s: %w", s.config.OutputDir, err)
	}

	projects, err := s.Projects(ctx)
	if err != nil {
		return report, err
	}
	report.Projects = projects

	tablePath := export.FigurePath(s.config.OutputDir, export.ProjectsWorkbook)
	if err := export.WriteProjects(tablePath, projects); err != nil {
		return report, err
	}
	report.Outputs = append(report.Outputs, tablePath)

	projectID := s.config.ProjectID
	if projectID == 0 {
		if len(projects) == 0 {
			s.log.Warn().Msg("no experiment projects found, stopping after project table")
			return report, nil
		}
		projectID = projects[0].ID
	}

	detail, metadata, err := s.Describe(ctx, projectID)
	if err != nil {
		return report, err
	}
	report.Detail = detail
	report.Metadata = metadata

	datasets, err := s.client.Datasets(ctx, projectID)
	if err != nil {
		return report, err
	}
	report.Datasets = datasets

	datasetID := s.config.DatasetID
	if datasetID == 0 {
		if len(datasets) == 0 {
			s.log.Warn().Int64("project", projectID).Msg("project has no datasets")
			return report, nil
		}
		datasetID = datasets[0].ID
	}

	montage, images, err := s.MontageDataset(ctx, datasetID)
	if err != nil {
		return report, err
	}
	report.Images = images

	montagePath := export.FigurePath(s.config.OutputDir, export.FigMontage)
	if err := render.Save(montage, montagePath, 90); err != nil {
		return report, err
	}
	report.Outputs = append(report.Outputs, montagePath)

	imageID := s.config.ImageID
	if imageID == 0 {
		if len(images) == 0 {
			s.log.Warn().Int64("dataset", datasetID).Msg("dataset has no images")
			return report, nil
		}
		imageID = images[0].ID
	}

	img, result, err := s.Count(ctx, imageID)
	if err != nil {
		return report, err
	}
	report.Regions = result.Regions

	figures := []struct {
		name string
		img  image.Image
	}{
		{export.FigImage, img},
		{export.FigGrayscale, result.Gray},
		{export.FigMask, result.Mask},
	}
	for _, fig := range figures {
		path := export.FigurePath(s.config.OutputDir, fig.name)
		if err := render.Save(fig.img, path, 90); err != nil {
			return report, err
		}
		report.Outputs = append(report.Outputs, path)
	}

	// Zero regions is a valid result; there is just nothing to overlay.
	if result.Count() > 0 {
		overlay := render.Overlay(img, result.Regions, s.config.SmoothWindow)
		overlayPath := export.FigurePath(s.config.OutputDir, export.FigOverlay)
		if err := render.Save(overlay, overlayPath, 90); err != nil {
			return report, err
		}
		report.Outputs = append(report.Outputs, overlayPath)
	}

	regionsPath := export.FigurePath(s.config.OutputDir, export.RegionsWorkbook)
	if err := export.WriteRegions(regionsPath, result.Regions); err != nil {
		return report, err
	}
	report.Outputs = append(report.Outputs, regionsPath)

	return report, nil
}
