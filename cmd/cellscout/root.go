// Root command: global flags, config loading, and scout construction.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/omero-tools/cellscout"
	"github.com/omero-tools/cellscout/internal/config"
)

// Global flag values.
var (
	flagConfig    string
	flagBaseURL   string
	flagOut       string
	flagMarker    string
	flagThreshold int
	flagMinArea   int
	flagSmooth    int
	flagWorkers   int
	flagVerbose   bool
)

// scout is the shared pipeline instance and cfg the resolved
// configuration, both initialized by PersistentPreRunE so every
// subcommand can use them.
var (
	scout *cellscout.Scout
	cfg   config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cellscout",
	Short: "Browse a microscopy image repository and count cells",
	Long: `cellscout walks the Project -> Dataset -> Image hierarchy of an
OMERO-style image repository over its public HTTP API, flattens project
metadata into tables, fetches thumbnails and full images, and runs a
threshold-based segmentation to count cells.`,
	Version:           cellscout.Version,
	PersistentPreRunE: initScout,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (YAML; defaults apply when omitted)")
	pf.StringVar(&flagBaseURL, "base-url", "", "repository base URL (default: https://idr.openmicroscopy.org)")
	pf.StringVar(&flagOut, "out", "", "output directory (default: out)")
	pf.StringVar(&flagMarker, "marker", "", "experiment marker for project filtering (default: /experiment)")
	pf.IntVar(&flagThreshold, "threshold", 0, "binarization threshold, 0-255")
	pf.IntVar(&flagMinArea, "min-area", 0, "debris filter: reject regions with area <= this")
	pf.IntVar(&flagSmooth, "smooth-window", 0, "boundary smoothing window for overlays")
	pf.IntVar(&flagWorkers, "workers", 0, "concurrent thumbnail fetches")
	pf.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(thumbsCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// initScout loads the configuration, layers flag overrides on top, and
// builds the shared Scout.
func initScout(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = flagBaseURL
	}
	if flags.Changed("out") {
		cfg.OutputDir = flagOut
	}
	if flags.Changed("marker") {
		cfg.ExperimentMarker = flagMarker
	}
	if flags.Changed("threshold") {
		cfg.Threshold = flagThreshold
	}
	if flags.Changed("min-area") {
		cfg.MinArea = flagMinArea
	}
	if flags.Changed("smooth-window") {
		cfg.SmoothWindow = flagSmooth
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}

	scout, err = cellscout.New(cfg, cellscout.WithLogger(newLogger()))
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// parseID parses a positional id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q (expected a positive integer)", arg)
	}
	return id, nil
}
