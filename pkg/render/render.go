// Package render turns fetched images and segmentation output into
// viewable figures: thumbnail grid montages, boundary/centroid overlays,
// and encoded files on disk.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/omero-tools/cellscout/pkg/segment"
)

// Overlay colors.
var (
	boundaryColor = color.NRGBA{255, 204, 0, 255} // gold
	centroidColor = color.NRGBA{255, 0, 0, 255}   // red
)

const montageBackground = 32 // dark gray

// Montage lays thumbnails out on a grid, left to right, top to bottom,
// in input order. Each thumbnail is fitted into a tile x tile cell with
// its aspect ratio preserved. A nil or empty input yields a single
// empty tile so callers can always write the figure.
func Montage(thumbs []image.Image, columns, tile int) *image.NRGBA {
	if columns < 1 {
		columns = 1
	}
	if tile < 1 {
		tile = 96
	}

	rows := (len(thumbs) + columns - 1) / columns
	if rows < 1 {
		rows = 1
	}

	canvas := imaging.New(columns*tile, rows*tile, color.NRGBA{montageBackground, montageBackground, montageBackground, 255})

	for i, thumb := range thumbs {
		if thumb == nil {
			continue
		}
		fitted := imaging.Fit(thumb, tile, tile, imaging.Lanczos)

		cellX := (i % columns) * tile
		cellY := (i / columns) * tile
		offsetX := cellX + (tile-fitted.Bounds().Dx())/2
		offsetY := cellY + (tile-fitted.Bounds().Dy())/2

		canvas = imaging.Paste(canvas, fitted, image.Pt(offsetX, offsetY))
	}

	return canvas
}

// Overlay draws each region's boundary and a centroid crosshair on a
// copy of the source image. Boundaries are smoothed with the given
// moving-average window before drawing; the regions themselves are not
// modified. With no regions the untouched copy is returned, so an empty
// segmentation still renders a valid figure.
func Overlay(img image.Image, regions []segment.Region, smoothWindow int) *image.NRGBA {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	cross := int(math.Max(3, 0.01*float64(min(w, h))))

	for _, region := range regions {
		boundary := segment.SmoothBoundary(region.Boundary, smoothWindow)
		for i, p := range boundary {
			next := boundary[(i+1)%len(boundary)]
			drawLine(nrgba, p, next, boundaryColor)
		}

		cx := int(region.Centroid.X + 0.5)
		cy := int(region.Centroid.Y + 0.5)
		drawHLine(nrgba, cy, cx-cross, cx+cross, centroidColor)
		drawVLine(nrgba, cx, cy-cross, cy+cross, centroidColor)
	}

	return nrgba
}

// Save encodes an image to path, choosing the format from the file
// extension (png, jpg/jpeg, or webp). An existing file is overwritten;
// failures carry the path.
func Save(img image.Image, path string, quality int) error {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		if err := webp.Encode(f, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	case "jpg", "jpeg":
		if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	case "png":
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("save %s: unsupported output format", path)
	}
}

// drawLine samples a straight segment between two image-plane points.
func drawLine(img *image.NRGBA, from, to segment.Point, c color.NRGBA) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		setPixel(img, int(from.X+t*dx+0.5), int(from.Y+t*dy+0.5), c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	for x := x0; x <= x1; x++ {
		setPixel(img, x, y, c)
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	for y := y0; y <= y1; y++ {
		setPixel(img, x, y, c)
	}
}

func setPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() || y < 0 || y >= img.Bounds().Dy() {
		return
	}
	i := y*img.Stride + x*4
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}
