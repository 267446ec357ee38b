// Package segment implements threshold-based cell segmentation: a
// grayscale pass, fixed-threshold binarization, 8-connected component
// labeling, and per-region area, centroid, and outer boundary
// extraction. Everything is deterministic for a given input and
// configuration; an empty region set is a valid result, not an error.
package segment

import (
	"image"

	"github.com/disintegration/imaging"
)

// Segmenter runs the thresholding pipeline over decoded images.
type Segmenter struct {
	config Config
}

// Config holds segmentation parameters.
type Config struct {
	// Threshold is the binarization cutoff: a pixel is foreground iff
	// its gray intensity is strictly greater.
	Threshold uint8
	// MinArea is the debris filter: regions with Area <= MinArea are
	// rejected.
	MinArea int
	// SmoothWindow is the moving-average width used when boundaries are
	// smoothed for display. It never affects area or centroid.
	SmoothWindow int
}

// DefaultConfig returns parameters that work for bright cells on a dark
// background in IDR-style rendered images.
func DefaultConfig() Config {
	return Config{
		Threshold:    90,
		MinArea:      20,
		SmoothWindow: 7,
	}
}

// New creates a Segmenter with default configuration.
func New() *Segmenter {
	return &Segmenter{config: DefaultConfig()}
}

// NewWithConfig creates a Segmenter with custom configuration.
func NewWithConfig(config Config) *Segmenter {
	return &Segmenter{config: config}
}

// Config returns the segmenter's configuration.
func (s *Segmenter) Config() Config {
	return s.config
}

// Point is an image-plane coordinate. X runs along columns, Y along
// rows, matching pixel indices.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is one connected foreground component.
type Region struct {
	// Area is the pixel count.
	Area int `json:"area"`
	// Centroid is the mean of the region's pixel coordinates.
	Centroid Point `json:"centroid"`
	// Boundary is the closed outer contour, traced clockwise along
	// pixel edges in unit steps. Points are lattice corners, so a 3x3
	// square yields 12 points. Interior holes are not traced.
	Boundary []Point `json:"boundary"`
}

// Result bundles the segmentation output with the intermediate images
// used for figures.
type Result struct {
	Gray    *image.Gray
	Mask    *image.Gray
	Regions []Region
}

// Count returns the number of retained regions.
func (r Result) Count() int {
	return len(r.Regions)
}

// Segment runs the full pipeline on a decoded image. Regions are
// returned in row-major discovery order of their first pixel, which is
// stable for a given input and configuration.
func (s *Segmenter) Segment(img image.Image) Result {
	gray := Grayscale(img)
	mask := Binarize(gray, s.config.Threshold)
	regions := findRegions(mask, s.config.MinArea)
	return Result{Gray: gray, Mask: mask, Regions: regions}
}

// Grayscale converts an image to single-channel intensity using
// standard luminance weighting. A *image.Gray input is returned as is.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	nrgba := imaging.Grayscale(img)
	bounds := nrgba.Bounds()
	gray := image.NewGray(bounds)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			gray.Pix[y*gray.Stride+x] = nrgba.Pix[y*nrgba.Stride+x*4]
		}
	}
	return gray
}

// Binarize produces a 0/255 mask: foreground iff intensity > threshold.
// A threshold at or above the maximum intensity yields an empty mask.
func Binarize(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	mask := image.NewGray(bounds)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			if gray.Pix[y*gray.Stride+x] > threshold {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

// findRegions labels 8-connected foreground components in row-major
// scan order, rejects those with area <= minArea, and traces the outer
// boundary of the survivors.
func findRegions(mask *image.Gray, minArea int) []Region {
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
	labels := make([]int32, w*h)

	var regions []Region
	var next int32

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] == 0 || labels[y*w+x] != 0 {
				continue
			}

			next++
			area, sumX, sumY := floodFill(mask, labels, x, y, next)
			if area <= minArea {
				continue
			}

			regions = append(regions, Region{
				Area: area,
				Centroid: Point{
					X: float64(sumX) / float64(area),
					Y: float64(sumY) / float64(area),
				},
				Boundary: traceBoundary(labels, w, h, next, x, y),
			})
		}
	}

	return regions
}

// floodFill labels one 8-connected component starting at (x, y) and
// returns its pixel count and coordinate sums.
func floodFill(mask *image.Gray, labels []int32, x, y int, label int32) (area, sumX, sumY int) {
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()

	stack := []image.Point{{X: x, Y: y}}
	labels[y*w+x] = label

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		area++
		sumX += p.X
		sumY += p.Y

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if mask.Pix[ny*mask.Stride+nx] == 0 || labels[ny*w+nx] != 0 {
					continue
				}
				labels[ny*w+nx] = label
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}

	return area, sumX, sumY
}

// Edge-following directions, clockwise: east, south, west, north.
var dirs = [4]image.Point{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}

// traceBoundary walks the outer contour of one labeled component along
// pixel edges, clockwise with the component on the right-hand side.
// (startX, startY) must be the component's row-major first pixel. The
// walk starts at that pixel's top-left corner heading east and closes
// when it returns there. At saddle corners (two pixels of the component
// touching diagonally) the left turn is taken so an 8-connected
// component stays on a single contour.
func traceBoundary(labels []int32, w, h int, label int32, startX, startY int) []Point {
	in := func(x, y int) bool {
		return x >= 0 && x < w && y >= 0 && y < h && labels[y*w+x] == label
	}

	// edgeValid reports whether stepping from corner (x, y) in
	// direction d follows a boundary edge with the component on the
	// right and background on the left.
	edgeValid := func(x, y, d int) bool {
		switch d {
		case 0: // east
			return in(x, y) && !in(x, y-1)
		case 1: // south
			return in(x-1, y) && !in(x, y)
		case 2: // west
			return in(x-1, y-1) && !in(x-1, y)
		default: // north
			return in(x, y-1) && !in(x-1, y-1)
		}
	}

	var boundary []Point
	x, y, d := startX, startY, 0

	for {
		boundary = append(boundary, Point{X: float64(x), Y: float64(y)})

		// Prefer straight, then left, then right: at saddles both
		// turns are valid and left keeps the contour on this component.
		switch {
		case edgeValid(x, y, d):
		case edgeValid(x, y, (d+3)%4):
			d = (d + 3) % 4
		default:
			d = (d + 1) % 4
		}

		x += dirs[d].X
		y += dirs[d].Y

		if x == startX && y == startY {
			return boundary
		}
	}
}

// SmoothBoundary applies a circular moving average of the given window
// width to a closed contour, for display only. Windows below 2 and
// contours shorter than the window are returned unchanged (copied).
func SmoothBoundary(boundary []Point, window int) []Point {
	smoothed := make([]Point, len(boundary))
	copy(smoothed, boundary)
	if window < 2 || len(boundary) < window {
		return smoothed
	}

	n := len(boundary)
	half := window / 2
	for i := range boundary {
		var sx, sy float64
		for j := i - half; j < i-half+window; j++ {
			p := boundary[((j%n)+n)%n]
			sx += p.X
			sy += p.Y
		}
		smoothed[i] = Point{X: sx / float64(window), Y: sy / float64(window)}
	}
	return smoothed
}

// TotalArea sums the pixel area of all regions.
func TotalArea(regions []Region) int {
	var total int
	for _, r := range regions {
		total += r.Area
	}
	return total
}
