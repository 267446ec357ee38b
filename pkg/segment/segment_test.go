package segment

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grayWithSquare builds a dark grayscale image with one bright square.
func grayWithSquare(size, x0, y0, side int, bg, fg uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := bg
			if x >= x0 && x < x0+side && y >= y0 && y < y0+side {
				v = fg
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestSegmentSingleSquare(t *testing.T) {
	img := grayWithSquare(10, 3, 3, 3, 0, 200)

	s := NewWithConfig(Config{Threshold: 90, MinArea: 1})
	result := s.Segment(img)

	require.Equal(t, 1, result.Count())
	region := result.Regions[0]

	assert.Equal(t, 9, region.Area)
	assert.Equal(t, Point{X: 4, Y: 4}, region.Centroid)

	// The outer contour of a 3x3 square is 12 unit edges.
	require.Len(t, region.Boundary, 12)
	for i, p := range region.Boundary {
		next := region.Boundary[(i+1)%len(region.Boundary)]
		dx, dy := next.X-p.X, next.Y-p.Y
		assert.Equal(t, 1.0, dx*dx+dy*dy, "segment %d is not unit length", i)
	}
}

func TestDebrisFilter(t *testing.T) {
	img := grayWithSquare(10, 3, 3, 3, 0, 200)

	t.Run("min area at region size rejects it", func(t *testing.T) {
		s := NewWithConfig(Config{Threshold: 90, MinArea: 10})
		result := s.Segment(img)
		assert.Zero(t, result.Count())
	})

	t.Run("area equal to min is rejected", func(t *testing.T) {
		s := NewWithConfig(Config{Threshold: 90, MinArea: 9})
		assert.Zero(t, s.Segment(img).Count())
	})

	t.Run("no kept region at or below min", func(t *testing.T) {
		s := NewWithConfig(Config{Threshold: 90, MinArea: 5})
		for _, r := range s.Segment(img).Regions {
			assert.Greater(t, r.Area, 5)
		}
	})
}

func TestThresholdEdgeCases(t *testing.T) {
	img := grayWithSquare(10, 3, 3, 3, 0, 200)

	t.Run("threshold at max intensity yields empty result", func(t *testing.T) {
		s := NewWithConfig(Config{Threshold: 200, MinArea: 1})
		result := s.Segment(img)
		assert.Empty(t, result.Regions)
	})

	t.Run("threshold above max intensity yields empty result", func(t *testing.T) {
		s := NewWithConfig(Config{Threshold: 255, MinArea: 1})
		assert.Empty(t, s.Segment(img).Regions)
	})
}

func TestSegmentIdempotence(t *testing.T) {
	img := grayWithSquare(20, 2, 2, 5, 10, 180)
	s := NewWithConfig(Config{Threshold: 90, MinArea: 3})

	first := s.Segment(img)
	second := s.Segment(img)
	assert.Equal(t, first.Regions, second.Regions)
}

func TestThresholdMonotonicity(t *testing.T) {
	// Gradient image: raising the threshold must never grow the
	// total foreground area.
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 16)})
		}
	}

	prev := 16 * 16
	for _, threshold := range []uint8{0, 50, 100, 150, 200, 255} {
		s := NewWithConfig(Config{Threshold: threshold, MinArea: 0})
		total := TotalArea(s.Segment(img).Regions)
		assert.LessOrEqual(t, total, prev, "threshold %d grew foreground", threshold)
		prev = total
	}
}

func TestMultipleRegionsScanOrder(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	// Two squares; the upper-left one must be discovered first.
	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	s := NewWithConfig(Config{Threshold: 128, MinArea: 1})
	result := s.Segment(img)

	require.Equal(t, 2, result.Count())
	assert.Equal(t, 9, result.Regions[0].Area)
	assert.Equal(t, 16, result.Regions[1].Area)
	assert.Less(t, result.Regions[0].Centroid.Y, result.Regions[1].Centroid.Y)
}

func TestDiagonalPixelsAreOneRegion(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.SetGray(0, 0, color.Gray{Y: 255})
	img.SetGray(1, 1, color.Gray{Y: 255})

	s := NewWithConfig(Config{Threshold: 128, MinArea: 0})
	result := s.Segment(img)

	require.Equal(t, 1, result.Count())
	assert.Equal(t, 2, result.Regions[0].Area)
	// Figure-eight contour through the shared corner covers both pixels.
	assert.Len(t, result.Regions[0].Boundary, 8)
}

func TestGrayscale(t *testing.T) {
	t.Run("gray input passes through", func(t *testing.T) {
		img := grayWithSquare(10, 3, 3, 3, 0, 200)
		assert.Same(t, img, Grayscale(img))
	})

	t.Run("equal RGB channels keep their value", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				img.Set(x, y, color.RGBA{200, 200, 200, 255})
			}
		}
		gray := Grayscale(img)
		assert.Equal(t, uint8(200), gray.GrayAt(1, 1).Y)
	})
}

func TestSmoothBoundary(t *testing.T) {
	img := grayWithSquare(10, 3, 3, 3, 0, 200)
	s := NewWithConfig(Config{Threshold: 90, MinArea: 1, SmoothWindow: 5})
	region := s.Segment(img).Regions[0]

	smoothed := SmoothBoundary(region.Boundary, 5)

	t.Run("length preserved, corners rounded", func(t *testing.T) {
		require.Len(t, smoothed, len(region.Boundary))
		assert.NotEqual(t, region.Boundary, smoothed)
	})

	t.Run("reported region untouched", func(t *testing.T) {
		again := s.Segment(img).Regions[0]
		assert.Equal(t, 9, again.Area)
		assert.Equal(t, Point{X: 4, Y: 4}, again.Centroid)
		assert.Equal(t, region.Boundary, again.Boundary)
	})

	t.Run("window below 2 is a no-op", func(t *testing.T) {
		assert.Equal(t, region.Boundary, SmoothBoundary(region.Boundary, 1))
		assert.Equal(t, region.Boundary, SmoothBoundary(region.Boundary, 0))
	})

	t.Run("contour shorter than window is a no-op", func(t *testing.T) {
		short := []Point{{X: 0}, {X: 1}, {X: 2}}
		assert.Equal(t, short, SmoothBoundary(short, 5))
	})
}
