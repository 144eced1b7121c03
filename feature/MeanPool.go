package feature

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"

	"github.com/golocate/golocate/utils/matutils"
)

// MeanPool is a cheap, deterministic Extractor that divides an image
// into a grid of cells and averages the luminance of each cell. The
// resulting embedding has one value per cell, each in [0, 1].
//
// MeanPool stands in for a pretrained convolutional extractor in
// tests, examples, and environment presets. It carries no state and
// may be shared between environment instances.
type MeanPool struct {
	grid int
}

// NewMeanPool returns a MeanPool that pools over a grid x grid
// partition of the image
func NewMeanPool(grid int) (*MeanPool, error) {
	if grid <= 0 {
		return nil, fmt.Errorf("newmeanpool: non-positive grid size %d", grid)
	}
	return &MeanPool{grid: grid}, nil
}

// Len returns the length of feature vectors produced by the MeanPool
func (m *MeanPool) Len() int {
	return m.grid * m.grid
}

// Features returns the grid of mean cell luminances of img, flattened
// row-major into a vector
func (m *MeanPool) Features(img image.Image) (*mat.VecDense, error) {
	if img == nil {
		return nil, fmt.Errorf("features: nil image")
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < m.grid || h < m.grid {
		return nil, fmt.Errorf("features: image %dx%d smaller than pooling "+
			"grid %d", w, h, m.grid)
	}

	features := make([]float64, m.Len())
	cellW := float64(w) / float64(m.grid)
	cellH := float64(h) / float64(m.grid)

	for row := 0; row < m.grid; row++ {
		for col := 0; col < m.grid; col++ {
			x0 := bounds.Min.X + int(float64(col)*cellW)
			y0 := bounds.Min.Y + int(float64(row)*cellH)
			x1 := bounds.Min.X + int(float64(col+1)*cellW)
			y1 := bounds.Min.Y + int(float64(row+1)*cellH)
			if x1 > bounds.Max.X {
				x1 = bounds.Max.X
			}
			if y1 > bounds.Max.Y {
				y1 = bounds.Max.Y
			}

			var sum float64
			var count int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					r, g, b, _ := img.At(x, y).RGBA()
					// Rec. 601 luma, components in [0, 0xffff]
					luma := 0.299*float64(r) + 0.587*float64(g) +
						0.114*float64(b)
					sum += luma / 0xffff
					count++
				}
			}
			if count > 0 {
				features[row*m.grid+col] = sum / float64(count)
			}
		}
	}

	vec := mat.NewVecDense(m.Len(), features)

	// The luma weights sum to 1 only up to rounding; keep the
	// embedding inside its advertised range
	matutils.VecClip(vec, 0, 1)
	return vec, nil
}
