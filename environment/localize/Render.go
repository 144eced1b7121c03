package localize

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// RenderMode selects what Render draws
type RenderMode string

const (
	// RenderImage draws the current box as an outline over a copy of
	// the original episode image
	RenderImage RenderMode = "image"

	// RenderBBox draws the current box filled on a blank canvas
	RenderBBox RenderMode = "bbox"

	// RenderHeatmap draws the filled box mask mapped through a jet
	// colormap
	RenderHeatmap RenderMode = "heatmap"
)

// Render draws the current bounding box in the requested mode and
// returns the drawn image. Rendering is a pure read of environment
// state; callers decide whether to display or save the result.
func (e *Env) Render(mode RenderMode) (image.Image, error) {
	if e.original == nil {
		return nil, fmt.Errorf("render: environment has no original image")
	}

	switch mode {
	case RenderImage:
		dc := gg.NewContextForImage(e.original)
		e.strokeBox(dc)
		return dc.Image(), nil

	case RenderBBox:
		dc := e.blankContext()
		e.fillBox(dc)
		return dc.Image(), nil

	case RenderHeatmap:
		dc := e.blankContext()
		e.fillBox(dc)
		return jetMap(dc.Image()), nil

	default:
		return nil, fmt.Errorf("render: no render mode %q", mode)
	}
}

// SaveFrame renders the environment in the given mode and writes the
// result to path as a PNG
func (e *Env) SaveFrame(path string, mode RenderMode) error {
	img, err := e.Render(mode)
	if err != nil {
		return fmt.Errorf("saveframe: %v", err)
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("saveframe: %v", err)
	}
	return nil
}

func (e *Env) blankContext() *gg.Context {
	bounds := e.original.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	return dc
}

func (e *Env) strokeBox(dc *gg.Context) {
	dc.SetRGB255(0, 255, 0)
	dc.SetLineWidth(3)
	dc.DrawRectangle(e.box.XMin, e.box.YMin, e.box.Width(), e.box.Height())
	dc.Stroke()
}

func (e *Env) fillBox(dc *gg.Context) {
	dc.SetRGB255(0, 255, 0)
	dc.DrawRectangle(e.box.XMin, e.box.YMin, e.box.Width(), e.box.Height())
	dc.Fill()
}

// jetMap maps the luminance of each pixel through a jet-style blue to
// red colormap
func jetMap(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			luma := (0.299*float64(r) + 0.587*float64(g) +
				0.114*float64(b)) / 0xffff
			out.Set(x, y, jet(luma))
		}
	}
	return out
}

// jet returns the jet colormap value for t in [0, 1]
func jet(t float64) color.RGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}

	r := clamp(1.5 - 4*math.Abs(t-0.75))
	g := clamp(1.5 - 4*math.Abs(t-0.5))
	b := clamp(1.5 - 4*math.Abs(t-0.25))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
