// Package localize implements an active object localization environment.
//
// An agent is shown an image containing a target object and controls a
// bounding box over that image. On each step the agent either edits
// the box geometrically (translate, scale, or deform it) or fires a
// terminal trigger action declaring the object found. Geometric edits
// are rewarded by the sign of the change in overlap with the target
// region, and the trigger is rewarded by whether the final overlap
// clears a threshold.
package localize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/golocate/golocate/utils/floatutils"
)

// Box is an axis-aligned bounding box in pixel coordinates. A Box is
// well formed when XMin <= XMax and YMin <= YMax; geometric edits with
// large step fractions can produce inverted boxes, which Canonical
// repairs.
type Box struct {
	XMin, YMin, XMax, YMax float64
}

// NewBox returns the box spanning (xmin, ymin) to (xmax, ymax)
func NewBox(xmin, ymin, xmax, ymax float64) Box {
	return Box{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}
}

// Width returns the horizontal extent of the box
func (b Box) Width() float64 {
	return b.XMax - b.XMin
}

// Height returns the vertical extent of the box
func (b Box) Height() float64 {
	return b.YMax - b.YMin
}

// Area returns the area of the box. Inverted boxes have negative
// width or height and so may report a non-positive area.
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Clip clamps each coordinate of the box independently into
// [0, width] horizontally and [0, height] vertically. Clamping is
// per-coordinate and preserves coordinate order: it cannot invert a
// well-formed box.
func (b Box) Clip(width, height float64) Box {
	xBounds := r1.Interval{Min: 0, Max: width}
	yBounds := r1.Interval{Min: 0, Max: height}

	return Box{
		XMin: floatutils.ClipInterval(b.XMin, xBounds),
		YMin: floatutils.ClipInterval(b.YMin, yBounds),
		XMax: floatutils.ClipInterval(b.XMax, xBounds),
		YMax: floatutils.ClipInterval(b.YMax, yBounds),
	}
}

// Canonical reorders inverted coordinate pairs so that XMin <= XMax
// and YMin <= YMax, returning the repaired box and whether any repair
// was needed.
func (b Box) Canonical() (Box, bool) {
	swapped := false
	if b.XMin > b.XMax {
		b.XMin, b.XMax = b.XMax, b.XMin
		swapped = true
	}
	if b.YMin > b.YMax {
		b.YMin, b.YMax = b.YMax, b.YMin
		swapped = true
	}
	return b, swapped
}

// Vec returns the box as a length-4 vector (xmin, ymin, xmax, ymax)
func (b Box) Vec() *mat.VecDense {
	return mat.NewVecDense(4, []float64{b.XMin, b.YMin, b.XMax, b.YMax})
}

func (b Box) String() string {
	return fmt.Sprintf("[%.1f, %.1f, %.1f, %.1f]", b.XMin, b.YMin, b.XMax,
		b.YMax)
}

// Intersection returns the area of overlap between two boxes, 0 if
// they are disjoint
func Intersection(a, b Box) float64 {
	w := floatutils.Min(a.XMax, b.XMax) - floatutils.Max(a.XMin, b.XMin)
	h := floatutils.Min(a.YMax, b.YMax) - floatutils.Max(a.YMin, b.YMin)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IoU returns the intersection-over-union of two boxes: the ratio of
// their overlap area to the area of their union. IoU is symmetric,
// lies in [0, 1], equals 1 only for identical boxes, and is defined as
// 0 when the union has no area.
func IoU(a, b Box) float64 {
	inter := Intersection(a, b)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Recall returns the fraction of the target box covered by b, 0 when
// the target has no area
func Recall(b, target Box) float64 {
	area := target.Area()
	if area <= 0 {
		return 0
	}
	return Intersection(b, target) / area
}
