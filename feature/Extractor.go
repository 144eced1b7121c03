// Package feature implements feature extraction of images for object
// localization environments.
//
// A pretrained convolutional network is the usual extractor for this
// kind of environment. Such models are external collaborators: only
// their input/output contract matters here, which the Extractor
// interface captures. The package also provides the image resizing
// step that adapts an environment image to an extractor's expected
// input resolution.
package feature

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

// Input resolutions of common pretrained extractors
const (
	VGG16TargetSize       int = 224
	ResNet50TargetSize    int = 224
	MobileNetV2TargetSize int = 224
	XceptionTargetSize    int = 299
	InceptionV3TargetSize int = 299
)

// Extractor maps an image to a fixed-length embedding vector. An
// Extractor must be stateless at inference time so that it can be
// shared read-only between concurrently running environment instances.
type Extractor interface {
	// Features returns the embedding of img. The returned vector
	// always has length Len().
	Features(img image.Image) (*mat.VecDense, error)

	// Len returns the length of the feature vectors produced by the
	// Extractor
	Len() int
}

// Transform maps an image to the form an Extractor expects as input
type Transform func(img image.Image) (image.Image, error)

// ResizeTo returns the Transform that scales images to a square of
// size x size pixels
func ResizeTo(size int) Transform {
	return func(img image.Image) (image.Image, error) {
		return Resize(img, size)
	}
}

// Resize scales img to a square image of size x size pixels. This is
// the input transform applied to an environment image before handing
// it to an Extractor.
func Resize(img image.Image, size int) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("resize: nil image")
	}
	if size <= 0 {
		return nil, fmt.Errorf("resize: non-positive target size %d", size)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("resize: empty image bounds %v", bounds)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst, nil
}
