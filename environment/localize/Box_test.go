package localize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoUIdentical(t *testing.T) {
	b := NewBox(10, 20, 50, 60)
	assert.Equal(t, 1.0, IoU(b, b))
}

func TestIoUDisjoint(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(20, 20, 30, 30)
	assert.Equal(t, 0.0, IoU(a, b))

	// Boxes sharing only an edge have no overlap area
	c := NewBox(10, 0, 20, 10)
	assert.Equal(t, 0.0, IoU(a, c))
}

func TestIoUSymmetricAndBounded(t *testing.T) {
	boxes := []Box{
		NewBox(0, 0, 10, 10),
		NewBox(5, 5, 15, 15),
		NewBox(0, 0, 100, 100),
		NewBox(9, 9, 11, 11),
	}

	for _, a := range boxes {
		for _, b := range boxes {
			iou := IoU(a, b)
			assert.Equal(t, IoU(b, a), iou)
			assert.GreaterOrEqual(t, iou, 0.0)
			assert.LessOrEqual(t, iou, 1.0)
		}
	}
}

func TestIoUPartialOverlap(t *testing.T) {
	// 5x5 overlap, areas 100 each, union 175
	a := NewBox(0, 0, 10, 10)
	b := NewBox(5, 5, 15, 15)
	assert.InDelta(t, 25.0/175.0, IoU(a, b), 1e-12)
}

func TestIoUZeroAreaUnion(t *testing.T) {
	a := NewBox(5, 5, 5, 5)
	assert.Equal(t, 0.0, IoU(a, a))
}

func TestRecall(t *testing.T) {
	target := NewBox(0, 0, 10, 10)

	assert.Equal(t, 1.0, Recall(NewBox(0, 0, 100, 100), target))
	assert.InDelta(t, 0.25, Recall(NewBox(5, 5, 15, 15), target), 1e-12)
	assert.Equal(t, 0.0, Recall(NewBox(0, 0, 10, 10), NewBox(5, 5, 5, 5)))
}

func TestClipStaysInBounds(t *testing.T) {
	b := NewBox(-10, -10, 150, 250).Clip(100, 200)
	assert.Equal(t, NewBox(0, 0, 100, 200), b)
}

func TestCanonicalRepairsInvertedBox(t *testing.T) {
	b, swapped := NewBox(50, 10, 20, 40).Canonical()
	assert.True(t, swapped)
	assert.Equal(t, NewBox(20, 10, 50, 40), b)

	b, swapped = NewBox(20, 10, 50, 40).Canonical()
	assert.False(t, swapped)
	assert.Equal(t, NewBox(20, 10, 50, 40), b)
}
