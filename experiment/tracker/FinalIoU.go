package tracker

import (
	"github.com/golocate/golocate/environment/localize"
	ts "github.com/golocate/golocate/timestep"
)

// FinalIoU tracks and saves the overlap between the bounding box and
// the target at the end of each episode: the localization quality the
// agent actually achieved, independent of the reward it collected
// along the way.
type FinalIoU struct {
	lastIoU   float64
	finalIoUs []float64
	filename  string
}

// NewFinalIoU returns a new FinalIoU Tracker which saves its data at
// filename
func NewFinalIoU(filename string) Tracker {
	return &FinalIoU{filename: filename}
}

// TrackInfo caches the overlap reported with the latest step
func (f *FinalIoU) TrackInfo(info localize.Info) {
	f.lastIoU = info.IoU
}

// Track records the cached overlap when the argument timestep is the
// last of its episode
func (f *FinalIoU) Track(t ts.TimeStep) {
	if t.Last() {
		f.finalIoUs = append(f.finalIoUs, f.lastIoU)
	}
}

// IoUs returns the recorded end-of-episode overlaps so far
func (f *FinalIoU) IoUs() []float64 {
	ious := make([]float64, len(f.finalIoUs))
	copy(ious, f.finalIoUs)
	return ious
}

// Save saves the data tracked by the FinalIoU Tracker to disk
func (f *FinalIoU) Save() {
	save(f.filename, f.finalIoUs)
}
