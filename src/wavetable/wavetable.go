package wavetable

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultFrameSize is the number of samples per single-cycle frame.
const DefaultFrameSize = 2048

// ----- Frame Table ----- //

// FrameTable is an ordered set of equal-length single-cycle waveforms.
type FrameTable struct {
	frames [][]float64
}

// NewFrameTable validates the frames and wraps them in a table.
// The slices are not copied; callers hand over ownership.
func NewFrameTable(frames [][]float64) (*FrameTable, error) {
	if len(frames) == 0 || len(frames[0]) == 0 {
		return nil, ErrEmptyTable
	}
	size := len(frames[0])
	for i, frame := range frames {
		if len(frame) != size {
			return nil, fmt.Errorf("%w: frame %d has %d samples, expected %d", ErrFrameLength, i, len(frame), size)
		}
	}
	return &FrameTable{frames: frames}, nil
}

// NumFrames ...
func (ft *FrameTable) NumFrames() int {
	return len(ft.frames)
}

// FrameSize ...
func (ft *FrameTable) FrameSize() int {
	return len(ft.frames[0])
}

// Frame returns the i-th single-cycle waveform. The returned slice is the
// table's own storage; copy it before mutating.
func (ft *FrameTable) Frame(i int) []float64 {
	return ft.frames[i]
}

// Frames ...
func (ft *FrameTable) Frames() [][]float64 {
	return ft.frames
}

// Clone returns a deep copy of the table.
func (ft *FrameTable) Clone() *FrameTable {
	frames := make([][]float64, len(ft.frames))
	for i, frame := range ft.frames {
		frames[i] = copyWave(frame)
	}
	return &FrameTable{frames: frames}
}

// Spectrum returns the half-spectrum magnitudes of the i-th frame.
func (ft *FrameTable) Spectrum(i int) []float64 {
	return Spectrum(ft.frames[i])
}

// Validate checks that every frame is finite. Length consistency is already
// guaranteed by construction.
func (ft *FrameTable) Validate() error {
	for i, frame := range ft.frames {
		if !allFinite(frame) {
			return fmt.Errorf("wavetable: frame %d contains non-finite values", i)
		}
	}
	return nil
}

// ----- Sample Helpers ----- //

// peak returns the maximum absolute sample value, 0 for an empty slice.
func peak(wave []float64) float64 {
	return floats.Norm(wave, math.Inf(1))
}

// normalize rescales the slice in place to unit peak. No-op at zero peak.
func normalize(wave []float64) {
	p := peak(wave)
	if p > 0 {
		floats.Scale(1/p, wave)
	}
}

func copyWave(wave []float64) []float64 {
	out := make([]float64, len(wave))
	copy(out, wave)
	return out
}

func allFinite(wave []float64) bool {
	for _, v := range wave {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
