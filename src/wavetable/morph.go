package wavetable

import "fmt"

// ----- Frame Morph ----- //

// Morph expands K keyframes into exactly numFrames frames. A single keyframe
// is replicated; multiple keyframes are placed at evenly spaced positions
// with linear interpolation in between. In-between frames per segment are
// (F−K)/(K−1), and the remainder is given one extra frame per segment from
// the left. The interpolation parameter for the j-th of S in-between frames
// is (j+1)/(S+1), so the exact keyframes appear only at their own positions.
func Morph(keyframes [][]float64, numFrames int) (*FrameTable, error) {
	if len(keyframes) == 0 {
		return nil, ErrEmptyTable
	}
	if numFrames < 1 {
		numFrames = 1
	}
	size := len(keyframes[0])
	for i, frame := range keyframes {
		if len(frame) != size {
			return nil, fmt.Errorf("%w: keyframe %d has %d samples, expected %d", ErrFrameLength, i, len(frame), size)
		}
	}
	if len(keyframes) == 1 {
		frames := make([][]float64, numFrames)
		for i := range frames {
			frames[i] = copyWave(keyframes[0])
		}
		return NewFrameTable(frames)
	}
	if numFrames <= len(keyframes) {
		// Too few slots for in-between frames: sample the keyframes evenly.
		frames := make([][]float64, numFrames)
		for i := range frames {
			idx := 0
			if numFrames > 1 {
				idx = i * (len(keyframes) - 1) / (numFrames - 1)
			}
			frames[i] = copyWave(keyframes[idx])
		}
		return NewFrameTable(frames)
	}

	segments := len(keyframes) - 1
	between := (numFrames - len(keyframes)) / segments
	remainder := (numFrames - len(keyframes)) % segments

	frames := make([][]float64, 0, numFrames)
	frames = append(frames, copyWave(keyframes[0]))
	for seg := 0; seg < segments; seg++ {
		steps := between
		if seg < remainder {
			steps++
		}
		for j := 0; j < steps; j++ {
			t := float64(j+1) / float64(steps+1)
			frames = append(frames, lerpWave(keyframes[seg], keyframes[seg+1], t))
		}
		frames = append(frames, copyWave(keyframes[seg+1]))
	}

	// The construction above always yields numFrames frames; pad or truncate
	// defensively rather than return a malformed table.
	for len(frames) < numFrames {
		frames = append(frames, copyWave(frames[len(frames)-1]))
	}
	frames = frames[:numFrames]
	return NewFrameTable(frames)
}

func lerpWave(a, b []float64, t float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = (1-t)*a[i] + t*b[i]
	}
	return out
}
