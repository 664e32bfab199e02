package wavetable

import (
	"fmt"
	"math"
)

// ----- Basic Waveforms ----- //

// BasicWaveform generates one closed-form cycle of a canonical shape,
// peak-normalized to 1.0.
func BasicWaveform(kind string, samples int) ([]float64, error) {
	out := make([]float64, samples)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples)
		switch kind {
		case "sine":
			out[i] = math.Sin(2 * math.Pi * t)
		case "square":
			out[i] = sign(math.Sin(2 * math.Pi * t))
		case "sawtooth":
			out[i] = 2 * (t - math.Floor(0.5+t))
		case "triangle":
			out[i] = 2*math.Abs(2*(t-math.Floor(0.5+t))) - 1
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidWaveformKind, kind)
		}
	}
	normalize(out)
	return out, nil
}

// AdditiveWaveform builds one cycle by summing sine partials. The harmonic
// count is clamped to samples/2 to stay below the Nyquist bin. The result is
// peak-normalized to 1.0.
func AdditiveWaveform(kind string, samples, harmonics int) ([]float64, error) {
	if harmonics < 1 {
		harmonics = 1
	}
	if harmonics > samples/2 {
		harmonics = samples / 2
	}
	weights, err := partialWeights(kind, harmonics)
	if err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples)
		value := 0.0
		for n, w := range weights {
			if w != 0 {
				value += w * math.Sin(2*math.Pi*float64(n+1)*t)
			}
		}
		out[i] = value
	}
	normalize(out)
	return out, nil
}

// partialWeights returns the amplitude of each partial 1..harmonics.
func partialWeights(kind string, harmonics int) ([]float64, error) {
	weights := make([]float64, harmonics)
	switch kind {
	case "sine":
		weights[0] = 1
	case "square":
		// odd partials, 4/(nπ)
		for n := 1; n <= harmonics; n += 2 {
			weights[n-1] = 4 / (float64(n) * math.Pi)
		}
	case "sawtooth":
		// every partial, -2/(nπ)
		for n := 1; n <= harmonics; n++ {
			weights[n-1] = -2 / (float64(n) * math.Pi)
		}
	case "triangle":
		// odd partials, 8/(nπ)² with alternating sign
		sign := 1.0
		for n := 1; n <= harmonics; n += 2 {
			weights[n-1] = sign * 8 / (float64(n) * math.Pi * float64(n) * math.Pi)
			sign = -sign
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidWaveformKind, kind)
	}
	return weights, nil
}

// GenerateBasic builds a frame table of numFrames identical cycles.
// harmonics > 0 selects additive synthesis; otherwise the closed form.
func GenerateBasic(kind string, numFrames, frameSize, harmonics int) (*FrameTable, error) {
	if numFrames < 1 {
		numFrames = 1
	}
	var wave []float64
	var err error
	if harmonics > 0 {
		wave, err = AdditiveWaveform(kind, frameSize, harmonics)
	} else {
		wave, err = BasicWaveform(kind, frameSize)
	}
	if err != nil {
		return nil, err
	}
	frames := make([][]float64, numFrames)
	for i := range frames {
		frames[i] = copyWave(wave)
	}
	return NewFrameTable(frames)
}

func sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
