package wavetable

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// ----- Harmonic Enhancer ----- //

// EnhanceHarmonics reshapes the magnitude spectrum of a waveform with three
// formant-like resonant bumps while preserving every bin's phase. Positive
// strength boosts the formant regions, negative strength cuts them. The
// fundamental (bins 1–3) and the DC bin keep their exact original values,
// the result is rescaled to the original peak and blended with the input by
// |strength|·0.5. Deterministic; same input always yields the same output.
func EnhanceHarmonics(wave []float64, strength float64) []float64 {
	n := len(wave)
	if n < 8 {
		return copyWave(wave)
	}
	spec := fft.FFTReal(wave)
	bins := n/2 + 1

	// Formant bumps at 1/4, 1/2 and 3/4 of the half-spectrum, with
	// growing bandwidth and falling weight.
	center := float64(bins / 4)
	bandwidth := float64(bins / 6)
	scale := 0.25
	if strength <= 0 {
		scale = 0.15
	}
	lowFreqLimit := bins / 16

	enhanced := make([]complex128, n)
	for k := 0; k < bins; k++ {
		f := float64(k)
		formant1 := gaussianBump(f, center, bandwidth)
		formant2 := 0.3 * gaussianBump(f, center*2, bandwidth*1.5)
		formant3 := 0.15 * gaussianBump(f, center*3, bandwidth*2)
		response := 1 + strength*scale*(formant1+formant2+formant3)
		if k < lowFreqLimit {
			// keep low frequencies very close to untouched
			response = 1 + (response-1)*0.1
		}
		response = clampFloat(response, 0.25, 4.0)

		magnitude := cmplx.Abs(spec[k]) * response
		if k >= 1 && k <= 3 {
			// preserve the fundamental region exactly
			magnitude = cmplx.Abs(spec[k])
		}
		phase := cmplx.Phase(spec[k])
		enhanced[k] = cmplx.Rect(magnitude, phase)
	}
	enhanced[0] = spec[0] // DC stays exact
	for k := 1; k < n-k; k++ {
		enhanced[n-k] = cmplx.Conj(enhanced[k])
	}

	inv := fft.IFFT(enhanced)
	out := make([]float64, n)
	for i := range out {
		out[i] = real(inv[i])
	}

	maxAbs := peak(out)
	if maxAbs == 0 {
		return out
	}
	floats.Scale(1/maxAbs, out)
	originalMax := peak(wave)
	if originalMax > 0 {
		floats.Scale(originalMax, out)
	}
	blend := math.Abs(strength) * 0.5
	for i := range out {
		out[i] = (1-blend)*wave[i] + blend*out[i]
	}
	return out
}

// Enhance applies EnhanceHarmonics to every frame of a table.
func Enhance(ft *FrameTable, strength float64) *FrameTable {
	frames := make([][]float64, ft.NumFrames())
	for i, frame := range ft.Frames() {
		frames[i] = EnhanceHarmonics(frame, strength)
	}
	return &FrameTable{frames: frames}
}

func gaussianBump(f, center, width float64) float64 {
	if width == 0 {
		return 0
	}
	d := (f - center) / width
	return math.Exp(-0.5 * d * d)
}
