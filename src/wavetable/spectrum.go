package wavetable

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the magnitude of the real-input Fourier transform,
// one value per bin up to the Nyquist bin (len/2+1 values).
// The result is transient display data and is never cached.
func Spectrum(wave []float64) []float64 {
	if len(wave) == 0 {
		return nil
	}
	spec := fft.FFTReal(wave)
	out := make([]float64, len(wave)/2+1)
	for i := range out {
		out[i] = cmplx.Abs(spec[i])
	}
	return out
}
