package wavetable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicWaveformPeaks(t *testing.T) {
	for _, kind := range []string{"sine", "square", "sawtooth", "triangle"} {
		wave, err := BasicWaveform(kind, 128)
		require.NoError(t, err, kind)
		require.Len(t, wave, 128, kind)
		require.InDelta(t, 1, peak(wave), 1e-9, kind)
		require.True(t, allFinite(wave), kind)
	}
}

func TestBasicWaveformUnknownKind(t *testing.T) {
	_, err := BasicWaveform("noise", 64)
	require.ErrorIs(t, err, ErrInvalidWaveformKind)
	_, err = AdditiveWaveform("noise", 64, 8)
	require.ErrorIs(t, err, ErrInvalidWaveformKind)
	_, err = GenerateBasic("noise", 4, 64, 0)
	require.ErrorIs(t, err, ErrInvalidWaveformKind)
}

func TestBasicWaveformShapes(t *testing.T) {
	square, err := BasicWaveform("square", 16)
	require.NoError(t, err)
	require.InDelta(t, 1, square[1], 1e-12)
	require.InDelta(t, -1, square[9], 1e-12)

	saw, err := BasicWaveform("sawtooth", 16)
	require.NoError(t, err)
	// ramps from 0 upward, wraps at the half cycle
	require.InDelta(t, 0, saw[0], 1e-12)
	require.InDelta(t, 0.25, saw[2], 1e-12)
	require.InDelta(t, -1, saw[8], 1e-12)

	triangle, err := BasicWaveform("triangle", 16)
	require.NoError(t, err)
	require.InDelta(t, -1, triangle[0], 1e-12)
	require.InDelta(t, 1, triangle[8], 1e-12)
}

func TestAdditiveWaveformPeaks(t *testing.T) {
	for _, kind := range []string{"sine", "square", "sawtooth", "triangle"} {
		for _, harmonics := range []int{1, 5, 32} {
			wave, err := AdditiveWaveform(kind, 128, harmonics)
			require.NoError(t, err, kind)
			require.InDelta(t, 1, peak(wave), 1e-9, kind)
		}
	}
}

func TestAdditiveHarmonicClamp(t *testing.T) {
	// requesting more partials than Nyquist allows must not alias or fail
	wave, err := AdditiveWaveform("sawtooth", 16, 1000)
	require.NoError(t, err)
	require.True(t, allFinite(wave))
	require.InDelta(t, 1, peak(wave), 1e-9)
}

func TestGenerateBasicSingleHarmonicIsSine(t *testing.T) {
	// one partial of a square wave is a peak-normalized sine
	ft, err := GenerateBasic("square", 4, 64, 1)
	require.NoError(t, err)
	require.Equal(t, 4, ft.NumFrames())
	for i := 1; i < 4; i++ {
		require.Equal(t, ft.Frame(0), ft.Frame(i))
	}
	for i, v := range ft.Frame(0) {
		require.InDelta(t, math.Sin(2*math.Pi*float64(i)/64), v, 1e-9)
	}
}

func TestGenerateBasicClosedForm(t *testing.T) {
	ft, err := GenerateBasic("triangle", 3, 32, 0)
	require.NoError(t, err)
	require.Equal(t, 3, ft.NumFrames())
	require.Equal(t, 32, ft.FrameSize())
	wave, err := BasicWaveform("triangle", 32)
	require.NoError(t, err)
	require.Equal(t, wave, ft.Frame(0))
}
