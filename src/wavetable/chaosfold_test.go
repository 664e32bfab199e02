package wavetable

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func foldParams(overrides map[string]float64) map[string]float64 {
	params := map[string]float64{}
	for k, v := range overrides {
		params[k] = v
	}
	return params
}

func TestChaosFoldDefaults(t *testing.T) {
	wave, err := BasicWaveform("sine", 256)
	require.NoError(t, err)
	c := NewChaosFold()
	out := c.Process(wave, nil)
	require.Len(t, out, 256)
	require.True(t, allFinite(out))
}

func TestChaosFoldParameterValidation(t *testing.T) {
	specs := NewChaosFold().Parameters()
	valid := specs.Validate(map[string]float64{
		"sigma":    99,          // above max
		"timeStep": -5,          // below min
		"mix":      math.NaN(),  // not a number
		"rho":      math.Inf(1), // not finite
	})
	require.InDelta(t, 20, valid["sigma"], 1e-12)
	require.InDelta(t, 0.001, valid["timeStep"], 1e-12)
	require.InDelta(t, 1, valid["mix"], 1e-12)
	require.InDelta(t, 28, valid["rho"], 1e-12)
	// untouched parameters resolve to their defaults
	require.InDelta(t, 0.5, valid["beta"], 1e-12)
	require.InDelta(t, 0.5, valid["complexity"], 1e-12)
}

func TestChaosFoldGarbageParamsStillFinite(t *testing.T) {
	wave, err := BasicWaveform("square", 128)
	require.NoError(t, err)
	c := NewChaosFold()
	out := c.Process(wave, foldParams(map[string]float64{
		"beta":     math.NaN(),
		"timeStep": -1,
		"mix":      2,
	}))
	require.Len(t, out, 128)
	require.True(t, allFinite(out))
}

func TestChaosFoldMixZeroIsTransparent(t *testing.T) {
	wave, err := BasicWaveform("triangle", 128)
	require.NoError(t, err)
	c := NewChaosFold()
	out := c.Process(wave, foldParams(map[string]float64{"mix": 0}))
	require.Len(t, out, 128)
	for i := range wave {
		require.InDelta(t, wave[i], out[i], 1e-9)
	}
}

func TestChaosFoldSilenceAndEmpty(t *testing.T) {
	c := NewChaosFold()
	out := c.Process(make([]float64, 64), nil)
	require.Equal(t, make([]float64, 64), out)

	out = c.Process([]float64{}, nil)
	require.Empty(t, out)
}

func TestChaosFoldCacheHitSkipsIntegration(t *testing.T) {
	wave, err := BasicWaveform("sine", 128)
	require.NoError(t, err)
	c := NewChaosFold()
	first := c.Process(wave, nil)
	require.Equal(t, 1, c.Integrations())
	second := c.Process(wave, nil)
	require.Equal(t, 1, c.Integrations(), "second call must be served from cache")
	require.Equal(t, first, second)

	// different parameters miss the cache
	c.Process(wave, foldParams(map[string]float64{"mix": 0.5}))
	require.Equal(t, 2, c.Integrations())
}

func TestChaosFoldCacheReturnsCopies(t *testing.T) {
	wave, err := BasicWaveform("sine", 64)
	require.NoError(t, err)
	c := NewChaosFold()
	first := c.Process(wave, nil)
	first[0] = 12345
	second := c.Process(wave, nil)
	require.NotEqual(t, 12345.0, second[0])
}

func TestChaosFoldCacheEviction(t *testing.T) {
	c := NewChaosFold()
	for i := 0; i < foldCacheCapacity+50; i++ {
		wave := []float64{float64(i + 1), -1, 0.5, 0.25}
		c.Process(wave, nil)
	}
	require.LessOrEqual(t, c.cache.len(), foldCacheCapacity)
}

func TestChaosFoldFingerprint(t *testing.T) {
	wave := []float64{0.1, 0.2, 0.3}
	params := NewChaosFold().Parameters().Validate(nil)
	require.Equal(t, foldFingerprint(wave, params), foldFingerprint(wave, params))

	other := foldParams(map[string]float64{"sigma": 11})
	require.NotEqual(t,
		foldFingerprint(wave, params),
		foldFingerprint(wave, NewChaosFold().Parameters().Validate(other)))
	require.NotEqual(t,
		foldFingerprint(wave, params),
		foldFingerprint([]float64{0.1, 0.2, 0.30000001}, params))
}

func TestChaosFoldProcessFrames(t *testing.T) {
	ft, err := GenerateBasic("sawtooth", 4, 64, 0)
	require.NoError(t, err)
	c := NewChaosFold()
	out := c.ProcessFrames(ft.Frames(), nil)
	require.Len(t, out, 4)
	for _, frame := range out {
		require.Len(t, frame, 64)
		require.True(t, allFinite(frame))
	}
	// identical frames with identical parameters fold identically
	require.Equal(t, out[0], out[1])
	// and only the first one pays for the integration
	require.Equal(t, 1, c.Integrations())
}

func TestChaosFoldFoldSymmetryExtremes(t *testing.T) {
	wave, err := BasicWaveform("sine", 128)
	require.NoError(t, err)
	for _, symmetry := range []float64{0, 0.5, 1} {
		c := NewChaosFold()
		out := c.Process(wave, foldParams(map[string]float64{"foldSymmetry": symmetry}))
		require.True(t, allFinite(out), fmt.Sprintf("foldSymmetry=%v", symmetry))
		require.Len(t, out, 128)
	}
}

func TestChaosFoldLFO(t *testing.T) {
	wave, err := BasicWaveform("sine", 128)
	require.NoError(t, err)
	plain := NewChaosFold().Process(wave, foldParams(map[string]float64{"lfoAmount": 0}))
	modulated := NewChaosFold().Process(wave, foldParams(map[string]float64{"lfoAmount": 1}))
	require.NotEqual(t, plain, modulated)
	require.True(t, allFinite(modulated))
}
