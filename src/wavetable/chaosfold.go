package wavetable

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ----- Chaos Fold ----- //

const (
	// silent inputs short-circuit to silence
	foldPeakEpsilon = 1e-6
	// hard bound on reflections per sample, so folding always terminates
	maxFoldReflections = 64
	// bounded result cache, oldest entry evicted first
	foldCacheCapacity = 256
)

// ChaosFold folds a waveform through a Lorenz attractor: the attractor is
// integrated with one fixed step per sample, its trajectory is mixed into
// the signal and the sum is reflected back into range instead of clipped.
// The fixed-step integration trades ODE accuracy for O(N) determinism, which
// also makes results cacheable.
//
// Instances own a bounded result cache and are not safe for concurrent use;
// give each worker its own instance (see ProcessConcurrent).
type ChaosFold struct {
	cache        *foldCache
	integrations int
}

// NewChaosFold ...
func NewChaosFold() *ChaosFold {
	return &ChaosFold{cache: newFoldCache(foldCacheCapacity)}
}

// Name ...
func (c *ChaosFold) Name() string {
	return "chaosFold"
}

// Parameters ...
func (c *ChaosFold) Parameters() ParamSpecs {
	return ParamSpecs{
		"sigma":        {Min: 0, Max: 20, Default: 10, Description: "Input sensitivity"},
		"rho":          {Min: 0, Max: 50, Default: 28, Description: "Feedback intensity"},
		"beta":         {Min: 0, Max: 2, Default: 0.5, Description: "Controls folding strength"},
		"timeStep":     {Min: 0.001, Max: 0.1, Default: 0.01, Description: "Time evolution of attractor"},
		"mix":          {Min: 0, Max: 1, Default: 1, Description: "Blend between original and folded"},
		"foldSymmetry": {Min: 0, Max: 1, Default: 0.5, Description: "Folding symmetry"},
		"complexity":   {Min: 0, Max: 1, Default: 0.5, Description: "Higher-order harmonics"},
		"lfoAmount":    {Min: 0, Max: 1, Default: 0, Description: "LFO modulation amount"},
	}
}

// Integrations reports how many times the attractor has actually been
// integrated; cache hits do not increment it.
func (c *ChaosFold) Integrations() int {
	return c.integrations
}

// Process applies the fold to one waveform. It never fails: parameters are
// clamped or defaulted, and a numerically unstable result falls back to a
// copy of the unmodified input.
func (c *ChaosFold) Process(wave []float64, params map[string]float64) []float64 {
	valid := c.Parameters().Validate(params)
	if len(wave) == 0 {
		return []float64{}
	}
	key := foldFingerprint(wave, valid)
	if cached, ok := c.cache.get(key); ok {
		return cached
	}
	out := c.fold(wave, valid)
	c.cache.put(key, out)
	return out
}

// ProcessFrames folds each frame independently with identical parameters.
// There is no cross-frame state, so identical frames hit the cache.
func (c *ChaosFold) ProcessFrames(frames [][]float64, params map[string]float64) [][]float64 {
	out := make([][]float64, len(frames))
	for i, frame := range frames {
		out[i] = c.Process(frame, params)
	}
	return out
}

func (c *ChaosFold) fold(wave []float64, p map[string]float64) []float64 {
	n := len(wave)
	originalPeak := peak(wave)
	if originalPeak < foldPeakEpsilon {
		return make([]float64, n)
	}
	norm := copyWave(wave)
	floats.Scale(1/originalPeak, norm)

	// Integrate the Lorenz system, one fixed step per sample, seeded from
	// the first sample so identical inputs walk identical trajectories.
	sigma, rho, beta, dt := p["sigma"], p["rho"], p["beta"], p["timeStep"]
	x, y, z := norm[0], 0.0, 20.0
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	for i := 0; i < n; i++ {
		dx := sigma * (y - x)
		dy := x*(rho-z) - y
		dz := x*y - beta*z
		x += dx * dt
		y += dy * dt
		z += dz * dt
		xs[i], ys[i], zs[i] = x, y, z
	}
	c.integrations++
	normalize(xs)
	normalize(ys)
	normalize(zs)

	complexity := p["complexity"]
	symmetry := p["foldSymmetry"]
	lfoAmount := p["lfoAmount"]
	threshold := 1 + 2*complexity
	folded := make([]float64, n)
	for i := 0; i < n; i++ {
		v := norm[i] + (0.3*xs[i]+0.3*ys[i]+0.4*zs[i])*complexity
		for iter := 0; iter < maxFoldReflections && math.Abs(v) > threshold; iter++ {
			if v > threshold {
				v = 2*threshold - v
			} else {
				v = -2*threshold - v
			}
		}
		if v > 0 {
			v *= 1 + (symmetry - 0.5)
		} else if v < 0 {
			v *= 1 + (0.5 - symmetry)
		}
		if lfoAmount > 0 {
			v *= 1 + math.Sin(2*math.Pi*float64(i)/float64(n))*lfoAmount
		}
		folded[i] = v
	}
	normalize(folded)

	mix := p["mix"]
	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = ((1-mix)*norm[i] + mix*folded[i]) * originalPeak
	}
	if !allFinite(result) {
		// numeric instability: hand back the untouched input
		return copyWave(wave)
	}
	return result
}

// ----- Fingerprint & Cache ----- //

// foldFingerprint derives a cache key from the raw sample bytes and the
// validated parameters at fixed precision, sorted by name.
func foldFingerprint(wave []float64, params map[string]float64) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range wave {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%x", h.Sum64())
	for _, name := range names {
		fmt.Fprintf(&sb, ":%s=%.6f", name, params[name])
	}
	return sb.String()
}

// foldCache is a fixed-capacity map with insertion-order eviction. It is
// intentionally lock-free: every ChaosFold instance owns exactly one.
type foldCache struct {
	capacity int
	entries  map[string][]float64
	order    []string
}

func newFoldCache(capacity int) *foldCache {
	return &foldCache{
		capacity: capacity,
		entries:  make(map[string][]float64, capacity),
	}
}

func (fc *foldCache) get(key string) ([]float64, bool) {
	wave, ok := fc.entries[key]
	if !ok {
		return nil, false
	}
	return copyWave(wave), true
}

func (fc *foldCache) put(key string, wave []float64) {
	if _, ok := fc.entries[key]; ok {
		return
	}
	if len(fc.order) >= fc.capacity {
		oldest := fc.order[0]
		fc.order = fc.order[1:]
		delete(fc.entries, oldest)
	}
	fc.entries[key] = copyWave(wave)
	fc.order = append(fc.order, key)
}

func (fc *foldCache) len() int {
	return len(fc.entries)
}
