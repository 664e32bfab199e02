package wavetable

import (
	"fmt"
	"math"
	"sort"
)

// ----- Effect Interface ----- //

// ParamSpec declares the valid range and default of one effect parameter.
type ParamSpec struct {
	Min         float64
	Max         float64
	Default     float64
	Description string
}

// ParamSpecs maps parameter names to their declarations.
type ParamSpecs map[string]ParamSpec

// Validate resolves raw parameter values against the declared specs.
// Missing or non-finite values fall back to the default; out-of-range values
// are clamped. Validation never fails: a bad value becomes a usable one.
func (ps ParamSpecs) Validate(params map[string]float64) map[string]float64 {
	valid := make(map[string]float64, len(ps))
	for name, spec := range ps {
		value, ok := params[name]
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			value = spec.Default
		}
		valid[name] = clampFloat(value, spec.Min, spec.Max)
	}
	return valid
}

// Names returns the declared parameter names in sorted order.
func (ps ParamSpecs) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Effect transforms single-cycle waveforms. Implementations must return a
// fresh slice of the same length and never fail: recoverable problems are
// handled by clamping parameters or returning the input unchanged.
type Effect interface {
	Name() string
	Parameters() ParamSpecs
	Process(wave []float64, params map[string]float64) []float64
	ProcessFrames(frames [][]float64, params map[string]float64) [][]float64
}

// ----- Registry ----- //

// Registry maps effect names to implementations. It is built once at startup
// and read-only afterwards.
type Registry struct {
	effects map[string]Effect
}

// NewRegistry returns a registry with the default effects installed.
func NewRegistry() *Registry {
	r := &Registry{effects: map[string]Effect{}}
	r.Register(&GainEffect{})
	r.Register(NewChaosFold())
	return r
}

// Register ...
func (r *Registry) Register(e Effect) {
	r.effects[e.Name()] = e
}

// Get returns the effect registered under name.
func (r *Registry) Get(name string) (Effect, error) {
	e, ok := r.effects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return e, nil
}

// Describe returns the parameter declarations of every registered effect.
func (r *Registry) Describe() map[string]ParamSpecs {
	out := make(map[string]ParamSpecs, len(r.effects))
	for name, e := range r.effects {
		out[name] = e.Parameters()
	}
	return out
}
