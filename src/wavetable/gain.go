package wavetable

import "gonum.org/v1/gonum/floats"

// ----- Gain ----- //

// GainEffect scales sample amplitude.
type GainEffect struct{}

// Name ...
func (g *GainEffect) Name() string {
	return "gain"
}

// Parameters ...
func (g *GainEffect) Parameters() ParamSpecs {
	return ParamSpecs{
		"gain": {Min: 0, Max: 2, Default: 1, Description: "Amplitude gain"},
	}
}

// Process returns the waveform scaled by the gain parameter.
func (g *GainEffect) Process(wave []float64, params map[string]float64) []float64 {
	valid := g.Parameters().Validate(params)
	out := copyWave(wave)
	floats.Scale(valid["gain"], out)
	return out
}

// ProcessFrames applies the same gain to every frame independently.
func (g *GainEffect) ProcessFrames(frames [][]float64, params map[string]float64) [][]float64 {
	out := make([][]float64, len(frames))
	for i, frame := range frames {
		out[i] = g.Process(frame, params)
	}
	return out
}
