package wavetable

import "errors"

var (
	// ErrInvalidExpression indicates a formula that failed to parse, used an
	// identifier outside the whitelist, or produced a numeric domain error.
	ErrInvalidExpression = errors.New("wavetable: invalid expression")
	// ErrInvalidWaveformKind indicates an unknown basic waveform name.
	ErrInvalidWaveformKind = errors.New("wavetable: unknown waveform kind")
	// ErrUnknownEffect indicates a lookup for an effect that was never registered.
	ErrUnknownEffect = errors.New("wavetable: unknown effect")
	// ErrEmptyTable indicates a frame table with no frames or empty frames.
	ErrEmptyTable = errors.New("wavetable: table must have at least one non-empty frame")
	// ErrFrameLength indicates frames of differing lengths in one table.
	ErrFrameLength = errors.New("wavetable: all frames must have the same length")
)
