package wavetable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// ----- WAV Encoding ----- //

const (
	wavHeaderSize = 44
	wavMaxSample  = 32767
)

// EncodeWAV serializes a frame table as a mono 16-bit PCM RIFF/WAVE file,
// frames concatenated in order. Gain is applied before the [-1,1] clamp.
// Output is byte-identical for identical inputs.
func EncodeWAV(ft *FrameTable, sampleRate int, gain float64) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wavetable: sample rate must be positive, got %d", sampleRate)
	}
	numSamples := ft.NumFrames() * ft.FrameSize()
	dataSize := numSamples * 2

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataSize))
	buf.WriteString("RIFF")
	buf.Write([]byte{0, 0, 0, 0}) // file size, patched below
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))           // chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))            // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1))            // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))   // sample rate
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))           // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, frame := range ft.Frames() {
		for _, sample := range frame {
			value := int16(math.Round(clampFloat(sample*gain, -1, 1) * wavMaxSample))
			binary.Write(buf, binary.LittleEndian, value)
		}
	}

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out, nil
}
