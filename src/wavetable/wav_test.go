package wavetable

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeWAVHeader(t *testing.T) {
	ft, err := GenerateBasic("sine", 3, 128, 0)
	require.NoError(t, err)
	data, err := EncodeWAV(ft, 44100, 1)
	require.NoError(t, err)

	dataSize := 3 * 128 * 2
	require.Len(t, data, wavHeaderSize+dataSize)
	require.Equal(t, "RIFF", string(data[0:4]))
	require.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:8]))
	require.Equal(t, "WAVE", string(data[8:12]))
	require.Equal(t, "fmt ", string(data[12:16]))
	require.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[16:20]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]), "PCM format")
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]), "mono")
	require.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:28]))
	require.Equal(t, uint32(44100*2), binary.LittleEndian.Uint32(data[28:32]), "byte rate")
	require.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[32:34]), "block align")
	require.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]), "bits per sample")
	require.Equal(t, "data", string(data[36:40]))
	require.Equal(t, uint32(dataSize), binary.LittleEndian.Uint32(data[40:44]))
}

func TestEncodeWAVSampleConversion(t *testing.T) {
	ft, err := NewFrameTable([][]float64{{0, 0.5, 1, -1, 2, -2}})
	require.NoError(t, err)
	data, err := EncodeWAV(ft, 48000, 1)
	require.NoError(t, err)

	samples := make([]int16, 6)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[wavHeaderSize+2*i:]))
	}
	require.Equal(t, int16(0), samples[0])
	require.Equal(t, int16(16384), samples[1]) // round(0.5*32767)
	require.Equal(t, int16(32767), samples[2])
	require.Equal(t, int16(-32767), samples[3])
	require.Equal(t, int16(32767), samples[4], "clamped above 1")
	require.Equal(t, int16(-32767), samples[5], "clamped below -1")
}

func TestEncodeWAVGain(t *testing.T) {
	ft, err := NewFrameTable([][]float64{{0.5, -0.5}})
	require.NoError(t, err)
	data, err := EncodeWAV(ft, 48000, 0.5)
	require.NoError(t, err)
	require.Equal(t, int16(8192), int16(binary.LittleEndian.Uint16(data[wavHeaderSize:])))

	// gain that pushes past full scale clamps instead of wrapping
	data, err = EncodeWAV(ft, 48000, 10)
	require.NoError(t, err)
	require.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(data[wavHeaderSize:])))
	require.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(data[wavHeaderSize+2:])))
}

func TestEncodeWAVDeterministic(t *testing.T) {
	ft, err := GenerateBasic("sawtooth", 2, 64, 8)
	require.NoError(t, err)
	a, err := EncodeWAV(ft, 44100, 1)
	require.NoError(t, err)
	b, err := EncodeWAV(ft, 44100, 1)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEncodeWAVRejectsBadRate(t *testing.T) {
	ft, err := GenerateBasic("sine", 1, 16, 0)
	require.NoError(t, err)
	_, err = EncodeWAV(ft, 0, 1)
	require.Error(t, err)
	_, err = EncodeWAV(ft, -44100, 1)
	require.Error(t, err)
}
