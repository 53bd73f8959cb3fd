package audio

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAVHeader(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768}
	n := len(samples)
	wav := EncodeWAV(samples, 1, 24000)

	require.Len(t, wav, 44+2*n)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+2*n), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(wav[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(2*n), binary.LittleEndian.Uint32(wav[40:44]))

	for i, s := range samples {
		assert.Equal(t, s, int16(binary.LittleEndian.Uint16(wav[44+2*i:])))
	}
}

func TestEncodeWAVEmpty(t *testing.T) {
	wav := EncodeWAV(nil, 1, 24000)
	assert.Len(t, wav, 44)
	assert.Equal(t, uint32(36), binary.LittleEndian.Uint32(wav[4:8]))
}

func TestSamplesFromPCM(t *testing.T) {
	samples, err := SamplesFromPCM([]byte{0x01, 0x00, 0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, []int16{1, -1}, samples)

	_, err = SamplesFromPCM([]byte{0x01})
	assert.Error(t, err)
}

func TestParseHeaderDuration(t *testing.T) {
	wav := EncodeWAV(make([]int16, 48000), 1, 24000)
	h, err := ParseHeader(wav)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, h.Duration())
	assert.Equal(t, 2*time.Second, Duration(48000, 1, 24000))

	_, err = ParseHeader([]byte("RIFF"))
	assert.Error(t, err)
}
