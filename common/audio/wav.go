package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

const HeaderSize = 44

const bitsPerSample = 16

// Header is the canonical 44-byte PCM WAV header.
type Header struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func newHeader(numSamples int, channels int, sampleRate int) Header {
	dataSize := uint32(numSamples * 2)
	h := Header{
		ChunkSize:     36 + dataSize,
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * 2),
		BlockAlign:    uint16(channels * 2),
		BitsPerSample: bitsPerSample,
		Subchunk2Size: dataSize,
	}
	copy(h.ChunkID[:], "RIFF")
	copy(h.Format[:], "WAVE")
	copy(h.Subchunk1ID[:], "fmt ")
	copy(h.Subchunk2ID[:], "data")
	return h
}

// EncodeWAV wraps 16-bit linear PCM samples into a WAV container.
func EncodeWAV(samples []int16, channels int, sampleRate int) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(samples)*2))
	_ = binary.Write(buf, binary.LittleEndian, newHeader(len(samples), channels, sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

// SamplesFromPCM 把 provider 返回的小端 16bit PCM 字节转成样本
func SamplesFromPCM(pcm []byte) ([]int16, error) {
	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("pcm byte length %d is not a multiple of 2", len(pcm))
	}
	samples := make([]int16, len(pcm)/2)
	if err := binary.Read(bytes.NewReader(pcm), binary.LittleEndian, samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// ParseHeader reads and sanity checks the header of a WAV buffer.
func ParseHeader(wav []byte) (*Header, error) {
	if len(wav) < HeaderSize {
		return nil, fmt.Errorf("wav buffer too short: %d bytes", len(wav))
	}
	h := &Header{}
	if err := binary.Read(bytes.NewReader(wav[:HeaderSize]), binary.LittleEndian, h); err != nil {
		return nil, err
	}
	if string(h.ChunkID[:]) != "RIFF" || string(h.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE buffer")
	}
	if h.ByteRate == 0 {
		return nil, fmt.Errorf("invalid wav byte rate")
	}
	return h, nil
}

func (h *Header) Duration() time.Duration {
	if h.ByteRate == 0 {
		return 0
	}
	return time.Duration(float64(h.Subchunk2Size) / float64(h.ByteRate) * float64(time.Second))
}

func Duration(numSamples int, channels int, sampleRate int) time.Duration {
	if channels <= 0 || sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(numSamples) / float64(channels*sampleRate) * float64(time.Second))
}
