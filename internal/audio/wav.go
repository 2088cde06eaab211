package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of a canonical PCM WAV header.
const HeaderSize = 44

// Default container parameters applied when a field is left zero.
const (
	DefaultSampleRate    = 22050
	DefaultChannels      = 1
	DefaultBitsPerSample = 16
)

// Format describes the PCM stream a WAV header is built for.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// WithDefaults fills zero fields with the default container parameters.
func (f Format) WithDefaults() Format {
	if f.SampleRate <= 0 {
		f.SampleRate = DefaultSampleRate
	}
	if f.Channels <= 0 {
		f.Channels = DefaultChannels
	}
	if f.BitsPerSample <= 0 {
		f.BitsPerSample = DefaultBitsPerSample
	}
	return f
}

// wavHeader is the canonical 44-byte RIFF/WAVE header layout.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // 36 + data length
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // data length in bytes
}

// BuildWAVHeader produces the 44-byte PCM header for a raw payload of
// dataLen bytes. Pure arithmetic and byte layout; no error paths.
func BuildWAVHeader(dataLen int, format Format) []byte {
	f := format.WithDefaults()
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + uint32(dataLen),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.SampleRate) * uint32(f.Channels) * uint32(f.BitsPerSample) / 8,
		BlockAlign:    uint16(f.Channels) * uint16(f.BitsPerSample) / 8,
		BitsPerSample: uint16(f.BitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataLen),
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize))
	// binary.Write cannot fail for fixed-size fields on a bytes.Buffer.
	_ = binary.Write(buf, binary.LittleEndian, header)
	return buf.Bytes()
}

// WrapPCM prepends a WAV header to a raw PCM payload, producing a complete
// playable container. Only meaningful when the payload really is raw PCM in
// the supplied format.
func WrapPCM(pcm []byte, format Format) []byte {
	out := make([]byte, 0, HeaderSize+len(pcm))
	out = append(out, BuildWAVHeader(len(pcm), format)...)
	return append(out, pcm...)
}

// ValidateWAV checks the fixed header markers without decoding audio data.
func ValidateWAV(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("WAV data too short: need at least %d bytes, got %d", HeaderSize, len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return fmt.Errorf("invalid WAV file: missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return fmt.Errorf("invalid WAV file: missing WAVE format")
	}
	if string(data[12:16]) != "fmt " {
		return fmt.Errorf("invalid WAV file: missing fmt chunk")
	}
	if string(data[36:40]) != "data" {
		return fmt.Errorf("invalid WAV file: missing data chunk")
	}
	return nil
}

// Info holds the metadata decoded from a WAV header.
type Info struct {
	SampleRate    uint32  `json:"sample_rate"`
	Channels      uint16  `json:"channels"`
	BitsPerSample uint16  `json:"bits_per_sample"`
	Duration      float64 `json:"duration_seconds"`
	DataSize      uint32  `json:"data_size_bytes"`
}

// GetWAVInfo extracts metadata from a WAV buffer.
func GetWAVInfo(data []byte) (*Info, error) {
	if err := ValidateWAV(data); err != nil {
		return nil, err
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read WAV header: %w", err)
	}
	if header.SampleRate == 0 {
		return nil, fmt.Errorf("invalid sample rate: 0")
	}
	blockAlign := uint32(header.BlockAlign)
	if blockAlign == 0 {
		return nil, fmt.Errorf("invalid block align: 0")
	}

	frames := header.Subchunk2Size / blockAlign
	return &Info{
		SampleRate:    header.SampleRate,
		Channels:      header.NumChannels,
		BitsPerSample: header.BitsPerSample,
		Duration:      float64(frames) / float64(header.SampleRate),
		DataSize:      header.Subchunk2Size,
	}, nil
}
