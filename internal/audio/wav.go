package audio

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodePCM16kWAV encodes mono float32 samples as a 16-bit 16kHz WAV file
// suitable for transcription upload.
func EncodePCM16kWAV(samples []float32) ([]byte, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples to encode")
	}

	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, 16000, 16, 1, 1)

	ints := make([]int, len(samples))
	for i, s := range samples {
		v := int(clamp(float64(s), -1.0, 1.0) * 32767)
		ints[i] = v
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  16000,
		},
		Data:           ints,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize wav: %w", err)
	}

	return ws.buf, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// memWriteSeeker is an in-memory io.WriteSeeker. The wav encoder seeks back
// to patch chunk sizes, so a plain bytes.Buffer is not enough.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if extra := m.pos + len(p) - len(m.buf); extra > 0 {
		m.buf = append(m.buf, make([]byte, extra)...)
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = m.pos + int(offset)
	case io.SeekEnd:
		next = len(m.buf) + int(offset)
	default:
		return 0, errors.New("invalid whence")
	}
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = next
	return int64(next), nil
}
