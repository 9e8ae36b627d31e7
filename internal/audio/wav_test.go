package audio

import (
	"encoding/binary"
	"testing"
)

func TestEncodePCM16kWAV(t *testing.T) {
	samples := make([]float32, 1600) // 100ms of audio
	for i := range samples {
		samples[i] = 0.5
	}

	data, err := EncodePCM16kWAV(samples)
	if err != nil {
		t.Fatalf("EncodePCM16kWAV returned error: %v", err)
	}

	if len(data) < 44 {
		t.Fatalf("wav output too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Errorf("missing RIFF/WAVE header: % x", data[:12])
	}

	// Sample rate lives at byte 24 of the canonical fmt chunk.
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	if channels := binary.LittleEndian.Uint16(data[22:24]); channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}
}

func TestEncodePCM16kWAVClampsRange(t *testing.T) {
	data, err := EncodePCM16kWAV([]float32{2.0, -2.0})
	if err != nil {
		t.Fatalf("EncodePCM16kWAV returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty wav output")
	}
}

func TestEncodePCM16kWAVEmpty(t *testing.T) {
	if _, err := EncodePCM16kWAV(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestMemWriteSeeker(t *testing.T) {
	ws := &memWriteSeeker{}
	if _, err := ws.Write([]byte("hello world")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := ws.Seek(0, 0); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if _, err := ws.Write([]byte("HELLO")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if got := string(ws.buf); got != "HELLO world" {
		t.Errorf("buffer = %q, want %q", got, "HELLO world")
	}
}
