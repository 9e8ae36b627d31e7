// Package audio captures microphone input, encodes it for transcription and
// plays back synthesized speech.
package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// ErrNoSpeech is returned when a capture window ends without any frame
// crossing the silence threshold.
var ErrNoSpeech = errors.New("no speech detected")

// Recorder captures mono 16kHz audio from the default input device.
type Recorder struct {
	SampleRate       int
	FrameSize        int
	SilenceThreshRMS float64
	SilenceDuration  time.Duration
	MaxLength        time.Duration
}

// NewRecorder creates a recorder with capture defaults tuned for speech.
func NewRecorder() *Recorder {
	return &Recorder{
		SampleRate:       16000,
		FrameSize:        320, // 20ms
		SilenceThreshRMS: 0.015,
		SilenceDuration:  600 * time.Millisecond,
		MaxLength:        10 * time.Second,
	}
}

// Init initializes the underlying audio subsystem. Call once at startup.
func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

// Close releases the audio subsystem.
func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordAuto records until the speaker stops talking. Capture begins when the
// frame RMS crosses the silence threshold and ends after SilenceDuration of
// quiet or when MaxLength is reached.
func (r *Recorder) RecordAuto() ([]float32, error) {
	buf := make([]float32, r.FrameSize)
	out := make([]float32, 0, r.SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(r.SampleRate), len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	frameMillis := 1000 * r.FrameSize / r.SampleRate
	maxFrames := int(r.MaxLength.Milliseconds()) / frameMillis
	silenceLimit := int(r.SilenceDuration.Milliseconds()) / frameMillis

	for i := 0; i < maxFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		rms := frameRMS(buf)

		if rms > r.SilenceThreshRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
		} else if speaking {
			silenceFrames++
			if silenceFrames >= silenceLimit {
				break
			}
			out = append(out, buf...)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoSpeech
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
