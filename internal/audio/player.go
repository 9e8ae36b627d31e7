package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Player plays MP3 audio through the default output device.
type Player struct {
	initOnce sync.Once
	initErr  error
	rate     beep.SampleRate
}

// NewPlayer creates an uninitialized player. The speaker is opened lazily on
// first playback.
func NewPlayer() *Player {
	return &Player{}
}

// Play decodes and plays MP3 data, blocking until playback completes.
func (p *Player) Play(mp3Data []byte) error {
	if len(mp3Data) == 0 {
		return fmt.Errorf("no audio data to play")
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(mp3Data)))
	if err != nil {
		return fmt.Errorf("failed to decode mp3: %w", err)
	}
	defer streamer.Close()

	p.initOnce.Do(func() {
		p.rate = format.SampleRate
		p.initErr = speaker.Init(p.rate, p.rate.N(time.Second/10))
	})
	if p.initErr != nil {
		return fmt.Errorf("failed to open speaker: %w", p.initErr)
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != p.rate {
		stream = beep.Resample(4, format.SampleRate, p.rate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}
