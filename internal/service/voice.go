package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmaceachern/jarvis-api/internal/ai"
	"github.com/dmaceachern/jarvis-api/internal/audio"
	"github.com/dmaceachern/jarvis-api/internal/config"
)

// ErrNoSpeech is returned when a recording contains no recognizable speech.
var ErrNoSpeech = errors.New("no speech recognized")

// ErrVoiceUnavailable is returned when the capture pipeline never came up
// (audio disabled or device initialization failed).
var ErrVoiceUnavailable = errors.New("voice input is not available")

// AudioInput captures raw microphone samples.
type AudioInput interface {
	RecordAuto() ([]float32, error)
}

// AudioOutput plays MP3 audio.
type AudioOutput interface {
	Play(mp3Data []byte) error
}

// VoiceService handles the audio path: capture, transcription and speech
// synthesis with playback.
type VoiceService struct {
	Cfg    *config.Config
	STT    ai.SpeechToTextProvider
	TTS    ai.TextToSpeechProvider
	Input  AudioInput
	Output AudioOutput
}

// NewVoiceService creates a new VoiceService.
func NewVoiceService(cfg *config.Config, stt ai.SpeechToTextProvider, tts ai.TextToSpeechProvider, input AudioInput, output AudioOutput) *VoiceService {
	return &VoiceService{
		Cfg:    cfg,
		STT:    stt,
		TTS:    tts,
		Input:  input,
		Output: output,
	}
}

// wakeWords trigger command capture in always-listening mode.
var wakeWords = []string{"jarvis", "hey jarvis", "okay jarvis"}

// Listen records one utterance from the microphone and transcribes it.
// Returns ErrNoSpeech when nothing usable was captured.
func (v *VoiceService) Listen(ctx context.Context) (string, error) {
	if v.Input == nil || v.STT == nil {
		return "", ErrVoiceUnavailable
	}

	samples, err := v.Input.RecordAuto()
	if err != nil {
		// A silent capture window is the user not speaking, not a failure.
		if errors.Is(err, audio.ErrNoSpeech) {
			return "", ErrNoSpeech
		}
		return "", fmt.Errorf("recording failed: %w", err)
	}

	wavData, err := audio.EncodePCM16kWAV(samples)
	if err != nil {
		return "", fmt.Errorf("failed to encode recording: %w", err)
	}

	text, err := v.STT.TranscribeAudio(ctx, wavData)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Speak synthesizes the text and plays it through the speakers, blocking
// until playback completes.
func (v *VoiceService) Speak(ctx context.Context, text string) error {
	if v.TTS == nil || v.Output == nil {
		return errors.New("voice output is not configured")
	}

	cleaned := CleanForSpeech(text)
	if cleaned == "" {
		return errors.New("nothing to speak")
	}

	audioData, err := v.TTS.SynthesizeSpeech(ctx, cleaned)
	if err != nil {
		return fmt.Errorf("speech synthesis failed: %w", err)
	}

	if err := v.Output.Play(audioData); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// HasWakeWord reports whether the transcript contains a wake word.
func HasWakeWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range wakeWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// StripWakeWord removes the leading wake word from a transcript so the
// remainder can be classified as a command.
func StripWakeWord(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	// Longest first so "hey jarvis" is not left as "hey".
	for _, w := range []string{"okay jarvis", "hey jarvis", "jarvis"} {
		if strings.HasPrefix(lower, w) {
			return strings.TrimSpace(strings.TrimLeft(lower[len(w):], " ,"))
		}
	}
	return strings.TrimSpace(text)
}

var (
	repeatedDots      = regexp.MustCompile(`[.]{2,}`)
	repeatedBangs     = regexp.MustCompile(`[!]{2,}`)
	repeatedQuestions = regexp.MustCompile(`[?]{2,}`)
)

// speechReplacements expands abbreviations that TTS engines mispronounce.
var speechReplacements = []struct{ abbr, full string }{
	{"sir.", "sir"},
	{"Mr.", "Mister"},
	{"Mrs.", "Missus"},
	{"Dr.", "Doctor"},
	{"etc.", "etcetera"},
	{"e.g.", "for example"},
	{"i.e.", "that is"},
	{"vs.", "versus"},
}

// CleanForSpeech normalizes text for better TTS pronunciation.
func CleanForSpeech(text string) string {
	text = repeatedDots.ReplaceAllString(text, ".")
	text = repeatedBangs.ReplaceAllString(text, "!")
	text = repeatedQuestions.ReplaceAllString(text, "?")

	for _, r := range speechReplacements {
		text = strings.ReplaceAll(text, r.abbr, r.full)
	}
	return strings.TrimSpace(text)
}
