package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dmaceachern/jarvis-api/internal/audio"
	"github.com/dmaceachern/jarvis-api/internal/testutil"
)

func newTestVoice(input *testutil.MockAudioInput, output *testutil.MockAudioOutput, stt *testutil.MockSpeechToTextProvider, tts *testutil.MockTextToSpeechProvider) *VoiceService {
	return NewVoiceService(testutil.NewTestConfig(), stt, tts, input, output)
}

func TestListen(t *testing.T) {
	input := &testutil.MockAudioInput{
		RecordAutoFunc: func() ([]float32, error) {
			return make([]float32, 1600), nil
		},
	}
	stt := &testutil.MockSpeechToTextProvider{
		TranscribeAudioFunc: func(ctx context.Context, audioData []byte) (string, error) {
			if len(audioData) == 0 {
				t.Error("expected encoded wav data")
			}
			return "  what time is it  ", nil
		},
	}

	svc := newTestVoice(input, nil, stt, nil)
	text, err := svc.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}
	if text != "what time is it" {
		t.Errorf("Listen = %q, want trimmed transcript", text)
	}
}

func TestListenNoSpeech(t *testing.T) {
	input := &testutil.MockAudioInput{
		RecordAutoFunc: func() ([]float32, error) {
			return make([]float32, 1600), nil
		},
	}
	stt := &testutil.MockSpeechToTextProvider{
		TranscribeAudioFunc: func(ctx context.Context, audioData []byte) (string, error) {
			return "   ", nil
		},
	}

	svc := newTestVoice(input, nil, stt, nil)
	if _, err := svc.Listen(context.Background()); !errors.Is(err, ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech, got %v", err)
	}
}

func TestListenSilentCapture(t *testing.T) {
	input := &testutil.MockAudioInput{
		RecordAutoFunc: func() ([]float32, error) {
			return nil, audio.ErrNoSpeech
		},
	}
	stt := &testutil.MockSpeechToTextProvider{}

	svc := newTestVoice(input, nil, stt, nil)
	if _, err := svc.Listen(context.Background()); !errors.Is(err, ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech for a silent capture, got %v", err)
	}
}

func TestListenUnconfigured(t *testing.T) {
	svc := newTestVoice(nil, nil, nil, nil)
	if _, err := svc.Listen(context.Background()); !errors.Is(err, ErrVoiceUnavailable) {
		t.Fatalf("expected ErrVoiceUnavailable, got %v", err)
	}
}

func TestSpeak(t *testing.T) {
	output := &testutil.MockAudioOutput{}
	tts := &testutil.MockTextToSpeechProvider{
		SynthesizeSpeechFunc: func(ctx context.Context, text string) ([]byte, error) {
			if text != "Good evening, sir" {
				t.Errorf("expected cleaned text, got %q", text)
			}
			return []byte("mp3data"), nil
		},
	}

	svc := newTestVoice(nil, output, nil, tts)
	if err := svc.Speak(context.Background(), "Good evening, sir."); err != nil {
		t.Fatalf("Speak returned error: %v", err)
	}
	if len(output.Played) != 1 {
		t.Fatalf("expected 1 playback, got %d", len(output.Played))
	}
}

func TestSpeakSynthesisError(t *testing.T) {
	output := &testutil.MockAudioOutput{}
	tts := &testutil.MockTextToSpeechProvider{
		SynthesizeSpeechFunc: func(ctx context.Context, text string) ([]byte, error) {
			return nil, errors.New("tts offline")
		},
	}

	svc := newTestVoice(nil, output, nil, tts)
	if err := svc.Speak(context.Background(), "hello"); err == nil {
		t.Fatal("expected error when synthesis fails")
	}
	if len(output.Played) != 0 {
		t.Errorf("nothing should have played, got %d", len(output.Played))
	}
}

func TestHasWakeWord(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hey jarvis what time is it", true},
		{"JARVIS, open youtube", true},
		{"okay jarvis", true},
		{"what time is it", false},
	}
	for _, tt := range tests {
		if got := HasWakeWord(tt.text); got != tt.want {
			t.Errorf("HasWakeWord(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestStripWakeWord(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"hey jarvis, what time is it", "what time is it"},
		{"jarvis open youtube", "open youtube"},
		{"okay jarvis clear screen", "clear screen"},
		{"what time is it", "what time is it"},
	}
	for _, tt := range tests {
		if got := StripWakeWord(tt.text); got != tt.want {
			t.Errorf("StripWakeWord(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestCleanForSpeech(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Understood, sir...", "Understood, sir"},
		{"Dr. Smith vs. Mr. Jones", "Doctor Smith versus Mister Jones"},
		{"Really??", "Really?"},
		{"Amazing!!!", "Amazing!"},
		{"e.g. this i.e. that", "for example this that is that"},
	}
	for _, tt := range tests {
		if got := CleanForSpeech(tt.in); got != tt.want {
			t.Errorf("CleanForSpeech(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
