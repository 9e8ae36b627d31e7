package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/dmaceachern/jarvis-api/internal/logger"
	"go.uber.org/zap"
)

// SpeechProvider implements TextToSpeechProvider against any OpenAI-compatible
// speech synthesis endpoint. Returns MP3 audio bytes.
type SpeechProvider struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

// NewSpeechProvider creates a text-to-speech provider with the given voice.
func NewSpeechProvider(baseURL, apiKey, voice string) *SpeechProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &SpeechProvider{
		client: openai.NewClientWithConfig(cfg),
		voice:  openai.SpeechVoice(voice),
	}
}

// SynthesizeSpeech converts text to MP3 audio.
func (p *SpeechProvider) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, errors.New("speech text is empty")
	}

	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model: openai.TTSModel1,
			Input: text,
			Voice: p.voice,
		})
		if err == nil {
			defer resp.Close()
			audio, readErr := io.ReadAll(resp)
			if readErr != nil {
				return nil, fmt.Errorf("failed to read speech response: %w", readErr)
			}
			if len(audio) == 0 {
				return nil, errors.New("speech API returned empty audio")
			}
			return audio, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyOpenAIError(err)
		if !shouldRetry {
			return nil, fmt.Errorf("speech API error: %w", err)
		}

		logger.ForComponent("tts").Warn("speech API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(waitTime * time.Duration(i+1)):
			}
		}
	}

	return nil, fmt.Errorf("speech API: exhausted %d retries: %w", maxRetries, lastErr)
}
