package ai

import "context"

// TextProvider handles conversational reasoning (local model or Claude).
type TextProvider interface {
	Reply(ctx context.Context, persona string, history []Message, userText string) (string, error)
}

// SpeechToTextProvider handles audio transcription (Whisper).
type SpeechToTextProvider interface {
	TranscribeAudio(ctx context.Context, audioData []byte) (string, error)
}

// TextToSpeechProvider handles voice synthesis.
type TextToSpeechProvider interface {
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// KnowledgeProvider answers factual queries (Wikipedia + web fallback).
type KnowledgeProvider interface {
	Lookup(ctx context.Context, query string) (*Answer, error)
}

// Message represents a single message in a conversation.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// AnswerSource identifies which backend produced an Answer.
type AnswerSource string

// Answer source values.
const (
	SourceWikipedia AnswerSource = "wikipedia"
	SourceWeb       AnswerSource = "web"
)

// Answer is a factual lookup result.
type Answer struct {
	Text   string
	Source AnswerSource
	URL    string
}
