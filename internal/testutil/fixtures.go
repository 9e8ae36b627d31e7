package testutil

import (
	"time"

	"github.com/dmaceachern/jarvis-api/internal/config"
	"github.com/dmaceachern/jarvis-api/internal/models"
	"gorm.io/gorm"
)

// NewTestConfig returns a Config with sane defaults for unit tests.
func NewTestConfig() *config.Config {
	return &config.Config{
		EnvVars: config.EnvVars{
			Port:          "8080",
			DatabaseURL:   "file::memory:",
			TextProvider:  "local",
			ModelBaseURL:  "http://localhost:11434/v1",
			ModelName:     "llama3",
			SpeechBaseURL: "http://localhost:11435/v1",
			SpeechVoice:   "onyx",
			AudioEnabled:  false,
			CensorReplies: true,
			Theme:         "arc-reactor",
		},
		Prompts: NewTestPrompts(),
	}
}

// NewTestPrompts returns a Prompts struct with minimal templates.
func NewTestPrompts() *config.Prompts {
	return &config.Prompts{
		Persona: config.SinglePrompt{
			System: "You are JARVIS.{{if .History}}\nContext:\n{{.History}}{{end}}",
		},
		Search: config.SearchPrompts{
			WikipediaPrefix: "According to Wikipedia: ",
			WebPrefix:       "According to web sources: ",
		},
	}
}

// NewTestTurn returns a valid conversation turn for the given speaker.
func NewTestTurn(id uint, speaker models.Speaker, text string) models.ConversationTurn {
	return models.ConversationTurn{
		Model:    gorm.Model{ID: id, CreatedAt: time.Now()},
		SpokenAt: time.Now(),
		Speaker:  speaker,
		Text:     text,
		Source:   models.SourceText,
	}
}
