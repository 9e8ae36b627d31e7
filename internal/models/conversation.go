package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Speaker identifies who produced a conversation turn.
type Speaker string

// Speaker enum values.
const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
	SpeakerSystem    Speaker = "system"
)

// IsValidSpeaker checks if the Speaker is valid.
func (s Speaker) IsValidSpeaker() bool {
	switch s {
	case SpeakerUser, SpeakerAssistant, SpeakerSystem:
		return true
	default:
		return false
	}
}

// TurnSource records how a user turn entered the system.
type TurnSource string

// TurnSource enum values.
const (
	SourceText  TurnSource = "text"
	SourceVoice TurnSource = "voice"
)

// ConversationTurn is a single exchange entry in the append-only
// conversation log. Turns are immutable once written; there is no update
// path through the repository and the BeforeUpdate hook rejects any
// accidental one.
type ConversationTurn struct {
	gorm.Model
	SpokenAt time.Time  `gorm:"index;not null"`
	Speaker  Speaker    `gorm:"type:text;index;not null"`
	Text     string     `gorm:"not null"`
	Source   TurnSource `gorm:"type:text;default:'text'"`
	Intent   string     `gorm:"type:text;index"`
}

// BeforeCreate is a GORM hook that validates the turn before insertion.
func (t *ConversationTurn) BeforeCreate(tx *gorm.DB) (err error) {
	if !t.Speaker.IsValidSpeaker() {
		// Cancel transaction
		return errors.New("invalid Speaker provided")
	}
	if t.Text == "" {
		return errors.New("turn text must not be empty")
	}
	if t.SpokenAt.IsZero() {
		t.SpokenAt = time.Now()
	}
	return nil
}

// BeforeUpdate enforces the append-only contract.
func (t *ConversationTurn) BeforeUpdate(tx *gorm.DB) (err error) {
	return errors.New("conversation turns are immutable")
}

// SystemEvent is a persisted operational log entry (component failures,
// calibration results, lifecycle notices). Mirrors what the runtime log
// says, but queryable next to the conversation it happened during.
type SystemEvent struct {
	gorm.Model
	Level     string `gorm:"type:text;index"`
	Component string `gorm:"type:text;index"`
	Message   string
}
