package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmaceachern/jarvis-api/internal/ai"
	"github.com/dmaceachern/jarvis-api/internal/models"
)

// --- MockTextProvider ---

// MockTextProvider is a mock implementation of ai.TextProvider.
type MockTextProvider struct {
	ReplyFunc func(ctx context.Context, persona string, history []ai.Message, userText string) (string, error)
}

func (m *MockTextProvider) Reply(ctx context.Context, persona string, history []ai.Message, userText string) (string, error) {
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, persona, history, userText)
	}
	return "", fmt.Errorf("Reply not configured")
}

// --- MockSpeechToTextProvider ---

// MockSpeechToTextProvider is a mock implementation of ai.SpeechToTextProvider.
type MockSpeechToTextProvider struct {
	TranscribeAudioFunc func(ctx context.Context, audioData []byte) (string, error)
}

func (m *MockSpeechToTextProvider) TranscribeAudio(ctx context.Context, audioData []byte) (string, error) {
	if m.TranscribeAudioFunc != nil {
		return m.TranscribeAudioFunc(ctx, audioData)
	}
	return "", fmt.Errorf("TranscribeAudio not configured")
}

// --- MockTextToSpeechProvider ---

// MockTextToSpeechProvider is a mock implementation of ai.TextToSpeechProvider.
type MockTextToSpeechProvider struct {
	SynthesizeSpeechFunc func(ctx context.Context, text string) ([]byte, error)
}

func (m *MockTextToSpeechProvider) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if m.SynthesizeSpeechFunc != nil {
		return m.SynthesizeSpeechFunc(ctx, text)
	}
	return nil, fmt.Errorf("SynthesizeSpeech not configured")
}

// --- MockKnowledgeProvider ---

// MockKnowledgeProvider is a mock implementation of ai.KnowledgeProvider.
type MockKnowledgeProvider struct {
	LookupFunc  func(ctx context.Context, query string) (*ai.Answer, error)
	LookupCalls int
}

func (m *MockKnowledgeProvider) Lookup(ctx context.Context, query string) (*ai.Answer, error) {
	m.LookupCalls++
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, query)
	}
	return nil, fmt.Errorf("Lookup not configured")
}

// --- MockAudioInput ---

// MockAudioInput is a mock microphone for service.AudioInput.
type MockAudioInput struct {
	RecordAutoFunc func() ([]float32, error)
}

func (m *MockAudioInput) RecordAuto() ([]float32, error) {
	if m.RecordAutoFunc != nil {
		return m.RecordAutoFunc()
	}
	return nil, fmt.Errorf("RecordAuto not configured")
}

// --- MockAudioOutput ---

// MockAudioOutput is a mock speaker for service.AudioOutput.
type MockAudioOutput struct {
	PlayFunc func(mp3Data []byte) error
	Played   [][]byte
}

func (m *MockAudioOutput) Play(mp3Data []byte) error {
	m.Played = append(m.Played, mp3Data)
	if m.PlayFunc != nil {
		return m.PlayFunc(mp3Data)
	}
	return nil
}

// --- MockConversationRepo ---

// MockConversationRepo is an in-memory mock of repository.ConversationRepo.
// Turns appended during a test are retained so assertions can inspect them.
type MockConversationRepo struct {
	mu     sync.Mutex
	turns  []models.ConversationTurn
	events []models.SystemEvent

	AppendTurnFunc  func(turn *models.ConversationTurn) error
	ListTurnsFunc   func(page, pageSize int) ([]models.ConversationTurn, int64, error)
	RecentTurnsFunc func(limit int) ([]models.ConversationTurn, error)
	GetTurnByIDFunc func(turnID uint) (*models.ConversationTurn, error)
	LogEventFunc    func(event *models.SystemEvent) error
}

func (m *MockConversationRepo) AppendTurn(turn *models.ConversationTurn) error {
	if m.AppendTurnFunc != nil {
		return m.AppendTurnFunc(turn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	turn.ID = uint(len(m.turns) + 1)
	m.turns = append(m.turns, *turn)
	return nil
}

func (m *MockConversationRepo) ListTurns(page, pageSize int) ([]models.ConversationTurn, int64, error) {
	if m.ListTurnsFunc != nil {
		return m.ListTurnsFunc(page, pageSize)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ConversationTurn(nil), m.turns...), int64(len(m.turns)), nil
}

func (m *MockConversationRepo) RecentTurns(limit int) ([]models.ConversationTurn, error) {
	if m.RecentTurnsFunc != nil {
		return m.RecentTurnsFunc(limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.turns) {
		limit = len(m.turns)
	}
	return append([]models.ConversationTurn(nil), m.turns[len(m.turns)-limit:]...), nil
}

func (m *MockConversationRepo) GetTurnByID(turnID uint) (*models.ConversationTurn, error) {
	if m.GetTurnByIDFunc != nil {
		return m.GetTurnByIDFunc(turnID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.turns {
		if m.turns[i].ID == turnID {
			return &m.turns[i], nil
		}
	}
	return nil, fmt.Errorf("turn %d not found", turnID)
}

func (m *MockConversationRepo) LogEvent(event *models.SystemEvent) error {
	if m.LogEventFunc != nil {
		return m.LogEventFunc(event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

// Turns returns a copy of all turns appended so far.
func (m *MockConversationRepo) Turns() []models.ConversationTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ConversationTurn(nil), m.turns...)
}

// Events returns a copy of all system events logged so far.
func (m *MockConversationRepo) Events() []models.SystemEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SystemEvent(nil), m.events...)
}
