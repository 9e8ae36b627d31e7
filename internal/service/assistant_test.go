package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmaceachern/jarvis-api/internal/ai"
	"github.com/dmaceachern/jarvis-api/internal/intent"
	"github.com/dmaceachern/jarvis-api/internal/models"
	"github.com/dmaceachern/jarvis-api/internal/testutil"
)

func newTestAssistant(t *testing.T, text ai.TextProvider, knowledge ai.KnowledgeProvider) (*AssistantService, *testutil.MockConversationRepo) {
	t.Helper()
	cfg := testutil.NewTestConfig()
	repo := &testutil.MockConversationRepo{}
	var search *SearchService
	if knowledge != nil {
		search = NewSearchService(cfg, knowledge)
	} else {
		search = NewSearchService(cfg, &testutil.MockKnowledgeProvider{})
	}
	svc := NewAssistantService(cfg, repo, text, search, Components{
		VoiceSynthesis:    true,
		SpeechRecognition: true,
		WebAccess:         true,
		Model:             text != nil,
	})
	return svc, repo
}

func TestHandleMessageTime(t *testing.T) {
	svc, repo := newTestAssistant(t, nil, nil)

	reply, err := svc.HandleMessage(context.Background(), "what time is it", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != intent.IntentTime {
		t.Errorf("intent = %q, want time", reply.Intent)
	}
	if !strings.HasPrefix(reply.Text, "The current time is ") {
		t.Errorf("unexpected time reply: %q", reply.Text)
	}

	turns := repo.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 persisted turns, got %d", len(turns))
	}
	if turns[0].Speaker != models.SpeakerUser || turns[1].Speaker != models.SpeakerAssistant {
		t.Errorf("unexpected turn speakers: %q, %q", turns[0].Speaker, turns[1].Speaker)
	}
	if turns[0].Intent != string(intent.IntentTime) {
		t.Errorf("user turn intent = %q, want time", turns[0].Intent)
	}
}

func TestHandleMessageSearch(t *testing.T) {
	knowledge := &testutil.MockKnowledgeProvider{
		LookupFunc: func(ctx context.Context, query string) (*ai.Answer, error) {
			if query != "the roman empire" {
				t.Errorf("unexpected query: %q", query)
			}
			return &ai.Answer{Text: "The Roman Empire was vast.", Source: ai.SourceWikipedia}, nil
		},
	}
	svc, _ := newTestAssistant(t, nil, knowledge)

	reply, err := svc.HandleMessage(context.Background(), "tell me about the roman empire", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	want := "According to Wikipedia: The Roman Empire was vast."
	if reply.Text != want {
		t.Errorf("reply = %q, want %q", reply.Text, want)
	}
}

func TestHandleMessageSearchFailure(t *testing.T) {
	knowledge := &testutil.MockKnowledgeProvider{
		LookupFunc: func(ctx context.Context, query string) (*ai.Answer, error) {
			return nil, errors.New("network down")
		},
	}
	svc, _ := newTestAssistant(t, nil, knowledge)

	reply, err := svc.HandleMessage(context.Background(), "search for anything", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Text != "I encountered an error while searching for information, sir." {
		t.Errorf("unexpected failure reply: %q", reply.Text)
	}
}

func TestHandleMessageOpenWebsite(t *testing.T) {
	svc, _ := newTestAssistant(t, nil, nil)

	tests := []struct {
		text    string
		wantURL string
	}{
		{"open youtube", "https://www.youtube.com"},
		{"go to github", "https://www.github.com"},
		{"open https://example.com", "https://example.com"},
		{"open someblog", "https://www.someblog.com"},
	}

	for _, tt := range tests {
		reply, err := svc.HandleMessage(context.Background(), tt.text, models.SourceText)
		if err != nil {
			t.Fatalf("HandleMessage(%q) returned error: %v", tt.text, err)
		}
		if reply.Action == nil {
			t.Fatalf("HandleMessage(%q) returned no action", tt.text)
		}
		if reply.Action.Type != ActionOpenURL {
			t.Errorf("action type = %q, want open_url", reply.Action.Type)
		}
		if reply.Action.URL != tt.wantURL {
			t.Errorf("HandleMessage(%q) URL = %q, want %q", tt.text, reply.Action.URL, tt.wantURL)
		}
	}
}

func TestHandleMessageClear(t *testing.T) {
	svc, _ := newTestAssistant(t, nil, nil)

	reply, err := svc.HandleMessage(context.Background(), "clear screen", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Action == nil || reply.Action.Type != ActionClearScreen {
		t.Errorf("expected clear_screen action, got %+v", reply.Action)
	}
	if reply.Text != "Display cleared, sir." {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
}

func TestHandleMessageGreeting(t *testing.T) {
	svc, _ := newTestAssistant(t, nil, nil)

	reply, err := svc.HandleMessage(context.Background(), "hello", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Intent != intent.IntentGreeting {
		t.Errorf("intent = %q, want greeting", reply.Intent)
	}
	if !strings.Contains(reply.Text, "sir") {
		t.Errorf("greeting reply missing address: %q", reply.Text)
	}
}

func TestHandleMessageStatus(t *testing.T) {
	svc, _ := newTestAssistant(t, nil, nil)

	reply, err := svc.HandleMessage(context.Background(), "status report", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if !strings.Contains(reply.Text, "voice synthesis online") {
		t.Errorf("status reply missing component report: %q", reply.Text)
	}
}

func TestHandleMessageGeneralUsesModel(t *testing.T) {
	var gotPersona string
	text := &testutil.MockTextProvider{
		ReplyFunc: func(ctx context.Context, persona string, history []ai.Message, userText string) (string, error) {
			gotPersona = persona
			if userText != "compose a haiku about rain" {
				t.Errorf("unexpected user text: %q", userText)
			}
			return "Rain falls on the roof, sir.", nil
		},
	}
	svc, repo := newTestAssistant(t, text, nil)

	// Seed prior turns so history is interpolated into the persona.
	repo.AppendTurn(&models.ConversationTurn{Speaker: models.SpeakerUser, Text: "hello"})
	repo.AppendTurn(&models.ConversationTurn{Speaker: models.SpeakerAssistant, Text: "Good evening, sir."})

	reply, err := svc.HandleMessage(context.Background(), "compose a haiku about rain", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if reply.Text != "Rain falls on the roof, sir." {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if !strings.Contains(gotPersona, "assistant: Good evening, sir.") {
		t.Errorf("persona missing conversation context: %q", gotPersona)
	}
}

func TestHandleMessageGeneralFallsBackOnModelError(t *testing.T) {
	text := &testutil.MockTextProvider{
		ReplyFunc: func(ctx context.Context, persona string, history []ai.Message, userText string) (string, error) {
			return "", errors.New("model offline")
		},
	}
	svc, _ := newTestAssistant(t, text, nil)

	reply, err := svc.HandleMessage(context.Background(), "compose a haiku about rain", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}

	found := false
	for _, fallback := range generalFallbackReplies {
		if reply.Text == fallback {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("reply is not a known fallback: %q", reply.Text)
	}
}

func TestHandleMessageEmpty(t *testing.T) {
	svc, _ := newTestAssistant(t, nil, nil)
	if _, err := svc.HandleMessage(context.Background(), "   ", models.SourceText); err == nil {
		t.Fatal("expected error for empty message")
	}
}

func TestHandleMessageCensorsProfanity(t *testing.T) {
	text := &testutil.MockTextProvider{
		ReplyFunc: func(ctx context.Context, persona string, history []ai.Message, userText string) (string, error) {
			return "That is complete bullshit, sir.", nil
		},
	}
	svc, _ := newTestAssistant(t, text, nil)

	reply, err := svc.HandleMessage(context.Background(), "give me your honest opinion", models.SourceText)
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if strings.Contains(reply.Text, "bullshit") {
		t.Errorf("profanity not censored: %q", reply.Text)
	}
}

func TestWelcome(t *testing.T) {
	svc, repo := newTestAssistant(t, nil, nil)

	reply, err := svc.Welcome()
	if err != nil {
		t.Fatalf("Welcome returned error: %v", err)
	}
	if !strings.Contains(reply.Text, "JARVIS systems are now online") {
		t.Errorf("unexpected welcome text: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "✓ Web access and search") {
		t.Errorf("welcome missing capability report: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "✗ AI intelligence") {
		t.Errorf("welcome should mark the model offline: %q", reply.Text)
	}

	turns := repo.Turns()
	if len(turns) != 1 || turns[0].Speaker != models.SpeakerAssistant {
		t.Errorf("welcome turn not persisted: %+v", turns)
	}
}

func TestTimeGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{6, "Good morning"},
		{13, "Good afternoon"},
		{18, "Good evening"},
		{23, "Good evening"},
		{2, "Good evening"},
	}
	for _, tt := range tests {
		if got := timeGreeting(tt.hour); got != tt.want {
			t.Errorf("timeGreeting(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}
