package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	goaway "github.com/TwiN/go-away"
	"github.com/dmaceachern/jarvis-api/internal/ai"
	"github.com/dmaceachern/jarvis-api/internal/config"
	"github.com/dmaceachern/jarvis-api/internal/intent"
	"github.com/dmaceachern/jarvis-api/internal/logger"
	"github.com/dmaceachern/jarvis-api/internal/models"
	"github.com/dmaceachern/jarvis-api/internal/repository"
	"go.uber.org/zap"
)

// Action directives the UI shell carries out on behalf of the assistant.
const (
	ActionOpenURL     = "open_url"
	ActionClearScreen = "clear_screen"
)

// Action is a side effect the assistant asks the client to perform.
type Action struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// Reply is the assistant's complete response to one user message.
type Reply struct {
	Text   string        `json:"text"`
	Intent intent.Intent `json:"intent"`
	Action *Action       `json:"action,omitempty"`
}

// Components tracks which optional subsystems came up at boot. The status
// report and welcome message are generated from it.
type Components struct {
	VoiceSynthesis    bool
	SpeechRecognition bool
	WebAccess         bool
	Model             bool
}

// AssistantService is the business logic layer for conversation handling:
// classification, dispatch, persistence and response generation.
type AssistantService struct {
	Cfg        *config.Config
	Repo       repository.ConversationRepo
	Text       ai.TextProvider
	Search     *SearchService
	Components Components

	classifier *intent.Classifier
}

// NewAssistantService creates a new AssistantService.
func NewAssistantService(cfg *config.Config, repo repository.ConversationRepo, text ai.TextProvider, search *SearchService, components Components) *AssistantService {
	return &AssistantService{
		Cfg:        cfg,
		Repo:       repo,
		Text:       text,
		Search:     search,
		Components: components,
		classifier: intent.NewClassifier(),
	}
}

// knownSites maps spoken site names to their URLs for open_website commands.
var knownSites = map[string]string{
	"google":        "https://www.google.com",
	"youtube":       "https://www.youtube.com",
	"facebook":      "https://www.facebook.com",
	"twitter":       "https://www.twitter.com",
	"x":             "https://www.x.com",
	"github":        "https://www.github.com",
	"wikipedia":     "https://www.wikipedia.org",
	"amazon":        "https://www.amazon.com",
	"netflix":       "https://www.netflix.com",
	"reddit":        "https://www.reddit.com",
	"stackoverflow": "https://stackoverflow.com",
	"gmail":         "https://mail.google.com",
	"outlook":       "https://outlook.live.com",
	"linkedin":      "https://www.linkedin.com",
}

var locationPattern = regexp.MustCompile(`\bin\s+(\w+(?:\s+\w+)*)`)

// HandleMessage processes one user message end to end: the user turn is
// persisted, the message is classified and dispatched, and the assistant
// turn is persisted before the reply is returned.
func (s *AssistantService) HandleMessage(ctx context.Context, text string, source models.TurnSource) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is empty")
	}

	match := s.classifier.Classify(text)

	if err := s.Repo.AppendTurn(&models.ConversationTurn{
		SpokenAt: time.Now(),
		Speaker:  models.SpeakerUser,
		Text:     text,
		Source:   source,
		Intent:   string(match.Intent),
	}); err != nil {
		return nil, fmt.Errorf("failed to persist user turn: %w", err)
	}

	reply := s.dispatch(ctx, text, match)

	if s.Cfg.EnvVars.CensorReplies && goaway.IsProfane(reply.Text) {
		reply.Text = goaway.Censor(reply.Text)
	}

	if err := s.Repo.AppendTurn(&models.ConversationTurn{
		SpokenAt: time.Now(),
		Speaker:  models.SpeakerAssistant,
		Text:     reply.Text,
		Source:   models.SourceText,
		Intent:   string(match.Intent),
	}); err != nil {
		return nil, fmt.Errorf("failed to persist assistant turn: %w", err)
	}

	return reply, nil
}

func (s *AssistantService) dispatch(ctx context.Context, text string, match intent.Match) *Reply {
	reply := &Reply{Intent: match.Intent}

	switch match.Intent {
	case intent.IntentTime:
		now := time.Now()
		reply.Text = fmt.Sprintf("The current time is %s on %s, sir.",
			now.Format("3:04 PM"), now.Format("Monday, January 2"))

	case intent.IntentDate:
		reply.Text = fmt.Sprintf("Today is %s, sir.", time.Now().Format("Monday, January 2, 2006"))

	case intent.IntentWeather:
		query := "current weather"
		if m := locationPattern.FindStringSubmatch(strings.ToLower(text)); m != nil {
			query = "weather in " + m[1]
		}
		reply.Text = s.searchReply(ctx, query)

	case intent.IntentSearch:
		query := intent.ExtractSearchQuery(text, match.Argument)
		if query == "" {
			reply.Text = "I'm not sure what you'd like me to search for, sir."
			break
		}
		reply.Text = s.searchReply(ctx, query)

	case intent.IntentOpenWebsite:
		reply.Text, reply.Action = s.openWebsite(match.Argument)

	case intent.IntentGreeting:
		reply.Text = pickOne(greetingReplies(time.Now().Hour()))

	case intent.IntentThanks:
		reply.Text = pickOne(thanksReplies)

	case intent.IntentStatus:
		reply.Text = pickOne(s.statusReplies())

	case intent.IntentClear:
		reply.Text = "Display cleared, sir."
		reply.Action = &Action{Type: ActionClearScreen}

	default:
		reply.Text = s.generalReply(ctx, text)
	}

	return reply
}

func (s *AssistantService) searchReply(ctx context.Context, query string) string {
	result, err := s.Search.Search(ctx, query)
	if err != nil {
		logger.Get().Error("knowledge search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return "I encountered an error while searching for information, sir."
	}
	return result
}

func (s *AssistantService) openWebsite(site string) (string, *Action) {
	site = strings.TrimSpace(site)
	if site == "" {
		return "I'm not sure which website you'd like me to open, sir.", nil
	}

	lower := strings.ToLower(site)
	if url, ok := knownSites[lower]; ok {
		return fmt.Sprintf("Opening %s for you, sir.", capitalize(site)), &Action{Type: ActionOpenURL, URL: url}
	}
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return fmt.Sprintf("Opening %s for you, sir.", site), &Action{Type: ActionOpenURL, URL: lower}
	}

	// Unknown name: guess the obvious .com address.
	guessed := "https://www." + strings.ReplaceAll(lower, " ", "") + ".com"
	return fmt.Sprintf("Attempting to open %s, sir.", site), &Action{Type: ActionOpenURL, URL: guessed}
}

func (s *AssistantService) generalReply(ctx context.Context, text string) string {
	if s.Text == nil {
		return pickOne(generalFallbackReplies)
	}

	persona, err := s.renderPersona()
	if err != nil {
		logger.Get().Error("failed to render persona prompt", zap.Error(err))
		return pickOne(generalFallbackReplies)
	}

	response, err := s.Text.Reply(ctx, persona, nil, text)
	if err != nil {
		logger.Get().Error("model query failed", zap.Error(err))
		return pickOne(generalFallbackReplies)
	}
	return response
}

// renderPersona builds the system prompt with the last few turns of
// conversation interpolated as context.
func (s *AssistantService) renderPersona() (string, error) {
	var history string
	turns, err := s.Repo.RecentTurns(3)
	if err != nil {
		logger.Get().Warn("failed to load recent turns for context", zap.Error(err))
	} else {
		var b strings.Builder
		for _, t := range turns {
			fmt.Fprintf(&b, "%s: %s\n", t.Speaker, t.Text)
		}
		history = b.String()
	}

	return config.RenderPrompt(s.Cfg.Prompts.Persona.System, map[string]interface{}{
		"History": history,
	})
}

// Welcome produces the boot greeting with a capability report and persists
// it as the opening assistant turn.
func (s *AssistantService) Welcome() (*Reply, error) {
	var capabilities []string
	report := func(ok bool, name string) {
		mark := "✗"
		if ok {
			mark = "✓"
		}
		capabilities = append(capabilities, mark+" "+name)
	}
	report(s.Components.VoiceSynthesis, "Voice synthesis")
	report(s.Components.SpeechRecognition, "Speech recognition")
	report(s.Components.WebAccess, "Web access and search")
	report(s.Components.Model, "AI intelligence")

	text := fmt.Sprintf("%s, sir. JARVIS systems are now online.\n\nSystem Status:\n%s\n\n"+
		"I'm ready to assist you with information, web searches, system operations, and general inquiries. How may I help you today?",
		timeGreeting(time.Now().Hour()), strings.Join(capabilities, "\n"))

	if err := s.Repo.AppendTurn(&models.ConversationTurn{
		SpokenAt: time.Now(),
		Speaker:  models.SpeakerAssistant,
		Text:     text,
		Source:   models.SourceText,
		Intent:   string(intent.IntentGreeting),
	}); err != nil {
		return nil, fmt.Errorf("failed to persist welcome turn: %w", err)
	}

	return &Reply{Text: text, Intent: intent.IntentGreeting}, nil
}

// SpokenWelcome is the short form of the welcome message for voice output.
func (s *AssistantService) SpokenWelcome() string {
	return fmt.Sprintf("%s, sir. JARVIS systems are now online and ready to assist. How may I help you today?",
		timeGreeting(time.Now().Hour()))
}

// --- canned response sets ---

func timeGreeting(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func greetingReplies(hour int) []string {
	g := timeGreeting(hour)
	return []string{
		fmt.Sprintf("%s, sir. How may I assist you today?", g),
		fmt.Sprintf("%s. What can I do for you, sir?", g),
		fmt.Sprintf("Hello, sir. %s. How may I be of service?", g),
		fmt.Sprintf("%s, sir. I'm ready to help with whatever you need.", g),
	}
}

var thanksReplies = []string{
	"You're most welcome, sir.",
	"Always a pleasure to assist, sir.",
	"Happy to help, sir. Is there anything else?",
	"At your service, sir.",
	"My pleasure, sir. What else can I do for you?",
}

var generalFallbackReplies = []string{
	"I understand you're asking about that topic, sir. Perhaps try a web search for more detailed information?",
	"That's an interesting question, sir. I'd recommend searching the web for comprehensive information on that subject.",
	"I'd be happy to help you find information about that, sir. Shall I perform a web search?",
	"For detailed information on that topic, sir, I suggest we search the web together.",
}

func (s *AssistantService) statusReplies() []string {
	var online []string
	if s.Components.VoiceSynthesis {
		online = append(online, "voice synthesis online")
	}
	if s.Components.SpeechRecognition {
		online = append(online, "speech recognition active")
	}
	if s.Components.WebAccess {
		online = append(online, "web access operational")
	}

	status := "basic systems operational"
	switch len(online) {
	case 0:
	case 1:
		status = online[0]
	default:
		status = strings.Join(online[:len(online)-1], ", ") + ", and " + online[len(online)-1]
	}

	return []string{
		fmt.Sprintf("All systems are functioning optimally, sir. I have %s.", status),
		fmt.Sprintf("Operating at full capacity, sir. Currently running with %s.", status),
		fmt.Sprintf("Systems are running smoothly, sir. %s.", capitalize(status)),
	}
}

func pickOne(options []string) string {
	return options[rand.Intn(len(options))]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
