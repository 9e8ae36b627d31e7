package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmaceachern/jarvis-api/internal/config"
	"github.com/dmaceachern/jarvis-api/internal/intent"
	"github.com/dmaceachern/jarvis-api/internal/logger"
	"github.com/dmaceachern/jarvis-api/internal/models"
	"github.com/dmaceachern/jarvis-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket message types for the assistant session protocol.
const (
	MsgTypeUserMessage      = "user_message"      // User sends a text command
	MsgTypeAssistantMessage = "assistant_message" // Assistant responds
	MsgTypeState            = "state"             // Assistant activity indicator
	MsgTypeAction           = "action"            // Client-side directive (open_url, clear_screen)
	MsgTypeVoiceListen      = "voice_listen"      // Client asks the daemon to capture one utterance
	MsgTypeError            = "error"             // Error message
	MsgTypeConnected        = "connected"         // Connection confirmed
)

// Assistant activity states shown by the shell indicator.
const (
	StateIdle       = "idle"
	StateListening  = "listening"
	StateProcessing = "processing"
	StateSpeaking   = "speaking"
)

// WSMessage is the envelope for all messages sent over the session WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// UserMessagePayload is sent by the client with a typed command.
type UserMessagePayload struct {
	Text string `json:"text"`
}

// VoiceListenPayload configures one capture cycle. With RequireWake set, a
// transcript without a wake word is silently discarded, so clients can loop
// voice_listen requests as an always-listening mode.
type VoiceListenPayload struct {
	RequireWake bool `json:"require_wake"`
}

// AssistantMessagePayload is sent by the server with the assistant's reply.
type AssistantMessagePayload struct {
	Text   string `json:"text"`
	Intent string `json:"intent,omitempty"`
	Source string `json:"source,omitempty"`
}

// StatePayload carries the assistant activity state.
type StatePayload struct {
	State string `json:"state"`
}

// ActionPayload carries a client-side directive.
type ActionPayload struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// ErrorPayload carries an error message to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
	Theme     string `json:"theme"`
}

// SessionHandler manages WebSocket connections for assistant sessions.
type SessionHandler struct {
	Hub       *Hub
	Cfg       *config.Config
	Assistant *service.AssistantService
	Voice     *service.VoiceService
}

// NewSessionHandler returns a new SessionHandler.
func NewSessionHandler(hub *Hub, cfg *config.Config, assistant *service.AssistantService, voice *service.VoiceService) *SessionHandler {
	return &SessionHandler{
		Hub:       hub,
		Cfg:       cfg,
		Assistant: assistant,
		Voice:     voice,
	}
}

func (sh *SessionHandler) upgrader() websocket.Upgrader {
	allowed := sh.Cfg.Origins()
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, o := range allowed {
				if origin == o {
					return true
				}
			}
			// Allow localhost for development
			if strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost" {
				return true
			}
			return false
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// HandleSession upgrades an HTTP request to a WebSocket connection for an
// assistant session. The session id comes from a query parameter so several
// shells can share one conversation feed; a fresh id is minted when absent.
func (sh *SessionHandler) HandleSession(c *gin.Context) {
	log := logger.Get()

	sessionID := c.Query("session")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	clientID := uuid.New().String()

	up := sh.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return
	}

	client := &Client{
		Hub:       sh.Hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		SessionID: sessionID,
		ClientID:  clientID,
	}
	sh.Hub.Register <- client

	client.Send <- marshalMessage(MsgTypeConnected, ConnectedPayload{
		SessionID: sessionID,
		ClientID:  clientID,
		Theme:     sh.Cfg.EnvVars.Theme,
	})

	log.Info("assistant session started",
		zap.String("session_id", sessionID),
		zap.String("client_id", clientID),
	)

	go client.WritePump()
	go client.ReadPump(func(cl *Client, data []byte) {
		sh.handleMessage(cl, data)
	})
}

// handleMessage parses an incoming WebSocket message and routes it to the
// appropriate handler.
func (sh *SessionHandler) handleMessage(client *Client, data []byte) {
	log := logger.Get()

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		sh.sendError(client, "invalid message format")
		return
	}

	log.Debug("received ws message",
		zap.String("type", msg.Type),
		zap.String("session_id", client.SessionID),
		zap.String("client_id", client.ClientID),
	)

	switch msg.Type {
	case MsgTypeUserMessage:
		sh.handleUserMessage(client, msg.Payload)

	case MsgTypeVoiceListen:
		sh.handleVoiceListen(client, msg.Payload)

	default:
		sh.sendError(client, "unknown message type: "+msg.Type)
	}
}

// handleUserMessage processes a typed command end to end.
func (sh *SessionHandler) handleUserMessage(client *Client, payload json.RawMessage) {
	var userMsg UserMessagePayload
	if err := json.Unmarshal(payload, &userMsg); err != nil {
		sh.sendError(client, "invalid user message payload")
		return
	}

	if strings.TrimSpace(userMsg.Text) == "" {
		sh.sendError(client, "message text cannot be empty")
		return
	}

	sh.respond(client, userMsg.Text, models.SourceText)
}

// handleVoiceListen captures one utterance from the microphone and runs it
// through the same command path as typed text.
func (sh *SessionHandler) handleVoiceListen(client *Client, payload json.RawMessage) {
	log := logger.With(zap.String("session_id", client.SessionID))

	if sh.Voice == nil {
		sh.sendError(client, "voice capture is not available")
		return
	}

	var opts VoiceListenPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &opts); err != nil {
			sh.sendError(client, "invalid voice listen payload")
			return
		}
	}

	sh.broadcastState(client.SessionID, StateListening)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text, err := sh.Voice.Listen(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNoSpeech) {
			if opts.RequireWake {
				// Silence between wake words is the normal state of an
				// always-listening loop, not something to announce.
				sh.broadcastState(client.SessionID, StateIdle)
				return
			}
			sh.broadcastToSession(client.SessionID, marshalMessage(MsgTypeAssistantMessage, AssistantMessagePayload{
				Text:   "I didn't catch that, sir. Could you repeat?",
				Intent: string(intent.IntentGeneral),
			}))
			sh.broadcastState(client.SessionID, StateIdle)
			return
		}
		if errors.Is(err, service.ErrVoiceUnavailable) {
			sh.sendError(client, "voice capture is not available")
			sh.broadcastState(client.SessionID, StateIdle)
			return
		}
		log.Error("voice capture failed", zap.Error(err))
		sh.sendError(client, "voice capture failed")
		sh.broadcastState(client.SessionID, StateIdle)
		return
	}

	if opts.RequireWake && !service.HasWakeWord(text) {
		log.Debug("transcript without wake word discarded")
		sh.broadcastState(client.SessionID, StateIdle)
		return
	}

	text = service.StripWakeWord(text)
	if text == "" {
		sh.broadcastState(client.SessionID, StateIdle)
		return
	}

	sh.respond(client, text, models.SourceVoice)
}

// respond runs the assistant pipeline for one user utterance and fans the
// results out to every client in the session.
func (sh *SessionHandler) respond(client *Client, text string, source models.TurnSource) {
	log := logger.With(zap.String("session_id", client.SessionID))

	// Echo the user turn so every attached shell shows it.
	sh.broadcastToSession(client.SessionID, marshalMessage(MsgTypeUserMessage, AssistantMessagePayload{
		Text:   text,
		Source: string(source),
	}))
	sh.broadcastState(client.SessionID, StateProcessing)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	reply, err := sh.Assistant.HandleMessage(ctx, text, source)
	if err != nil {
		log.Error("failed to handle message", zap.Error(err))
		sh.sendError(client, "failed to process command")
		sh.broadcastState(client.SessionID, StateIdle)
		return
	}

	sh.broadcastToSession(client.SessionID, marshalMessage(MsgTypeAssistantMessage, AssistantMessagePayload{
		Text:   reply.Text,
		Intent: string(reply.Intent),
	}))

	if reply.Action != nil {
		sh.broadcastToSession(client.SessionID, marshalMessage(MsgTypeAction, ActionPayload{
			Type: reply.Action.Type,
			URL:  reply.Action.URL,
		}))
	}

	sh.speakReply(client.SessionID, reply.Text)
	sh.broadcastState(client.SessionID, StateIdle)
}

// speakReply plays the reply through the daemon's speakers when audio output
// is configured. Playback blocks so the speaking state stays accurate.
func (sh *SessionHandler) speakReply(sessionID, text string) {
	if sh.Voice == nil || !sh.Cfg.EnvVars.AudioEnabled {
		return
	}

	sh.broadcastState(sessionID, StateSpeaking)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := sh.Voice.Speak(ctx, text); err != nil {
		logger.Get().Error("speech playback failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

func (sh *SessionHandler) broadcastState(sessionID, state string) {
	sh.broadcastToSession(sessionID, marshalMessage(MsgTypeState, StatePayload{State: state}))
}

func (sh *SessionHandler) broadcastToSession(sessionID string, message []byte) {
	sh.Hub.Broadcast <- &SessionMessage{
		SessionID: sessionID,
		Message:   message,
	}
}

// sendError sends an error message to a single client.
func (sh *SessionHandler) sendError(client *Client, message string) {
	client.Send <- marshalMessage(MsgTypeError, ErrorPayload{Message: message})
}

func marshalMessage(msgType string, payload interface{}) []byte {
	p, _ := json.Marshal(payload)
	m, _ := json.Marshal(WSMessage{Type: msgType, Payload: p})
	return m
}
