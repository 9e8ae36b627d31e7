package handlers

import (
	"errors"
	"net/http"

	"github.com/dmaceachern/jarvis-api/internal/logger"
	"github.com/dmaceachern/jarvis-api/internal/models"
	"github.com/dmaceachern/jarvis-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler is the handler for assistant command requests.
type AssistantHandler struct {
	Assistant *service.AssistantService
	Voice     *service.VoiceService
	Search    *service.SearchService
}

// NewAssistantHandler is the constructor function for initializing a new AssistantHandler.
func NewAssistantHandler(assistant *service.AssistantService, voice *service.VoiceService, search *service.SearchService) *AssistantHandler {
	return &AssistantHandler{
		Assistant: assistant,
		Voice:     voice,
		Search:    search,
	}
}

// messageRequest is the request body for POST /v1/messages.
type messageRequest struct {
	Text string `json:"text" binding:"required"`
}

// HandleMessage processes a typed command and returns the assistant's reply.
func (h *AssistantHandler) HandleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	reply, err := h.Assistant.HandleMessage(c.Request.Context(), req.Text, models.SourceText)
	if err != nil {
		logger.Get().Error("failed to handle message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process command"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// GetStatus reports which subsystems are online.
func (h *AssistantHandler) GetStatus(c *gin.Context) {
	components := h.Assistant.Components
	c.JSON(http.StatusOK, gin.H{
		"status": "online",
		"components": gin.H{
			"voice_synthesis":    components.VoiceSynthesis,
			"speech_recognition": components.SpeechRecognition,
			"web_access":         components.WebAccess,
			"model":              components.Model,
		},
	})
}

// Listen records one utterance from the daemon's microphone, runs it through
// the command pipeline and returns both transcript and reply. With ?wake=true
// the transcript must contain a wake word or it is discarded, which lets a
// client poll this endpoint as an always-listening loop.
func (h *AssistantHandler) Listen(c *gin.Context) {
	if h.Voice == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice capture is not available"})
		return
	}

	text, err := h.Voice.Listen(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoSpeech) {
			c.JSON(http.StatusOK, gin.H{
				"transcript": "",
				"reply": service.Reply{
					Text: "I didn't catch that, sir. Could you repeat?",
				},
			})
			return
		}
		if errors.Is(err, service.ErrVoiceUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice capture is not available"})
			return
		}
		logger.Get().Error("voice capture failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "voice capture failed"})
		return
	}

	if c.Query("wake") == "true" && !service.HasWakeWord(text) {
		c.JSON(http.StatusOK, gin.H{"transcript": text, "ignored": true})
		return
	}

	text = service.StripWakeWord(text)
	reply, err := h.Assistant.HandleMessage(c.Request.Context(), text, models.SourceVoice)
	if err != nil {
		logger.Get().Error("failed to handle voice command", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process command"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transcript": text,
		"reply":      reply,
	})
}

// SearchKnowledge answers a factual query directly, bypassing classification.
func (h *AssistantHandler) SearchKnowledge(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	answer, err := h.Search.Search(c.Request.Context(), query)
	if err != nil {
		logger.Get().Error("knowledge search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "answer": answer})
}
