package router

import (
	"time"

	"github.com/dmaceachern/jarvis-api/internal/ai"
	"github.com/dmaceachern/jarvis-api/internal/audio"
	"github.com/dmaceachern/jarvis-api/internal/config"
	"github.com/dmaceachern/jarvis-api/internal/handlers"
	"github.com/dmaceachern/jarvis-api/internal/logger"
	"github.com/dmaceachern/jarvis-api/internal/middleware"
	"github.com/dmaceachern/jarvis-api/internal/models"
	"github.com/dmaceachern/jarvis-api/internal/repository"
	"github.com/dmaceachern/jarvis-api/internal/service"
	"github.com/dmaceachern/jarvis-api/internal/ui"
	"github.com/dmaceachern/jarvis-api/internal/ws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter sets up the Gin router and wires the assistant services.
func SetupRouter(cfg *config.Config, database *gorm.DB) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowOrigins = cfg.Origins()
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// The daemon serves one desk, not a network.
	r.Use(middleware.LocalOnly())

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Conversation log setup
	conversationRepo := repository.NewConversationRepository(database)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)

	// AI provider setup
	var textProvider ai.TextProvider
	switch cfg.EnvVars.TextProvider {
	case "anthropic":
		if cfg.EnvVars.AnthropicAPIKey != "" {
			textProvider = ai.NewAnthropicProvider(cfg.EnvVars.AnthropicAPIKey)
		} else {
			logger.Get().Warn("TEXT_PROVIDER=anthropic but ANTHROPIC_API_KEY is unset, general queries will use canned replies")
		}
	default:
		textProvider = ai.NewChatProvider(cfg.EnvVars.ModelBaseURL, cfg.EnvVars.ModelAPIKey, cfg.EnvVars.ModelName)
	}
	knowledgeProvider := ai.NewWikipediaProvider()

	// Voice path setup. Capture and playback come up only when audio is
	// enabled; transcription and synthesis only need the HTTP endpoints.
	var voiceService *service.VoiceService
	var input service.AudioInput
	var output service.AudioOutput
	if cfg.EnvVars.AudioEnabled {
		recorder := audio.NewRecorder()
		if err := recorder.Init(); err != nil {
			logger.Get().Error("audio capture unavailable", zap.Error(err))
			if logErr := conversationRepo.LogEvent(newComponentEvent("audio", "capture initialization failed: "+err.Error())); logErr != nil {
				logger.Get().Error("failed to record audio failure event", zap.Error(logErr))
			}
		} else {
			input = recorder
			output = audio.NewPlayer()
		}
	}
	stt := ai.NewWhisperProvider(cfg.EnvVars.SpeechBaseURL, cfg.EnvVars.SpeechAPIKey)
	tts := ai.NewSpeechProvider(cfg.EnvVars.SpeechBaseURL, cfg.EnvVars.SpeechAPIKey, cfg.EnvVars.SpeechVoice)
	voiceService = service.NewVoiceService(cfg, stt, tts, input, output)

	// Assistant core setup
	components := service.Components{
		VoiceSynthesis:    output != nil,
		SpeechRecognition: input != nil,
		WebAccess:         true,
		Model:             textProvider != nil,
	}
	searchService := service.NewSearchService(cfg, knowledgeProvider)
	assistantService := service.NewAssistantService(cfg, conversationRepo, textProvider, searchService, components)
	assistantHandler := handlers.NewAssistantHandler(assistantService, voiceService, searchService)

	// WebSocket session feed
	hub := ws.NewHub()
	go hub.Run()
	sessionHandler := ws.NewSessionHandler(hub, cfg, assistantService, voiceService)

	// Browser shell
	shellHandler, err := ui.NewShellHandler(cfg)
	if err != nil {
		logger.Get().Fatal("failed to load shell template", zap.Error(err))
	}
	r.GET("/", shellHandler.Serve)

	api := r.Group("/v1")
	{
		api.Use(middleware.RateLimitByIP(20, 5*time.Minute, 10*time.Minute))

		// Command routes

		// Process a typed command
		api.POST("/messages", assistantHandler.HandleMessage)
		// Capture and process one spoken command
		api.POST("/voice/listen", assistantHandler.Listen)
		// Direct knowledge lookup
		api.GET("/search", assistantHandler.SearchKnowledge)
		// Component status report
		api.GET("/status", assistantHandler.GetStatus)

		// Conversation log routes

		// Paged conversation history, oldest first
		api.GET("/conversation", conversationHandler.ListTurns)
		// Newest turns for priming a shell
		api.GET("/conversation/recent", conversationHandler.RecentTurns)
		// Single turn by ID
		api.GET("/conversation/:turn_id", conversationHandler.GetTurn)

		// Live session feed
		api.GET("/session", sessionHandler.HandleSession)
	}

	// Open the conversation with the boot report.
	if _, err := assistantService.Welcome(); err != nil {
		logger.Get().Error("failed to record welcome message", zap.Error(err))
	}

	return r
}

func newComponentEvent(component, message string) *models.SystemEvent {
	return &models.SystemEvent{
		Level:     "error",
		Component: component,
		Message:   message,
	}
}
