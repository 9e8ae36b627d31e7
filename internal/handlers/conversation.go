package handlers

import (
	"net/http"
	"strconv"

	"github.com/dmaceachern/jarvis-api/internal/logger"
	"github.com/dmaceachern/jarvis-api/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConversationHandler is the handler for conversation log requests.
type ConversationHandler struct {
	Repo repository.ConversationRepo
}

// NewConversationHandler is the constructor function for initializing a new ConversationHandler.
func NewConversationHandler(repo repository.ConversationRepo) *ConversationHandler {
	return &ConversationHandler{Repo: repo}
}

// ListTurns returns a paginated slice of the conversation log, oldest first.
func (h *ConversationHandler) ListTurns(c *gin.Context) {
	page := 1
	pageSize := 50

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 200 {
			pageSize = v
		}
	}

	turns, total, err := h.Repo.ListTurns(page, pageSize)
	if err != nil {
		logger.Get().Error("failed to list conversation turns", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"turns":    turns,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetTurn returns a single conversation turn by ID.
func (h *ConversationHandler) GetTurn(c *gin.Context) {
	turnIDStr := c.Param("turn_id")
	turnID, err := parseUintParam(turnIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid turn ID"})
		return
	}

	turn, err := h.Repo.GetTurnByID(turnID)
	if err != nil {
		logger.Get().Error("failed to get conversation turn", zap.String("turn_id", turnIDStr), zap.Error(err))
		switch e := err.(type) {
		case repository.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": e.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"turn": turn})
}

// RecentTurns returns the newest turns in chronological order, for priming
// a shell that just attached.
func (h *ConversationHandler) RecentTurns(c *gin.Context) {
	limit := 20
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	turns, err := h.Repo.RecentTurns(limit)
	if err != nil {
		logger.Get().Error("failed to load recent turns", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent turns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"turns": turns})
}
