package repository

import "github.com/dmaceachern/jarvis-api/internal/models"

// ConversationRepo is the interface for conversation log operations.
// The log is append-only: there are deliberately no update or delete
// methods here.
type ConversationRepo interface {
	AppendTurn(turn *models.ConversationTurn) error
	ListTurns(page, pageSize int) ([]models.ConversationTurn, int64, error)
	RecentTurns(limit int) ([]models.ConversationTurn, error)
	GetTurnByID(turnID uint) (*models.ConversationTurn, error)
	LogEvent(event *models.SystemEvent) error
}
