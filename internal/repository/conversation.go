package repository

import (
	"errors"

	"github.com/dmaceachern/jarvis-api/internal/logger"
	"github.com/dmaceachern/jarvis-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConversationRepository is a repository for the append-only conversation log.
type ConversationRepository struct {
	DB *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

// AppendTurn appends a turn to the conversation log.
func (r *ConversationRepository) AppendTurn(turn *models.ConversationTurn) error {
	// Start a new transaction
	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Create(turn).Error; err != nil {
		tx.Rollback()
		logger.Get().Error("failed to append conversation turn", zap.Error(err))
		return err
	}

	return tx.Commit().Error
}

// ListTurns retrieves a page of turns in chronological order, along with
// the total turn count.
func (r *ConversationRepository) ListTurns(page, pageSize int) ([]models.ConversationTurn, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var total int64
	if err := r.DB.Model(&models.ConversationTurn{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var turns []models.ConversationTurn
	err := r.DB.Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&turns).Error
	if err != nil {
		return nil, 0, err
	}

	return turns, total, nil
}

// RecentTurns retrieves the most recent turns, oldest first, for use as
// model context.
func (r *ConversationRepository) RecentTurns(limit int) ([]models.ConversationTurn, error) {
	if limit < 1 {
		limit = 3
	}

	var turns []models.ConversationTurn
	err := r.DB.Order("id DESC").Limit(limit).Find(&turns).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// GetTurnByID retrieves a single turn by its ID.
func (r *ConversationRepository) GetTurnByID(turnID uint) (*models.ConversationTurn, error) {
	var turn models.ConversationTurn
	err := r.DB.First(&turn, turnID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Conversation turn not found"}
		}
		return nil, err
	}
	return &turn, nil
}

// LogEvent appends a system event.
func (r *ConversationRepository) LogEvent(event *models.SystemEvent) error {
	return r.DB.Create(event).Error
}
