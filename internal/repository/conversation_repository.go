package repository

import (
	"github.com/ayatoki/contact-tracker-api/internal/database"
	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormConversationRepository is a GORM implementation of ConversationRepository
type GormConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &GormConversationRepository{db: db}
}

// CreateWithParticipants writes the conversation and its participant rows in
// one transaction so a failed write leaves no join rows behind.
func (r *GormConversationRepository) CreateWithParticipants(conv *models.Conversation, personIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}

		for _, personID := range personIDs {
			participant := models.ConversationParticipant{
				ConversationID: conv.ID,
				PersonID:       personID,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a conversation in a workspace with relations preloaded
func (r *GormConversationRepository) FindByID(workspaceID, id uint64) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.Scopes(database.WorkspaceScope(workspaceID)).
		Preload("Company").
		Preload("Participants.Person").
		First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// List lists a workspace's conversations, newest first
func (r *GormConversationRepository) List(workspaceID uint64, params utils.PaginationParams) ([]models.Conversation, int64, error) {
	var convs []models.Conversation
	var total int64

	query := r.db.Model(&models.Conversation{}).Scopes(database.WorkspaceScope(workspaceID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Company").
		Order("happened_at DESC").
		Scopes(database.Paginate(params)).
		Find(&convs).Error; err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

// Delete removes a conversation and its participant rows in one transaction
func (r *GormConversationRepository) Delete(workspaceID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).
			Delete(&models.ConversationParticipant{}).Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ?", workspaceID).
			Delete(&models.Conversation{}, id).Error
	})
}
