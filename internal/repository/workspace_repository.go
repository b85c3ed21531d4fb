package repository

import (
	"fmt"

	"github.com/ayatoki/contact-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// CreateWithOwner creates a workspace and its active owner membership in a
// single transaction.
func (r *GormWorkspaceRepository) CreateWithOwner(ws *models.Workspace, member *models.WorkspaceMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateWorkspace, err)
		}

		member.WorkspaceID = ws.ID
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateMembership, err)
		}

		return nil
	})
}

// FindByID finds a workspace by ID
func (r *GormWorkspaceRepository) FindByID(id uint64) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// UpdateOwner points the workspace at its new owning user
func (r *GormWorkspaceRepository) UpdateOwner(workspaceID, ownerID uint64) error {
	return r.db.Model(&models.Workspace{}).
		Where("id = ?", workspaceID).
		Update("owner_id", ownerID).Error
}
