package repository

import (
	"time"

	"github.com/ayatoki/contact-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Create creates a new membership row
func (r *GormMembershipRepository) Create(member *models.WorkspaceMembership) error {
	return r.db.Create(member).Error
}

// FindByID finds a membership by ID
func (r *GormMembershipRepository) FindByID(id uint64) (*models.WorkspaceMembership, error) {
	var member models.WorkspaceMembership
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByWorkspace lists a workspace's memberships ordered by invited_at
func (r *GormMembershipRepository) ListByWorkspace(workspaceID uint64) ([]models.WorkspaceMembership, error) {
	var members []models.WorkspaceMembership
	if err := r.db.Preload("User").
		Where("workspace_id = ?", workspaceID).
		Order("invited_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListActiveByUser lists a user's active memberships with workspaces preloaded
func (r *GormMembershipRepository) ListActiveByUser(userID uint64) ([]models.WorkspaceMembership, error) {
	var members []models.WorkspaceMembership
	if err := r.db.Preload("Workspace").
		Where("user_id = ? AND status = ?", userID, models.StatusActive).
		Order("invited_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListPendingByEmail lists pending invites for an email across workspaces
func (r *GormMembershipRepository) ListPendingByEmail(email string) ([]models.WorkspaceMembership, error) {
	var members []models.WorkspaceMembership
	if err := r.db.Preload("Workspace").Preload("Inviter").
		Where("email = ? AND status = ?", email, models.StatusPending).
		Order("invited_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindPendingByEmail finds the pending invite for an email in a workspace
func (r *GormMembershipRepository) FindPendingByEmail(workspaceID uint64, email string) (*models.WorkspaceMembership, error) {
	var member models.WorkspaceMembership
	if err := r.db.Where("workspace_id = ? AND email = ? AND status = ?",
		workspaceID, email, models.StatusPending).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindActiveByUser finds a user's active membership in a workspace
func (r *GormMembershipRepository) FindActiveByUser(workspaceID, userID uint64) (*models.WorkspaceMembership, error) {
	var member models.WorkspaceMembership
	if err := r.db.Where("workspace_id = ? AND user_id = ? AND status = ?",
		workspaceID, userID, models.StatusActive).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindActiveByEmail finds an active membership by email in a workspace
func (r *GormMembershipRepository) FindActiveByEmail(workspaceID uint64, email string) (*models.WorkspaceMembership, error) {
	var member models.WorkspaceMembership
	if err := r.db.Where("workspace_id = ? AND email = ? AND status = ?",
		workspaceID, email, models.StatusActive).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// CountActive counts active memberships in a workspace
func (r *GormMembershipRepository) CountActive(workspaceID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkspaceMembership{}).
		Where("workspace_id = ? AND status = ?", workspaceID, models.StatusActive).
		Count(&count).Error
	return count, err
}

// CountActiveOwners counts active owner memberships in a workspace
func (r *GormMembershipRepository) CountActiveOwners(workspaceID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkspaceMembership{}).
		Where("workspace_id = ? AND status = ? AND role = ?",
			workspaceID, models.StatusActive, models.RoleOwner).
		Count(&count).Error
	return count, err
}

// Activate flips a pending row to active, binding the user identity. The
// status guard makes a second accept of the same invite fail instead of
// silently re-stamping accepted_at.
func (r *GormMembershipRepository) Activate(id, userID uint64, acceptedAt time.Time) error {
	result := r.db.Model(&models.WorkspaceMembership{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      models.StatusActive,
			"user_id":     userID,
			"accepted_at": acceptedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// SoftRemove flips an active row to removed, stamping the actor and time
func (r *GormMembershipRepository) SoftRemove(id, removedBy uint64, removedAt time.Time) error {
	result := r.db.Model(&models.WorkspaceMembership{}).
		Where("id = ? AND status = ?", id, models.StatusActive).
		Updates(map[string]interface{}{
			"status":     models.StatusRemoved,
			"removed_by": removedBy,
			"removed_at": removedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// PromoteToOwner sets an active row's role to owner
func (r *GormMembershipRepository) PromoteToOwner(id uint64) error {
	result := r.db.Model(&models.WorkspaceMembership{}).
		Where("id = ? AND status = ?", id, models.StatusActive).
		Update("role", models.RoleOwner)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// DeletePending hard-deletes a still-pending invite
func (r *GormMembershipRepository) DeletePending(id uint64) error {
	result := r.db.Where("id = ? AND status = ?", id, models.StatusPending).
		Delete(&models.WorkspaceMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}
