package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWorkspaceNotFound    = errors.New("workspace not found")
	ErrInvalidWorkspaceName = errors.New("workspace name cannot be empty")
)

// DefaultWorkspaceName is used when a workspace is auto-created for a user
// who has none.
const DefaultWorkspaceName = "Personal workspace"

// WorkspaceService provides the workspace registry: listing, creation, and
// the default-workspace bootstrap.
type WorkspaceService struct {
	workspaceRepo  repository.WorkspaceRepository
	membershipRepo repository.MembershipRepository
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, membershipRepo repository.MembershipRepository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo:  workspaceRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateWorkspace creates a workspace with the given user as its active owner.
func (s *WorkspaceService) CreateWorkspace(name string, owner *models.User) (*models.Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidWorkspaceName
	}

	now := time.Now()
	ws := &models.Workspace{
		Name:    name,
		OwnerID: owner.ID,
	}
	member := &models.WorkspaceMembership{
		UserID:     &owner.ID,
		Email:      strings.ToLower(owner.Email),
		Role:       models.RoleOwner,
		Status:     models.StatusActive,
		InvitedBy:  owner.ID,
		InvitedAt:  now,
		AcceptedAt: &now,
	}

	if err := s.workspaceRepo.CreateWithOwner(ws, member); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return ws, nil
}

// ListWorkspaces returns the workspaces where the user holds an active
// membership, deduplicated by workspace id, along with the user's role.
func (s *WorkspaceService) ListWorkspaces(userID uint64) ([]models.WorkspaceMembership, error) {
	memberships, err := s.membershipRepo.ListActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	seen := make(map[uint64]bool, len(memberships))
	deduped := memberships[:0]
	for _, m := range memberships {
		if seen[m.WorkspaceID] {
			continue
		}
		seen[m.WorkspaceID] = true
		deduped = append(deduped, m)
	}

	return deduped, nil
}

// GetOrCreateDefault returns the user's first workspace, auto-creating one
// when none exists.
func (s *WorkspaceService) GetOrCreateDefault(user *models.User) (*models.Workspace, error) {
	memberships, err := s.membershipRepo.ListActiveByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	if len(memberships) > 0 {
		ws := memberships[0].Workspace
		return &ws, nil
	}

	return s.CreateWorkspace(DefaultWorkspaceName, user)
}

// GetWorkspace returns a workspace by id.
func (s *WorkspaceService) GetWorkspace(workspaceID uint64) (*models.Workspace, error) {
	ws, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return ws, nil
}
