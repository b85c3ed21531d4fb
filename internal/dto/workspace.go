package dto

import (
	"time"

	"github.com/ayatoki/contact-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	OwnerID uint64 `json:"owner_id"`
}

// ToWorkspaceDTO converts a workspace to DTO
func ToWorkspaceDTO(ws models.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:      ws.ID,
		Name:    ws.Name,
		OwnerID: ws.OwnerID,
	}
}

// WorkspaceWithRoleDTO represents a workspace with the caller's role
type WorkspaceWithRoleDTO struct {
	WorkspaceDTO
	Role models.MembershipRole `json:"role"`
}

// ToWorkspaceWithRoleDTO converts a membership to DTO with the caller's role
func ToWorkspaceWithRoleDTO(member models.WorkspaceMembership) WorkspaceWithRoleDTO {
	return WorkspaceWithRoleDTO{
		WorkspaceDTO: ToWorkspaceDTO(member.Workspace),
		Role:         member.Role,
	}
}

// MembershipDTO represents a membership ledger entry in API responses
type MembershipDTO struct {
	ID         uint64                  `json:"id"`
	Email      string                  `json:"email"`
	Role       models.MembershipRole   `json:"role"`
	Status     models.MembershipStatus `json:"status"`
	User       *UserDTO                `json:"user,omitempty"`
	InvitedAt  time.Time               `json:"invited_at"`
	AcceptedAt *time.Time              `json:"accepted_at,omitempty"`
	RemovedAt  *time.Time              `json:"removed_at,omitempty"`
}

// ToMembershipDTO converts a membership to DTO
func ToMembershipDTO(member models.WorkspaceMembership) MembershipDTO {
	dto := MembershipDTO{
		ID:         member.ID,
		Email:      member.Email,
		Role:       member.Role,
		Status:     member.Status,
		InvitedAt:  member.InvitedAt,
		AcceptedAt: member.AcceptedAt,
		RemovedAt:  member.RemovedAt,
	}
	if member.User != nil {
		user := ToUserDTO(*member.User)
		dto.User = &user
	}
	return dto
}

// PendingInviteDTO represents a pending invite addressed to the caller
type PendingInviteDTO struct {
	ID            uint64    `json:"id"`
	WorkspaceID   uint64    `json:"workspace_id"`
	WorkspaceName string    `json:"workspace_name"`
	InviterEmail  string    `json:"inviter_email,omitempty"`
	InviterName   string    `json:"inviter_name,omitempty"`
	InvitedAt     time.Time `json:"invited_at"`
}

// ToPendingInviteDTO converts a pending membership to the caller-facing DTO.
// Inviter identity is best effort: the inviting account may be gone.
func ToPendingInviteDTO(member models.WorkspaceMembership) PendingInviteDTO {
	return PendingInviteDTO{
		ID:            member.ID,
		WorkspaceID:   member.WorkspaceID,
		WorkspaceName: member.Workspace.Name,
		InviterEmail:  member.Inviter.Email,
		InviterName:   member.Inviter.DisplayName,
		InvitedAt:     member.InvitedAt,
	}
}
