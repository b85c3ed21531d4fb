package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired             = errors.New("email is required")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrAlreadyInvited            = errors.New("a pending invite already exists for this email")
	ErrAlreadyMember             = errors.New("email already belongs to an active member")
	ErrInviteNotFound            = errors.New("no pending invite found")
	ErrMembershipNotFound        = errors.New("membership not found")
	ErrNotWorkspaceOwner         = errors.New("only an active workspace owner can perform this action")
	ErrCannotRemoveSelf          = errors.New("cannot remove your own membership, leave the workspace instead")
	ErrMemberNotActive           = errors.New("membership is not active")
	ErrOwnershipTransferRequired = errors.New("sole owner must transfer ownership before leaving")
	ErrTransferTargetNotActive   = errors.New("transfer target has no active membership in this workspace")
	ErrTransferToSelf            = errors.New("cannot transfer ownership to yourself")
	ErrMembershipConflict        = errors.New("membership was modified concurrently")
)

// MembershipService owns the invitation lifecycle and the membership state
// machine: pending -> active (accept), pending -> deleted (cancel),
// active -> removed (remove, leave, transfer). All authorization decisions
// for these transitions live here too.
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	workspaceRepo  repository.WorkspaceRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(membershipRepo repository.MembershipRepository, workspaceRepo repository.WorkspaceRepository) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		workspaceRepo:  workspaceRepo,
	}
}

// ListMembers returns a workspace's memberships ordered by invitation time.
func (s *MembershipService) ListMembers(workspaceID uint64) ([]models.WorkspaceMembership, error) {
	members, err := s.membershipRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// Invite creates a pending membership addressed by email. The email does not
// need to belong to an existing account; identity is bound at accept time.
func (s *MembershipService) Invite(workspaceID uint64, email string, invitedBy uint64) (*models.WorkspaceMembership, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if _, err := s.membershipRepo.FindActiveByEmail(workspaceID, email); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check active membership: %w", err)
	}

	if _, err := s.membershipRepo.FindPendingByEmail(workspaceID, email); err == nil {
		return nil, ErrAlreadyInvited
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending invites: %w", err)
	}

	member := &models.WorkspaceMembership{
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        models.RoleMember,
		Status:      models.StatusPending,
		Token:       uuid.NewString(),
		InvitedBy:   invitedBy,
		InvitedAt:   time.Now(),
	}

	if err := s.membershipRepo.Create(member); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return member, nil
}

// Accept transitions the pending invite matching the user's verified email to
// active and binds the user's identity to the row. A second accept for the
// same invite fails: the row is no longer pending.
func (s *MembershipService) Accept(workspaceID uint64, user *models.User) (*models.WorkspaceMembership, error) {
	member, err := s.membershipRepo.FindPendingByEmail(workspaceID, strings.ToLower(user.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find pending invite: %w", err)
	}

	if err := s.membershipRepo.Activate(member.ID, user.ID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrMembershipConflict
		}
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}

	accepted, err := s.membershipRepo.FindByID(member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload membership: %w", err)
	}
	return accepted, nil
}

// CancelInvite hard-deletes a still-pending invite. Cancellation is keyed by
// email because the invitee may not have an account yet.
func (s *MembershipService) CancelInvite(workspaceID uint64, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	member, err := s.membershipRepo.FindPendingByEmail(workspaceID, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to find pending invite: %w", err)
	}

	if err := s.membershipRepo.DeletePending(member.ID); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrMembershipConflict
		}
		return fmt.Errorf("failed to cancel invite: %w", err)
	}

	return nil
}

// IsOwner reports whether the user holds an active owner membership.
func (s *MembershipService) IsOwner(workspaceID, userID uint64) (bool, error) {
	member, err := s.membershipRepo.FindActiveByUser(workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find membership: %w", err)
	}
	return member.IsActiveOwner(), nil
}

// CountActiveMembers counts a workspace's active memberships.
func (s *MembershipService) CountActiveMembers(workspaceID uint64) (int64, error) {
	count, err := s.membershipRepo.CountActive(workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// authorizeRemove decides whether actor may remove target: the actor must
// hold an active owner membership, the target must still be active, and
// self-removal is routed through Leave.
func (s *MembershipService) authorizeRemove(workspaceID, actorID uint64, target *models.WorkspaceMembership) error {
	actor, err := s.membershipRepo.FindActiveByUser(workspaceID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotWorkspaceOwner
		}
		return fmt.Errorf("failed to find acting membership: %w", err)
	}
	if !actor.IsActiveOwner() {
		return ErrNotWorkspaceOwner
	}

	switch target.Status {
	case models.StatusActive:
		// ok
	case models.StatusRemoved:
		return ErrMembershipConflict
	default:
		return ErrMemberNotActive
	}

	if target.UserID != nil && *target.UserID == actorID {
		return ErrCannotRemoveSelf
	}

	return nil
}

// Remove soft-removes an active, non-self membership. The status flip is
// conditional on the row still being active at write time.
func (s *MembershipService) Remove(workspaceID, actorID, membershipID uint64) error {
	target, err := s.membershipRepo.FindByID(membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}
	if target.WorkspaceID != workspaceID {
		return ErrMembershipNotFound
	}

	if err := s.authorizeRemove(workspaceID, actorID, target); err != nil {
		return err
	}

	if err := s.membershipRepo.SoftRemove(target.ID, actorID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrMembershipConflict
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// Leave soft-removes the caller's own membership. A sole active owner is
// blocked until ownership has been transferred; the ledger is untouched in
// that case.
func (s *MembershipService) Leave(workspaceID, userID uint64) error {
	member, err := s.membershipRepo.FindActiveByUser(workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if member.IsActiveOwner() {
		owners, err := s.membershipRepo.CountActiveOwners(workspaceID)
		if err != nil {
			return fmt.Errorf("failed to count owners: %w", err)
		}
		if owners <= 1 {
			return ErrOwnershipTransferRequired
		}
	}

	if err := s.membershipRepo.SoftRemove(member.ID, userID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrMembershipConflict
		}
		return fmt.Errorf("failed to leave workspace: %w", err)
	}

	return nil
}

// TransferOwnership promotes an active member to owner and then soft-removes
// the current owner, in that order. If the removal step fails after the
// promotion succeeded, the workspace briefly has two active owners; retrying
// the departing owner's Leave heals it. The ordering guarantees the workspace
// never ends up with zero owners.
func (s *MembershipService) TransferOwnership(workspaceID, currentOwnerID, newOwnerUserID uint64) error {
	if currentOwnerID == newOwnerUserID {
		return ErrTransferToSelf
	}

	current, err := s.membershipRepo.FindActiveByUser(workspaceID, currentOwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find current owner: %w", err)
	}
	if !current.IsActiveOwner() {
		return ErrNotWorkspaceOwner
	}

	target, err := s.membershipRepo.FindActiveByUser(workspaceID, newOwnerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransferTargetNotActive
		}
		return fmt.Errorf("failed to find transfer target: %w", err)
	}

	if err := s.membershipRepo.PromoteToOwner(target.ID); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrMembershipConflict
		}
		return fmt.Errorf("failed to promote new owner: %w", err)
	}

	if err := s.workspaceRepo.UpdateOwner(workspaceID, newOwnerUserID); err != nil {
		return fmt.Errorf("failed to update workspace owner: %w", err)
	}

	if err := s.membershipRepo.SoftRemove(current.ID, currentOwnerID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrMembershipConflict
		}
		return fmt.Errorf("failed to remove previous owner: %w", err)
	}

	return nil
}

// ListMyPendingInvites returns all pending invites addressed to the user's
// verified email, with workspace and inviter details attached.
func (s *MembershipService) ListMyPendingInvites(user *models.User) ([]models.WorkspaceMembership, error) {
	invites, err := s.membershipRepo.ListPendingByEmail(strings.ToLower(user.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invites: %w", err)
	}
	return invites, nil
}
