package models

import "time"

type MembershipRole string

const (
	RoleOwner  MembershipRole = "owner"
	RoleMember MembershipRole = "member"
)

type MembershipStatus string

const (
	StatusPending MembershipStatus = "pending"
	StatusActive  MembershipStatus = "active"
	StatusRemoved MembershipStatus = "removed"
)

// statusTransitions is the complete set of legal status changes. Pending
// invites may also be hard-deleted (cancellation); removed rows are terminal
// and never reactivated.
var statusTransitions = map[MembershipStatus][]MembershipStatus{
	StatusPending: {StatusActive},
	StatusActive:  {StatusRemoved},
	StatusRemoved: {},
}

// CanTransitionTo reports whether a membership in this status may move to next.
func (s MembershipStatus) CanTransitionTo(next MembershipStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether the status is one of the known variants.
func (s MembershipStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// WorkspaceMembership binds a user, or a pending invite email, to a workspace.
// UserID is nil exactly while the row is pending; acceptance binds the
// identity of the user whose verified email matches Email. Removal is a
// status flip, never a row delete, so the audit trail survives.
type WorkspaceMembership struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	WorkspaceID uint64           `gorm:"not null;index" json:"workspace_id"`
	UserID      *uint64          `gorm:"index" json:"user_id"`
	Email       string           `gorm:"type:varchar(255);not null;index" json:"email"`
	Role        MembershipRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status      MembershipStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Token       string           `gorm:"type:varchar(64)" json:"-"`
	InvitedBy   uint64           `gorm:"not null" json:"invited_by"`
	InvitedAt   time.Time        `json:"invited_at"`
	AcceptedAt  *time.Time       `json:"accepted_at"`
	RemovedBy   *uint64          `json:"removed_by"`
	RemovedAt   *time.Time       `json:"removed_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Inviter   User      `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
}

// IsActiveOwner reports whether the row is a live owner membership.
func (m WorkspaceMembership) IsActiveOwner() bool {
	return m.Status == StatusActive && m.Role == RoleOwner
}
