package models

import "time"

// Workspace is an isolated tenant data partition. Workspaces are never
// deleted; collaborators come and go through the membership ledger.
type Workspace struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID   uint64    `gorm:"not null" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Memberships []WorkspaceMembership `gorm:"foreignKey:WorkspaceID" json:"members,omitempty"`
}
