package models

import (
	"time"

	"gorm.io/gorm"
)

type Tag struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	WorkspaceID uint64         `gorm:"not null;index" json:"workspace_id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
}

// PersonTag attaches a tag to a person. Both sides must live in the same
// workspace; the contact service checks that before any row is written.
type PersonTag struct {
	PersonID  uint64         `gorm:"primarykey" json:"person_id"`
	TagID     uint64         `gorm:"primarykey" json:"tag_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Person Person `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Tag    Tag    `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}
