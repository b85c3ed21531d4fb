package models

import (
	"time"

	"gorm.io/gorm"
)

type Reminder struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	WorkspaceID uint64         `gorm:"not null;index" json:"workspace_id"`
	Note        string         `gorm:"type:text;not null" json:"note"`
	DueAt       time.Time      `gorm:"not null" json:"due_at"`
	Done        bool           `gorm:"not null;default:false" json:"done"`
	PersonID    *uint64        `gorm:"index" json:"person_id"`
	CompanyID   *uint64        `gorm:"index" json:"company_id"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
	Person    *Person   `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Company   *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}
