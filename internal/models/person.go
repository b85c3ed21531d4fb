package models

import (
	"time"

	"gorm.io/gorm"
)

type Person struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	WorkspaceID uint64         `gorm:"not null;index" json:"workspace_id"`
	FirstName   string         `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName    string         `gorm:"type:varchar(255)" json:"last_name"`
	Email       string         `gorm:"type:varchar(255)" json:"email"`
	CompanyID   *uint64        `gorm:"index" json:"company_id"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Workspace Workspace   `gorm:"foreignKey:WorkspaceID" json:"-"`
	Company   *Company    `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Tags      []PersonTag `gorm:"foreignKey:PersonID" json:"tags,omitempty"`
}
