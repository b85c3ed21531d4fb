package models

import (
	"time"

	"gorm.io/gorm"
)

type Conversation struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	WorkspaceID uint64         `gorm:"not null;index" json:"workspace_id"`
	Subject     string         `gorm:"type:varchar(255);not null" json:"subject"`
	Notes       string         `gorm:"type:text" json:"notes"`
	HappenedAt  time.Time      `json:"happened_at"`
	CompanyID   *uint64        `gorm:"index" json:"company_id"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Workspace    Workspace                 `gorm:"foreignKey:WorkspaceID" json:"-"`
	Company      *Company                  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Creator      User                      `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
}

// ConversationParticipant links a conversation to a person in the same
// workspace. Rows are only ever written together with their conversation.
type ConversationParticipant struct {
	ConversationID uint64         `gorm:"primarykey" json:"conversation_id"`
	PersonID       uint64         `gorm:"primarykey" json:"person_id"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
	Person       Person       `gorm:"foreignKey:PersonID" json:"person,omitempty"`
}
