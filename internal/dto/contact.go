package dto

import (
	"time"

	"github.com/ayatoki/contact-tracker-api/internal/models"
)

// CompanyDTO represents a company in API responses
type CompanyDTO struct {
	ID          uint64    `json:"id"`
	WorkspaceID uint64    `json:"workspace_id"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCompanyDTO converts a company to DTO
func ToCompanyDTO(company models.Company) CompanyDTO {
	return CompanyDTO{
		ID:          company.ID,
		WorkspaceID: company.WorkspaceID,
		Name:        company.Name,
		Domain:      company.Domain,
		Notes:       company.Notes,
		CreatedAt:   company.CreatedAt,
	}
}

// PersonDTO represents a person in API responses
type PersonDTO struct {
	ID          uint64      `json:"id"`
	WorkspaceID uint64      `json:"workspace_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name,omitempty"`
	Email       string      `json:"email,omitempty"`
	CompanyID   *uint64     `json:"company_id,omitempty"`
	Company     *CompanyDTO `json:"company,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ToPersonDTO converts a person to DTO
func ToPersonDTO(person models.Person) PersonDTO {
	dto := PersonDTO{
		ID:          person.ID,
		WorkspaceID: person.WorkspaceID,
		FirstName:   person.FirstName,
		LastName:    person.LastName,
		Email:       person.Email,
		CompanyID:   person.CompanyID,
		Notes:       person.Notes,
		CreatedAt:   person.CreatedAt,
	}
	if person.Company != nil {
		company := ToCompanyDTO(*person.Company)
		dto.Company = &company
	}
	for _, pt := range person.Tags {
		if pt.Tag.Name != "" {
			dto.Tags = append(dto.Tags, pt.Tag.Name)
		}
	}
	return dto
}

// ParticipantDTO represents a conversation participant in API responses
type ParticipantDTO struct {
	PersonID  uint64 `json:"person_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

// ConversationDTO represents a conversation in API responses
type ConversationDTO struct {
	ID           uint64           `json:"id"`
	WorkspaceID  uint64           `json:"workspace_id"`
	Subject      string           `json:"subject"`
	Notes        string           `json:"notes,omitempty"`
	HappenedAt   time.Time        `json:"happened_at"`
	CompanyID    *uint64          `json:"company_id,omitempty"`
	Company      *CompanyDTO      `json:"company,omitempty"`
	CreatorID    uint64           `json:"creator_id"`
	Participants []ParticipantDTO `json:"participants,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ToConversationDTO converts a conversation to DTO
func ToConversationDTO(conv models.Conversation) ConversationDTO {
	dto := ConversationDTO{
		ID:          conv.ID,
		WorkspaceID: conv.WorkspaceID,
		Subject:     conv.Subject,
		Notes:       conv.Notes,
		HappenedAt:  conv.HappenedAt,
		CompanyID:   conv.CompanyID,
		CreatorID:   conv.CreatorID,
		CreatedAt:   conv.CreatedAt,
	}
	if conv.Company != nil {
		company := ToCompanyDTO(*conv.Company)
		dto.Company = &company
	}
	for _, p := range conv.Participants {
		dto.Participants = append(dto.Participants, ParticipantDTO{
			PersonID:  p.PersonID,
			FirstName: p.Person.FirstName,
			LastName:  p.Person.LastName,
		})
	}
	return dto
}

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToTagDTO converts a tag to DTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:   tag.ID,
		Name: tag.Name,
	}
}

// ReminderDTO represents a reminder in API responses
type ReminderDTO struct {
	ID          uint64    `json:"id"`
	WorkspaceID uint64    `json:"workspace_id"`
	Note        string    `json:"note"`
	DueAt       time.Time `json:"due_at"`
	Done        bool      `json:"done"`
	PersonID    *uint64   `json:"person_id,omitempty"`
	CompanyID   *uint64   `json:"company_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToReminderDTO converts a reminder to DTO
func ToReminderDTO(reminder models.Reminder) ReminderDTO {
	return ReminderDTO{
		ID:          reminder.ID,
		WorkspaceID: reminder.WorkspaceID,
		Note:        reminder.Note,
		DueAt:       reminder.DueAt,
		Done:        reminder.Done,
		PersonID:    reminder.PersonID,
		CompanyID:   reminder.CompanyID,
		CreatedAt:   reminder.CreatedAt,
	}
}
