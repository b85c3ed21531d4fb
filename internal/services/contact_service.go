package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/repository"
	"github.com/ayatoki/contact-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound         = errors.New("company not found")
	ErrPersonNotFound          = errors.New("person not found")
	ErrConversationNotFound    = errors.New("conversation not found")
	ErrTagNotFound             = errors.New("tag not found")
	ErrReminderNotFound        = errors.New("reminder not found")
	ErrCompanyNameRequired     = errors.New("company name is required")
	ErrPersonNameRequired      = errors.New("first name is required")
	ErrSubjectRequired         = errors.New("subject is required")
	ErrTagNameRequired         = errors.New("tag name is required")
	ErrReminderNoteRequired    = errors.New("reminder note is required")
	ErrCrossWorkspaceReference = errors.New("referenced record belongs to a different workspace")
)

// ContactService is the tenant scoping layer for companies, people,
// conversations, tags, and reminders. Every operation takes an explicit
// workspace id: reads filter on it, creates stamp it, and updates never
// change it. Any write referencing other entities first verifies that each
// reference carries the identical workspace id.
type ContactService struct {
	contactRepo      repository.ContactRepository
	conversationRepo repository.ConversationRepository
}

// NewContactService creates a new ContactService.
func NewContactService(contactRepo repository.ContactRepository, conversationRepo repository.ConversationRepository) *ContactService {
	return &ContactService{
		contactRepo:      contactRepo,
		conversationRepo: conversationRepo,
	}
}

// verifyCompanyRef checks that the referenced company is stamped with the
// given workspace id.
func (s *ContactService) verifyCompanyRef(workspaceID, companyID uint64) error {
	ws, err := s.contactRepo.CompanyWorkspace(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("failed to verify company reference: %w", err)
	}
	if ws != workspaceID {
		return ErrCrossWorkspaceReference
	}
	return nil
}

// verifyPersonRefs checks that every referenced person is stamped with the
// given workspace id.
func (s *ContactService) verifyPersonRefs(workspaceID uint64, personIDs []uint64) error {
	if len(personIDs) == 0 {
		return nil
	}

	workspaces, err := s.contactRepo.PersonWorkspaces(personIDs)
	if err != nil {
		return fmt.Errorf("failed to verify person references: %w", err)
	}

	for _, id := range personIDs {
		ws, ok := workspaces[id]
		if !ok {
			return ErrPersonNotFound
		}
		if ws != workspaceID {
			return ErrCrossWorkspaceReference
		}
	}
	return nil
}

// CompanyInput represents input for creating or updating a company.
type CompanyInput struct {
	Name   string
	Domain string
	Notes  string
}

// CreateCompany creates a company stamped with the workspace id.
func (s *ContactService) CreateCompany(workspaceID uint64, input CompanyInput) (*models.Company, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCompanyNameRequired
	}

	company := &models.Company{
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Domain:      input.Domain,
		Notes:       input.Notes,
	}
	if err := s.contactRepo.CreateCompany(company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

// GetCompany returns a company within the workspace.
func (s *ContactService) GetCompany(workspaceID, id uint64) (*models.Company, error) {
	company, err := s.contactRepo.FindCompanyByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return company, nil
}

// ListCompanies lists the workspace's companies.
func (s *ContactService) ListCompanies(workspaceID uint64, params utils.PaginationParams) ([]models.Company, int64, error) {
	companies, total, err := s.contactRepo.ListCompanies(workspaceID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, total, nil
}

// UpdateCompany updates a company's fields; the workspace stamp is immutable.
func (s *ContactService) UpdateCompany(workspaceID, id uint64, input CompanyInput) (*models.Company, error) {
	company, err := s.GetCompany(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCompanyNameRequired
	}

	company.Name = input.Name
	company.Domain = input.Domain
	company.Notes = input.Notes
	if err := s.contactRepo.UpdateCompany(company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

// DeleteCompany removes a company within the workspace.
func (s *ContactService) DeleteCompany(workspaceID, id uint64) error {
	if _, err := s.GetCompany(workspaceID, id); err != nil {
		return err
	}
	if err := s.contactRepo.DeleteCompany(workspaceID, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}

// PersonInput represents input for creating or updating a person.
type PersonInput struct {
	FirstName string
	LastName  string
	Email     string
	CompanyID *uint64
	Notes     string
}

// CreatePerson creates a person stamped with the workspace id. A company
// reference must live in the same workspace.
func (s *ContactService) CreatePerson(workspaceID uint64, input PersonInput) (*models.Person, error) {
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, ErrPersonNameRequired
	}
	if input.CompanyID != nil {
		if err := s.verifyCompanyRef(workspaceID, *input.CompanyID); err != nil {
			return nil, err
		}
	}

	person := &models.Person{
		WorkspaceID: workspaceID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		CompanyID:   input.CompanyID,
		Notes:       input.Notes,
	}
	if err := s.contactRepo.CreatePerson(person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	return person, nil
}

// GetPerson returns a person within the workspace.
func (s *ContactService) GetPerson(workspaceID, id uint64) (*models.Person, error) {
	person, err := s.contactRepo.FindPersonByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to find person: %w", err)
	}
	return person, nil
}

// ListPeople lists the workspace's people.
func (s *ContactService) ListPeople(workspaceID uint64, params utils.PaginationParams) ([]models.Person, int64, error) {
	people, total, err := s.contactRepo.ListPeople(workspaceID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list people: %w", err)
	}
	return people, total, nil
}

// UpdatePerson updates a person's fields; a changed company reference is
// re-verified against the workspace.
func (s *ContactService) UpdatePerson(workspaceID, id uint64, input PersonInput) (*models.Person, error) {
	person, err := s.GetPerson(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, ErrPersonNameRequired
	}
	if input.CompanyID != nil {
		if err := s.verifyCompanyRef(workspaceID, *input.CompanyID); err != nil {
			return nil, err
		}
	}

	person.FirstName = input.FirstName
	person.LastName = input.LastName
	person.Email = strings.ToLower(strings.TrimSpace(input.Email))
	person.CompanyID = input.CompanyID
	person.Notes = input.Notes
	if err := s.contactRepo.UpdatePerson(person); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	return person, nil
}

// DeletePerson removes a person within the workspace.
func (s *ContactService) DeletePerson(workspaceID, id uint64) error {
	if _, err := s.GetPerson(workspaceID, id); err != nil {
		return err
	}
	if err := s.contactRepo.DeletePerson(workspaceID, id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

// ConversationInput represents input for recording a conversation.
type ConversationInput struct {
	Subject        string
	Notes          string
	HappenedAt     time.Time
	CompanyID      *uint64
	ParticipantIDs []uint64
	CreatorID      uint64
}

// CreateConversation records a conversation. The company reference and every
// participant must carry the identical workspace id; on any mismatch nothing
// is written, including participant join rows.
func (s *ContactService) CreateConversation(workspaceID uint64, input ConversationInput) (*models.Conversation, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, ErrSubjectRequired
	}

	if input.CompanyID != nil {
		if err := s.verifyCompanyRef(workspaceID, *input.CompanyID); err != nil {
			return nil, err
		}
	}
	if err := s.verifyPersonRefs(workspaceID, input.ParticipantIDs); err != nil {
		return nil, err
	}

	happenedAt := input.HappenedAt
	if happenedAt.IsZero() {
		happenedAt = time.Now()
	}

	conv := &models.Conversation{
		WorkspaceID: workspaceID,
		Subject:     input.Subject,
		Notes:       input.Notes,
		HappenedAt:  happenedAt,
		CompanyID:   input.CompanyID,
		CreatorID:   input.CreatorID,
	}
	if err := s.conversationRepo.CreateWithParticipants(conv, input.ParticipantIDs); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// GetConversation returns a conversation within the workspace.
func (s *ContactService) GetConversation(workspaceID, id uint64) (*models.Conversation, error) {
	conv, err := s.conversationRepo.FindByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return conv, nil
}

// ListConversations lists the workspace's conversations, newest first.
func (s *ContactService) ListConversations(workspaceID uint64, params utils.PaginationParams) ([]models.Conversation, int64, error) {
	convs, total, err := s.conversationRepo.List(workspaceID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, total, nil
}

// DeleteConversation removes a conversation and its participant rows.
func (s *ContactService) DeleteConversation(workspaceID, id uint64) error {
	if _, err := s.GetConversation(workspaceID, id); err != nil {
		return err
	}
	if err := s.conversationRepo.Delete(workspaceID, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// CreateTag creates a tag stamped with the workspace id.
func (s *ContactService) CreateTag(workspaceID uint64, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrTagNameRequired
	}

	tag := &models.Tag{
		WorkspaceID: workspaceID,
		Name:        name,
	}
	if err := s.contactRepo.CreateTag(tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// ListTags lists the workspace's tags.
func (s *ContactService) ListTags(workspaceID uint64) ([]models.Tag, error) {
	tags, err := s.contactRepo.ListTags(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// DeleteTag removes a tag and its person links within the workspace.
func (s *ContactService) DeleteTag(workspaceID, id uint64) error {
	if _, err := s.contactRepo.FindTagByID(workspaceID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to find tag: %w", err)
	}
	if err := s.contactRepo.DeleteTag(workspaceID, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

// TagPerson attaches a tag to a person. Both must carry the identical
// workspace id; otherwise no join row is written.
func (s *ContactService) TagPerson(workspaceID, personID, tagID uint64) error {
	if err := s.verifyPersonRefs(workspaceID, []uint64{personID}); err != nil {
		return err
	}

	tagWs, err := s.contactRepo.TagWorkspace(tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to verify tag reference: %w", err)
	}
	if tagWs != workspaceID {
		return ErrCrossWorkspaceReference
	}

	personTag := &models.PersonTag{
		PersonID: personID,
		TagID:    tagID,
	}
	if err := s.contactRepo.AddPersonTag(personTag); err != nil {
		return fmt.Errorf("failed to tag person: %w", err)
	}
	return nil
}

// ReminderInput represents input for creating a reminder.
type ReminderInput struct {
	Note      string
	DueAt     time.Time
	PersonID  *uint64
	CompanyID *uint64
	CreatorID uint64
}

// CreateReminder creates a reminder stamped with the workspace id. Person and
// company references must live in the same workspace.
func (s *ContactService) CreateReminder(workspaceID uint64, input ReminderInput) (*models.Reminder, error) {
	if strings.TrimSpace(input.Note) == "" {
		return nil, ErrReminderNoteRequired
	}
	if input.PersonID != nil {
		if err := s.verifyPersonRefs(workspaceID, []uint64{*input.PersonID}); err != nil {
			return nil, err
		}
	}
	if input.CompanyID != nil {
		if err := s.verifyCompanyRef(workspaceID, *input.CompanyID); err != nil {
			return nil, err
		}
	}

	reminder := &models.Reminder{
		WorkspaceID: workspaceID,
		Note:        input.Note,
		DueAt:       input.DueAt,
		PersonID:    input.PersonID,
		CompanyID:   input.CompanyID,
		CreatorID:   input.CreatorID,
	}
	if err := s.contactRepo.CreateReminder(reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return reminder, nil
}

// ListReminders lists the workspace's reminders ordered by due date.
func (s *ContactService) ListReminders(workspaceID uint64, params utils.PaginationParams) ([]models.Reminder, int64, error) {
	reminders, total, err := s.contactRepo.ListReminders(workspaceID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, total, nil
}

// CompleteReminder marks a reminder as done.
func (s *ContactService) CompleteReminder(workspaceID, id uint64) (*models.Reminder, error) {
	reminder, err := s.contactRepo.FindReminderByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to find reminder: %w", err)
	}

	reminder.Done = true
	if err := s.contactRepo.UpdateReminder(reminder); err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	return reminder, nil
}

// DeleteReminder removes a reminder within the workspace.
func (s *ContactService) DeleteReminder(workspaceID, id uint64) error {
	if _, err := s.contactRepo.FindReminderByID(workspaceID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReminderNotFound
		}
		return fmt.Errorf("failed to find reminder: %w", err)
	}
	if err := s.contactRepo.DeleteReminder(workspaceID, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}
