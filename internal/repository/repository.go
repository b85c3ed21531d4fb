package repository

import (
	"errors"
	"time"

	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/utils"
)

var (
	// ErrStatusConflict is returned when a conditional membership write finds
	// the row no longer in the expected status.
	ErrStatusConflict = errors.New("membership status changed concurrently")

	// Transaction step sentinels for signup
	ErrCreateUser       = errors.New("failed to create user")
	ErrCreateWorkspace  = errors.New("failed to create workspace")
	ErrCreateMembership = errors.New("failed to create membership")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithDefaultWorkspace creates a user, their default workspace,
	// and the active owner membership within a single transaction.
	CreateWithDefaultWorkspace(user *models.User, ws *models.Workspace, member *models.WorkspaceMembership) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// CreateWithOwner creates a workspace and its active owner membership
	// within a single transaction.
	CreateWithOwner(ws *models.Workspace, member *models.WorkspaceMembership) error

	// FindByID finds a workspace by ID
	FindByID(id uint64) (*models.Workspace, error)

	// UpdateOwner points the workspace at its new owning user
	UpdateOwner(workspaceID, ownerID uint64) error
}

// MembershipRepository defines the interface for the membership ledger.
// Every status mutation is a conditional write guarded by the expected
// prior status; a stale guard yields ErrStatusConflict.
type MembershipRepository interface {
	// Create creates a new membership row
	Create(member *models.WorkspaceMembership) error

	// FindByID finds a membership by ID
	FindByID(id uint64) (*models.WorkspaceMembership, error)

	// ListByWorkspace lists a workspace's memberships ordered by invited_at
	ListByWorkspace(workspaceID uint64) ([]models.WorkspaceMembership, error)

	// ListActiveByUser lists a user's active memberships with workspaces preloaded
	ListActiveByUser(userID uint64) ([]models.WorkspaceMembership, error)

	// ListPendingByEmail lists pending invites for an email across workspaces,
	// with workspace and inviter preloaded
	ListPendingByEmail(email string) ([]models.WorkspaceMembership, error)

	// FindPendingByEmail finds the pending invite for an email in a workspace
	FindPendingByEmail(workspaceID uint64, email string) (*models.WorkspaceMembership, error)

	// FindActiveByUser finds a user's active membership in a workspace
	FindActiveByUser(workspaceID, userID uint64) (*models.WorkspaceMembership, error)

	// FindActiveByEmail finds an active membership by email in a workspace
	FindActiveByEmail(workspaceID uint64, email string) (*models.WorkspaceMembership, error)

	// CountActive counts active memberships in a workspace
	CountActive(workspaceID uint64) (int64, error)

	// CountActiveOwners counts active owner memberships in a workspace
	CountActiveOwners(workspaceID uint64) (int64, error)

	// Activate flips a pending row to active, binding the user identity
	Activate(id, userID uint64, acceptedAt time.Time) error

	// SoftRemove flips an active row to removed, stamping the actor and time
	SoftRemove(id, removedBy uint64, removedAt time.Time) error

	// PromoteToOwner sets an active row's role to owner
	PromoteToOwner(id uint64) error

	// DeletePending hard-deletes a still-pending invite
	DeletePending(id uint64) error
}

// ContactRepository defines workspace-scoped data access for companies,
// people, tags, and reminders. Every query carries the workspace id.
type ContactRepository interface {
	CreateCompany(company *models.Company) error
	FindCompanyByID(workspaceID, id uint64) (*models.Company, error)
	ListCompanies(workspaceID uint64, params utils.PaginationParams) ([]models.Company, int64, error)
	UpdateCompany(company *models.Company) error
	DeleteCompany(workspaceID, id uint64) error

	CreatePerson(person *models.Person) error
	FindPersonByID(workspaceID, id uint64) (*models.Person, error)
	ListPeople(workspaceID uint64, params utils.PaginationParams) ([]models.Person, int64, error)
	UpdatePerson(person *models.Person) error
	DeletePerson(workspaceID, id uint64) error

	// Reference checks used by the tenant scoping layer. Each resolves which
	// workspace a referenced row is stamped with, regardless of scope.
	CompanyWorkspace(id uint64) (uint64, error)
	PersonWorkspaces(ids []uint64) (map[uint64]uint64, error)
	TagWorkspace(id uint64) (uint64, error)

	CreateTag(tag *models.Tag) error
	FindTagByID(workspaceID, id uint64) (*models.Tag, error)
	ListTags(workspaceID uint64) ([]models.Tag, error)
	DeleteTag(workspaceID, id uint64) error
	AddPersonTag(personTag *models.PersonTag) error

	CreateReminder(reminder *models.Reminder) error
	FindReminderByID(workspaceID, id uint64) (*models.Reminder, error)
	ListReminders(workspaceID uint64, params utils.PaginationParams) ([]models.Reminder, int64, error)
	UpdateReminder(reminder *models.Reminder) error
	DeleteReminder(workspaceID, id uint64) error
}

// ConversationRepository defines workspace-scoped data access for
// conversations and their participant join rows.
type ConversationRepository interface {
	// CreateWithParticipants writes the conversation and its participant rows
	// in one transaction; nothing is persisted on failure.
	CreateWithParticipants(conv *models.Conversation, personIDs []uint64) error

	// FindByID finds a conversation in a workspace with relations preloaded
	FindByID(workspaceID, id uint64) (*models.Conversation, error)

	// List lists a workspace's conversations, newest first
	List(workspaceID uint64, params utils.PaginationParams) ([]models.Conversation, int64, error)

	// Delete removes a conversation and its participant rows in one transaction
	Delete(workspaceID, id uint64) error
}
