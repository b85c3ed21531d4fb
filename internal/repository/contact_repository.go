package repository

import (
	"github.com/ayatoki/contact-tracker-api/internal/database"
	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormContactRepository is a GORM implementation of ContactRepository
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) scoped(workspaceID uint64) *gorm.DB {
	return r.db.Scopes(database.WorkspaceScope(workspaceID))
}

// CreateCompany creates a new company
func (r *GormContactRepository) CreateCompany(company *models.Company) error {
	return r.db.Create(company).Error
}

// FindCompanyByID finds a company within a workspace
func (r *GormContactRepository) FindCompanyByID(workspaceID, id uint64) (*models.Company, error) {
	var company models.Company
	if err := r.scoped(workspaceID).First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// ListCompanies lists a workspace's companies
func (r *GormContactRepository) ListCompanies(workspaceID uint64, params utils.PaginationParams) ([]models.Company, int64, error) {
	var companies []models.Company
	var total int64

	query := r.db.Model(&models.Company{}).Scopes(database.WorkspaceScope(workspaceID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("name ASC").
		Scopes(database.Paginate(params)).
		Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// UpdateCompany updates a company
func (r *GormContactRepository) UpdateCompany(company *models.Company) error {
	return r.db.Save(company).Error
}

// DeleteCompany soft deletes a company within a workspace
func (r *GormContactRepository) DeleteCompany(workspaceID, id uint64) error {
	return r.scoped(workspaceID).Delete(&models.Company{}, id).Error
}

// CreatePerson creates a new person
func (r *GormContactRepository) CreatePerson(person *models.Person) error {
	return r.db.Create(person).Error
}

// FindPersonByID finds a person within a workspace
func (r *GormContactRepository) FindPersonByID(workspaceID, id uint64) (*models.Person, error) {
	var person models.Person
	if err := r.scoped(workspaceID).
		Preload("Company").
		Preload("Tags.Tag").
		First(&person, id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// ListPeople lists a workspace's people
func (r *GormContactRepository) ListPeople(workspaceID uint64, params utils.PaginationParams) ([]models.Person, int64, error) {
	var people []models.Person
	var total int64

	query := r.db.Model(&models.Person{}).Scopes(database.WorkspaceScope(workspaceID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Company").
		Order("first_name ASC, last_name ASC").
		Scopes(database.Paginate(params)).
		Find(&people).Error; err != nil {
		return nil, 0, err
	}
	return people, total, nil
}

// UpdatePerson updates a person
func (r *GormContactRepository) UpdatePerson(person *models.Person) error {
	return r.db.Save(person).Error
}

// DeletePerson soft deletes a person within a workspace
func (r *GormContactRepository) DeletePerson(workspaceID, id uint64) error {
	return r.scoped(workspaceID).Delete(&models.Person{}, id).Error
}

// CompanyWorkspace resolves which workspace a company row is stamped with
func (r *GormContactRepository) CompanyWorkspace(id uint64) (uint64, error) {
	var company models.Company
	if err := r.db.Select("id", "workspace_id").First(&company, id).Error; err != nil {
		return 0, err
	}
	return company.WorkspaceID, nil
}

// PersonWorkspaces resolves workspace stamps for a set of person rows.
// Missing IDs are absent from the result map.
func (r *GormContactRepository) PersonWorkspaces(ids []uint64) (map[uint64]uint64, error) {
	var people []models.Person
	if err := r.db.Select("id", "workspace_id").Where("id IN ?", ids).Find(&people).Error; err != nil {
		return nil, err
	}

	workspaces := make(map[uint64]uint64, len(people))
	for _, p := range people {
		workspaces[p.ID] = p.WorkspaceID
	}
	return workspaces, nil
}

// TagWorkspace resolves which workspace a tag row is stamped with
func (r *GormContactRepository) TagWorkspace(id uint64) (uint64, error) {
	var tag models.Tag
	if err := r.db.Select("id", "workspace_id").First(&tag, id).Error; err != nil {
		return 0, err
	}
	return tag.WorkspaceID, nil
}

// CreateTag creates a new tag
func (r *GormContactRepository) CreateTag(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// FindTagByID finds a tag within a workspace
func (r *GormContactRepository) FindTagByID(workspaceID, id uint64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.scoped(workspaceID).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTags lists a workspace's tags
func (r *GormContactRepository) ListTags(workspaceID uint64) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.scoped(workspaceID).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// DeleteTag soft deletes a tag and its person links in one transaction
func (r *GormContactRepository) DeleteTag(workspaceID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.PersonTag{}).Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ?", workspaceID).Delete(&models.Tag{}, id).Error
	})
}

// AddPersonTag attaches a tag to a person
func (r *GormContactRepository) AddPersonTag(personTag *models.PersonTag) error {
	return r.db.Create(personTag).Error
}

// CreateReminder creates a new reminder
func (r *GormContactRepository) CreateReminder(reminder *models.Reminder) error {
	return r.db.Create(reminder).Error
}

// FindReminderByID finds a reminder within a workspace
func (r *GormContactRepository) FindReminderByID(workspaceID, id uint64) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.scoped(workspaceID).
		Preload("Person").
		Preload("Company").
		First(&reminder, id).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

// ListReminders lists a workspace's reminders ordered by due date
func (r *GormContactRepository) ListReminders(workspaceID uint64, params utils.PaginationParams) ([]models.Reminder, int64, error) {
	var reminders []models.Reminder
	var total int64

	query := r.db.Model(&models.Reminder{}).Scopes(database.WorkspaceScope(workspaceID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("due_at ASC").
		Scopes(database.Paginate(params)).
		Find(&reminders).Error; err != nil {
		return nil, 0, err
	}
	return reminders, total, nil
}

// UpdateReminder updates a reminder
func (r *GormContactRepository) UpdateReminder(reminder *models.Reminder) error {
	return r.db.Save(reminder).Error
}

// DeleteReminder soft deletes a reminder within a workspace
func (r *GormContactRepository) DeleteReminder(workspaceID, id uint64) error {
	return r.scoped(workspaceID).Delete(&models.Reminder{}, id).Error
}
