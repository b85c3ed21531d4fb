package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ayatoki/contact-tracker-api/internal/dto"
	apierrors "github.com/ayatoki/contact-tracker-api/internal/errors"
	"github.com/ayatoki/contact-tracker-api/internal/middleware"
	"github.com/ayatoki/contact-tracker-api/internal/services"
	"github.com/ayatoki/contact-tracker-api/internal/utils"
)

// ContactHandler serves workspace-scoped companies, people, tags, and reminders.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// CreateCompany creates a company in the workspace.
func (h *ContactHandler) CreateCompany(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	type CompanyRequest struct {
		Name   string `json:"name" binding:"required"`
		Domain string `json:"domain"`
		Notes  string `json:"notes"`
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	company, err := h.contactService.CreateCompany(ws.ID, services.CompanyInput{
		Name:   req.Name,
		Domain: req.Domain,
		Notes:  req.Notes,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompanyDTO(*company))
}

// ListCompanies lists the workspace's companies.
func (h *ContactHandler) ListCompanies(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	params := utils.GetPaginationParams(c)
	companies, total, err := h.contactService.ListCompanies(ws.ID, params)
	if err != nil {
		respondContactError(c, err)
		return
	}

	companyDTOs := make([]dto.CompanyDTO, len(companies))
	for i, company := range companies {
		companyDTOs[i] = dto.ToCompanyDTO(company)
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companyDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetCompany returns one company.
func (h *ContactHandler) GetCompany(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "company_id")
	if !ok {
		return
	}

	company, err := h.contactService.GetCompany(ws.ID, id)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyDTO(*company))
}

// UpdateCompany updates a company's fields.
func (h *ContactHandler) UpdateCompany(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "company_id")
	if !ok {
		return
	}

	type CompanyRequest struct {
		Name   string `json:"name" binding:"required"`
		Domain string `json:"domain"`
		Notes  string `json:"notes"`
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	company, err := h.contactService.UpdateCompany(ws.ID, id, services.CompanyInput{
		Name:   req.Name,
		Domain: req.Domain,
		Notes:  req.Notes,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyDTO(*company))
}

// DeleteCompany removes a company.
func (h *ContactHandler) DeleteCompany(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "company_id")
	if !ok {
		return
	}

	if err := h.contactService.DeleteCompany(ws.ID, id); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}

// CreatePerson creates a person in the workspace.
func (h *ContactHandler) CreatePerson(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	type PersonRequest struct {
		FirstName string  `json:"first_name" binding:"required"`
		LastName  string  `json:"last_name"`
		Email     string  `json:"email"`
		CompanyID *uint64 `json:"company_id"`
		Notes     string  `json:"notes"`
	}

	var req PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	person, err := h.contactService.CreatePerson(ws.ID, services.PersonInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		CompanyID: req.CompanyID,
		Notes:     req.Notes,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPersonDTO(*person))
}

// ListPeople lists the workspace's people.
func (h *ContactHandler) ListPeople(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	params := utils.GetPaginationParams(c)
	people, total, err := h.contactService.ListPeople(ws.ID, params)
	if err != nil {
		respondContactError(c, err)
		return
	}

	personDTOs := make([]dto.PersonDTO, len(people))
	for i, person := range people {
		personDTOs[i] = dto.ToPersonDTO(person)
	}

	c.JSON(http.StatusOK, gin.H{
		"people": personDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetPerson returns one person.
func (h *ContactHandler) GetPerson(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "person_id")
	if !ok {
		return
	}

	person, err := h.contactService.GetPerson(ws.ID, id)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(*person))
}

// UpdatePerson updates a person's fields.
func (h *ContactHandler) UpdatePerson(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "person_id")
	if !ok {
		return
	}

	type PersonRequest struct {
		FirstName string  `json:"first_name" binding:"required"`
		LastName  string  `json:"last_name"`
		Email     string  `json:"email"`
		CompanyID *uint64 `json:"company_id"`
		Notes     string  `json:"notes"`
	}

	var req PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	person, err := h.contactService.UpdatePerson(ws.ID, id, services.PersonInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		CompanyID: req.CompanyID,
		Notes:     req.Notes,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(*person))
}

// DeletePerson removes a person.
func (h *ContactHandler) DeletePerson(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "person_id")
	if !ok {
		return
	}

	if err := h.contactService.DeletePerson(ws.ID, id); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Person deleted"})
}

// CreateTag creates a tag in the workspace.
func (h *ContactHandler) CreateTag(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	type TagRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.contactService.CreateTag(ws.ID, req.Name)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTagDTO(*tag))
}

// ListTags lists the workspace's tags.
func (h *ContactHandler) ListTags(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	tags, err := h.contactService.ListTags(ws.ID)
	if err != nil {
		respondContactError(c, err)
		return
	}

	tagDTOs := make([]dto.TagDTO, len(tags))
	for i, tag := range tags {
		tagDTOs[i] = dto.ToTagDTO(tag)
	}

	c.JSON(http.StatusOK, gin.H{"tags": tagDTOs})
}

// DeleteTag removes a tag and its links.
func (h *ContactHandler) DeleteTag(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "tag_id")
	if !ok {
		return
	}

	if err := h.contactService.DeleteTag(ws.ID, id); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}

// TagPerson attaches a tag to a person.
func (h *ContactHandler) TagPerson(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	personID, ok := pathID(c, "person_id")
	if !ok {
		return
	}

	type TagPersonRequest struct {
		TagID uint64 `json:"tag_id" binding:"required"`
	}

	var req TagPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.contactService.TagPerson(ws.ID, personID, req.TagID); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Person tagged"})
}

// CreateReminder creates a reminder in the workspace.
func (h *ContactHandler) CreateReminder(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	type ReminderRequest struct {
		Note      string    `json:"note" binding:"required"`
		DueAt     time.Time `json:"due_at" binding:"required"`
		PersonID  *uint64   `json:"person_id"`
		CompanyID *uint64   `json:"company_id"`
	}

	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reminder, err := h.contactService.CreateReminder(ws.ID, services.ReminderInput{
		Note:      req.Note,
		DueAt:     req.DueAt,
		PersonID:  req.PersonID,
		CompanyID: req.CompanyID,
		CreatorID: userID,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReminderDTO(*reminder))
}

// ListReminders lists the workspace's reminders.
func (h *ContactHandler) ListReminders(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	params := utils.GetPaginationParams(c)
	reminders, total, err := h.contactService.ListReminders(ws.ID, params)
	if err != nil {
		respondContactError(c, err)
		return
	}

	reminderDTOs := make([]dto.ReminderDTO, len(reminders))
	for i, reminder := range reminders {
		reminderDTOs[i] = dto.ToReminderDTO(reminder)
	}

	c.JSON(http.StatusOK, gin.H{
		"reminders": reminderDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CompleteReminder marks a reminder as done.
func (h *ContactHandler) CompleteReminder(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "reminder_id")
	if !ok {
		return
	}

	reminder, err := h.contactService.CompleteReminder(ws.ID, id)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReminderDTO(*reminder))
}

// DeleteReminder removes a reminder.
func (h *ContactHandler) DeleteReminder(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "reminder_id")
	if !ok {
		return
	}

	if err := h.contactService.DeleteReminder(ws.ID, id); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted"})
}

func respondContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCompanyNameRequired),
		errors.Is(err, services.ErrPersonNameRequired),
		errors.Is(err, services.ErrSubjectRequired),
		errors.Is(err, services.ErrTagNameRequired),
		errors.Is(err, services.ErrReminderNoteRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCompanyNotFound),
		errors.Is(err, services.ErrPersonNotFound),
		errors.Is(err, services.ErrConversationNotFound),
		errors.Is(err, services.ErrTagNotFound),
		errors.Is(err, services.ErrReminderNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCrossWorkspaceReference):
		apierrors.CrossWorkspaceReference(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
