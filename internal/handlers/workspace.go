package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/ayatoki/contact-tracker-api/internal/constants"
	"github.com/ayatoki/contact-tracker-api/internal/dto"
	apierrors "github.com/ayatoki/contact-tracker-api/internal/errors"
	"github.com/ayatoki/contact-tracker-api/internal/middleware"
	"github.com/ayatoki/contact-tracker-api/internal/services"
)

// WorkspaceHandler serves the workspace registry and the membership ledger.
type WorkspaceHandler struct {
	authService       *services.AuthService
	workspaceService  *services.WorkspaceService
	membershipService *services.MembershipService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(authService *services.AuthService, workspaceService *services.WorkspaceService, membershipService *services.MembershipService) *WorkspaceHandler {
	return &WorkspaceHandler{
		authService:       authService,
		workspaceService:  workspaceService,
		membershipService: membershipService,
	}
}

// CreateWorkspace creates a new workspace owned by the caller.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateWorkspaceRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	ws, err := h.workspaceService.CreateWorkspace(req.Name, user)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceDTO(*ws))
}

// ListWorkspaces returns the workspaces the caller actively belongs to.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.workspaceService.ListWorkspaces(userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	workspaces := make([]dto.WorkspaceWithRoleDTO, len(memberships))
	for i, m := range memberships {
		workspaces[i] = dto.ToWorkspaceWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// GetWorkspace returns the workspace loaded by RequireWorkspaceAccess along
// with the caller's role.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}
	member, _ := middleware.GetMembership(c)

	c.JSON(http.StatusOK, gin.H{
		"workspace": dto.ToWorkspaceDTO(ws),
		"your_role": member.Role,
	})
}

// SelectCurrent stores the caller's current workspace pointer in the session.
// Tenant-scoped reads still carry the workspace id explicitly; this only
// drives which workspace clients re-fetch under.
func (h *WorkspaceHandler) SelectCurrent(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyWorkspaceID, ws.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"current_workspace_id": ws.ID})
}

// GetCurrent resolves the caller's current workspace, falling back to the
// default workspace (auto-created when none exists).
func (h *WorkspaceHandler) GetCurrent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	session := sessions.Default(c)
	if v := session.Get(constants.SessionKeyWorkspaceID); v != nil {
		if workspaceID, ok := v.(uint64); ok {
			ws, err := h.workspaceService.GetWorkspace(workspaceID)
			if err == nil {
				c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*ws))
				return
			}
		}
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	ws, err := h.workspaceService.GetOrCreateDefault(user)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*ws))
}

// ListMembers returns the workspace's membership ledger.
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	members, err := h.membershipService.ListMembers(ws.ID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	memberDTOs := make([]dto.MembershipDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToMembershipDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"members": memberDTOs})
}

// InviteMember creates a pending invite addressed by email.
func (h *WorkspaceHandler) InviteMember(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	type InviteRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.membershipService.Invite(ws.ID, req.Email, userID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMembershipDTO(*member))
}

// CancelInvite deletes a still-pending invite, keyed by email.
func (h *WorkspaceHandler) CancelInvite(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	email := c.Query("email")
	if email == "" {
		apierrors.BadRequest(c, "email query parameter is required")
		return
	}

	if err := h.membershipService.CancelInvite(ws.ID, email); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite cancelled"})
}

// RemoveMember soft-removes an active member, keyed by membership id.
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	membershipID, err := strconv.ParseUint(c.Param("membership_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid membership ID")
		return
	}

	if err := h.membershipService.Remove(ws.ID, userID, membershipID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// LeaveWorkspace soft-removes the caller's own membership. A sole owner is
// redirected into the ownership transfer flow by the error code.
func (h *WorkspaceHandler) LeaveWorkspace(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	if err := h.membershipService.Leave(ws.ID, userID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left workspace"})
}

// TransferOwnership promotes another active member to owner and removes the
// caller's own membership.
func (h *WorkspaceHandler) TransferOwnership(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	type TransferRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.membershipService.TransferOwnership(ws.ID, userID, req.UserID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ownership transferred"})
}

// ListMyInvites returns pending invites addressed to the caller's verified email.
func (h *WorkspaceHandler) ListMyInvites(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	invites, err := h.membershipService.ListMyPendingInvites(user)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	inviteDTOs := make([]dto.PendingInviteDTO, len(invites))
	for i, m := range invites {
		inviteDTOs[i] = dto.ToPendingInviteDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"invites": inviteDTOs})
}

// AcceptInvite binds the caller to the pending invite matching their
// verified email.
func (h *WorkspaceHandler) AcceptInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AcceptRequest struct {
		WorkspaceID uint64 `json:"workspace_id" binding:"required"`
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	member, err := h.membershipService.Accept(req.WorkspaceID, user)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMembershipDTO(*member))
}

func respondWorkspaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidWorkspaceName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWorkspaceNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrMemberNotActive),
		errors.Is(err, services.ErrCannotRemoveSelf),
		errors.Is(err, services.ErrTransferTargetNotActive),
		errors.Is(err, services.ErrTransferToSelf):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyInvited),
		errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrMembershipNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotWorkspaceOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOwnershipTransferRequired):
		apierrors.OwnershipTransferRequired(c, err.Error())
	case errors.Is(err, services.ErrMembershipConflict):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
