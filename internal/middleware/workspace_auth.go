package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ayatoki/contact-tracker-api/internal/database"
	apierrors "github.com/ayatoki/contact-tracker-api/internal/errors"
	"github.com/ayatoki/contact-tracker-api/internal/models"
)

// Context keys set by the workspace middleware
const (
	ContextKeyWorkspace  = "workspace"
	ContextKeyMembership = "workspace_membership"
)

// RequireWorkspaceAccess checks that the caller holds an active membership in
// the workspace named by the :id route parameter. Removed and pending
// memberships do not grant access.
func RequireWorkspaceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceIDStr := c.Param("id")
		workspaceID, err := strconv.ParseUint(workspaceIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid workspace ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var ws models.Workspace
		if err := database.GetDB().First(&ws, workspaceID).Error; err != nil {
			apierrors.NotFound(c, "Workspace not found")
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking workspace existence
		var member models.WorkspaceMembership
		err = database.GetDB().
			Where("workspace_id = ? AND user_id = ? AND status = ?",
				workspaceID, userID, models.StatusActive).
			First(&member).Error
		if err != nil {
			apierrors.NotFound(c, "Workspace not found")
			c.Abort()
			return
		}

		c.Set(ContextKeyWorkspace, ws)
		c.Set(ContextKeyMembership, member)
		c.Next()
	}
}

// RequireWorkspaceOwner checks that the caller's active membership carries the
// owner role. Must run after RequireWorkspaceAccess.
func RequireWorkspaceOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberInterface, exists := c.Get(ContextKeyMembership)
		if !exists {
			apierrors.Forbidden(c, "Workspace access required")
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.WorkspaceMembership)
		if !ok {
			apierrors.InternalError(c, "Invalid membership data")
			c.Abort()
			return
		}

		if member.Role != models.RoleOwner {
			apierrors.Forbidden(c, "Only workspace owners can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetWorkspace retrieves the workspace loaded by RequireWorkspaceAccess
func GetWorkspace(c *gin.Context) (models.Workspace, bool) {
	wsInterface, exists := c.Get(ContextKeyWorkspace)
	if !exists {
		return models.Workspace{}, false
	}
	ws, ok := wsInterface.(models.Workspace)
	return ws, ok
}

// GetMembership retrieves the membership loaded by RequireWorkspaceAccess
func GetMembership(c *gin.Context) (models.WorkspaceMembership, bool) {
	memberInterface, exists := c.Get(ContextKeyMembership)
	if !exists {
		return models.WorkspaceMembership{}, false
	}
	member, ok := memberInterface.(models.WorkspaceMembership)
	return member, ok
}
