package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/ayatoki/contact-tracker-api/internal/constants"
	"github.com/ayatoki/contact-tracker-api/internal/database"
	"github.com/ayatoki/contact-tracker-api/internal/dto"
	"github.com/ayatoki/contact-tracker-api/internal/middleware"
	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/repository"
	"github.com/ayatoki/contact-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type workspaceTestEnv struct {
	db                *gorm.DB
	handler           *WorkspaceHandler
	authService       *services.AuthService
	workspaceService  *services.WorkspaceService
	membershipService *services.MembershipService
}

func setupWorkspaceTestEnv(t *testing.T) workspaceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMembership{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	authService := services.NewAuthService(userRepo)
	workspaceService := services.NewWorkspaceService(workspaceRepo, membershipRepo)
	membershipService := services.NewMembershipService(membershipRepo, workspaceRepo)
	handler := NewWorkspaceHandler(authService, workspaceService, membershipService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return workspaceTestEnv{
		db:                db,
		handler:           handler,
		authService:       authService,
		workspaceService:  workspaceService,
		membershipService: membershipService,
	}
}

func workspaceTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// setScopedWorkspace mimics RequireWorkspaceAccess for direct handler calls.
func setScopedWorkspace(t *testing.T, c *gin.Context, env workspaceTestEnv, ws *models.Workspace, userID uint64) {
	t.Helper()

	var member models.WorkspaceMembership
	require.NoError(t, env.db.
		Where("workspace_id = ? AND user_id = ? AND status = ?",
			ws.ID, userID, models.StatusActive).
		First(&member).Error)

	c.Set(middleware.ContextKeyWorkspace, *ws)
	c.Set(middleware.ContextKeyMembership, member)
}

func signupWorkspaceUser(t *testing.T, env workspaceTestEnv, email string) *models.User {
	t.Helper()

	user, err := env.authService.Signup(services.SignupInput{
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)
	return user
}

func TestWorkspaceHandler_CreateWorkspace(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	user := signupWorkspaceUser(t, env, "owner@example.com")

	payload := map[string]string{"name": "Side Project"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodPost, "/api/workspaces", body, user.ID)

	env.handler.CreateWorkspace(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.WorkspaceDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, payload["name"], response.Name)
	require.Equal(t, user.ID, response.OwnerID)
}

func TestWorkspaceHandler_ListWorkspaces(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	user := signupWorkspaceUser(t, env, "owner@example.com")

	_, err := env.workspaceService.CreateWorkspace("Second", user)
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodGet, "/api/workspaces", nil, user.ID)

	env.handler.ListWorkspaces(c)

	require.Equal(t, http.StatusOK, w.Code)

	// Signup created the default workspace, so two are visible
	var response map[string][]dto.WorkspaceWithRoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	workspaces := response["workspaces"]
	require.Len(t, workspaces, 2)
	require.Equal(t, models.RoleOwner, workspaces[0].Role)
}

func TestWorkspaceHandler_InviteAndAcceptFlow(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := signupWorkspaceUser(t, env, "owner@example.com")
	ws, err := env.workspaceService.CreateWorkspace("Shared", owner)
	require.NoError(t, err)

	payload := map[string]string{"email": "invitee@example.com"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodPost, "/api/workspaces/1/members/invite", body, owner.ID)
	setScopedWorkspace(t, c, env, ws, owner.ID)

	env.handler.InviteMember(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var invite dto.MembershipDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invite))
	require.Equal(t, models.StatusPending, invite.Status)
	require.Nil(t, invite.User)

	// The invitee signs up and sees the pending invite
	invitee := signupWorkspaceUser(t, env, "invitee@example.com")

	c, w = workspaceTestContext(http.MethodGet, "/api/invites", nil, invitee.ID)
	env.handler.ListMyInvites(c)

	require.Equal(t, http.StatusOK, w.Code)

	var invitesResponse map[string][]dto.PendingInviteDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invitesResponse))
	invites := invitesResponse["invites"]
	require.Len(t, invites, 1)
	require.Equal(t, ws.ID, invites[0].WorkspaceID)
	require.Equal(t, "Shared", invites[0].WorkspaceName)

	// Accepting activates the membership and binds the invitee's identity
	acceptBody, err := json.Marshal(map[string]uint64{"workspace_id": ws.ID})
	require.NoError(t, err)

	c, w = workspaceTestContext(http.MethodPost, "/api/invites/accept", acceptBody, invitee.ID)
	env.handler.AcceptInvite(c)

	require.Equal(t, http.StatusOK, w.Code)

	var accepted dto.MembershipDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	require.Equal(t, models.StatusActive, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)

	// A second accept of the same invite fails
	c, w = workspaceTestContext(http.MethodPost, "/api/invites/accept", acceptBody, invitee.ID)
	env.handler.AcceptInvite(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceHandler_CancelInvite(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := signupWorkspaceUser(t, env, "owner@example.com")
	ws, err := env.workspaceService.CreateWorkspace("Shared", owner)
	require.NoError(t, err)

	_, err = env.membershipService.Invite(ws.ID, "invitee@example.com", owner.ID)
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodDelete,
		"/api/workspaces/1/invites?email=invitee@example.com", nil, owner.ID)
	setScopedWorkspace(t, c, env, ws, owner.ID)

	env.handler.CancelInvite(c)

	require.Equal(t, http.StatusOK, w.Code)

	// Cancelling again finds nothing pending
	c, w = workspaceTestContext(http.MethodDelete,
		"/api/workspaces/1/invites?email=invitee@example.com", nil, owner.ID)
	setScopedWorkspace(t, c, env, ws, owner.ID)

	env.handler.CancelInvite(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func acceptWorkspaceInvite(t *testing.T, env workspaceTestEnv, ws *models.Workspace, owner *models.User, email string) (*models.User, *models.WorkspaceMembership) {
	t.Helper()

	_, err := env.membershipService.Invite(ws.ID, email, owner.ID)
	require.NoError(t, err)

	user := signupWorkspaceUser(t, env, email)
	member, err := env.membershipService.Accept(ws.ID, user)
	require.NoError(t, err)
	return user, member
}

func TestWorkspaceHandler_RemoveMember(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := signupWorkspaceUser(t, env, "owner@example.com")
	ws, err := env.workspaceService.CreateWorkspace("Shared", owner)
	require.NoError(t, err)
	_, member := acceptWorkspaceInvite(t, env, ws, owner, "member@example.com")

	memberID := strconv.FormatUint(member.ID, 10)
	c, w := workspaceTestContext(http.MethodDelete, "/api/workspaces/1/members/"+memberID, nil, owner.ID)
	setScopedWorkspace(t, c, env, ws, owner.ID)
	c.Params = gin.Params{{Key: "membership_id", Value: memberID}}

	env.handler.RemoveMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	var removed models.WorkspaceMembership
	require.NoError(t, env.db.First(&removed, member.ID).Error)
	require.Equal(t, models.StatusRemoved, removed.Status)

	// Removing an already removed member reports a conflict
	c, w = workspaceTestContext(http.MethodDelete, "/api/workspaces/1/members/"+memberID, nil, owner.ID)
	setScopedWorkspace(t, c, env, ws, owner.ID)
	c.Params = gin.Params{{Key: "membership_id", Value: memberID}}

	env.handler.RemoveMember(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestWorkspaceHandler_LeaveWorkspace_SoleOwner(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := signupWorkspaceUser(t, env, "owner@example.com")
	ws, err := env.workspaceService.CreateWorkspace("Solo", owner)
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodPost, "/api/workspaces/1/leave", nil, owner.ID)
	setScopedWorkspace(t, c, env, ws, owner.ID)

	env.handler.LeaveWorkspace(c)

	require.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "OWNERSHIP_TRANSFER_REQUIRED", response["code"])
}

func TestWorkspaceHandler_TransferOwnership(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := signupWorkspaceUser(t, env, "owner@example.com")
	ws, err := env.workspaceService.CreateWorkspace("Shared", owner)
	require.NoError(t, err)
	successor, _ := acceptWorkspaceInvite(t, env, ws, owner, "successor@example.com")

	body, err := json.Marshal(map[string]uint64{"user_id": successor.ID})
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodPost, "/api/workspaces/1/transfer-ownership", body, owner.ID)
	setScopedWorkspace(t, c, env, ws, owner.ID)

	env.handler.TransferOwnership(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Workspace
	require.NoError(t, env.db.First(&updated, ws.ID).Error)
	require.Equal(t, successor.ID, updated.OwnerID)

	// The departed owner can now leave nothing: their membership is removed
	var former models.WorkspaceMembership
	require.NoError(t, env.db.
		Where("workspace_id = ? AND user_id = ?", ws.ID, owner.ID).
		First(&former).Error)
	require.Equal(t, models.StatusRemoved, former.Status)
}

func TestWorkspaceHandler_ListMembers(t *testing.T) {
	env := setupWorkspaceTestEnv(t)

	owner := signupWorkspaceUser(t, env, "owner@example.com")
	ws, err := env.workspaceService.CreateWorkspace("Shared", owner)
	require.NoError(t, err)
	_, _ = acceptWorkspaceInvite(t, env, ws, owner, "member@example.com")
	_, err = env.membershipService.Invite(ws.ID, "pending@example.com", owner.ID)
	require.NoError(t, err)

	c, w := workspaceTestContext(http.MethodGet, "/api/workspaces/1/members", nil, owner.ID)
	setScopedWorkspace(t, c, env, ws, owner.ID)

	env.handler.ListMembers(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]dto.MembershipDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	members := response["members"]
	require.Len(t, members, 3)
	require.Equal(t, models.StatusActive, members[0].Status)
	require.Equal(t, models.StatusPending, members[2].Status)
	require.Nil(t, members[2].User)
}
