package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ayatoki/contact-tracker-api/internal/models"
	"github.com/ayatoki/contact-tracker-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type membershipTestEnv struct {
	db                *gorm.DB
	workspaceService  *WorkspaceService
	membershipService *MembershipService
}

func setupMembershipTestEnv(t *testing.T) membershipTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMembership{},
	)
	require.NoError(t, err)

	workspaceRepo := repository.NewWorkspaceRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return membershipTestEnv{
		db:                db,
		workspaceService:  NewWorkspaceService(workspaceRepo, membershipRepo),
		membershipService: NewMembershipService(membershipRepo, workspaceRepo),
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestWorkspace(t *testing.T, env membershipTestEnv, owner *models.User) *models.Workspace {
	t.Helper()

	ws, err := env.workspaceService.CreateWorkspace("Test workspace", owner)
	require.NoError(t, err)
	return ws
}

func membershipByID(t *testing.T, db *gorm.DB, id uint64) models.WorkspaceMembership {
	t.Helper()

	var member models.WorkspaceMembership
	require.NoError(t, db.First(&member, id).Error)
	return member
}

func TestMembershipService_InviteAndAccept(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)

	invite, err := env.membershipService.Invite(ws.ID, "b@example.com", owner.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, invite.Status)
	require.Equal(t, models.RoleMember, invite.Role)
	require.Nil(t, invite.UserID)
	require.NotEmpty(t, invite.Token)

	// Identity is resolved at accept time: the account may not exist yet.
	invitee := createTestUser(t, env.db, "b@example.com")

	accepted, err := env.membershipService.Accept(ws.ID, invitee)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, accepted.Status)
	require.NotNil(t, accepted.UserID)
	require.Equal(t, invitee.ID, *accepted.UserID)
	require.NotNil(t, accepted.AcceptedAt)
}

func TestMembershipService_Invite_RejectsMalformedEmail(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)

	_, err := env.membershipService.Invite(ws.ID, "", owner.ID)
	require.ErrorIs(t, err, ErrEmailRequired)

	_, err = env.membershipService.Invite(ws.ID, "not-an-email", owner.ID)
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestMembershipService_Invite_RejectsDuplicates(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)

	_, err := env.membershipService.Invite(ws.ID, "b@example.com", owner.ID)
	require.NoError(t, err)

	_, err = env.membershipService.Invite(ws.ID, "b@example.com", owner.ID)
	require.ErrorIs(t, err, ErrAlreadyInvited)

	// The owner already holds an active membership under their email
	_, err = env.membershipService.Invite(ws.ID, "a@example.com", owner.ID)
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestMembershipService_Accept_SecondCallFails(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)

	_, err := env.membershipService.Invite(ws.ID, "b@example.com", owner.ID)
	require.NoError(t, err)

	invitee := createTestUser(t, env.db, "b@example.com")

	_, err = env.membershipService.Accept(ws.ID, invitee)
	require.NoError(t, err)

	// The row is no longer pending, so the invite cannot be found again.
	_, err = env.membershipService.Accept(ws.ID, invitee)
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestMembershipService_Accept_NoInvite(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)

	stranger := createTestUser(t, env.db, "c@example.com")

	_, err := env.membershipService.Accept(ws.ID, stranger)
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestMembershipService_CancelInvite(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)

	_, err := env.membershipService.Invite(ws.ID, "b@example.com", owner.ID)
	require.NoError(t, err)

	require.NoError(t, env.membershipService.CancelInvite(ws.ID, "b@example.com"))

	// Cancellation hard-deletes the pending row
	var count int64
	env.db.Model(&models.WorkspaceMembership{}).
		Where("workspace_id = ? AND email = ?", ws.ID, "b@example.com").
		Count(&count)
	require.Zero(t, count)

	err = env.membershipService.CancelInvite(ws.ID, "b@example.com")
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func addActiveMember(t *testing.T, env membershipTestEnv, ws *models.Workspace, owner *models.User, email string) (*models.User, models.WorkspaceMembership) {
	t.Helper()

	_, err := env.membershipService.Invite(ws.ID, email, owner.ID)
	require.NoError(t, err)

	user := createTestUser(t, env.db, email)
	member, err := env.membershipService.Accept(ws.ID, user)
	require.NoError(t, err)
	return user, *member
}

func TestMembershipService_Remove(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)
	_, member := addActiveMember(t, env, ws, owner, "b@example.com")

	require.NoError(t, env.membershipService.Remove(ws.ID, owner.ID, member.ID))

	removed := membershipByID(t, env.db, member.ID)
	require.Equal(t, models.StatusRemoved, removed.Status)
	require.NotNil(t, removed.RemovedBy)
	require.Equal(t, owner.ID, *removed.RemovedBy)
	require.NotNil(t, removed.RemovedAt)

	// A second remove finds the row already removed
	err := env.membershipService.Remove(ws.ID, owner.ID, member.ID)
	require.ErrorIs(t, err, ErrMembershipConflict)
}

func TestMembershipService_Remove_Authorization(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)
	memberUser, member := addActiveMember(t, env, ws, owner, "b@example.com")

	// Non-owners cannot remove
	var ownerMember models.WorkspaceMembership
	require.NoError(t, env.db.Where("workspace_id = ? AND user_id = ?", ws.ID, owner.ID).
		First(&ownerMember).Error)
	err := env.membershipService.Remove(ws.ID, memberUser.ID, ownerMember.ID)
	require.ErrorIs(t, err, ErrNotWorkspaceOwner)

	// Owners cannot remove themselves; that path is Leave
	err = env.membershipService.Remove(ws.ID, owner.ID, ownerMember.ID)
	require.ErrorIs(t, err, ErrCannotRemoveSelf)

	// Pending invites are not removable
	invite, err := env.membershipService.Invite(ws.ID, "c@example.com", owner.ID)
	require.NoError(t, err)
	err = env.membershipService.Remove(ws.ID, owner.ID, invite.ID)
	require.ErrorIs(t, err, ErrMemberNotActive)

	// Memberships in other workspaces are invisible
	otherOwner := createTestUser(t, env.db, "d@example.com")
	otherWs := createTestWorkspace(t, env, otherOwner)
	err = env.membershipService.Remove(otherWs.ID, otherOwner.ID, member.ID)
	require.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestMembershipService_Leave_SoleOwnerBlocked(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)

	err := env.membershipService.Leave(ws.ID, owner.ID)
	require.ErrorIs(t, err, ErrOwnershipTransferRequired)

	// The ledger is untouched
	var member models.WorkspaceMembership
	require.NoError(t, env.db.Where("workspace_id = ? AND user_id = ?", ws.ID, owner.ID).
		First(&member).Error)
	require.Equal(t, models.StatusActive, member.Status)
	require.Equal(t, models.RoleOwner, member.Role)
}

func TestMembershipService_Leave_MemberLeavesDirectly(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)
	memberUser, member := addActiveMember(t, env, ws, owner, "b@example.com")

	require.NoError(t, env.membershipService.Leave(ws.ID, memberUser.ID))

	left := membershipByID(t, env.db, member.ID)
	require.Equal(t, models.StatusRemoved, left.Status)
	require.NotNil(t, left.RemovedBy)
	require.Equal(t, memberUser.ID, *left.RemovedBy)

	// Leaving twice fails: no active membership remains
	err := env.membershipService.Leave(ws.ID, memberUser.ID)
	require.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestMembershipService_Leave_CoOwnerLeavesDirectly(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)
	_, member := addActiveMember(t, env, ws, owner, "b@example.com")

	// Promote the second member so two active owners exist
	require.NoError(t, env.db.Model(&models.WorkspaceMembership{}).
		Where("id = ?", member.ID).
		Update("role", models.RoleOwner).Error)

	require.NoError(t, env.membershipService.Leave(ws.ID, owner.ID))

	owners, err := env.membershipService.membershipRepo.CountActiveOwners(ws.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, owners)
}

func TestMembershipService_TransferOwnership(t *testing.T) {
	env := setupMembershipTestEnv(t)

	ownerA := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, ownerA)
	userB, memberB := addActiveMember(t, env, ws, ownerA, "b@example.com")

	require.NoError(t, env.membershipService.TransferOwnership(ws.ID, ownerA.ID, userB.ID))

	// B is the active owner
	promoted := membershipByID(t, env.db, memberB.ID)
	require.Equal(t, models.RoleOwner, promoted.Role)
	require.Equal(t, models.StatusActive, promoted.Status)

	// A's membership is removed
	var memberA models.WorkspaceMembership
	require.NoError(t, env.db.Where("workspace_id = ? AND user_id = ?", ws.ID, ownerA.ID).
		First(&memberA).Error)
	require.Equal(t, models.StatusRemoved, memberA.Status)

	// The workspace points at its new owner
	var updated models.Workspace
	require.NoError(t, env.db.First(&updated, ws.ID).Error)
	require.Equal(t, userB.ID, updated.OwnerID)

	// A no longer sees the workspace
	workspaces, err := env.workspaceService.ListWorkspaces(ownerA.ID)
	require.NoError(t, err)
	require.Empty(t, workspaces)

	// A repeated transfer by the departed owner fails
	err = env.membershipService.TransferOwnership(ws.ID, ownerA.ID, userB.ID)
	require.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestMembershipService_TransferOwnership_Validation(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)

	err := env.membershipService.TransferOwnership(ws.ID, owner.ID, owner.ID)
	require.ErrorIs(t, err, ErrTransferToSelf)

	// Target with no active membership
	stranger := createTestUser(t, env.db, "c@example.com")
	err = env.membershipService.TransferOwnership(ws.ID, owner.ID, stranger.ID)
	require.ErrorIs(t, err, ErrTransferTargetNotActive)

	// Only owners may transfer
	memberUser, _ := addActiveMember(t, env, ws, owner, "b@example.com")
	err = env.membershipService.TransferOwnership(ws.ID, memberUser.ID, owner.ID)
	require.ErrorIs(t, err, ErrNotWorkspaceOwner)
}

func TestMembershipService_SingleOwnerInvariant(t *testing.T) {
	env := setupMembershipTestEnv(t)

	ownerA := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, ownerA)
	userB, _ := addActiveMember(t, env, ws, ownerA, "b@example.com")
	_, _ = addActiveMember(t, env, ws, ownerA, "c@example.com")

	owners, err := env.membershipService.membershipRepo.CountActiveOwners(ws.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, owners)

	require.NoError(t, env.membershipService.TransferOwnership(ws.ID, ownerA.ID, userB.ID))

	owners, err = env.membershipService.membershipRepo.CountActiveOwners(ws.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, owners)
}

func TestMembershipService_ListMyPendingInvites(t *testing.T) {
	env := setupMembershipTestEnv(t)

	ownerA := createTestUser(t, env.db, "a@example.com")
	wsA := createTestWorkspace(t, env, ownerA)
	ownerB := createTestUser(t, env.db, "b@example.com")
	wsB := createTestWorkspace(t, env, ownerB)

	_, err := env.membershipService.Invite(wsA.ID, "c@example.com", ownerA.ID)
	require.NoError(t, err)
	_, err = env.membershipService.Invite(wsB.ID, "c@example.com", ownerB.ID)
	require.NoError(t, err)

	invitee := createTestUser(t, env.db, "c@example.com")
	invites, err := env.membershipService.ListMyPendingInvites(invitee)
	require.NoError(t, err)
	require.Len(t, invites, 2)
	require.Equal(t, wsA.ID, invites[0].WorkspaceID)
	require.Equal(t, "Test workspace", invites[0].Workspace.Name)
	require.Equal(t, "a@example.com", invites[0].Inviter.Email)
}

func TestMembershipService_ListMembers_OrderedByInvitedAt(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)
	_, _ = addActiveMember(t, env, ws, owner, "b@example.com")
	_, err := env.membershipService.Invite(ws.ID, "c@example.com", owner.ID)
	require.NoError(t, err)

	members, err := env.membershipService.ListMembers(ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	require.Equal(t, "a@example.com", members[0].Email)
	require.Equal(t, "b@example.com", members[1].Email)
	require.Equal(t, "c@example.com", members[2].Email)
	for i := 1; i < len(members); i++ {
		require.False(t, members[i].InvitedAt.Before(members[i-1].InvitedAt))
	}
}

func TestMembershipService_IsOwnerAndCounts(t *testing.T) {
	env := setupMembershipTestEnv(t)

	owner := createTestUser(t, env.db, "a@example.com")
	ws := createTestWorkspace(t, env, owner)
	memberUser, _ := addActiveMember(t, env, ws, owner, "b@example.com")

	isOwner, err := env.membershipService.IsOwner(ws.ID, owner.ID)
	require.NoError(t, err)
	require.True(t, isOwner)

	isOwner, err = env.membershipService.IsOwner(ws.ID, memberUser.ID)
	require.NoError(t, err)
	require.False(t, isOwner)

	count, err := env.membershipService.CountActiveMembers(ws.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	// Removed members stop counting
	require.NoError(t, env.membershipService.Leave(ws.ID, memberUser.ID))
	count, err = env.membershipService.CountActiveMembers(ws.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
