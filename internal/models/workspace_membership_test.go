package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMembershipStatus_CanTransitionTo(t *testing.T) {
	require.True(t, StatusPending.CanTransitionTo(StatusActive))
	require.True(t, StatusActive.CanTransitionTo(StatusRemoved))

	// Everything else is rejected
	require.False(t, StatusPending.CanTransitionTo(StatusRemoved))
	require.False(t, StatusActive.CanTransitionTo(StatusPending))
	require.False(t, StatusRemoved.CanTransitionTo(StatusActive))
	require.False(t, StatusRemoved.CanTransitionTo(StatusPending))
	require.False(t, StatusActive.CanTransitionTo(StatusActive))
}

func TestMembershipStatus_IsValid(t *testing.T) {
	require.True(t, StatusPending.IsValid())
	require.True(t, StatusActive.IsValid())
	require.True(t, StatusRemoved.IsValid())
	require.False(t, MembershipStatus("deleted").IsValid())
	require.False(t, MembershipStatus("").IsValid())
}

func TestWorkspaceMembership_IsActiveOwner(t *testing.T) {
	userID := uint64(1)

	owner := WorkspaceMembership{UserID: &userID, Role: RoleOwner, Status: StatusActive}
	require.True(t, owner.IsActiveOwner())

	member := WorkspaceMembership{UserID: &userID, Role: RoleMember, Status: StatusActive}
	require.False(t, member.IsActiveOwner())

	removedOwner := WorkspaceMembership{UserID: &userID, Role: RoleOwner, Status: StatusRemoved}
	require.False(t, removedOwner.IsActiveOwner())

	pending := WorkspaceMembership{Role: RoleMember, Status: StatusPending}
	require.False(t, pending.IsActiveOwner())
}
