package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnumsAreCaseSensitive(t *testing.T) {
	require.True(t, ComplaintStatusInProgress.IsValid())
	require.False(t, ComplaintStatus("in progress").IsValid())
	require.False(t, ComplaintStatus("Closed").IsValid())

	require.True(t, PriorityHigh.IsValid())
	require.False(t, ComplaintPriority("high").IsValid())

	require.True(t, RoleEngineer.IsValid())
	require.False(t, Role("Engineer").IsValid())
	require.False(t, Role("").IsValid())
}

func TestInitialStatusFor(t *testing.T) {
	require.Equal(t, UserStatusApproved, InitialStatusFor(RoleUser))
	require.Equal(t, UserStatusPending, InitialStatusFor(RoleEngineer))
	require.Equal(t, UserStatusPending, InitialStatusFor(RoleAdmin))
}

func TestUserPredicates(t *testing.T) {
	var nilUser *User
	require.False(t, nilUser.IsApproved())
	require.False(t, nilUser.IsAssignable())

	engineer := &User{Role: RoleEngineer, Status: UserStatusApproved}
	require.True(t, engineer.IsAssignable())

	engineer.Status = UserStatusPending
	require.False(t, engineer.IsAssignable())
	require.False(t, engineer.IsApproved())

	admin := &User{Role: RoleAdmin, Status: UserStatusApproved}
	require.True(t, admin.IsApproved())
	require.False(t, admin.IsAssignable())
}

func TestComplaintIsAssignedTo(t *testing.T) {
	assignee := int64(7)
	c := &Complaint{AssigneeID: &assignee}
	require.True(t, c.IsAssignedTo(7))
	require.False(t, c.IsAssignedTo(8))

	require.False(t, (&Complaint{}).IsAssignedTo(7))
	var nilComplaint *Complaint
	require.False(t, nilComplaint.IsAssignedTo(7))
}

func TestIdentityRoles(t *testing.T) {
	require.True(t, Identity{Role: RoleAdmin}.IsAdmin())
	require.False(t, Identity{Role: RoleAdmin}.IsEngineer())
	require.True(t, Identity{Role: RoleEngineer}.IsEngineer())
}
