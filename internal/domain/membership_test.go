package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledger() Membership {
	return NewMembership([]ProjectMember{
		{ID: "m1", ProjectID: "p1", UserID: "owner", Role: ProjectRoleOwner},
		{ID: "m2", ProjectID: "p1", UserID: "admin", Role: ProjectRoleAdmin},
		{ID: "m3", ProjectID: "p1", UserID: "member", Role: ProjectRoleMember},
	})
}

func TestMembershipLookup(t *testing.T) {
	ms := ledger()

	assert.Equal(t, 3, ms.Size())
	assert.True(t, ms.Has("owner"))
	assert.False(t, ms.Has("stranger"))

	role, ok := ms.RoleOf("admin")
	require.True(t, ok)
	assert.Equal(t, ProjectRoleAdmin, role)

	_, ok = ms.RoleOf("stranger")
	assert.False(t, ok)
}

func TestMembershipCheckAdd(t *testing.T) {
	ms := ledger()

	assert.NoError(t, ms.CheckAdd("newcomer"))

	err := ms.CheckAdd("member")
	require.Error(t, err)
	assert.Equal(t, KindAlreadyMember, KindOf(err))
}

func TestMembershipCheckRemove(t *testing.T) {
	ms := ledger()

	assert.NoError(t, ms.CheckRemove("member"))
	assert.NoError(t, ms.CheckRemove("admin"))

	err := ms.CheckRemove("stranger")
	require.Error(t, err)
	assert.Equal(t, KindNotAMember, KindOf(err))

	err = ms.CheckRemove("owner")
	require.Error(t, err)
	assert.Equal(t, KindOwnerProtected, KindOf(err))
}

func TestMembershipCheckChangeRole(t *testing.T) {
	ms := ledger()

	assert.NoError(t, ms.CheckChangeRole("member"))

	err := ms.CheckChangeRole("owner")
	require.Error(t, err)
	assert.Equal(t, KindOwnerProtected, KindOf(err))

	err = ms.CheckChangeRole("stranger")
	require.Error(t, err)
	assert.Equal(t, KindNotAMember, KindOf(err))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindTransient, KindOf(assert.AnError))
	assert.Equal(t, KindNotFound, KindOf(WrapError(KindNotFound, "gone", assert.AnError)))
}
