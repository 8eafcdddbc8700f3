package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/domain"
)

func TestCreateProjectMakesOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "Alice")

	pv, err := e.projectSvc.Create(ctx, alice.ID, "  Rollout  ", "Q3 rollout")
	require.NoError(t, err)
	assert.Equal(t, "Rollout", pv.Name)
	assert.Equal(t, alice.ID, pv.OwnerID)
	assert.Equal(t, alice.Email, pv.Owner.Email)

	require.Len(t, pv.Members, 1)
	assert.Equal(t, alice.ID, pv.Members[0].UserID)
	assert.Equal(t, domain.ProjectRoleOwner, pv.Members[0].Role)
	assert.Equal(t, 1, pv.Counts.Members)

	_, err = e.projectSvc.Create(ctx, alice.ID, "   ", "")
	requireKind(t, err, domain.KindValidation)
}

func TestProjectAccessByRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	admin := e.user(t, "Admin")
	member := e.user(t, "Member")
	stranger := e.user(t, "Stranger")

	pv := e.project(t, owner, map[*domain.User]domain.ProjectRole{
		admin:  domain.ProjectRoleAdmin,
		member: domain.ProjectRoleMember,
	})

	// Any member can view, a stranger cannot.
	for _, u := range []*domain.User{owner, admin, member} {
		_, err := e.projectSvc.Get(ctx, pv.ID, u.ID)
		require.NoError(t, err)
	}
	_, err := e.projectSvc.Get(ctx, pv.ID, stranger.ID)
	requireKind(t, err, domain.KindNotAMember)

	// Update needs a manager role.
	name := "Renamed"
	_, err = e.projectSvc.Update(ctx, pv.ID, domain.ProjectPatch{Name: &name}, member.ID)
	requireKind(t, err, domain.KindInsufficientRole)

	got, err := e.projectSvc.Update(ctx, pv.ID, domain.ProjectPatch{Name: &name}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	// Delete is owner-only, even for a project admin.
	err = e.projectSvc.Remove(ctx, pv.ID, admin.ID)
	requireKind(t, err, domain.KindOwnerOnly)
	require.NoError(t, e.projectSvc.Remove(ctx, pv.ID, owner.ID))
}

func TestMembershipMutations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	admin := e.user(t, "Admin")
	member := e.user(t, "Member")
	newbie := e.user(t, "Newbie")

	pv := e.project(t, owner, map[*domain.User]domain.ProjectRole{
		admin:  domain.ProjectRoleAdmin,
		member: domain.ProjectRoleMember,
	})

	// A plain member cannot grow the roster.
	_, err := e.projectSvc.AddMember(ctx, pv.ID, newbie.ID, domain.ProjectRoleMember, member.ID)
	requireKind(t, err, domain.KindInsufficientRole)

	// Double-add conflicts.
	_, err = e.projectSvc.AddMember(ctx, pv.ID, member.ID, domain.ProjectRoleMember, admin.ID)
	requireKind(t, err, domain.KindAlreadyMember)

	// A second OWNER can never enter through the ledger.
	_, err = e.projectSvc.AddMember(ctx, pv.ID, newbie.ID, domain.ProjectRoleOwner, owner.ID)
	requireKind(t, err, domain.KindValidation)

	// Deactivated users are not addable.
	ghost := e.user(t, "Ghost")
	require.NoError(t, e.userSvc.Remove(ctx, ghost.ID))
	_, err = e.projectSvc.AddMember(ctx, pv.ID, ghost.ID, domain.ProjectRoleMember, owner.ID)
	requireKind(t, err, domain.KindTargetUserNotFound)

	got, err := e.projectSvc.AddMember(ctx, pv.ID, newbie.ID, "", admin.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 4)
	for _, m := range got.Members {
		if m.UserID == newbie.ID {
			assert.Equal(t, domain.ProjectRoleMember, m.Role) // default role
		}
	}

	// Role changes: owner immutable, members promotable.
	_, err = e.projectSvc.UpdateMemberRole(ctx, pv.ID, owner.ID, domain.ProjectRoleMember, admin.ID)
	requireKind(t, err, domain.KindOwnerProtected)

	got, err = e.projectSvc.UpdateMemberRole(ctx, pv.ID, newbie.ID, domain.ProjectRoleAdmin, owner.ID)
	require.NoError(t, err)
	for _, m := range got.Members {
		if m.UserID == newbie.ID {
			assert.Equal(t, domain.ProjectRoleAdmin, m.Role)
		}
	}

	// Removal: the owner never leaves, everyone else can.
	_, err = e.projectSvc.RemoveMember(ctx, pv.ID, owner.ID, admin.ID)
	requireKind(t, err, domain.KindOwnerProtected)

	_, err = e.projectSvc.RemoveMember(ctx, pv.ID, newbie.ID, member.ID)
	requireKind(t, err, domain.KindInsufficientRole)

	got, err = e.projectSvc.RemoveMember(ctx, pv.ID, member.ID, admin.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 3)

	_, err = e.projectSvc.RemoveMember(ctx, pv.ID, member.ID, admin.ID)
	requireKind(t, err, domain.KindNotAMember)

	// The removed member lost all access immediately.
	_, err = e.projectSvc.Get(ctx, pv.ID, member.ID)
	requireKind(t, err, domain.KindNotAMember)
}

func TestProjectSoftDeleteIsTerminal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	pv := e.project(t, owner, nil)

	require.NoError(t, e.projectSvc.Remove(ctx, pv.ID, owner.ID))

	_, err := e.projectSvc.Get(ctx, pv.ID, owner.ID)
	requireKind(t, err, domain.KindNotFound)

	// A second delete reads as missing, not as a no-op.
	err = e.projectSvc.Remove(ctx, pv.ID, owner.ID)
	requireKind(t, err, domain.KindNotFound)

	list, err := e.projectSvc.List(ctx, owner.ID, domain.ProjectFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}

func TestProjectListIsScopedToMember(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "Alice")
	bob := e.user(t, "Bob")

	ap := e.project(t, alice, nil)
	e.project(t, bob, nil)

	_, err := e.projectSvc.AddMember(ctx, ap.ID, bob.ID, domain.ProjectRoleMember, alice.ID)
	require.NoError(t, err)

	aliceList, err := e.projectSvc.List(ctx, alice.ID, domain.ProjectFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, aliceList.Data, 1)
	assert.Equal(t, ap.ID, aliceList.Data[0].ID)

	bobList, err := e.projectSvc.List(ctx, bob.ID, domain.ProjectFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, bobList.Data, 2)
	assert.Equal(t, int64(2), bobList.Meta.Total)

	// Search narrows by name/description, case-insensitive.
	found, err := e.projectSvc.List(ctx, bob.ID, domain.ProjectFilter{Search: "project alice", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, found.Data, 1)
	assert.Equal(t, ap.ID, found.Data[0].ID)
}
