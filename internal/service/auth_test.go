package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.auth.Register(ctx, "Alice@Example.com", "Alice", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, domain.GlobalRoleUser, res.User.Role)

	// Same email, any casing: taken.
	_, err = e.auth.Register(ctx, "alice@example.com", "Imposter", "whatever12")
	requireKind(t, err, domain.KindEmailInUse)

	login, err := e.auth.Login(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = e.auth.Login(ctx, "alice@example.com", "wrong password")
	requireKind(t, err, domain.KindUnauthorized)

	_, err = e.auth.Login(ctx, "nobody@example.com", "correct horse")
	requireKind(t, err, domain.KindUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Register(ctx, "", "Alice", "pw")
	requireKind(t, err, domain.KindValidation)

	_, err = e.auth.Register(ctx, "a@b.com", "", "pw")
	requireKind(t, err, domain.KindValidation)

	_, err = e.auth.Register(ctx, "a@b.com", "Alice", "")
	requireKind(t, err, domain.KindValidation)
}

func TestLoginDeactivatedUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u := e.user(t, "Gone")
	require.NoError(t, e.userSvc.Remove(ctx, u.ID))

	_, err := e.auth.Login(ctx, u.Email, "correct horse")
	requireKind(t, err, domain.KindUnauthorized)

	// The token subject also stops resolving.
	_, err = e.auth.Me(ctx, u.ID)
	requireKind(t, err, domain.KindNotFound)
}

func TestUserUpdateRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.user(t, "Alice")
	bob := e.user(t, "Bob")
	root := e.user(t, "Root")
	root.Role = domain.GlobalRoleAdmin
	require.NoError(t, e.users.Update(ctx, root))

	newName := "Alice B."
	v, err := e.userSvc.Update(ctx, alice.ID, domain.UserPatch{Name: &newName}, alice.ID, domain.GlobalRoleUser)
	require.NoError(t, err)
	assert.Equal(t, newName, v.Name)

	// Bob cannot edit Alice.
	_, err = e.userSvc.Update(ctx, alice.ID, domain.UserPatch{Name: &newName}, bob.ID, domain.GlobalRoleUser)
	requireKind(t, err, domain.KindInsufficientRole)

	// Alice cannot promote herself.
	adminRole := domain.GlobalRoleAdmin
	_, err = e.userSvc.Update(ctx, alice.ID, domain.UserPatch{Role: &adminRole}, alice.ID, domain.GlobalRoleUser)
	requireKind(t, err, domain.KindInsufficientRole)

	// A global admin can edit anyone, roles included.
	v, err = e.userSvc.Update(ctx, alice.ID, domain.UserPatch{Role: &adminRole}, root.ID, domain.GlobalRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.GlobalRoleAdmin, v.Role)

	// Changing email onto a taken one conflicts.
	taken := bob.Email
	_, err = e.userSvc.Update(ctx, alice.ID, domain.UserPatch{Email: &taken}, root.ID, domain.GlobalRoleAdmin)
	requireKind(t, err, domain.KindEmailInUse)
}
