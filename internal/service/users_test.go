package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
)

func TestUserAdminService(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	svc := NewUserAdminService(f.store, f.pub)

	a := f.register(t, "A", "a@x.com", "secret123")
	f.register(t, "B", "b@x.com", "secret123")

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	missing := uuid.NewString()
	_, err = svc.Get(ctx, missing)
	requireAppErr(t, err, apperr.KindNotFound, "User does not found with id: "+missing)

	_, err = svc.Get(ctx, "123")
	assert.ErrorIs(t, err, repo.ErrInvalidID)

	_, err = svc.Update(ctx, a.ID, AdminUserUpdate{Role: "root"})
	requireAppErr(t, err, apperr.KindValidation, "Role (root) is not valid")

	updated, err := svc.Update(ctx, a.ID, AdminUserUpdate{Name: "Admin A", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "Admin A", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)

	_, err = svc.Update(ctx, missing, AdminUserUpdate{Name: "x"})
	requireAppErr(t, err, apperr.KindNotFound, "User does not found with id: "+missing)

	require.NoError(t, svc.Delete(ctx, a.ID))
	err = svc.Delete(ctx, a.ID)
	requireAppErr(t, err, apperr.KindNotFound, "User does not found with id: "+a.ID)
	assert.Contains(t, f.pub.types(), "user.deleted")
}
