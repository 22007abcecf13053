package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainerhub/backend/internal/db"
	"github.com/trainerhub/backend/internal/models"
)

func TestCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := New(db.NewMemory())

	clients := r.Clients("t1")
	require.NoError(t, clients.Put(ctx, models.Client{ID: "c2", Name: "Bea"}))
	require.NoError(t, clients.Put(ctx, models.Client{ID: "c1", Name: "Al"}))

	got, err := clients.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Al", got.Name)

	list, err := clients.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].ID)

	ok, err := clients.Exists(ctx, "c2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, clients.Delete(ctx, "c2"))
	_, err = clients.Get(ctx, "c2")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestCollectionsAreTrainerScoped(t *testing.T) {
	ctx := context.Background()
	r := New(db.NewMemory())

	require.NoError(t, r.Coupons("t1").Put(ctx, models.Coupon{ID: "x", Code: "A"}))

	other, err := r.Coupons("t2").List(ctx)
	require.NoError(t, err)
	assert.Empty(t, other)
	assert.NotNil(t, other)
	assert.Equal(t, "coupons:t1", r.Coupons("t1").Name())
}

func TestPutRejectsEmptyID(t *testing.T) {
	r := New(db.NewMemory())
	err := r.Clients("t1").Put(context.Background(), models.Client{Name: "nobody"})
	assert.Error(t, err)
}

func TestUserRecordKeepsPasswordHash(t *testing.T) {
	ctx := context.Background()
	r := New(db.NewMemory())

	rec := models.UserRecord{
		User:         models.User{ID: "u1", Email: "sam@example.com", Role: models.RoleTrainer},
		PasswordHash: "$2a$10$hash",
	}
	require.NoError(t, r.Users().Put(ctx, rec))

	got, err := r.UserByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	_, err = r.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrainersFiltersByRole(t *testing.T) {
	ctx := context.Background()
	r := New(db.NewMemory())
	require.NoError(t, r.Users().Put(ctx, models.UserRecord{User: models.User{ID: "a", Role: models.RoleAdmin}}))
	require.NoError(t, r.Users().Put(ctx, models.UserRecord{User: models.User{ID: "b", Role: models.RoleTrainer}}))

	trainers, err := r.Trainers(ctx)
	require.NoError(t, err)
	require.Len(t, trainers, 1)
	assert.Equal(t, "b", trainers[0].ID)
}

func TestSettingsDefaultUntilSaved(t *testing.T) {
	ctx := context.Background()
	r := New(db.NewMemory())

	s, err := r.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TrainerHub", s.PlatformName)
	assert.True(t, s.CommissionRate.Equal(DefaultCommissionRate))

	s.MaintenanceMode = true
	require.NoError(t, r.SaveSettings(ctx, s))

	again, err := r.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, again.MaintenanceMode)
}
