package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopit/internal/config"
	"github.com/Skotchmaster/shopit/internal/models"
)

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(ctx, config.Config{StorageDriver: config.DriverSQLite, DatabaseURL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	require.NoError(t, store.Ping(ctx))

	u, err := store.CreateUser(ctx, &models.User{Name: "A", Email: "a@x.com", PasswordHash: "x", Role: models.RoleUser})
	require.NoError(t, err)
	got, err := store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestOpenStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := OpenStore(ctx, config.Config{StorageDriver: "cassandra"})
	assert.Error(t, err)

	_, err = OpenStore(ctx, config.Config{StorageDriver: config.DriverPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL is empty")

	_, err = OpenStore(ctx, config.Config{StorageDriver: config.DriverMongo})
	assert.ErrorContains(t, err, "MONGO_URI is empty")
}
