package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestPostgres(t *testing.T) (*PostgresStore, func()) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	store, err := NewPostgresStore(&Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	})
	require.NoError(t, err)

	require.NoError(t, store.RunMigrations("../../migrations"))

	cleanup := func() {
		store.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return store, cleanup
}

func TestPostgresStore_GetMissing(t *testing.T) {
	store, cleanup := setupTestPostgres(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	store, cleanup := setupTestPostgres(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "order:ORD-1", []byte(`{"id":"ORD-1","total":242.97}`)))

	got, err := store.Get(ctx, "order:ORD-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ORD-1","total":242.97}`, string(got))

	// Upsert overwrites the previous value.
	require.NoError(t, store.Set(ctx, "order:ORD-1", []byte(`{"id":"ORD-1","total":10}`)))
	got, err = store.Get(ctx, "order:ORD-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ORD-1","total":10}`, string(got))

	require.NoError(t, store.Remove(ctx, "order:ORD-1"))
	_, err = store.Get(ctx, "order:ORD-1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
