package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestMongo(t *testing.T) (*MongoStore, func()) {
	if testing.Short() {
		t.Skip("skipping mongodb integration test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongo(ctx, uri, "testdb")
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewMongoStore(db), cleanup
}

func TestMongoStore_GetMissing(t *testing.T) {
	store, cleanup := setupTestMongo(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMongoStore_RoundTrip(t *testing.T) {
	store, cleanup := setupTestMongo(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:sess-1", []byte(`[{"product_id":"P1","quantity":2}]`)))

	got, err := store.Get(ctx, "cart:sess-1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product_id":"P1","quantity":2}]`, string(got))

	// Upsert replaces in place.
	require.NoError(t, store.Set(ctx, "cart:sess-1", []byte(`[]`)))
	got, err = store.Get(ctx, "cart:sess-1")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))

	require.NoError(t, store.Remove(ctx, "cart:sess-1"))
	_, err = store.Get(ctx, "cart:sess-1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
