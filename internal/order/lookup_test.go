package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/errs"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/kv"
)

func newLookupFixture(t *testing.T) (*Lookup, string, *time.Time) {
	svc, now := newFixedService(kv.NewMemoryStore(), nil)
	id, err := svc.Create(context.Background(), testLines(), testShipping(), testCard())
	require.NoError(t, err)
	return NewLookup(svc), id, now
}

func TestTrackOrder_Success(t *testing.T) {
	lookup, id, _ := newLookupFixture(t)

	view, err := lookup.TrackOrder(context.Background(), id, "right@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, StatusProcessing, view.Status)
}

func TestTrackOrder_EmailCaseInsensitive(t *testing.T) {
	lookup, id, _ := newLookupFixture(t)

	_, err := lookup.TrackOrder(context.Background(), id, "RIGHT@Example.COM")
	require.NoError(t, err)
}

func TestTrackOrder_WrongEmail(t *testing.T) {
	lookup, id, _ := newLookupFixture(t)

	// The id exists; only the email is wrong.
	_, err := lookup.TrackOrder(context.Background(), id, "wrong@example.com")
	assert.ErrorIs(t, err, errs.ErrOwnershipMismatch)
}

func TestTrackOrder_UnknownID(t *testing.T) {
	lookup, _, _ := newLookupFixture(t)

	_, err := lookup.TrackOrder(context.Background(), "ORD-NOPE", "right@example.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestOwnedOrder_SharesOwnershipCheck(t *testing.T) {
	lookup, id, _ := newLookupFixture(t)
	ctx := context.Background()

	_, err := lookup.OwnedOrder(ctx, id, "right@example.com")
	require.NoError(t, err)

	_, err = lookup.OwnedOrder(ctx, id, "someoneelse@example.com")
	assert.ErrorIs(t, err, errs.ErrOwnershipMismatch)
}

func TestTrackOrder_StatusLiveDerived(t *testing.T) {
	lookup, id, now := newLookupFixture(t)
	ctx := context.Background()

	view, err := lookup.TrackOrder(ctx, id, "right@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, view.Status)

	*now = now.Add(72 * time.Hour)
	view, err = lookup.TrackOrder(ctx, id, "right@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, view.Status)
	assert.NotEmpty(t, view.TrackingNumber)
}
