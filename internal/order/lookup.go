package order

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/errs"
)

// Lookup gates order visibility to the party that placed the order. Both
// entry points share one ownership check and one status-derivation path;
// they differ only in where the comparison email comes from.
type Lookup struct {
	svc *Service
}

func NewLookup(svc *Service) *Lookup {
	return &Lookup{svc: svc}
}

// TrackOrder serves the guest tracking surface: the caller proves ownership
// by re-entering the email the order was placed under.
func (l *Lookup) TrackOrder(ctx context.Context, orderID, suppliedEmail string) (*View, error) {
	return l.verified(ctx, orderID, suppliedEmail)
}

// OwnedOrder serves the authenticated order-details surface: the comparison
// email is the caller's authenticated identity.
func (l *Lookup) OwnedOrder(ctx context.Context, orderID, identityEmail string) (*View, error) {
	return l.verified(ctx, orderID, identityEmail)
}

func (l *Lookup) verified(ctx context.Context, orderID, email string) (*View, error) {
	view, err := l.svc.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			log.Printf("order lookup: unknown id %s", orderID)
		}
		return nil, err
	}

	if !strings.EqualFold(view.Shipping.Email, email) {
		// Distinguishable from ErrNotFound internally; the presentation
		// layer renders both with the same wording.
		log.Printf("order lookup: ownership mismatch for %s", orderID)
		return nil, errs.ErrOwnershipMismatch
	}

	return view, nil
}
