package web

import (
	"context"
	"sync"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/cart"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/checkout"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/kv"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/order"
)

// Session is one client's live state: its cart and its checkout wizard. The
// cart is backed by the durable store, so a returning session picks up where
// it left off.
type Session struct {
	Cart   *cart.Store
	Wizard *checkout.Wizard
}

// Sessions hands out per-session state, constructing it on first access.
type Sessions struct {
	mu     sync.Mutex
	blobs  kv.Store
	orders *order.Service
	live   map[string]*Session
}

func NewSessions(blobs kv.Store, orders *order.Service) *Sessions {
	return &Sessions{
		blobs:  blobs,
		orders: orders,
		live:   make(map[string]*Session),
	}
}

func (s *Sessions) Get(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.live[sessionID]; ok {
		return sess, nil
	}

	cartStore, err := cart.NewStore(ctx, s.blobs, sessionID)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		Cart:   cartStore,
		Wizard: checkout.NewWizard(cartStore, s.orders),
	}
	s.live[sessionID] = sess
	return sess, nil
}
