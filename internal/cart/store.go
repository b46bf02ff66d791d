package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/catalog"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/errs"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/kv"
)

// Store owns one session's in-progress selection. It is an explicit object
// injected into the session scope, not a global. Every mutation persists the
// cart synchronously; on a persist failure the in-memory lines are left
// unchanged so the caller can retry.
type Store struct {
	mu        sync.Mutex
	sessionID string
	blobs     kv.Store
	lines     []Line

	listeners    map[int]func()
	nextListener int
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// NewStore loads the session's persisted cart, starting empty when none is
// stored yet.
func NewStore(ctx context.Context, blobs kv.Store, sessionID string) (*Store, error) {
	s := &Store{
		sessionID: sessionID,
		blobs:     blobs,
		listeners: make(map[int]func()),
	}

	data, err := blobs.Get(ctx, cartKey(sessionID))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return s, nil
		}
		return nil, errs.Persistence("load cart", err)
	}

	if e2 := json.Unmarshal(data, &s.lines); e2 != nil {
		// A corrupt blob should not brick the session; start over empty.
		log.Printf("discarding unreadable cart blob for session %s: %v", sessionID, e2)
		s.lines = nil
	}
	return s, nil
}

// AddItem merges quantity into the existing line for (product, variant) or
// appends a new line priced at the product's effective price. Products that
// declare variants require one.
func (s *Store) AddItem(ctx context.Context, product *catalog.Product, quantity int, variantKey string) error {
	if quantity <= 0 {
		return errs.Validation("quantity", "must be a positive integer")
	}
	if len(product.Variants) > 0 {
		if variantKey == "" {
			return errs.Validation("variant", "variant required")
		}
		if !product.HasVariant(variantKey) {
			return errs.Validation("variant", "not offered for this product")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLines()
	merged := false
	for i := range next {
		if next[i].sameIdentity(product.ID, variantKey) {
			next[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, Line{
			ProductID:   product.ID,
			VariantKey:  variantKey,
			UnitPrice:   product.EffectivePrice(),
			Quantity:    quantity,
			DisplayName: product.Name,
			ImageRef:    product.Image,
		})
	}

	return s.commit(ctx, next)
}

// UpdateQuantity replaces a line's quantity. A non-positive quantity removes
// the line; a non-positive line is never retained.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantKey string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID, variantKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLines()
	found := false
	for i := range next {
		if next[i].sameIdentity(productID, variantKey) {
			next[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil // benign: nothing to update
	}

	return s.commit(ctx, next)
}

// RemoveItem drops the matching line. Removing a line that is not present is
// a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID, variantKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		if !l.sameIdentity(productID, variantKey) {
			next = append(next, l)
		}
	}
	if len(next) == len(s.lines) {
		return nil
	}

	return s.commit(ctx, next)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, nil)
}

// commit persists next and only then swaps it in and notifies listeners.
// Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Line) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if e2 := s.blobs.Set(ctx, cartKey(s.sessionID), data); e2 != nil {
		return errs.Persistence("save cart", e2)
	}
	s.lines = next
	s.notifyLocked()
	return nil
}

// Lines returns a copy of the cart's lines in display order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

// ItemCount is the sum of all line quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SubtotalOf(s.lines)
}

func (s *Store) Tax() float64 {
	return TaxOf(s.Subtotal())
}

func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal := SubtotalOf(s.lines)
	return subtotal + TaxOf(subtotal)
}

// OnChange registers a listener fired after every committed mutation and
// returns a handle for OffChange.
func (s *Store) OnChange(fn func()) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return id
}

// OffChange removes a previously registered listener.
func (s *Store) OffChange(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, id)
}

func (s *Store) notifyLocked() {
	for _, fn := range s.listeners {
		fn()
	}
}

func (s *Store) copyLines() []Line {
	cp := make([]Line, len(s.lines))
	copy(cp, s.lines)
	return cp
}
