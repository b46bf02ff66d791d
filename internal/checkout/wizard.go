package checkout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/cart"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/errs"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/order"
)

// Phase is one step of the checkout state machine.
type Phase string

const (
	PhaseShipping Phase = "SHIPPING"
	PhasePayment  Phase = "PAYMENT"
	PhaseReview   Phase = "REVIEW"
)

func (p Phase) String() string {
	return string(p)
}

// OrderPlacer is the slice of the order lifecycle the wizard needs.
type OrderPlacer interface {
	Create(ctx context.Context, lines []cart.Line, shipping order.ShippingInfo, card order.CardInput) (string, error)
}

// Wizard walks one session through Shipping → Payment → Review and places
// the order from Review. Forward transitions are gated on validation;
// backward transitions never re-validate. A placement in flight blocks
// duplicate submissions.
type Wizard struct {
	mu       sync.Mutex
	phase    Phase
	shipping order.ShippingInfo
	card     order.CardInput
	cart     *cart.Store
	orders   OrderPlacer
	now      func() time.Time

	placing bool
	orderID string
}

func NewWizard(cartStore *cart.Store, orders OrderPlacer) *Wizard {
	return &Wizard{
		phase:  PhaseShipping,
		cart:   cartStore,
		orders: orders,
		now:    time.Now,
	}
}

// Phase reports the wizard's current step.
func (w *Wizard) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// SetShipping replaces the collected shipping input without validating it;
// validation happens on Advance.
func (w *Wizard) SetShipping(s order.ShippingInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shipping = s
}

// SetCard replaces the collected card input.
func (w *Wizard) SetCard(c order.CardInput) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.card = c
}

// Shipping returns the collected shipping input, for redisplay.
func (w *Wizard) Shipping() order.ShippingInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shipping
}

// Advance moves to the next phase if the current phase validates; otherwise
// it returns a ValidationError carrying the field map and stays put.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.phase {
	case PhaseShipping:
		if fields := validateShipping(w.shipping); len(fields) > 0 {
			return &errs.ValidationError{Fields: fields}
		}
		if w.shipping.Country == "" {
			w.shipping.Country = order.DefaultCountry
		}
		w.phase = PhasePayment
	case PhasePayment:
		if fields := validatePayment(w.card, w.now()); len(fields) > 0 {
			return &errs.ValidationError{Fields: fields}
		}
		w.phase = PhaseReview
	default:
		return errs.Precondition("already at review")
	}
	return nil
}

// Back steps to the previous phase. Always allowed from Payment or Review;
// the phase being left is not re-validated.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.phase {
	case PhasePayment:
		w.phase = PhaseShipping
	case PhaseReview:
		w.phase = PhasePayment
	}
}

// PlaceOrder hands the cart snapshot and the collected input to the order
// lifecycle, then clears the cart. Only callable from Review, only with a
// non-empty cart, and only once at a time: a second call while one is
// outstanding is rejected. On failure the wizard stays in Review with its
// collected data intact so the user can retry.
func (w *Wizard) PlaceOrder(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.phase != PhaseReview {
		w.mu.Unlock()
		return "", errs.Precondition("not at review")
	}
	if w.placing {
		w.mu.Unlock()
		return "", errs.Precondition("order submission already in flight")
	}
	if w.cart.IsEmpty() {
		w.mu.Unlock()
		return "", errs.Precondition("empty cart")
	}
	w.placing = true
	lines := w.cart.Lines()
	shipping := w.shipping
	card := w.card
	w.mu.Unlock()

	id, err := w.orders.Create(ctx, lines, shipping, card)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.placing = false
	if err != nil {
		return "", err
	}

	w.orderID = id
	if errClear := w.cart.Clear(ctx); errClear != nil {
		// The order exists; a failed clear must not hide it from the caller.
		log.Printf("cart clear after order %s failed: %v", id, errClear)
	}
	return id, nil
}

// OrderID is the id of the order this wizard placed, empty until PlaceOrder
// succeeds.
func (w *Wizard) OrderID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.orderID
}
