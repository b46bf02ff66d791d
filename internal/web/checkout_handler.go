package web

import (
	"encoding/json"
	"net/http"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/order"
)

type CheckoutHandler struct {
	sessions *Sessions
}

func NewCheckoutHandler(sessions *Sessions) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

type ShippingRequestDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country,omitempty"`
}

type PaymentRequestDTO struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	ExpiryMonth    string `json:"expiry_month"`
	ExpiryYear     string `json:"expiry_year"`
	CVV            string `json:"cvv"`
}

type CheckoutStateDTO struct {
	Phase    string             `json:"phase"`
	Shipping ShippingRequestDTO `json:"shipping"`
}

type PlaceOrderResponseDTO struct {
	OrderID string `json:"order_id"`
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	s := sess.Wizard.Shipping()
	respondJSON(w, http.StatusOK, CheckoutStateDTO{
		Phase: sess.Wizard.Phase().String(),
		Shipping: ShippingRequestDTO{
			FullName: s.FullName,
			Email:    s.Email,
			Address:  s.Address,
			City:     s.City,
			State:    s.State,
			ZipCode:  s.ZipCode,
			Country:  s.Country,
		},
	})
}

// POST /api/v1/checkout/shipping
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	sess.Wizard.SetShipping(order.ShippingInfo{
		FullName: req.FullName,
		Email:    req.Email,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		ZipCode:  req.ZipCode,
		Country:  req.Country,
	})
	if errAdvance := sess.Wizard.Advance(); errAdvance != nil {
		respondCoreError(w, errAdvance)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"phase": sess.Wizard.Phase().String()})
}

// POST /api/v1/checkout/payment
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	sess.Wizard.SetCard(order.CardInput{
		CardholderName: req.CardholderName,
		PAN:            req.CardNumber,
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		CVV:            req.CVV,
	})
	if errAdvance := sess.Wizard.Advance(); errAdvance != nil {
		respondCoreError(w, errAdvance)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"phase": sess.Wizard.Phase().String()})
}

// POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	sess.Wizard.Back()
	respondJSON(w, http.StatusOK, map[string]string{"phase": sess.Wizard.Phase().String()})
}

// POST /api/v1/checkout/place
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	orderID, err := sess.Wizard.PlaceOrder(r.Context())
	if err != nil {
		respondCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, PlaceOrderResponseDTO{OrderID: orderID})
}
