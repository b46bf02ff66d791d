package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/order"
)

type OrdersHandler struct {
	lookup  *order.Lookup
	timeout time.Duration
}

func NewOrdersHandler(lookup *order.Lookup, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		lookup:  lookup,
		timeout: timeout,
	}
}

type PaymentDTO struct {
	CardholderName string `json:"cardholder_name"`
	Last4          string `json:"last4"`
	ExpiryMonth    string `json:"expiry_month"`
	ExpiryYear     string `json:"expiry_year"`
	Brand          string `json:"brand,omitempty"`
}

type OrderResponseDTO struct {
	ID                string             `json:"id"`
	CreatedAt         string             `json:"created_at"`
	Status            string             `json:"status"`
	Lines             []CartLineDTO      `json:"lines"`
	Subtotal          float64            `json:"subtotal"`
	Tax               float64            `json:"tax"`
	Total             float64            `json:"total"`
	Shipping          ShippingRequestDTO `json:"shipping"`
	Payment           PaymentDTO         `json:"payment"`
	TrackingNumber    string             `json:"tracking_number,omitempty"`
	EstimatedDelivery string             `json:"estimated_delivery,omitempty"`
}

func convertOrderView(v *order.View) OrderResponseDTO {
	dto := OrderResponseDTO{
		ID:        v.ID,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
		Status:    v.Status.String(),
		Lines:     make([]CartLineDTO, 0, len(v.Lines)),
		Subtotal:  v.Subtotal,
		Tax:       v.Tax,
		Total:     v.Total,
		Shipping: ShippingRequestDTO{
			FullName: v.Shipping.FullName,
			Email:    v.Shipping.Email,
			Address:  v.Shipping.Address,
			City:     v.Shipping.City,
			State:    v.Shipping.State,
			ZipCode:  v.Shipping.ZipCode,
			Country:  v.Shipping.Country,
		},
		Payment: PaymentDTO{
			CardholderName: v.Payment.CardholderName,
			Last4:          v.Payment.Last4,
			ExpiryMonth:    v.Payment.ExpiryMonth,
			ExpiryYear:     v.Payment.ExpiryYear,
			Brand:          string(v.Payment.Brand),
		},
		TrackingNumber: v.TrackingNumber,
	}
	if v.EstimatedDelivery != nil {
		dto.EstimatedDelivery = v.EstimatedDelivery.Format(time.RFC3339)
	}
	for _, l := range v.Lines {
		dto.Lines = append(dto.Lines, CartLineDTO{
			ProductID:   l.ProductID,
			Variant:     l.VariantKey,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			DisplayName: l.DisplayName,
			ImageRef:    l.ImageRef,
		})
	}
	return dto
}

// GET /api/v1/orders/{order_id}/track?email=
func (h *OrdersHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	email := r.URL.Query().Get("email")
	if email == "" {
		respondError(w, http.StatusBadRequest, "missing_email", "email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.lookup.TrackOrder(ctx, orderID, email)
	if err != nil {
		respondCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrderView(view))
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	identity := getIdentityEmail(r.Context())
	if identity == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.lookup.OwnedOrder(ctx, orderID, identity)
	if err != nil {
		respondCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrderView(view))
}
