package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/cart"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/catalog"
)

type CartHandler struct {
	sessions *Sessions
	catalog  catalog.Provider
}

func NewCartHandler(sessions *Sessions, provider catalog.Provider) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  provider,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity"`
}

type CartLineDTO struct {
	ProductID   string  `json:"product_id"`
	Variant     string  `json:"variant,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	DisplayName string  `json:"display_name"`
	ImageRef    string  `json:"image_ref"`
}

type CartResponseDTO struct {
	Lines     []CartLineDTO `json:"lines"`
	ItemCount int           `json:"item_count"`
	Subtotal  float64       `json:"subtotal"`
	Tax       float64       `json:"tax"`
	Total     float64       `json:"total"`
}

func convertCart(c *cart.Store) CartResponseDTO {
	lines := c.Lines()
	dto := CartResponseDTO{
		Lines:     make([]CartLineDTO, 0, len(lines)),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		Tax:       c.Tax(),
		Total:     c.Total(),
	}
	for _, l := range lines {
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

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convertCart(sess.Cart))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "unknown_product", "product not found")
			return
		}
		respondCoreError(w, err)
		return
	}

	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	if errAdd := sess.Cart.AddItem(r.Context(), product, req.Quantity, req.Variant); errAdd != nil {
		respondCoreError(w, errAdd)
		return
	}

	respondJSON(w, http.StatusOK, convertCart(sess.Cart))
}

// PUT /api/v1/cart/items
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	if errUpdate := sess.Cart.UpdateQuantity(r.Context(), req.ProductID, req.Variant, req.Quantity); errUpdate != nil {
		respondCoreError(w, errUpdate)
		return
	}

	respondJSON(w, http.StatusOK, convertCart(sess.Cart))
}

// DELETE /api/v1/cart/items/{product_id}?variant=
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	variant := r.URL.Query().Get("variant")

	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	if errRemove := sess.Cart.RemoveItem(r.Context(), productID, variant); errRemove != nil {
		respondCoreError(w, errRemove)
		return
	}

	respondJSON(w, http.StatusOK, convertCart(sess.Cart))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondCoreError(w, err)
		return
	}

	if errClear := sess.Cart.Clear(r.Context()); errClear != nil {
		respondCoreError(w, errClear)
		return
	}

	respondJSON(w, http.StatusOK, convertCart(sess.Cart))
}
