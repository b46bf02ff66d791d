package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/errs"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondCoreError maps the core error taxonomy onto HTTP. NotFound and
// OwnershipMismatch deliberately render the same wording so a guesser cannot
// tell a wrong email from an unknown order.
func respondCoreError(w http.ResponseWriter, err error) {
	if ve, ok := errs.AsValidation(err); ok {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: ve.Fields,
		})
		return
	}

	var pe *errs.PreconditionError
	if errors.As(err, &pe) {
		respondError(w, http.StatusConflict, "precondition_failed", pe.Reason)
		return
	}

	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrOwnershipMismatch) {
		respondError(w, http.StatusNotFound, "order_not_verified", "we couldn't verify this order")
		return
	}

	if errs.IsPersistence(err) {
		log.Printf("persistence failure: %v", err)
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "please try again")
		return
	}

	log.Printf("unhandled error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
