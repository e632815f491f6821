package api

import (
	"net/http"
)

// validationResponse is the wire shape of GET /validar/{ci}. Field order is
// part of the contract: value, isValid, errors.
type validationResponse struct {
	Value   string   `json:"value"`
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidateHandler handles CI validation requests.
type ValidateHandler struct {
	validator Validator
}

// NewValidateHandler creates a new validation handler.
func NewValidateHandler(v Validator) *ValidateHandler {
	return &ValidateHandler{validator: v}
}

// HandleValidate handles GET /validar/{ci} requests. The router guarantees
// the ci path value is present.
func (h *ValidateHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ci := r.PathValue("ci")

	res := h.validator.Validate(r.Context(), ci)
	if res.Valid() {
		writeJSON(w, http.StatusOK, validationResponse{Value: ci, IsValid: true})
		return
	}
	writeJSON(w, http.StatusBadRequest, validationResponse{
		Value:   ci,
		IsValid: false,
		Errors:  res.Messages(),
	})
}
