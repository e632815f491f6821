// Package site serves the static usage page.
package site

import (
	"context"
	"net/http"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Register attaches the usage page to mux. Wrap is applied to the handler
// (e.g. metrics); pass nil for none.
func Register(_ context.Context, mux *http.ServeMux, wrap func(http.HandlerFunc, string) http.HandlerFunc) {
	if mux == nil {
		panic("mux is nil")
	}
	h := NewUsageHandler().HandleUsage
	if wrap != nil {
		h = wrap(h, "usage")
	}
	mux.HandleFunc("GET /validar/{$}", h)
}

// UsageHandler renders the usage hint.
type UsageHandler struct{}

// NewUsageHandler creates a new usage handler.
func NewUsageHandler() *UsageHandler {
	return &UsageHandler{}
}

// HandleUsage handles GET /validar/ requests.
func (h *UsageHandler) HandleUsage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = w.Write(UsageHTML)
}
