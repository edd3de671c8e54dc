package handlers

import (
	"net/http"
)

// IndexHandler answers the API root.
type IndexHandler struct{}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// ServeHTTP returns an empty success envelope.
//
// swagger:route GET / index
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, []any{})
}
