package handlers

import (
	"net/http"

	"editor-note/internal/editor"
)

// BlockTypesResponse lists the registered block types.
//
// swagger:model BlockTypesResponse
type BlockTypesResponse struct {
	Types []editor.BlockType `json:"types"`
}

// BlockTypesHandler serves the editor's block registry.
type BlockTypesHandler struct {
	registry *editor.Registry
}

// NewBlockTypesHandler creates a new BlockTypesHandler.
func NewBlockTypesHandler(registry *editor.Registry) *BlockTypesHandler {
	return &BlockTypesHandler{registry: registry}
}

// ServeHTTP handles GET /api/block-types.
func (h *BlockTypesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r.Context(), BlockTypesResponse{Types: h.registry.Types()})
}
