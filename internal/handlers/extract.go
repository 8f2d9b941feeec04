package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"editor-note/internal/blocks"
	"editor-note/internal/contextutil"
	"editor-note/internal/notes"
)

// maxExtractBody caps the request body accepted by ExtractHandler.
const maxExtractBody = 8 << 20

// ExtractRequest carries either a serialized body or a JSON block tree.
// Blocks are {"type", "attrs", "children"} objects. A note is recognized
// only by its full name, blocks.NoteType ("pb/editor-note"); a type without
// a namespace means core/<type>, so {"type":"note"} is an ordinary
// container and yields no notes.
//
// swagger:model ExtractRequest
type ExtractRequest struct {
	Body   string          `json:"body,omitempty"`
	Blocks json.RawMessage `json:"blocks,omitempty"`
}

// ExtractResponse lists note texts in document order.
//
// swagger:model ExtractResponse
type ExtractResponse struct {
	Notes []string `json:"notes"`
}

// ExtractHandler returns the notes contained in a posted document.
type ExtractHandler struct{}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler() *ExtractHandler {
	return &ExtractHandler{}
}

// ServeHTTP handles POST /api/notes/extract.
func (h *ExtractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxExtractBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req ExtractRequest
	if err := json.Unmarshal(data, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		// Fields of the wrong type are left empty.
	}

	var tree []blocks.Block
	if len(req.Blocks) > 0 {
		tree, err = blocks.DecodeTree(req.Blocks)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid blocks")
			return
		}
	} else {
		tree = blocks.Parse(req.Body)
	}

	found := notes.Extract(tree)
	logger.DebugContext(ctx, "extracted notes", "count", len(found))
	writeJSON(w, ctx, ExtractResponse{Notes: found})
}
