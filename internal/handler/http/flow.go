// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
)

type fullFlowRequest struct {
	Data string `json:"data"`
}

// fullFlow runs the five-step fulfillment pipeline for an opaque encrypted
// link payload. The response carries all step slots plus the flow summary
// regardless of downstream step failures.
func (h *Handler) fullFlow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req fullFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	outcome, err := h.services.FlowService.RunFullFlow(ctx, req.Data)
	if err != nil {
		log.Err(err).Msg("full flow rejected")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, outcome)
}
