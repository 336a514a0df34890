// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

type recordsResponse struct {
	OK      bool                `json:"ok"`
	Records []models.UserRecord `json:"records"`
}

type recordResponse struct {
	OK     bool              `json:"ok"`
	Record models.UserRecord `json:"record"`
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.services.RecordService.ListRecords(r.Context())
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("failed to list user records")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, recordsResponse{OK: true, Records: records})
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	orderNo := chi.URLParam(r, "orderNo")

	record, err := h.services.RecordService.GetRecord(r.Context(), orderNo)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("order_no", orderNo).Msg("failed to fetch user record")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, recordResponse{OK: true, Record: record})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "status": "up"})
}
