// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
)

// apiError is the JSON error body of every failing endpoint.
type apiError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromRequest(r).Err(err).Msg("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, r, statusFromError(err), apiError{OK: false, Error: err.Error()})
}
