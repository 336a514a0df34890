// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"net/http"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/adapter"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/crypto"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/service"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrMissingLinkData: http.StatusBadRequest,
	service.ErrMissingOrderID:  http.StatusBadRequest,
	service.ErrMissingSMSCode:  http.StatusBadRequest,

	service.ErrVendorRejected:    http.StatusBadGateway,
	service.ErrNoTokenInResponse: http.StatusBadGateway,
	service.ErrNoCouponCode:      http.StatusBadGateway,
	crypto.ErrSignatureMismatch:  http.StatusBadGateway,
	crypto.ErrEmptyCiphertext:    http.StatusBadGateway,

	store.ErrRecordNotFound: http.StatusNotFound,
	store.ErrTokenNotFound:  http.StatusNotFound,
	store.ErrRecordNotSaved: http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}

	var transportErr *adapter.TransportError
	if errors.As(err, &transportErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
