// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Post("/api/full-flow", h.fullFlow)

	router.Post("/api/sms/send", h.smsSend)
	router.Post("/api/sms/verify", h.smsVerify)

	router.Post("/api/coupon", h.couponByOrderNo)
	router.Post("/api/coupon-by-sms", h.couponByToken)
	router.Post("/api/coupon/redeem", h.couponRedeem)

	router.Get("/api/user-data", h.listRecords)
	router.Get("/api/user-data/{orderNo}", h.getRecord)

	router.Get("/api/health", h.health)

	return router
}
