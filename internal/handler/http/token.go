// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

type smsRequest struct {
	OrderID string `json:"orderId"`
	SMSCode string `json:"smsCode,omitempty"`
}

type couponRequest struct {
	OrderID  string `json:"orderId,omitempty"`
	OrderNo  string `json:"orderNo,omitempty"`
	SMSToken string `json:"smsToken,omitempty"`
}

type tokenResponse struct {
	OK    bool                     `json:"ok"`
	Token models.VerificationToken `json:"token"`
}

type couponResponse struct {
	OK     bool              `json:"ok"`
	Coupon models.CouponMeta `json:"coupon"`
}

func (h *Handler) smsSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req smsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.TokenService.SendCode(ctx, req.OrderID)
	if err != nil {
		log.Err(err).Str("order_id", req.OrderID).Msg("sms send failed")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "result": result})
}

func (h *Handler) smsVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req smsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.TokenService.VerifyCode(ctx, req.OrderID, req.SMSCode)
	if err != nil {
		log.Err(err).Str("order_id", req.OrderID).Msg("sms verification failed")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tokenResponse{OK: true, Token: token})
}

// couponByOrderNo is the plain order-number redemption path.
func (h *Handler) couponByOrderNo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	orderNo := req.OrderNo
	if orderNo == "" {
		orderNo = req.OrderID
	}

	coupon, err := h.services.TokenService.RedeemByOrderNo(ctx, orderNo)
	if err != nil {
		log.Err(err).Str("order_no", orderNo).Msg("coupon fetch failed")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, couponResponse{OK: true, Coupon: coupon})
}

// couponByToken is the explicit token-path redemption.
func (h *Handler) couponByToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	coupon, err := h.services.TokenService.RedeemWithToken(ctx, req.OrderID, req.SMSToken)
	if err != nil {
		log.Err(err).Str("order_id", req.OrderID).Msg("token-path coupon fetch failed")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, couponResponse{OK: true, Coupon: coupon})
}

// couponRedeem prefers a stored live verification token and falls back to the
// order-number path.
func (h *Handler) couponRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	coupon, err := h.services.TokenService.RedeemCoupon(ctx, req.OrderID)
	if err != nil {
		log.Err(err).Str("order_id", req.OrderID).Msg("coupon redemption failed")
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, couponResponse{OK: true, Coupon: coupon})
}
