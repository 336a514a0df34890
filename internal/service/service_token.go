// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/adapter"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/config"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/store"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// tokenService implements the verification-token lifecycle:
// NoToken -> CodeSent -> Verified(token, expiresAt) -> Consumed | Expired.
// Only the Verified state is durable; sending a code persists nothing.
type tokenService struct {
	gateway adapter.VendorGateway
	records store.UserRecordRepository

	ttl        time.Duration
	activityID string
	logger     *logger.Logger
	now        func() time.Time
}

// NewTokenService constructs the token lifecycle service.
func NewTokenService(gateway adapter.VendorGateway, records store.UserRecordRepository, cfg *config.StructuredConfig, logger *logger.Logger) TokenService {
	return &tokenService{
		gateway:    gateway,
		records:    records,
		ttl:        cfg.Tokens.TTL,
		activityID: cfg.Vendor.ActivityID,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *tokenService) SendCode(ctx context.Context, orderID string) (models.VendorResult, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrMissingOrderID
	}

	res, err := s.gateway.SendSMSCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return res, vendorRejected(res)
	}

	return res, nil
}

func (s *tokenService) VerifyCode(ctx context.Context, orderID, code string) (models.VerificationToken, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(orderID) == "" {
		return models.VerificationToken{}, ErrMissingOrderID
	}
	if strings.TrimSpace(code) == "" {
		return models.VerificationToken{}, ErrMissingSMSCode
	}

	res, err := s.gateway.VerifySMSCode(ctx, orderID, code)
	if err != nil {
		return models.VerificationToken{}, err
	}
	if !res.IsSuccess() {
		return models.VerificationToken{}, vendorRejected(res)
	}

	tokenValue := models.ExtractSMSToken(res)
	if tokenValue == "" {
		// The transport call succeeded but the verification is useless
		// without a token.
		return models.VerificationToken{}, ErrNoTokenInResponse
	}

	now := s.now()
	token := models.VerificationToken{
		OrderID:   orderID,
		Token:     tokenValue,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	err = s.records.SaveToken(ctx, orderID, token)
	if errors.Is(err, store.ErrRecordNotFound) {
		// Token arrived before any pipeline run persisted this order.
		// Create a placeholder record and attach the token to it.
		if err = s.records.EnsureRecord(ctx, orderID, s.activityID); err == nil {
			err = s.records.SaveToken(ctx, orderID, token)
		}
	}
	if err != nil {
		log.Err(err).Str("order_id", orderID).Msg("failed to persist verification token")
		return models.VerificationToken{}, fmt.Errorf("persist verification token: %w", err)
	}

	log.Info().Str("order_id", orderID).Time("expires_at", token.ExpiresAt).Msg("verification token stored")
	return token, nil
}

func (s *tokenService) RedeemCoupon(ctx context.Context, orderID string) (models.CouponMeta, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(orderID) == "" {
		return models.CouponMeta{}, ErrMissingOrderID
	}

	// Prefer the token path whenever a live token exists for the order.
	token, err := s.records.FindToken(ctx, orderID)
	if err == nil && !token.Expired(s.now()) {
		log.Debug().Str("order_id", orderID).Msg("redeeming coupon via verification token")
		res, resErr := s.gateway.FetchCouponByToken(ctx, orderID, token.Token)
		return s.redeem(ctx, res, resErr)
	}

	log.Debug().Str("order_id", orderID).Msg("redeeming coupon via order number")
	res, resErr := s.gateway.FetchCoupon(ctx, orderID)
	return s.redeem(ctx, res, resErr)
}

func (s *tokenService) RedeemWithToken(ctx context.Context, orderID, token string) (models.CouponMeta, error) {
	if strings.TrimSpace(orderID) == "" {
		return models.CouponMeta{}, ErrMissingOrderID
	}

	res, err := s.gateway.FetchCouponByToken(ctx, orderID, token)
	return s.redeem(ctx, res, err)
}

func (s *tokenService) RedeemByOrderNo(ctx context.Context, orderNo string) (models.CouponMeta, error) {
	if strings.TrimSpace(orderNo) == "" {
		return models.CouponMeta{}, ErrMissingOrderID
	}

	res, err := s.gateway.FetchCoupon(ctx, orderNo)
	return s.redeem(ctx, res, err)
}

// redeem gates a coupon-fetch response and derives its coupon metadata.
func (s *tokenService) redeem(ctx context.Context, res models.VendorResult, err error) (models.CouponMeta, error) {
	if err != nil {
		return models.CouponMeta{}, err
	}
	if !res.IsSuccess() {
		return models.CouponMeta{}, vendorRejected(res)
	}

	meta := models.BuildCouponMeta(res, s.now())
	if meta.Code == "" {
		return models.CouponMeta{}, ErrNoCouponCode
	}

	logger.FromContext(ctx).Info().Str("coupon_code", meta.Code).Msg("coupon redeemed")
	return meta, nil
}

// vendorRejected wraps the vendor's failure message around the sentinel.
func vendorRejected(res models.VendorResult) error {
	if msg := res.Message(); msg != "" {
		return fmt.Errorf("%w: %s", ErrVendorRejected, msg)
	}
	return ErrVendorRejected
}
