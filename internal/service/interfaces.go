// SPDX-License-Identifier: Apache-2.0

// Package service holds the business layer: the full-flow fulfillment
// orchestrator and the verification-token lifecycle over the vendor adapters
// and the store.
package service

import (
	"context"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// FlowService runs the five-step fulfillment pipeline.
type FlowService interface {
	// RunFullFlow resolves an opaque encrypted link payload into a coupon,
	// persisting a derived record on the way. The pipeline is fail-soft:
	// after a successful decrypt every later failure degrades into a step
	// error marker instead of aborting the run. The returned error is
	// non-nil only for caller input validation failures.
	RunFullFlow(ctx context.Context, opaqueData string) (models.FlowOutcome, error)
}

// TokenService manages the SMS verification-token lifecycle and the
// token-gated coupon redemption path.
type TokenService interface {
	// SendCode asks the vendor to send a one-time SMS code for the order.
	// Nothing durable happens on success.
	SendCode(ctx context.Context, orderID string) (models.VendorResult, error)

	// VerifyCode submits a one-time code, extracts the verification token
	// from the vendor response, and persists it with a fresh expiry.
	VerifyCode(ctx context.Context, orderID, code string) (models.VerificationToken, error)

	// RedeemCoupon fetches the coupon for an order, preferring the stored
	// verification token when one exists and has not expired, and falling
	// back to the order-number path otherwise.
	RedeemCoupon(ctx context.Context, orderID string) (models.CouponMeta, error)

	// RedeemWithToken fetches the coupon through the token path directly.
	RedeemWithToken(ctx context.Context, orderID, token string) (models.CouponMeta, error)

	// RedeemByOrderNo fetches the coupon through the order-number path
	// directly, ignoring any stored token.
	RedeemByOrderNo(ctx context.Context, orderNo string) (models.CouponMeta, error)
}

// RecordService exposes the persisted fulfillment records.
type RecordService interface {
	// GetRecord returns the persisted record for an order number.
	GetRecord(ctx context.Context, orderNo string) (models.UserRecord, error)

	// ListRecords returns all persisted records, most recent first.
	ListRecords(ctx context.Context) ([]models.UserRecord, error)
}
