// SPDX-License-Identifier: Apache-2.0

// Package adapter provides the transport layer for the vendor's encrypted
// API: a [VendorCaller] that wraps the envelope codec around an HTTP client,
// and a [VendorGateway] of typed per-endpoint helpers built on top of it.
//
// Transport failures (network errors, timeouts, non-2xx statuses) surface as
// [*TransportError]; signature verification failures propagate the codec's
// sentinel unchanged so callers can tell the two apart with [errors.Is] /
// [errors.As].
package adapter

import (
	"context"
	"time"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// EnvelopeCodec is the subset of the crypto codec the transport needs.
type EnvelopeCodec interface {
	// EncryptEnvelope signs and encrypts an outbound payload into the
	// vendor's hex wire format.
	EncryptEnvelope(payload map[string]any) (string, error)

	// DecryptEnvelope decrypts an inbound ciphertext and verifies its
	// signature, failing closed on mismatch.
	DecryptEnvelope(cipherHex string) (models.VendorResult, error)
}

// VendorCaller performs one encrypted round trip against a vendor endpoint.
type VendorCaller interface {
	// Call encrypts payload, POSTs it to endpoint with the given per-call
	// timeout (the configured default when timeout is zero), and returns
	// the decrypted, signature-verified response.
	Call(ctx context.Context, endpoint string, payload map[string]any, timeout time.Duration) (models.VendorResult, error)
}

// VendorGateway maps each vendor endpoint onto a structured contract. Every
// method owns only its endpoint path, input defaults, and light
// post-processing; cross-step logic belongs to the service layer.
type VendorGateway interface {
	// DecryptLink resolves an opaque encrypted link payload into customer
	// data via the vendor's decrypt endpoint.
	DecryptLink(ctx context.Context, data string) (models.VendorResult, error)

	// ListReservations lists the customer's active reservations
	// (vendor status "1").
	ListReservations(ctx context.Context, custNo string) (models.VendorResult, error)

	// FetchOrderDetail fetches the detail of one reservation.
	FetchOrderDetail(ctx context.Context, reservationID string) (models.VendorResult, error)

	// FetchCoupon fetches the coupon for a finalized order number.
	FetchCoupon(ctx context.Context, orderNo string) (models.VendorResult, error)

	// FetchCouponByToken fetches the coupon through the verification-token
	// path instead of the order-number path.
	FetchCouponByToken(ctx context.Context, orderID, token string) (models.VendorResult, error)

	// SendSMSCode asks the vendor to send a one-time code for the order.
	SendSMSCode(ctx context.Context, orderID string) (models.VendorResult, error)

	// VerifySMSCode submits a one-time code for verification.
	VerifySMSCode(ctx context.Context, orderID, code string) (models.VendorResult, error)

	// FetchUserInfo fetches the cardholder profile behind an encrypted
	// link payload.
	FetchUserInfo(ctx context.Context, cardTypeCode, data string) (models.VendorResult, error)

	// CancelOrder cancels a reservation.
	CancelOrder(ctx context.Context, orderID string) (models.VendorResult, error)

	// ChangeLounge moves a reservation to another lounge.
	ChangeLounge(ctx context.Context, orderID, loungeCode string) (models.VendorResult, error)
}
