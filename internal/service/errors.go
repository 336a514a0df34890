// SPDX-License-Identifier: Apache-2.0

package service

import "errors"

// Input validation errors. These are the only errors the flow orchestrator
// surfaces directly; everything downstream of a successful decrypt degrades
// into step markers instead.
var (
	ErrMissingLinkData = errors.New("no link data provided")
	ErrMissingOrderID  = errors.New("no order id provided")
	ErrMissingSMSCode  = errors.New("no sms code provided")
)

// Business errors of the token lifecycle: the vendor call itself succeeded
// but the payload does not carry what the flow needs.
var (
	// ErrVendorRejected marks a well-formed vendor response whose status
	// fields indicate failure.
	ErrVendorRejected = errors.New("vendor rejected request")

	// ErrNoTokenInResponse is returned when an SMS verification succeeds
	// but the response data carries no token under any known key.
	ErrNoTokenInResponse = errors.New("no verification token in vendor response")

	// ErrNoCouponCode is returned when a coupon fetch succeeds but the
	// response data carries no coupon code.
	ErrNoCouponCode = errors.New("no coupon code in vendor response")
)
