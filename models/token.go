package models

import "time"

// VerificationToken is the short-lived credential obtained by verifying an
// SMS code. It is never mutated in place: reissuing replaces the token and
// both timestamps together.
type VerificationToken struct {
	OrderID   string    `json:"orderId"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the token must not be used at the given instant.
// The boundary counts as expired: a token with ExpiresAt == now is dead.
func (t VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ExtractSMSToken pulls the verification token out of a vendor SMS-verify
// response, tolerating the key variants the vendor has been seen to use.
// Returns an empty string when no token is present.
func ExtractSMSToken(result VendorResult) string {
	obj, ok := result.DataObject()
	if !ok {
		return ""
	}
	return StringField(obj, "smsToken", "sms_token", "token")
}
