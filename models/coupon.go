package models

import (
	"math"
	"strings"
	"time"
)

// CouponMeta is derived from a coupon-fetch response: the redeemable code plus
// validity information when the vendor supplies a validTime.
type CouponMeta struct {
	Code             string     `json:"code"`
	ValidTime        string     `json:"validTime,omitempty"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	ExpiresInSeconds *int64     `json:"expiresInSeconds,omitempty"`
	Expired          *bool      `json:"expired,omitempty"`
}

// validTimeLayouts are the timestamp formats the vendor has been seen to use
// for coupon validity. Times carry no zone; they are taken as local.
var validTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseValidTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range validTimeLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// BuildCouponMeta extracts the coupon code and validity metadata out of a
// coupon-fetch response. Code is empty when the vendor returned no coupon;
// the expiry fields stay nil when validTime is absent or unparsable.
func BuildCouponMeta(result VendorResult, now time.Time) CouponMeta {
	meta := CouponMeta{}

	obj, ok := result.DataObject()
	if !ok {
		return meta
	}

	meta.Code = StringField(obj, "couponCode", "couponNum")
	meta.ValidTime = StringField(obj, "validTime", "valid_time", "validAt")

	if ts, ok := parseValidTime(meta.ValidTime); ok {
		diff := ts.Sub(now)
		expiresAt := ts
		remaining := int64(math.Ceil(diff.Seconds()))
		if remaining < 0 {
			remaining = 0
		}
		expired := diff <= 0

		meta.ExpiresAt = &expiresAt
		meta.ExpiresInSeconds = &remaining
		meta.Expired = &expired
	}

	return meta
}
