package models

import "time"

// Defaults used when the vendor omits descriptive fields.
const (
	DefaultUserName   = "unknown"
	DefaultServerName = "airport lounge"
)

// UserRecord is the denormalized record persisted after a successful pipeline
// run: one row per vendor order number, last write wins. The verification
// token columns are populated by the SMS flow and are nullable.
type UserRecord struct {
	UserName          string `json:"userName"`
	BespeakCardType   string `json:"bespeakCardType"`
	OrderNo           string `json:"orderNo"`
	ServerName        string `json:"serverName"`
	Telephone         string `json:"telephone"`
	H5OrderID         string `json:"h5OrderId"`
	ActivityID        string `json:"activityId"`
	H5OrderNo         string `json:"h5OrderNo"`
	OrderTime         string `json:"orderTime"`
	CouponSync        string `json:"couponSync"`
	LoungeCode        string `json:"loungeCode"`
	RightsRemainPoint string `json:"rightsRemainPoint"`
	EndTime           string `json:"endTime"`
	Status            string `json:"status"`

	SMSToken          *string    `json:"smsToken,omitempty"`
	SMSTokenUpdatedAt *time.Time `json:"smsTokenUpdatedAt,omitempty"`
	SMSTokenExpiresAt *time.Time `json:"smsTokenExpiresAt,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserRecord builds the persisted record from the normalized order-detail
// and coupon data objects of a successful run. Missing descriptive fields fall
// back to defaults; identifiers are copied as-is.
func NewUserRecord(orderNo, activityID string, orderData, couponData map[string]any) UserRecord {
	rec := UserRecord{
		UserName:          StringField(orderData, "userName"),
		BespeakCardType:   StringField(couponData, "bespeakCardType"),
		OrderNo:           orderNo,
		ServerName:        StringField(orderData, "serverName"),
		Telephone:         StringField(orderData, "telephone"),
		H5OrderID:         StringField(orderData, "h5OrderId"),
		ActivityID:        activityID,
		H5OrderNo:         StringField(orderData, "h5OrderNo"),
		OrderTime:         StringField(orderData, "orderTime"),
		CouponSync:        StringField(orderData, "couponSync"),
		LoungeCode:        StringField(orderData, "loungeCode"),
		RightsRemainPoint: StringField(orderData, "rightsRemainPoint"),
		EndTime:           StringField(orderData, "endTime"),
		Status:            StringField(orderData, "status"),
	}

	if rec.UserName == "" {
		rec.UserName = DefaultUserName
	}
	if rec.ServerName == "" {
		rec.ServerName = DefaultServerName
	}

	return rec
}
