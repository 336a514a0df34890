package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserRecord_Defaults(t *testing.T) {
	record := NewUserRecord("NO-1", "5476", map[string]any{}, map[string]any{})

	assert.Equal(t, DefaultUserName, record.UserName)
	assert.Equal(t, DefaultServerName, record.ServerName)
	assert.Equal(t, "NO-1", record.OrderNo)
	assert.Equal(t, "5476", record.ActivityID)
}

func TestNewUserRecord_CopiesFields(t *testing.T) {
	orderData := map[string]any{
		"userName":  "Zhang Wei",
		"h5OrderNo": "H5-1",
		"telephone": "13800000000",
	}
	couponData := map[string]any{"bespeakCardType": "VIP"}

	record := NewUserRecord("NO-1", "5476", orderData, couponData)

	assert.Equal(t, "Zhang Wei", record.UserName)
	assert.Equal(t, "H5-1", record.H5OrderNo)
	assert.Equal(t, "13800000000", record.Telephone)
	assert.Equal(t, "VIP", record.BespeakCardType)
}
