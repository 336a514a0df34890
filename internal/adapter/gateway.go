// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"time"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/config"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// vendorGateway implements [VendorGateway] on top of a [VendorCaller]. Each
// method stamps the vendor's mandatory sdTimestamp and selects the timeout
// class of its endpoint.
type vendorGateway struct {
	caller VendorCaller
	cfg    config.Vendor

	now func() time.Time
}

// NewVendorGateway constructs the typed per-endpoint helpers.
func NewVendorGateway(caller VendorCaller, cfg config.Vendor) VendorGateway {
	return &vendorGateway{
		caller: caller,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (g *vendorGateway) timestamp() int64 {
	return g.now().UnixMilli()
}

func (g *vendorGateway) DecryptLink(ctx context.Context, data string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.Decrypt, map[string]any{
		"data":        data,
		"activityId":  g.cfg.ActivityID,
		"sdTimestamp": g.timestamp(),
	}, g.cfg.Timeouts.Coupon)
}

func (g *vendorGateway) ListReservations(ctx context.Context, custNo string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.BespeakList, map[string]any{
		"custNo":      custNo,
		"sdTimestamp": g.timestamp(),
		"status":      "1",
	}, g.cfg.Timeouts.Coupon)
}

func (g *vendorGateway) FetchOrderDetail(ctx context.Context, reservationID string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.OrderInfo, map[string]any{
		"orderId":     reservationID,
		"sdTimestamp": g.timestamp(),
	}, g.cfg.Timeouts.Coupon)
}

func (g *vendorGateway) FetchCoupon(ctx context.Context, orderNo string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.Coupon, map[string]any{
		"orderNo":     orderNo,
		"sdTimestamp": g.timestamp(),
	}, g.cfg.Timeouts.Coupon)
}

func (g *vendorGateway) FetchCouponByToken(ctx context.Context, orderID, token string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.Coupon, map[string]any{
		"orderId":     orderID,
		"smsToken":    token,
		"sdTimestamp": g.timestamp(),
	}, g.cfg.Timeouts.Coupon)
}

func (g *vendorGateway) SendSMSCode(ctx context.Context, orderID string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.SMSSend, map[string]any{
		"orderId":     orderID,
		"sdTimestamp": g.timestamp(),
	}, g.cfg.Timeouts.Coupon)
}

func (g *vendorGateway) VerifySMSCode(ctx context.Context, orderID, code string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.SMSVerify, map[string]any{
		"orderId":     orderID,
		"smsCode":     code,
		"sdTimestamp": g.timestamp(),
	}, g.cfg.Timeouts.Coupon)
}

func (g *vendorGateway) FetchUserInfo(ctx context.Context, cardTypeCode, data string) (models.VendorResult, error) {
	if cardTypeCode == "" {
		cardTypeCode = g.cfg.CardTypeCode
	}
	return g.caller.Call(ctx, g.cfg.Endpoints.UserInfo, map[string]any{
		"cardTypeCode": cardTypeCode,
		"data":         data,
		"sdTimestamp":  g.timestamp(),
	}, g.cfg.Timeouts.UserInfo)
}

func (g *vendorGateway) CancelOrder(ctx context.Context, orderID string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.CancelOrder, map[string]any{
		"orderId":     orderID,
		"sdTimestamp": g.timestamp(),
	}, g.cfg.Timeouts.Order)
}

func (g *vendorGateway) ChangeLounge(ctx context.Context, orderID, loungeCode string) (models.VendorResult, error) {
	return g.caller.Call(ctx, g.cfg.Endpoints.ChangeLounge, map[string]any{
		"orderId":     orderID,
		"loungeCode":  loungeCode,
		"sdTimestamp": g.timestamp(),
	}, g.cfg.Timeouts.Order)
}
