// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/adapter"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/config"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/store"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// flowService orchestrates the five-step fulfillment pipeline plus the final
// persist. After a successful decrypt the run is fail-soft: each step reads
// only upstream slots, tolerates their failure by writing an error marker,
// and never aborts the run. The caller always gets all six slots back.
type flowService struct {
	gateway adapter.VendorGateway
	records store.UserRecordRepository

	activityID string
	logger     *logger.Logger
	now        func() time.Time
}

// NewFlowService constructs the full-flow orchestrator.
func NewFlowService(gateway adapter.VendorGateway, records store.UserRecordRepository, cfg config.Vendor, logger *logger.Logger) FlowService {
	return &flowService{
		gateway:    gateway,
		records:    records,
		activityID: cfg.ActivityID,
		logger:     logger,
		now:        time.Now,
	}
}

const totalFlowSteps = 6

func (s *flowService) RunFullFlow(ctx context.Context, opaqueData string) (models.FlowOutcome, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(opaqueData) == "" {
		return models.FlowOutcome{}, ErrMissingLinkData
	}

	result := &models.FlowResult{}

	// Step 1: decrypt the link. The only fatal step; without a customer
	// number every later call is meaningless.
	decryptRes, err := s.gateway.DecryptLink(ctx, opaqueData)
	if err != nil {
		log.Err(err).Msg("full flow: link decryption failed")
		result.DecryptedLink = models.FailStep(models.StepDecryptLink, err.Error())
		return models.FlowOutcome{
			OK:     false,
			Error:  fmt.Sprintf("failed to decrypt link data: %v", err),
			Result: result,
		}, nil
	}

	decryptedData, _ := decryptRes.DataObject()
	custNo := models.StringField(decryptedData, "custNo", "customerNo")
	if custNo == "" {
		log.Warn().Msg("full flow: decrypted link carries no customer number")
		result.DecryptedLink = models.FailStep(models.StepDecryptLink, "no customer number in decrypted data")
		return models.FlowOutcome{
			OK:     false,
			Error:  "no customer number in decrypted data",
			Result: result,
		}, nil
	}
	result.DecryptedLink = models.OkStep(decryptRes)

	// Step 2: list the customer's active reservations and pick the first.
	reservationID := s.stepListReservations(ctx, result, custNo)

	// Step 3: fetch the chosen reservation's order detail.
	detailData := s.stepOrderDetail(ctx, result, reservationID)

	// Step 4: derive the final order number. Pure extraction, no call.
	orderNo := s.stepOrderNumber(result, detailData)

	// Step 5: fetch the coupon for the derived order number.
	couponData := s.stepCoupon(ctx, result, orderNo)

	// Step 6: persist the derived record.
	s.stepSave(ctx, result, orderNo, detailData, couponData)

	status := buildFlowStatus(result)
	log.Info().
		Int("success_count", status.SuccessCount).
		Bool("has_errors", status.HasErrors).
		Str("order_no", orderNo).
		Msg("full flow completed")

	return models.FlowOutcome{
		OK:     true,
		Result: result,
		Summary: &models.FlowSummary{
			DecryptedData: decryptedData,
			Reservations:  result.ReservationList,
			OrderDetail:   result.OrderDetail,
			FinalOrderNo:  orderNo,
			CouponResult:  result.Coupon,
			SaveResult:    result.Save,
		},
		FlowStatus: status,
	}, nil
}

// stepListReservations fills slot 2 and returns the first reservation's id,
// or an empty string when the list is empty or the call failed.
func (s *flowService) stepListReservations(ctx context.Context, result *models.FlowResult, custNo string) string {
	res, err := s.gateway.ListReservations(ctx, custNo)
	if err != nil {
		result.ReservationList = models.FailStep(models.StepReservationList, fmt.Sprintf("failed to list reservations: %v", err))
		return ""
	}
	if !res.IsSuccess() {
		result.ReservationList = models.FailStep(models.StepReservationList, vendorFailure("failed to list reservations", res))
		return ""
	}

	result.ReservationList = models.OkStep(res)

	list, ok := res.DataList()
	if !ok || len(list) == 0 {
		return ""
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return ""
	}
	return models.StringField(first, "orderId", "id")
}

// stepOrderDetail fills slot 3 and returns the detail's data object when the
// call succeeded.
func (s *flowService) stepOrderDetail(ctx context.Context, result *models.FlowResult, reservationID string) map[string]any {
	if reservationID == "" {
		result.OrderDetail = models.FailStep(models.StepOrderDetail, "no reservation list")
		return nil
	}

	res, err := s.gateway.FetchOrderDetail(ctx, reservationID)
	if err != nil {
		result.OrderDetail = models.FailStep(models.StepOrderDetail, fmt.Sprintf("failed to fetch order detail: %v", err))
		return nil
	}
	if !res.IsSuccess() {
		result.OrderDetail = models.FailStep(models.StepOrderDetail, vendorFailure("failed to fetch order detail", res))
		return nil
	}

	result.OrderDetail = models.OkStep(res)
	data, _ := res.DataObject()
	return data
}

// stepOrderNumber fills slot 4. Pure extraction from the step 3 payload; it
// never re-invokes the detail call.
func (s *flowService) stepOrderNumber(result *models.FlowResult, detailData map[string]any) string {
	if result.OrderDetail.Failed() {
		result.OrderNumber = models.FailStep(models.StepOrderNumber, "order detail unavailable")
		return ""
	}

	orderNo := models.StringField(detailData, "orderNo", "orderId")
	if orderNo == "" {
		result.OrderNumber = models.FailStep(models.StepOrderNumber, "no order number in order detail")
		return ""
	}

	result.OrderNumber = models.OkStep(orderNo)
	return orderNo
}

// stepCoupon fills slot 5 and returns the coupon's data object when the call
// succeeded.
func (s *flowService) stepCoupon(ctx context.Context, result *models.FlowResult, orderNo string) map[string]any {
	if orderNo == "" {
		result.Coupon = models.FailStep(models.StepCoupon, "no order number derived")
		return nil
	}

	res, err := s.gateway.FetchCoupon(ctx, orderNo)
	if err != nil {
		result.Coupon = models.FailStep(models.StepCoupon, fmt.Sprintf("failed to fetch coupon: %v", err))
		return nil
	}
	if !res.IsSuccess() {
		result.Coupon = models.FailStep(models.StepCoupon, vendorFailure("failed to fetch coupon", res))
		return nil
	}

	result.Coupon = models.OkStep(res)
	data, _ := res.DataObject()
	return data
}

// stepSave fills slot 6. The persist runs only when both the coupon fetch and
// the order detail succeeded; otherwise the marker names the failed upstream
// steps.
func (s *flowService) stepSave(ctx context.Context, result *models.FlowResult, orderNo string, detailData, couponData map[string]any) {
	if result.Coupon.Failed() || result.OrderDetail.Failed() {
		details := make(map[string]string, 2)
		if result.OrderDetail.Failed() {
			details[models.StepOrderDetail] = result.OrderDetail.Err
		}
		if result.Coupon.Failed() {
			details[models.StepCoupon] = result.Coupon.Err
		}
		step := models.FailStep(models.StepSave, "skipped: upstream step failed")
		step.Details = details
		result.Save = step
		return
	}

	record := models.NewUserRecord(orderNo, s.activityID, detailData, couponData)
	record.UpdatedAt = s.now()

	if err := s.records.Save(ctx, record); err != nil {
		result.Save = models.FailStep(models.StepSave, fmt.Sprintf("failed to save user record: %v", err))
		return
	}

	result.Save = models.OkStep(record)
}

// buildFlowStatus summarizes a completed run for operators.
func buildFlowStatus(result *models.FlowResult) *models.FlowStatus {
	successCount := 0
	for _, slot := range result.Slots() {
		if !slot.Failed() {
			successCount++
		}
	}

	status := &models.FlowStatus{
		HasErrors:    successCount != totalFlowSteps,
		SuccessCount: successCount,
		TotalSteps:   totalFlowSteps,
		SuccessRate:  fmt.Sprintf("%d/%d", successCount, totalFlowSteps),
	}
	if status.HasErrors {
		status.Message = fmt.Sprintf("flow completed with %d of %d steps successful", successCount, totalFlowSteps)
	} else {
		status.Message = "all steps completed successfully"
	}
	return status
}

// vendorFailure renders a step error message from a vendor-rejected response.
func vendorFailure(prefix string, res models.VendorResult) string {
	if msg := res.Message(); msg != "" {
		return prefix + ": " + msg
	}
	return prefix
}
