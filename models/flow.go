package models

import "encoding/json"

// Step identifiers carried inside error markers so operators can see exactly
// which stage of the fulfillment pipeline degraded.
const (
	StepDecryptLink     = "step1_decrypt_data"
	StepReservationList = "step2_custNo"
	StepOrderDetail     = "step3_orderId"
	StepOrderNumber     = "step4_orderNo"
	StepCoupon          = "step5_coupon"
	StepSave            = "step6_save_to_db"
)

// StepResult is one slot of the pipeline state: either a success payload or an
// error marker naming the step that produced it. Slots are written at most
// once and never retried within a run.
type StepResult struct {
	Payload any
	Err     string
	Step    string
	// Details optionally names the upstream failures that caused a skip
	// (used by the save step, which depends on steps 3 and 5).
	Details map[string]string
}

// OkStep wraps a successful step payload.
func OkStep(payload any) *StepResult {
	return &StepResult{Payload: payload}
}

// FailStep builds an error marker for the named step.
func FailStep(step, message string) *StepResult {
	return &StepResult{Step: step, Err: message}
}

// Failed reports whether the slot holds an error marker.
func (s *StepResult) Failed() bool {
	return s == nil || s.Err != ""
}

// MarshalJSON renders a success slot as the payload itself and a failed slot
// as `{"error": ..., "step": ...}`, matching the shape callers consume.
func (s *StepResult) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	if s.Err != "" {
		marker := struct {
			Error   string            `json:"error"`
			Step    string            `json:"step"`
			Details map[string]string `json:"details,omitempty"`
		}{Error: s.Err, Step: s.Step, Details: s.Details}
		return json.Marshal(marker)
	}
	return json.Marshal(s.Payload)
}

// FlowResult is the per-step state of a full pipeline run. Every slot is
// populated (success or error marker) whenever step 1 succeeds.
type FlowResult struct {
	DecryptedLink   *StepResult `json:"step1_decrypt_data"`
	ReservationList *StepResult `json:"step2_custNo"`
	OrderDetail     *StepResult `json:"step3_orderId"`
	OrderNumber     *StepResult `json:"step4_orderNo"`
	Coupon          *StepResult `json:"step5_coupon"`
	Save            *StepResult `json:"step6_save_to_db"`
}

// Slots returns the six step slots in pipeline order.
func (f *FlowResult) Slots() []*StepResult {
	return []*StepResult{
		f.DecryptedLink,
		f.ReservationList,
		f.OrderDetail,
		f.OrderNumber,
		f.Coupon,
		f.Save,
	}
}

// FlowStatus summarizes a completed run for operators.
type FlowStatus struct {
	HasErrors    bool   `json:"hasErrors"`
	SuccessCount int    `json:"successCount"`
	TotalSteps   int    `json:"totalSteps"`
	SuccessRate  string `json:"successRate"`
	Message      string `json:"message"`
}

// FlowSummary repeats the headline values of each stage so callers do not
// have to dig through the per-step slots.
type FlowSummary struct {
	DecryptedData any         `json:"decryptedData"`
	Reservations  *StepResult `json:"custNo"`
	OrderDetail   *StepResult `json:"orderId"`
	FinalOrderNo  string      `json:"finalOrderNo"`
	CouponResult  *StepResult `json:"couponResult"`
	SaveResult    *StepResult `json:"saveResult"`
}

// FlowOutcome is the complete result of a full-flow run. OK is false only when
// step 1 fails to yield a customer number; every downstream failure degrades
// into the step slots instead.
type FlowOutcome struct {
	OK         bool         `json:"ok"`
	Error      string       `json:"error,omitempty"`
	Result     *FlowResult  `json:"result,omitempty"`
	Summary    *FlowSummary `json:"summary,omitempty"`
	FlowStatus *FlowStatus  `json:"flowStatus,omitempty"`
}
