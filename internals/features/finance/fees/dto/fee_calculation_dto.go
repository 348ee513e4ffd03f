package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"misradcrm_backend/internals/features/finance/fees/calc"
	"misradcrm_backend/internals/features/finance/fees/model"
)

/* =========================================================
   REQUESTS
========================================================= */

type CreateFeeCalculationRequest struct {
	ClientID uuid.UUID `json:"client_id" validate:"required"`
	TaxYear  int       `json:"tax_year" validate:"required,min=2000,max=2100"`
	Month    *int      `json:"month" validate:"omitempty,min=1,max=12"`

	BaseAmount           float64  `json:"base_amount" validate:"min=0"`
	ApplyInflationIndex  *bool    `json:"apply_inflation_index"`
	InflationRate        *float64 `json:"inflation_rate" validate:"omitempty,min=0,max=100"`
	RealAdjustment       *float64 `json:"real_adjustment"`
	RealAdjustmentReason *string  `json:"real_adjustment_reason" validate:"omitempty,max=500"`
	DiscountPercentage   *float64 `json:"discount_percentage" validate:"omitempty,min=0,max=100"`

	// Manual override; when absent the prior-year record is looked up.
	PreviousYearTotal *float64 `json:"previous_year_total" validate:"omitempty,min=0"`

	DueDate *time.Time `json:"due_date"`
	Notes   *string    `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateFeeCalculationRequest struct {
	BaseAmount           *float64 `json:"base_amount" validate:"omitempty,min=0"`
	ApplyInflationIndex  *bool    `json:"apply_inflation_index"`
	InflationRate        *float64 `json:"inflation_rate" validate:"omitempty,min=0,max=100"`
	RealAdjustment       *float64 `json:"real_adjustment"`
	RealAdjustmentReason *string  `json:"real_adjustment_reason" validate:"omitempty,max=500"`
	DiscountPercentage   *float64 `json:"discount_percentage" validate:"omitempty,min=0,max=100"`
	PreviousYearTotal    *float64 `json:"previous_year_total" validate:"omitempty,min=0"`

	DueDate *time.Time `json:"due_date"`
	Notes   *string    `json:"notes" validate:"omitempty,max=2000"`
}

/* =========================================================
   MAPPERS
========================================================= */

// monthOrAnnual: absent month means an annual calculation, stored as the
// non-null sentinel so the period unique index applies to it too.
func monthOrAnnual(m *int) int {
	if m == nil {
		return model.AnnualMonth
	}
	return *m
}

// ToModel applies the documented defaults (inflation 3%, index on) and
// materializes a draft record. Derived amounts are filled by the caller.
func (r *CreateFeeCalculationRequest) ToModel(firmID uuid.UUID) *model.FeeCalculationModel {
	m := &model.FeeCalculationModel{
		FeeCalculationFirmID:               firmID,
		FeeCalculationClientID:             r.ClientID,
		FeeCalculationTaxYear:              r.TaxYear,
		FeeCalculationMonth:                monthOrAnnual(r.Month),
		FeeCalculationBaseAmount:           decimal.NewFromFloat(r.BaseAmount),
		FeeCalculationApplyInflationIndex:  true,
		FeeCalculationInflationRate:        calc.DefaultInflationRate,
		FeeCalculationStatus:               model.FeeStatusDraft,
		FeeCalculationDueDate:              r.DueDate,
		FeeCalculationNotes:                r.Notes,
		FeeCalculationRealAdjustmentReason: r.RealAdjustmentReason,
	}
	if r.ApplyInflationIndex != nil {
		m.FeeCalculationApplyInflationIndex = *r.ApplyInflationIndex
	}
	if r.InflationRate != nil {
		m.FeeCalculationInflationRate = decimal.NewFromFloat(*r.InflationRate)
	}
	if r.RealAdjustment != nil {
		m.FeeCalculationRealAdjustment = decimal.NewFromFloat(*r.RealAdjustment)
	}
	if r.DiscountPercentage != nil {
		m.FeeCalculationDiscountPercentage = decimal.NewFromFloat(*r.DiscountPercentage)
	}
	if r.PreviousYearTotal != nil {
		v := decimal.NewFromFloat(*r.PreviousYearTotal)
		m.FeeCalculationPreviousYearTotal = &v
	}
	return m
}

// ApplyFeeCalculationUpdate merges the non-nil fields into the model and
// reports whether any calculator input changed.
func ApplyFeeCalculationUpdate(m *model.FeeCalculationModel, r *UpdateFeeCalculationRequest) (inputsChanged bool) {
	if r.BaseAmount != nil {
		m.FeeCalculationBaseAmount = decimal.NewFromFloat(*r.BaseAmount)
		inputsChanged = true
	}
	if r.ApplyInflationIndex != nil {
		m.FeeCalculationApplyInflationIndex = *r.ApplyInflationIndex
		inputsChanged = true
	}
	if r.InflationRate != nil {
		m.FeeCalculationInflationRate = decimal.NewFromFloat(*r.InflationRate)
		inputsChanged = true
	}
	if r.RealAdjustment != nil {
		m.FeeCalculationRealAdjustment = decimal.NewFromFloat(*r.RealAdjustment)
		inputsChanged = true
	}
	if r.RealAdjustmentReason != nil {
		m.FeeCalculationRealAdjustmentReason = r.RealAdjustmentReason
	}
	if r.DiscountPercentage != nil {
		m.FeeCalculationDiscountPercentage = decimal.NewFromFloat(*r.DiscountPercentage)
		inputsChanged = true
	}
	if r.PreviousYearTotal != nil {
		v := decimal.NewFromFloat(*r.PreviousYearTotal)
		m.FeeCalculationPreviousYearTotal = &v
		m.FeeCalculationPriorYearSnapshot = nil // manual override displaces the snapshot
		inputsChanged = true
	}
	if r.DueDate != nil {
		m.FeeCalculationDueDate = r.DueDate
	}
	if r.Notes != nil {
		m.FeeCalculationNotes = r.Notes
	}
	return inputsChanged
}

// ApplyCalculatorOutput rewrites every derived column from one calculator run.
func ApplyCalculatorOutput(m *model.FeeCalculationModel, out calc.Output) {
	m.FeeCalculationInflationAdjustment = out.InflationAdjustment
	m.FeeCalculationAdjustedAmount = out.AdjustedAmount
	m.FeeCalculationDiscountAmount = out.DiscountAmount
	m.FeeCalculationFinalAmount = out.FinalAmount
	m.FeeCalculationVATAmount = out.VATAmount
	m.FeeCalculationTotalAmount = out.TotalWithVAT
	m.FeeCalculationChangeAmount = out.ChangeAmount
	m.FeeCalculationChangePercent = out.ChangePercent
}

// CalcInput maps the persisted inputs back into the calculator.
func CalcInput(m *model.FeeCalculationModel) calc.Input {
	return calc.Input{
		BaseAmount:               m.FeeCalculationBaseAmount,
		ApplyInflationIndex:      m.FeeCalculationApplyInflationIndex,
		InflationRate:            m.FeeCalculationInflationRate,
		RealAdjustment:           m.FeeCalculationRealAdjustment,
		DiscountPercentage:       m.FeeCalculationDiscountPercentage,
		PreviousYearTotalWithVAT: m.FeeCalculationPreviousYearTotal,
	}
}

// SnapshotFromPriorRecord captures the frozen prior-year figures.
func SnapshotFromPriorRecord(prior *model.FeeCalculationModel, now time.Time) datatypes.JSONType[model.PriorYearSnapshot] {
	id := prior.FeeCalculationID
	return datatypes.NewJSONType(model.PriorYearSnapshot{
		Version:          model.PriorYearSnapshotVersion,
		FeeCalculationID: &id,
		TaxYear:          prior.FeeCalculationTaxYear,
		FinalAmount:      prior.FeeCalculationFinalAmount,
		TotalWithVAT:     prior.FeeCalculationTotalAmount,
		CapturedAt:       now,
	})
}

/* =========================================================
   RESPONSES
========================================================= */

type FeeCalculationResponse struct {
	ID       uuid.UUID `json:"id"`
	FirmID   uuid.UUID `json:"firm_id"`
	ClientID uuid.UUID `json:"client_id"`
	TaxYear  int       `json:"tax_year"`
	Month    *int      `json:"month,omitempty"`

	BaseAmount           decimal.Decimal `json:"base_amount"`
	ApplyInflationIndex  bool            `json:"apply_inflation_index"`
	InflationRate        decimal.Decimal `json:"inflation_rate"`
	RealAdjustment       decimal.Decimal `json:"real_adjustment"`
	RealAdjustmentReason *string         `json:"real_adjustment_reason,omitempty"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`

	InflationAdjustment decimal.Decimal `json:"inflation_adjustment"`
	AdjustedAmount      decimal.Decimal `json:"adjusted_amount"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	FinalAmount         decimal.Decimal `json:"final_amount"`
	VATAmount           decimal.Decimal `json:"vat_amount"`
	TotalAmount         decimal.Decimal `json:"total_amount"`

	PreviousYearTotal *decimal.Decimal         `json:"previous_year_total,omitempty"`
	PriorYearSnapshot *model.PriorYearSnapshot `json:"prior_year_snapshot,omitempty"`
	ChangeAmount      decimal.Decimal          `json:"change_amount"`
	ChangePercent     decimal.Decimal          `json:"change_percent"`

	Status  model.FeeCalculationStatus `json:"status"`
	DueDate *time.Time                 `json:"due_date,omitempty"`
	SentAt  *time.Time                 `json:"sent_at,omitempty"`
	PaidAt  *time.Time                 `json:"paid_at,omitempty"`
	Notes   *string                    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToFeeCalculationResponse(m *model.FeeCalculationModel) *FeeCalculationResponse {
	resp := &FeeCalculationResponse{
		ID:                   m.FeeCalculationID,
		FirmID:               m.FeeCalculationFirmID,
		ClientID:             m.FeeCalculationClientID,
		TaxYear:              m.FeeCalculationTaxYear,
		BaseAmount:           m.FeeCalculationBaseAmount,
		ApplyInflationIndex:  m.FeeCalculationApplyInflationIndex,
		InflationRate:        m.FeeCalculationInflationRate,
		RealAdjustment:       m.FeeCalculationRealAdjustment,
		RealAdjustmentReason: m.FeeCalculationRealAdjustmentReason,
		DiscountPercentage:   m.FeeCalculationDiscountPercentage,
		InflationAdjustment:  m.FeeCalculationInflationAdjustment,
		AdjustedAmount:       m.FeeCalculationAdjustedAmount,
		DiscountAmount:       m.FeeCalculationDiscountAmount,
		FinalAmount:          m.FeeCalculationFinalAmount,
		VATAmount:            m.FeeCalculationVATAmount,
		TotalAmount:          m.FeeCalculationTotalAmount,
		PreviousYearTotal:    m.FeeCalculationPreviousYearTotal,
		ChangeAmount:         m.FeeCalculationChangeAmount,
		ChangePercent:        m.FeeCalculationChangePercent,
		Status:               m.FeeCalculationStatus,
		DueDate:              m.FeeCalculationDueDate,
		SentAt:               m.FeeCalculationSentAt,
		PaidAt:               m.FeeCalculationPaidAt,
		Notes:                m.FeeCalculationNotes,
		CreatedAt:            m.FeeCalculationCreatedAt,
		UpdatedAt:            m.FeeCalculationUpdatedAt,
	}
	if m.FeeCalculationMonth != model.AnnualMonth {
		month := m.FeeCalculationMonth
		resp.Month = &month
	}
	if m.FeeCalculationPriorYearSnapshot != nil {
		snap := m.FeeCalculationPriorYearSnapshot.Data()
		resp.PriorYearSnapshot = &snap
	}
	return resp
}

func ToFeeCalculationResponses(ms []model.FeeCalculationModel) []*FeeCalculationResponse {
	out := make([]*FeeCalculationResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToFeeCalculationResponse(&ms[i]))
	}
	return out
}
