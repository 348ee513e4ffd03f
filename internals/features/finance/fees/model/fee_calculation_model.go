package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeeCalculationStatus string

const (
	FeeStatusDraft     FeeCalculationStatus = "draft"
	FeeStatusSent      FeeCalculationStatus = "sent"
	FeeStatusPaid      FeeCalculationStatus = "paid"
	FeeStatusOverdue   FeeCalculationStatus = "overdue"
	FeeStatusCancelled FeeCalculationStatus = "cancelled"
)

// PriorYearSnapshot freezes the prior-year figures the calculation was built
// against, so later edits to the prior record never change this one. Version
// goes up whenever the shape changes.
type PriorYearSnapshot struct {
	Version          int              `json:"version"`
	FeeCalculationID *uuid.UUID       `json:"fee_calculation_id,omitempty"`
	TaxYear          int              `json:"tax_year"`
	FinalAmount      decimal.Decimal  `json:"final_amount"`
	TotalWithVAT     decimal.Decimal  `json:"total_with_vat"`
	CapturedAt       time.Time        `json:"captured_at"`
}

const PriorYearSnapshotVersion = 1

// AnnualMonth is the stored month for annual (non-monthly) calculations.
// The column is NOT NULL so the unique index actually bites: Postgres
// treats NULLs as distinct, so a nullable month would let two annual
// records for the same (firm, client, year) slip past it.
const AnnualMonth = 0

type FeeCalculationModel struct {
	FeeCalculationID       uuid.UUID `gorm:"column:fee_calculation_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_calculation_id"`
	FeeCalculationFirmID   uuid.UUID `gorm:"column:fee_calculation_firm_id;type:uuid;not null;index;uniqueIndex:uq_fee_calc_firm_client_period,where:fee_calculation_deleted_at IS NULL" json:"fee_calculation_firm_id"`
	FeeCalculationClientID uuid.UUID `gorm:"column:fee_calculation_client_id;type:uuid;not null;index;uniqueIndex:uq_fee_calc_firm_client_period,where:fee_calculation_deleted_at IS NULL" json:"fee_calculation_client_id"`

	FeeCalculationTaxYear int `gorm:"column:fee_calculation_tax_year;not null;uniqueIndex:uq_fee_calc_firm_client_period,where:fee_calculation_deleted_at IS NULL" json:"fee_calculation_tax_year"`
	FeeCalculationMonth   int `gorm:"column:fee_calculation_month;not null;default:0;uniqueIndex:uq_fee_calc_firm_client_period,where:fee_calculation_deleted_at IS NULL" json:"fee_calculation_month"`

	// Inputs
	FeeCalculationBaseAmount           decimal.Decimal `gorm:"column:fee_calculation_base_amount;type:decimal(18,2);not null" json:"fee_calculation_base_amount"`
	FeeCalculationApplyInflationIndex  bool            `gorm:"column:fee_calculation_apply_inflation_index;not null;default:true" json:"fee_calculation_apply_inflation_index"`
	FeeCalculationInflationRate        decimal.Decimal `gorm:"column:fee_calculation_inflation_rate;type:decimal(7,4);not null;default:3.0" json:"fee_calculation_inflation_rate"`
	FeeCalculationRealAdjustment       decimal.Decimal `gorm:"column:fee_calculation_real_adjustment;type:decimal(18,2);not null;default:0" json:"fee_calculation_real_adjustment"`
	FeeCalculationRealAdjustmentReason *string         `gorm:"column:fee_calculation_real_adjustment_reason" json:"fee_calculation_real_adjustment_reason,omitempty"`
	FeeCalculationDiscountPercentage   decimal.Decimal `gorm:"column:fee_calculation_discount_percentage;type:decimal(7,4);not null;default:0" json:"fee_calculation_discount_percentage"`

	// Derived amounts, always rewritten together by the calculator
	FeeCalculationInflationAdjustment decimal.Decimal `gorm:"column:fee_calculation_inflation_adjustment;type:decimal(18,2);not null;default:0" json:"fee_calculation_inflation_adjustment"`
	FeeCalculationAdjustedAmount      decimal.Decimal `gorm:"column:fee_calculation_adjusted_amount;type:decimal(18,2);not null;default:0" json:"fee_calculation_adjusted_amount"`
	FeeCalculationDiscountAmount      decimal.Decimal `gorm:"column:fee_calculation_discount_amount;type:decimal(18,2);not null;default:0" json:"fee_calculation_discount_amount"`
	FeeCalculationFinalAmount         decimal.Decimal `gorm:"column:fee_calculation_final_amount;type:decimal(18,2);not null;default:0" json:"fee_calculation_final_amount"`
	FeeCalculationVATAmount           decimal.Decimal `gorm:"column:fee_calculation_vat_amount;type:decimal(18,2);not null;default:0" json:"fee_calculation_vat_amount"`
	FeeCalculationTotalAmount         decimal.Decimal `gorm:"column:fee_calculation_total_amount;type:decimal(18,2);not null;default:0" json:"fee_calculation_total_amount"`

	// Prior year + YoY delta
	FeeCalculationPreviousYearTotal *decimal.Decimal                      `gorm:"column:fee_calculation_previous_year_total;type:decimal(18,2)" json:"fee_calculation_previous_year_total,omitempty"`
	FeeCalculationPriorYearSnapshot *datatypes.JSONType[PriorYearSnapshot] `gorm:"column:fee_calculation_prior_year_snapshot;type:jsonb" json:"fee_calculation_prior_year_snapshot,omitempty"`
	FeeCalculationChangeAmount      decimal.Decimal                       `gorm:"column:fee_calculation_change_amount;type:decimal(18,2);not null;default:0" json:"fee_calculation_change_amount"`
	FeeCalculationChangePercent     decimal.Decimal                       `gorm:"column:fee_calculation_change_percent;type:decimal(9,4);not null;default:0" json:"fee_calculation_change_percent"`

	FeeCalculationStatus  FeeCalculationStatus `gorm:"column:fee_calculation_status;type:varchar(20);not null;default:'draft';index" json:"fee_calculation_status"`
	FeeCalculationDueDate *time.Time           `gorm:"column:fee_calculation_due_date;type:date" json:"fee_calculation_due_date,omitempty"`
	FeeCalculationSentAt  *time.Time           `gorm:"column:fee_calculation_sent_at" json:"fee_calculation_sent_at,omitempty"`
	FeeCalculationPaidAt  *time.Time           `gorm:"column:fee_calculation_paid_at" json:"fee_calculation_paid_at,omitempty"`

	FeeCalculationNotes *string `gorm:"column:fee_calculation_notes" json:"fee_calculation_notes,omitempty"`

	FeeCalculationCreatedAt time.Time      `gorm:"column:fee_calculation_created_at;autoCreateTime" json:"fee_calculation_created_at"`
	FeeCalculationUpdatedAt time.Time      `gorm:"column:fee_calculation_updated_at;autoUpdateTime" json:"fee_calculation_updated_at"`
	FeeCalculationDeletedAt gorm.DeletedAt `gorm:"column:fee_calculation_deleted_at;index" json:"-"`
}

func (FeeCalculationModel) TableName() string { return "fee_calculations" }

func (m *FeeCalculationModel) IsDraft() bool {
	return m.FeeCalculationStatus == FeeStatusDraft
}

// CanCancel: anything not yet paid and not already cancelled.
func (m *FeeCalculationModel) CanCancel() bool {
	switch m.FeeCalculationStatus {
	case FeeStatusDraft, FeeStatusSent, FeeStatusOverdue:
		return true
	default:
		return false
	}
}
