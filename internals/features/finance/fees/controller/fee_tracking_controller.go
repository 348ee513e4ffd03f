package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type FeeTrackingController struct {
	DB *gorm.DB
}

func NewFeeTrackingController(db *gorm.DB) *FeeTrackingController {
	return &FeeTrackingController{DB: db}
}

// trackingRow is one scanned row of the overview query.
type trackingRow struct {
	ClientID    uuid.UUID  `gorm:"column:client_id"`
	ClientName  string     `gorm:"column:client_name"`
	ClientEmail *string    `gorm:"column:client_email"`

	FeeCalculationID *uuid.UUID       `gorm:"column:fee_calculation_id"`
	FeeStatus        *string          `gorm:"column:fee_calculation_status"`
	TotalAmount      *decimal.Decimal `gorm:"column:fee_calculation_total_amount"`
	DueDate          *time.Time       `gorm:"column:fee_calculation_due_date"`
	SentAt           *time.Time       `gorm:"column:fee_calculation_sent_at"`

	LettersSent int             `gorm:"column:letters_sent"`
	PaidAmount  decimal.Decimal `gorm:"column:paid_amount"`
}

// ClientTrackingEntry is the composed client+calculation row returned to the
// dashboard. Calculation fields stay nil for clients without one.
type ClientTrackingEntry struct {
	ClientID    uuid.UUID `json:"client_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail *string   `json:"client_email,omitempty"`

	FeeCalculationID *uuid.UUID       `json:"fee_calculation_id,omitempty"`
	TotalAmount      *decimal.Decimal `json:"total_amount,omitempty"`
	PaidAmount       decimal.Decimal  `json:"paid_amount"`
	Outstanding      *decimal.Decimal `json:"outstanding,omitempty"`
	DueDate          *time.Time       `json:"due_date,omitempty"`
	SentAt           *time.Time       `json:"sent_at,omitempty"`
	LettersSent      int              `json:"letters_sent"`

	TrackingStatus TrackingStatus `json:"tracking_status"`
}

type TrackingOverviewResponse struct {
	TaxYear int                   `json:"tax_year"`
	KPIs    TrackingKPIs          `json:"kpis"`
	Clients []ClientTrackingEntry `json:"clients"`
}

// One LEFT JOIN pass per firm+year; subselects keep letters and payments
// from fanning out the row count.
const trackingQuery = `
SELECT
  c.client_id,
  c.client_name,
  c.client_email,
  fc.fee_calculation_id,
  fc.fee_calculation_status,
  fc.fee_calculation_total_amount,
  fc.fee_calculation_due_date,
  fc.fee_calculation_sent_at,
  COALESCE((
    SELECT COUNT(*) FROM fee_letters l
    WHERE l.fee_letter_fee_calculation_id = fc.fee_calculation_id
      AND l.fee_letter_deleted_at IS NULL
  ), 0) AS letters_sent,
  COALESCE((
    SELECT SUM(p.payment_amount) FROM payments p
    WHERE p.payment_fee_calculation_id = fc.fee_calculation_id
      AND p.payment_status = 'confirmed'
      AND p.payment_deleted_at IS NULL
  ), 0) AS paid_amount
FROM clients c
LEFT JOIN fee_calculations fc
  ON fc.fee_calculation_client_id = c.client_id
 AND fc.fee_calculation_firm_id = c.client_firm_id
 AND fc.fee_calculation_tax_year = ?
 AND fc.fee_calculation_status <> 'cancelled'
 AND fc.fee_calculation_deleted_at IS NULL
WHERE c.client_firm_id = ?
  AND c.client_is_active = TRUE
  AND c.client_deleted_at IS NULL
ORDER BY c.client_name ASC
`

// =============================
// GET /:firm_id/fee-tracking?tax_year=
// =============================
func (ctl *FeeTrackingController) Overview(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	taxYear := c.QueryInt("tax_year", time.Now().Year())
	if taxYear < 2000 || taxYear > 2100 {
		return helper.JsonError(c, fiber.StatusBadRequest, "שנת מס לא תקינה")
	}

	var rows []trackingRow
	if err := ctl.DB.Raw(trackingQuery, taxYear, firmID).Scan(&rows).Error; err != nil {
		log.Println("[ERROR] fee tracking query:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שליפת נתוני המעקב נכשלה")
	}

	entries := make([]ClientTrackingEntry, 0, len(rows))
	statuses := make([]TrackingStatus, 0, len(rows))
	billed := decimal.Zero
	collected := decimal.Zero

	for _, r := range rows {
		hasCalc := r.FeeCalculationID != nil
		letterSent := hasCalc && (r.LettersSent > 0 || r.SentAt != nil)

		total := decimal.Zero
		if r.TotalAmount != nil {
			total = *r.TotalAmount
		}

		status := ClassifyTracking(hasCalc, letterSent, r.PaidAmount, total)
		statuses = append(statuses, status)

		entry := ClientTrackingEntry{
			ClientID:         r.ClientID,
			ClientName:       r.ClientName,
			ClientEmail:      r.ClientEmail,
			FeeCalculationID: r.FeeCalculationID,
			TotalAmount:      r.TotalAmount,
			PaidAmount:       r.PaidAmount,
			DueDate:          r.DueDate,
			SentAt:           r.SentAt,
			LettersSent:      r.LettersSent,
			TrackingStatus:   status,
		}
		if hasCalc {
			out := total.Sub(r.PaidAmount)
			if out.IsNegative() {
				out = decimal.Zero
			}
			entry.Outstanding = &out
			billed = billed.Add(total)
			collected = collected.Add(r.PaidAmount)
		}
		entries = append(entries, entry)
	}

	resp := TrackingOverviewResponse{
		TaxYear: taxYear,
		KPIs:    RollupKPIs(statuses, billed, collected),
		Clients: entries,
	}
	return helper.JsonOK(c, "OK", resp)
}
