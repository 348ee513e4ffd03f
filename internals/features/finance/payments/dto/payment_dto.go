package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"misradcrm_backend/internals/features/finance/payments/model"
)

type RecordPaymentRequest struct {
	FeeCalculationID uuid.UUID  `json:"fee_calculation_id" validate:"required"`
	Amount           float64    `json:"amount" validate:"required,gt=0"`
	Method           string     `json:"method" validate:"required,oneof=bank_transfer check cash credit_card"`
	PaidAt           *time.Time `json:"paid_at"`
	Reference        *string    `json:"reference" validate:"omitempty,max=100"`
	Note             *string    `json:"note" validate:"omitempty,max=2000"`
}

type CreateGatewayPaymentRequest struct {
	FeeCalculationID uuid.UUID `json:"fee_calculation_id" validate:"required"`
}

type PaymentResponse struct {
	ID               uuid.UUID           `json:"id"`
	FirmID           uuid.UUID           `json:"firm_id"`
	ClientID         uuid.UUID           `json:"client_id"`
	FeeCalculationID uuid.UUID           `json:"fee_calculation_id"`
	Amount           decimal.Decimal     `json:"amount"`
	Method           model.PaymentMethod `json:"method"`
	Status           model.PaymentStatus `json:"status"`
	PaidAt           *time.Time          `json:"paid_at,omitempty"`
	Reference        *string             `json:"reference,omitempty"`
	Note             *string             `json:"note,omitempty"`
	OrderID          *string             `json:"order_id,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func ToPaymentResponse(m *model.PaymentModel) *PaymentResponse {
	return &PaymentResponse{
		ID:               m.PaymentID,
		FirmID:           m.PaymentFirmID,
		ClientID:         m.PaymentClientID,
		FeeCalculationID: m.PaymentFeeCalculationID,
		Amount:           m.PaymentAmount,
		Method:           m.PaymentMethod,
		Status:           m.PaymentStatus,
		PaidAt:           m.PaymentPaidAt,
		Reference:        m.PaymentReference,
		Note:             m.PaymentNote,
		OrderID:          m.PaymentOrderID,
		CreatedAt:        m.PaymentCreatedAt,
	}
}

func ToPaymentResponses(ms []model.PaymentModel) []*PaymentResponse {
	out := make([]*PaymentResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToPaymentResponse(&ms[i]))
	}
	return out
}

type GatewayCheckoutResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	SnapToken   string    `json:"snap_token"`
	RedirectURL string    `json:"redirect_url"`
}
