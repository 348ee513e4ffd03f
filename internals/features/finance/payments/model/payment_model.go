package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodGateway      PaymentMethod = "gateway"
)

type PaymentModel struct {
	PaymentID               uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`
	PaymentFirmID           uuid.UUID `gorm:"column:payment_firm_id;type:uuid;not null;index" json:"payment_firm_id"`
	PaymentClientID         uuid.UUID `gorm:"column:payment_client_id;type:uuid;not null;index" json:"payment_client_id"`
	PaymentFeeCalculationID uuid.UUID `gorm:"column:payment_fee_calculation_id;type:uuid;not null;index" json:"payment_fee_calculation_id"`

	PaymentAmount decimal.Decimal `gorm:"column:payment_amount;type:decimal(18,2);not null" json:"payment_amount"`
	PaymentMethod PaymentMethod   `gorm:"column:payment_method;type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus   `gorm:"column:payment_status;type:varchar(20);not null;default:'pending';index" json:"payment_status"`

	PaymentPaidAt    *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`
	PaymentReference *string    `gorm:"column:payment_reference;type:varchar(100)" json:"payment_reference,omitempty"`
	PaymentNote      *string    `gorm:"column:payment_note" json:"payment_note,omitempty"`

	// Gateway fields; empty for manual payments.
	PaymentOrderID     *string        `gorm:"column:payment_order_id;type:varchar(80);uniqueIndex:uq_payment_order_id,where:payment_order_id IS NOT NULL" json:"payment_order_id,omitempty"`
	PaymentGatewayMeta datatypes.JSON `gorm:"column:payment_gateway_meta;type:jsonb" json:"payment_gateway_meta,omitempty"`

	PaymentRecordedBy *uuid.UUID `gorm:"column:payment_recorded_by;type:uuid" json:"payment_recorded_by,omitempty"`

	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"-"`
}

func (PaymentModel) TableName() string { return "payments" }
