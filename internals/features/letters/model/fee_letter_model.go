package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeLetterModel is a rendered letter frozen at generation time. The body
// keeps the substituted text, so template edits never change sent letters.
type FeeLetterModel struct {
	FeeLetterID     uuid.UUID `gorm:"column:fee_letter_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_letter_id"`
	FeeLetterFirmID uuid.UUID `gorm:"column:fee_letter_firm_id;type:uuid;not null;index" json:"fee_letter_firm_id"`

	FeeLetterClientID         uuid.UUID  `gorm:"column:fee_letter_client_id;type:uuid;not null;index" json:"fee_letter_client_id"`
	FeeLetterFeeCalculationID uuid.UUID  `gorm:"column:fee_letter_fee_calculation_id;type:uuid;not null;index" json:"fee_letter_fee_calculation_id"`
	FeeLetterTemplateID       *uuid.UUID `gorm:"column:fee_letter_template_id;type:uuid" json:"fee_letter_template_id,omitempty"`

	FeeLetterSubject string `gorm:"column:fee_letter_subject;type:varchar(255);not null" json:"fee_letter_subject"`
	FeeLetterBody    string `gorm:"column:fee_letter_body;type:text;not null" json:"fee_letter_body"`

	FeeLetterSentAt     *time.Time `gorm:"column:fee_letter_sent_at" json:"fee_letter_sent_at,omitempty"`
	FeeLetterSentTo     *string    `gorm:"column:fee_letter_sent_to;type:varchar(255)" json:"fee_letter_sent_to,omitempty"`
	FeeLetterGeneratedBy *uuid.UUID `gorm:"column:fee_letter_generated_by;type:uuid" json:"fee_letter_generated_by,omitempty"`

	FeeLetterCreatedAt time.Time      `gorm:"column:fee_letter_created_at;autoCreateTime" json:"fee_letter_created_at"`
	FeeLetterUpdatedAt time.Time      `gorm:"column:fee_letter_updated_at;autoUpdateTime" json:"fee_letter_updated_at"`
	FeeLetterDeletedAt gorm.DeletedAt `gorm:"column:fee_letter_deleted_at;index" json:"-"`
}

func (FeeLetterModel) TableName() string { return "fee_letters" }
