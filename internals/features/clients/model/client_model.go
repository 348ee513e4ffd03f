package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientModel struct {
	ClientID     uuid.UUID `gorm:"column:client_id;type:uuid;default:gen_random_uuid();primaryKey" json:"client_id"`
	ClientFirmID uuid.UUID `gorm:"column:client_firm_id;type:uuid;not null;index;uniqueIndex:uq_client_firm_tax_file,where:client_deleted_at IS NULL" json:"client_firm_id"`

	ClientName          string  `gorm:"column:client_name;type:varchar(200);not null" json:"client_name"`
	ClientTaxFileNumber string  `gorm:"column:client_tax_file_number;type:varchar(20);not null;uniqueIndex:uq_client_firm_tax_file,where:client_deleted_at IS NULL" json:"client_tax_file_number"`
	ClientEmail         *string `gorm:"column:client_email;type:varchar(255)" json:"client_email,omitempty"`
	ClientPhone         *string `gorm:"column:client_phone;type:varchar(30)" json:"client_phone,omitempty"`
	ClientAddress       *string `gorm:"column:client_address;type:varchar(500)" json:"client_address,omitempty"`
	ClientContactName   *string `gorm:"column:client_contact_name;type:varchar(200)" json:"client_contact_name,omitempty"`
	ClientNotes         *string `gorm:"column:client_notes" json:"client_notes,omitempty"`

	ClientIsActive bool `gorm:"column:client_is_active;not null;default:true;index" json:"client_is_active"`

	ClientCreatedAt time.Time      `gorm:"column:client_created_at;autoCreateTime" json:"client_created_at"`
	ClientUpdatedAt time.Time      `gorm:"column:client_updated_at;autoUpdateTime" json:"client_updated_at"`
	ClientDeletedAt gorm.DeletedAt `gorm:"column:client_deleted_at;index" json:"-"`
}

func (ClientModel) TableName() string { return "clients" }
