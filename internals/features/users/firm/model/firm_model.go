package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FirmModel is the tenant: one accounting firm. Every domain row carries a
// firm id and every query is scoped by it.
type FirmModel struct {
	FirmID uuid.UUID `gorm:"column:firm_id;type:uuid;default:gen_random_uuid();primaryKey" json:"firm_id"`

	FirmName string `gorm:"column:firm_name;type:varchar(200);not null" json:"firm_name"`
	FirmSlug string `gorm:"column:firm_slug;type:varchar(160);not null;uniqueIndex:uq_firm_slug,where:firm_deleted_at IS NULL" json:"firm_slug"`

	FirmTaxID   *string `gorm:"column:firm_tax_id;type:varchar(20)" json:"firm_tax_id,omitempty"`
	FirmAddress *string `gorm:"column:firm_address;type:varchar(500)" json:"firm_address,omitempty"`
	FirmPhone   *string `gorm:"column:firm_phone;type:varchar(30)" json:"firm_phone,omitempty"`
	FirmEmail   *string `gorm:"column:firm_email;type:varchar(255)" json:"firm_email,omitempty"`

	FirmLogoObjectKey *string `gorm:"column:firm_logo_object_key;type:varchar(255)" json:"firm_logo_object_key,omitempty"`

	FirmCreatedAt time.Time      `gorm:"column:firm_created_at;autoCreateTime" json:"firm_created_at"`
	FirmUpdatedAt time.Time      `gorm:"column:firm_updated_at;autoUpdateTime" json:"firm_updated_at"`
	FirmDeletedAt gorm.DeletedAt `gorm:"column:firm_deleted_at;index" json:"-"`
}

func (FirmModel) TableName() string { return "firms" }

// FirmMemberModel links a user to a firm with a role. The JWT carries one
// firm id list per role, built from these rows at login.
type FirmMemberModel struct {
	FirmMemberID     uuid.UUID `gorm:"column:firm_member_id;type:uuid;default:gen_random_uuid();primaryKey" json:"firm_member_id"`
	FirmMemberFirmID uuid.UUID `gorm:"column:firm_member_firm_id;type:uuid;not null;index;uniqueIndex:uq_firm_member" json:"firm_member_firm_id"`
	FirmMemberUserID uuid.UUID `gorm:"column:firm_member_user_id;type:uuid;not null;index;uniqueIndex:uq_firm_member" json:"firm_member_user_id"`

	FirmMemberRole string `gorm:"column:firm_member_role;type:varchar(20);not null" json:"firm_member_role"`

	FirmMemberCreatedAt time.Time `gorm:"column:firm_member_created_at;autoCreateTime" json:"firm_member_created_at"`
}

func (FirmMemberModel) TableName() string { return "firm_members" }
