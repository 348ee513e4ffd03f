package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DistributionListModel struct {
	DistributionListID     uuid.UUID `gorm:"column:distribution_list_id;type:uuid;default:gen_random_uuid();primaryKey" json:"distribution_list_id"`
	DistributionListFirmID uuid.UUID `gorm:"column:distribution_list_firm_id;type:uuid;not null;index" json:"distribution_list_firm_id"`

	DistributionListName        string  `gorm:"column:distribution_list_name;type:varchar(150);not null" json:"distribution_list_name"`
	DistributionListDescription *string `gorm:"column:distribution_list_description" json:"distribution_list_description,omitempty"`

	DistributionListCreatedAt time.Time      `gorm:"column:distribution_list_created_at;autoCreateTime" json:"distribution_list_created_at"`
	DistributionListUpdatedAt time.Time      `gorm:"column:distribution_list_updated_at;autoUpdateTime" json:"distribution_list_updated_at"`
	DistributionListDeletedAt gorm.DeletedAt `gorm:"column:distribution_list_deleted_at;index" json:"-"`
}

func (DistributionListModel) TableName() string { return "distribution_lists" }

// Membership rows are hard-deleted; a removed member simply disappears.
type DistributionListMemberModel struct {
	DistributionListMemberID       uuid.UUID `gorm:"column:distribution_list_member_id;type:uuid;default:gen_random_uuid();primaryKey" json:"distribution_list_member_id"`
	DistributionListMemberListID   uuid.UUID `gorm:"column:distribution_list_member_list_id;type:uuid;not null;index;uniqueIndex:uq_dist_list_member" json:"distribution_list_member_list_id"`
	DistributionListMemberClientID uuid.UUID `gorm:"column:distribution_list_member_client_id;type:uuid;not null;uniqueIndex:uq_dist_list_member" json:"distribution_list_member_client_id"`

	DistributionListMemberCreatedAt time.Time `gorm:"column:distribution_list_member_created_at;autoCreateTime" json:"distribution_list_member_created_at"`
}

func (DistributionListMemberModel) TableName() string { return "distribution_list_members" }
