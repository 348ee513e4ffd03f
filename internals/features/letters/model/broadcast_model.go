package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type BroadcastStatus string

const (
	BroadcastStatusPending   BroadcastStatus = "pending"
	BroadcastStatusSending   BroadcastStatus = "sending"
	BroadcastStatusDone      BroadcastStatus = "done"
	BroadcastStatusCancelled BroadcastStatus = "cancelled"
)

// BroadcastModel is one send job. The recipient email snapshot is frozen at
// creation (pq.StringArray), so list edits mid-send change nothing.
// Counters are bumped per recipient, so progress polling reads one row.
type BroadcastModel struct {
	BroadcastID     uuid.UUID `gorm:"column:broadcast_id;type:uuid;default:gen_random_uuid();primaryKey" json:"broadcast_id"`
	BroadcastFirmID uuid.UUID `gorm:"column:broadcast_firm_id;type:uuid;not null;index" json:"broadcast_firm_id"`

	BroadcastTemplateID *uuid.UUID `gorm:"column:broadcast_template_id;type:uuid" json:"broadcast_template_id,omitempty"`
	BroadcastSubject    string     `gorm:"column:broadcast_subject;type:varchar(255);not null" json:"broadcast_subject"`
	BroadcastBody       string     `gorm:"column:broadcast_body;type:text;not null" json:"broadcast_body"`

	BroadcastStatus BroadcastStatus `gorm:"column:broadcast_status;type:varchar(20);not null;default:'pending';index" json:"broadcast_status"`

	BroadcastRecipientEmails pq.StringArray `gorm:"column:broadcast_recipient_emails;type:text[]" json:"broadcast_recipient_emails"`
	BroadcastTotalRecipients int            `gorm:"column:broadcast_total_recipients;not null;default:0" json:"broadcast_total_recipients"`
	BroadcastSentCount       int            `gorm:"column:broadcast_sent_count;not null;default:0" json:"broadcast_sent_count"`
	BroadcastFailedCount     int            `gorm:"column:broadcast_failed_count;not null;default:0" json:"broadcast_failed_count"`

	BroadcastCreatedBy  *uuid.UUID `gorm:"column:broadcast_created_by;type:uuid" json:"broadcast_created_by,omitempty"`
	BroadcastStartedAt  *time.Time `gorm:"column:broadcast_started_at" json:"broadcast_started_at,omitempty"`
	BroadcastFinishedAt *time.Time `gorm:"column:broadcast_finished_at" json:"broadcast_finished_at,omitempty"`

	BroadcastCreatedAt time.Time      `gorm:"column:broadcast_created_at;autoCreateTime" json:"broadcast_created_at"`
	BroadcastUpdatedAt time.Time      `gorm:"column:broadcast_updated_at;autoUpdateTime" json:"broadcast_updated_at"`
	BroadcastDeletedAt gorm.DeletedAt `gorm:"column:broadcast_deleted_at;index" json:"-"`
}

func (BroadcastModel) TableName() string { return "broadcasts" }

type BroadcastRecipientStatus string

const (
	RecipientStatusPending BroadcastRecipientStatus = "pending"
	RecipientStatusSent    BroadcastRecipientStatus = "sent"
	RecipientStatusFailed  BroadcastRecipientStatus = "failed"
	RecipientStatusSkipped BroadcastRecipientStatus = "skipped"
)

type BroadcastRecipientModel struct {
	BroadcastRecipientID          uuid.UUID `gorm:"column:broadcast_recipient_id;type:uuid;default:gen_random_uuid();primaryKey" json:"broadcast_recipient_id"`
	BroadcastRecipientBroadcastID uuid.UUID `gorm:"column:broadcast_recipient_broadcast_id;type:uuid;not null;index" json:"broadcast_recipient_broadcast_id"`
	BroadcastRecipientClientID    uuid.UUID `gorm:"column:broadcast_recipient_client_id;type:uuid;not null" json:"broadcast_recipient_client_id"`

	BroadcastRecipientEmail  string                   `gorm:"column:broadcast_recipient_email;type:varchar(255);not null" json:"broadcast_recipient_email"`
	BroadcastRecipientStatus BroadcastRecipientStatus `gorm:"column:broadcast_recipient_status;type:varchar(20);not null;default:'pending'" json:"broadcast_recipient_status"`
	BroadcastRecipientError  *string                  `gorm:"column:broadcast_recipient_error" json:"broadcast_recipient_error,omitempty"`
	BroadcastRecipientSentAt *time.Time               `gorm:"column:broadcast_recipient_sent_at" json:"broadcast_recipient_sent_at,omitempty"`

	BroadcastRecipientCreatedAt time.Time `gorm:"column:broadcast_recipient_created_at;autoCreateTime" json:"broadcast_recipient_created_at"`
}

func (BroadcastRecipientModel) TableName() string { return "broadcast_recipients" }
