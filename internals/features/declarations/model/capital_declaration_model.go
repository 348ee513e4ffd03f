package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DeclarationStatus string

const (
	DeclarationStatusRequested        DeclarationStatus = "requested"
	DeclarationStatusDocumentsPending DeclarationStatus = "documents_pending"
	DeclarationStatusInProgress       DeclarationStatus = "in_progress"
	DeclarationStatusSubmitted        DeclarationStatus = "submitted"
	DeclarationStatusClosed           DeclarationStatus = "closed"
)

// DeclarationAttachment is one uploaded document, stored by object key in
// the blob bucket.
type DeclarationAttachment struct {
	ObjectKey  string    `json:"object_key"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
}

type CapitalDeclarationModel struct {
	CapitalDeclarationID       uuid.UUID `gorm:"column:capital_declaration_id;type:uuid;default:gen_random_uuid();primaryKey" json:"capital_declaration_id"`
	CapitalDeclarationFirmID   uuid.UUID `gorm:"column:capital_declaration_firm_id;type:uuid;not null;index" json:"capital_declaration_firm_id"`
	CapitalDeclarationClientID uuid.UUID `gorm:"column:capital_declaration_client_id;type:uuid;not null;index" json:"capital_declaration_client_id"`

	CapitalDeclarationTaxYear  int        `gorm:"column:capital_declaration_tax_year;not null" json:"capital_declaration_tax_year"`
	CapitalDeclarationDeadline *time.Time `gorm:"column:capital_declaration_deadline;type:date" json:"capital_declaration_deadline,omitempty"`

	CapitalDeclarationStatus DeclarationStatus `gorm:"column:capital_declaration_status;type:varchar(25);not null;default:'requested';index" json:"capital_declaration_status"`

	CapitalDeclarationAttachments datatypes.JSONType[[]DeclarationAttachment] `gorm:"column:capital_declaration_attachments;type:jsonb" json:"capital_declaration_attachments"`

	CapitalDeclarationNotes *string `gorm:"column:capital_declaration_notes" json:"capital_declaration_notes,omitempty"`

	CapitalDeclarationSubmittedAt *time.Time `gorm:"column:capital_declaration_submitted_at" json:"capital_declaration_submitted_at,omitempty"`

	CapitalDeclarationCreatedAt time.Time      `gorm:"column:capital_declaration_created_at;autoCreateTime" json:"capital_declaration_created_at"`
	CapitalDeclarationUpdatedAt time.Time      `gorm:"column:capital_declaration_updated_at;autoUpdateTime" json:"capital_declaration_updated_at"`
	CapitalDeclarationDeletedAt gorm.DeletedAt `gorm:"column:capital_declaration_deleted_at;index" json:"-"`
}

func (CapitalDeclarationModel) TableName() string { return "capital_declarations" }

// allowedTransitions: the workflow only moves forward, except a step back
// from in_progress when more documents turn out to be missing.
var allowedTransitions = map[DeclarationStatus][]DeclarationStatus{
	DeclarationStatusRequested:        {DeclarationStatusDocumentsPending, DeclarationStatusClosed},
	DeclarationStatusDocumentsPending: {DeclarationStatusInProgress, DeclarationStatusClosed},
	DeclarationStatusInProgress:       {DeclarationStatusSubmitted, DeclarationStatusDocumentsPending, DeclarationStatusClosed},
	DeclarationStatusSubmitted:        {DeclarationStatusClosed},
	DeclarationStatusClosed:           {},
}

func CanTransition(from, to DeclarationStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsValidStatus(s DeclarationStatus) bool {
	switch s {
	case DeclarationStatusRequested, DeclarationStatusDocumentsPending,
		DeclarationStatusInProgress, DeclarationStatusSubmitted, DeclarationStatusClosed:
		return true
	}
	return false
}
