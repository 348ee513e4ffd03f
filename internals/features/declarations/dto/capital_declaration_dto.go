package dto

import (
	"time"

	"github.com/google/uuid"

	"misradcrm_backend/internals/features/declarations/model"
)

type CreateDeclarationRequest struct {
	ClientID uuid.UUID  `json:"client_id" validate:"required"`
	TaxYear  int        `json:"tax_year" validate:"required,min=2000,max=2100"`
	Deadline *time.Time `json:"deadline"`
	Notes    *string    `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateDeclarationRequest struct {
	Deadline *time.Time `json:"deadline"`
	Notes    *string    `json:"notes" validate:"omitempty,max=2000"`
}

type TransitionDeclarationRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r *CreateDeclarationRequest) ToModel(firmID uuid.UUID) *model.CapitalDeclarationModel {
	return &model.CapitalDeclarationModel{
		CapitalDeclarationFirmID:   firmID,
		CapitalDeclarationClientID: r.ClientID,
		CapitalDeclarationTaxYear:  r.TaxYear,
		CapitalDeclarationDeadline: r.Deadline,
		CapitalDeclarationStatus:   model.DeclarationStatusRequested,
		CapitalDeclarationNotes:    r.Notes,
	}
}

type DeclarationResponse struct {
	ID          uuid.UUID                     `json:"id"`
	FirmID      uuid.UUID                     `json:"firm_id"`
	ClientID    uuid.UUID                     `json:"client_id"`
	TaxYear     int                           `json:"tax_year"`
	Deadline    *time.Time                    `json:"deadline,omitempty"`
	Status      model.DeclarationStatus       `json:"status"`
	Attachments []model.DeclarationAttachment `json:"attachments"`
	Notes       *string                       `json:"notes,omitempty"`
	SubmittedAt *time.Time                    `json:"submitted_at,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

func ToDeclarationResponse(m *model.CapitalDeclarationModel) *DeclarationResponse {
	atts := m.CapitalDeclarationAttachments.Data()
	if atts == nil {
		atts = []model.DeclarationAttachment{}
	}
	return &DeclarationResponse{
		ID:          m.CapitalDeclarationID,
		FirmID:      m.CapitalDeclarationFirmID,
		ClientID:    m.CapitalDeclarationClientID,
		TaxYear:     m.CapitalDeclarationTaxYear,
		Deadline:    m.CapitalDeclarationDeadline,
		Status:      m.CapitalDeclarationStatus,
		Attachments: atts,
		Notes:       m.CapitalDeclarationNotes,
		SubmittedAt: m.CapitalDeclarationSubmittedAt,
		CreatedAt:   m.CapitalDeclarationCreatedAt,
		UpdatedAt:   m.CapitalDeclarationUpdatedAt,
	}
}

func ToDeclarationResponses(ms []model.CapitalDeclarationModel) []*DeclarationResponse {
	out := make([]*DeclarationResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToDeclarationResponse(&ms[i]))
	}
	return out
}
