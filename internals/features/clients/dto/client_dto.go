package dto

import (
	"time"

	"github.com/google/uuid"

	"misradcrm_backend/internals/features/clients/model"
)

type CreateClientRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	TaxFileNumber string  `json:"tax_file_number" validate:"required,max=20"`
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	ContactName   *string `json:"contact_name" validate:"omitempty,max=200"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateClientRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=200"`
	TaxFileNumber *string `json:"tax_file_number" validate:"omitempty,max=20"`
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	ContactName   *string `json:"contact_name" validate:"omitempty,max=200"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
	IsActive      *bool   `json:"is_active"`
}

func (r *CreateClientRequest) ToModel(firmID uuid.UUID) *model.ClientModel {
	return &model.ClientModel{
		ClientFirmID:        firmID,
		ClientName:          r.Name,
		ClientTaxFileNumber: r.TaxFileNumber,
		ClientEmail:         r.Email,
		ClientPhone:         r.Phone,
		ClientAddress:       r.Address,
		ClientContactName:   r.ContactName,
		ClientNotes:         r.Notes,
		ClientIsActive:      true,
	}
}

func ApplyClientUpdate(m *model.ClientModel, r *UpdateClientRequest) {
	if r.Name != nil {
		m.ClientName = *r.Name
	}
	if r.TaxFileNumber != nil {
		m.ClientTaxFileNumber = *r.TaxFileNumber
	}
	if r.Email != nil {
		m.ClientEmail = r.Email
	}
	if r.Phone != nil {
		m.ClientPhone = r.Phone
	}
	if r.Address != nil {
		m.ClientAddress = r.Address
	}
	if r.ContactName != nil {
		m.ClientContactName = r.ContactName
	}
	if r.Notes != nil {
		m.ClientNotes = r.Notes
	}
	if r.IsActive != nil {
		m.ClientIsActive = *r.IsActive
	}
}

type ClientResponse struct {
	ID            uuid.UUID `json:"id"`
	FirmID        uuid.UUID `json:"firm_id"`
	Name          string    `json:"name"`
	TaxFileNumber string    `json:"tax_file_number"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	ContactName   *string   `json:"contact_name,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToClientResponse(m *model.ClientModel) *ClientResponse {
	return &ClientResponse{
		ID:            m.ClientID,
		FirmID:        m.ClientFirmID,
		Name:          m.ClientName,
		TaxFileNumber: m.ClientTaxFileNumber,
		Email:         m.ClientEmail,
		Phone:         m.ClientPhone,
		Address:       m.ClientAddress,
		ContactName:   m.ClientContactName,
		Notes:         m.ClientNotes,
		IsActive:      m.ClientIsActive,
		CreatedAt:     m.ClientCreatedAt,
		UpdatedAt:     m.ClientUpdatedAt,
	}
}

func ToClientResponses(ms []model.ClientModel) []*ClientResponse {
	out := make([]*ClientResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToClientResponse(&ms[i]))
	}
	return out
}
