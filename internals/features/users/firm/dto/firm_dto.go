package dto

import (
	"time"

	"github.com/google/uuid"

	"misradcrm_backend/internals/features/users/firm/model"
)

type CreateFirmRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=20"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
}

type UpdateFirmRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=20"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
}

type AddFirmMemberRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	Role      string `json:"role" validate:"required,oneof=owner accountant secretary"`
}

func (r *CreateFirmRequest) ToModel(slug string) *model.FirmModel {
	return &model.FirmModel{
		FirmName:    r.Name,
		FirmSlug:    slug,
		FirmTaxID:   r.TaxID,
		FirmAddress: r.Address,
		FirmPhone:   r.Phone,
		FirmEmail:   r.Email,
	}
}

func ApplyFirmUpdate(m *model.FirmModel, r *UpdateFirmRequest) {
	if r.Name != nil {
		m.FirmName = *r.Name
	}
	if r.TaxID != nil {
		m.FirmTaxID = r.TaxID
	}
	if r.Address != nil {
		m.FirmAddress = r.Address
	}
	if r.Phone != nil {
		m.FirmPhone = r.Phone
	}
	if r.Email != nil {
		m.FirmEmail = r.Email
	}
}

type FirmResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	TaxID     *string   `json:"tax_id,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToFirmResponse(m *model.FirmModel, logoURL *string) *FirmResponse {
	return &FirmResponse{
		ID:        m.FirmID,
		Name:      m.FirmName,
		Slug:      m.FirmSlug,
		TaxID:     m.FirmTaxID,
		Address:   m.FirmAddress,
		Phone:     m.FirmPhone,
		Email:     m.FirmEmail,
		LogoURL:   logoURL,
		CreatedAt: m.FirmCreatedAt,
	}
}
