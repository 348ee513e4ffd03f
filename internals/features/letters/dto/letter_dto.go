package dto

import (
	"time"

	"github.com/google/uuid"

	"misradcrm_backend/internals/features/letters/model"
)

/* =========================================================
   TEMPLATES
========================================================= */

type CreateLetterTemplateRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	Subject   string `json:"subject" validate:"required,max=255"`
	Body      string `json:"body" validate:"required"`
	IsDefault *bool  `json:"is_default"`
}

type UpdateLetterTemplateRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=150"`
	Subject   *string `json:"subject" validate:"omitempty,max=255"`
	Body      *string `json:"body"`
	IsDefault *bool   `json:"is_default"`
}

func (r *CreateLetterTemplateRequest) ToModel(firmID uuid.UUID, slug string) *model.LetterTemplateModel {
	m := &model.LetterTemplateModel{
		LetterTemplateFirmID:  firmID,
		LetterTemplateName:    r.Name,
		LetterTemplateSlug:    slug,
		LetterTemplateSubject: r.Subject,
		LetterTemplateBody:    r.Body,
	}
	if r.IsDefault != nil {
		m.LetterTemplateIsDefault = *r.IsDefault
	}
	return m
}

func ApplyLetterTemplateUpdate(m *model.LetterTemplateModel, r *UpdateLetterTemplateRequest) {
	if r.Name != nil {
		m.LetterTemplateName = *r.Name
	}
	if r.Subject != nil {
		m.LetterTemplateSubject = *r.Subject
	}
	if r.Body != nil {
		m.LetterTemplateBody = *r.Body
	}
	if r.IsDefault != nil {
		m.LetterTemplateIsDefault = *r.IsDefault
	}
}

type LetterTemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	FirmID    uuid.UUID `json:"firm_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToLetterTemplateResponse(m *model.LetterTemplateModel) *LetterTemplateResponse {
	return &LetterTemplateResponse{
		ID:        m.LetterTemplateID,
		FirmID:    m.LetterTemplateFirmID,
		Name:      m.LetterTemplateName,
		Slug:      m.LetterTemplateSlug,
		Subject:   m.LetterTemplateSubject,
		Body:      m.LetterTemplateBody,
		IsDefault: m.LetterTemplateIsDefault,
		CreatedAt: m.LetterTemplateCreatedAt,
		UpdatedAt: m.LetterTemplateUpdatedAt,
	}
}

func ToLetterTemplateResponses(ms []model.LetterTemplateModel) []*LetterTemplateResponse {
	out := make([]*LetterTemplateResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToLetterTemplateResponse(&ms[i]))
	}
	return out
}

/* =========================================================
   FEE LETTERS
========================================================= */

type GenerateLetterRequest struct {
	FeeCalculationID uuid.UUID  `json:"fee_calculation_id" validate:"required"`
	TemplateID       *uuid.UUID `json:"template_id"`
	SendEmail        bool       `json:"send_email"`
}

type FeeLetterResponse struct {
	ID               uuid.UUID  `json:"id"`
	FirmID           uuid.UUID  `json:"firm_id"`
	ClientID         uuid.UUID  `json:"client_id"`
	FeeCalculationID uuid.UUID  `json:"fee_calculation_id"`
	TemplateID       *uuid.UUID `json:"template_id,omitempty"`
	Subject          string     `json:"subject"`
	Body             string     `json:"body"`
	SentAt           *time.Time `json:"sent_at,omitempty"`
	SentTo           *string    `json:"sent_to,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func ToFeeLetterResponse(m *model.FeeLetterModel) *FeeLetterResponse {
	return &FeeLetterResponse{
		ID:               m.FeeLetterID,
		FirmID:           m.FeeLetterFirmID,
		ClientID:         m.FeeLetterClientID,
		FeeCalculationID: m.FeeLetterFeeCalculationID,
		TemplateID:       m.FeeLetterTemplateID,
		Subject:          m.FeeLetterSubject,
		Body:             m.FeeLetterBody,
		SentAt:           m.FeeLetterSentAt,
		SentTo:           m.FeeLetterSentTo,
		CreatedAt:        m.FeeLetterCreatedAt,
	}
}

func ToFeeLetterResponses(ms []model.FeeLetterModel) []*FeeLetterResponse {
	out := make([]*FeeLetterResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToFeeLetterResponse(&ms[i]))
	}
	return out
}

/* =========================================================
   DISTRIBUTION LISTS
========================================================= */

type CreateDistributionListRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type UpdateDistributionListRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=150"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type ModifyListMembersRequest struct {
	ClientIDs []uuid.UUID `json:"client_ids" validate:"required,min=1,dive,required"`
}

type DistributionListResponse struct {
	ID          uuid.UUID `json:"id"`
	FirmID      uuid.UUID `json:"firm_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToDistributionListResponse(m *model.DistributionListModel, memberCount int) *DistributionListResponse {
	return &DistributionListResponse{
		ID:          m.DistributionListID,
		FirmID:      m.DistributionListFirmID,
		Name:        m.DistributionListName,
		Description: m.DistributionListDescription,
		MemberCount: memberCount,
		CreatedAt:   m.DistributionListCreatedAt,
	}
}

/* =========================================================
   BROADCASTS
========================================================= */

type CreateBroadcastRequest struct {
	TemplateID *uuid.UUID  `json:"template_id"`
	Subject    string      `json:"subject" validate:"required_without=TemplateID,max=255"`
	Body       string      `json:"body" validate:"required_without=TemplateID"`
	ListIDs    []uuid.UUID `json:"list_ids"`
	ClientIDs  []uuid.UUID `json:"client_ids"`
}

type BroadcastResponse struct {
	ID              uuid.UUID             `json:"id"`
	FirmID          uuid.UUID             `json:"firm_id"`
	Subject         string                `json:"subject"`
	Status          model.BroadcastStatus `json:"status"`
	TotalRecipients int                   `json:"total_recipients"`
	SentCount       int                   `json:"sent_count"`
	FailedCount     int                   `json:"failed_count"`
	StartedAt       *time.Time            `json:"started_at,omitempty"`
	FinishedAt      *time.Time            `json:"finished_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func ToBroadcastResponse(m *model.BroadcastModel) *BroadcastResponse {
	return &BroadcastResponse{
		ID:              m.BroadcastID,
		FirmID:          m.BroadcastFirmID,
		Subject:         m.BroadcastSubject,
		Status:          m.BroadcastStatus,
		TotalRecipients: m.BroadcastTotalRecipients,
		SentCount:       m.BroadcastSentCount,
		FailedCount:     m.BroadcastFailedCount,
		StartedAt:       m.BroadcastStartedAt,
		FinishedAt:      m.BroadcastFinishedAt,
		CreatedAt:       m.BroadcastCreatedAt,
	}
}
