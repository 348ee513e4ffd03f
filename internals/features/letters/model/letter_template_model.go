package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LetterTemplateModel holds the editable letter body. Placeholders use
// {{name}} syntax; see the render service for the supported set.
type LetterTemplateModel struct {
	LetterTemplateID     uuid.UUID `gorm:"column:letter_template_id;type:uuid;default:gen_random_uuid();primaryKey" json:"letter_template_id"`
	LetterTemplateFirmID uuid.UUID `gorm:"column:letter_template_firm_id;type:uuid;not null;index" json:"letter_template_firm_id"`

	LetterTemplateName    string `gorm:"column:letter_template_name;type:varchar(150);not null" json:"letter_template_name"`
	LetterTemplateSlug    string `gorm:"column:letter_template_slug;type:varchar(160);not null;uniqueIndex:uq_letter_template_slug,where:letter_template_deleted_at IS NULL" json:"letter_template_slug"`
	LetterTemplateSubject string `gorm:"column:letter_template_subject;type:varchar(255);not null" json:"letter_template_subject"`
	LetterTemplateBody    string `gorm:"column:letter_template_body;type:text;not null" json:"letter_template_body"`

	LetterTemplateIsDefault bool `gorm:"column:letter_template_is_default;not null;default:false" json:"letter_template_is_default"`

	LetterTemplateCreatedAt time.Time      `gorm:"column:letter_template_created_at;autoCreateTime" json:"letter_template_created_at"`
	LetterTemplateUpdatedAt time.Time      `gorm:"column:letter_template_updated_at;autoUpdateTime" json:"letter_template_updated_at"`
	LetterTemplateDeletedAt gorm.DeletedAt `gorm:"column:letter_template_deleted_at;index" json:"-"`
}

func (LetterTemplateModel) TableName() string { return "letter_templates" }
