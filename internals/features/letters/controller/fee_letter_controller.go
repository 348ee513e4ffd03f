package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	clientModel "misradcrm_backend/internals/features/clients/model"
	feeModel "misradcrm_backend/internals/features/finance/fees/model"
	"misradcrm_backend/internals/features/letters/dto"
	"misradcrm_backend/internals/features/letters/model"
	"misradcrm_backend/internals/features/letters/service"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type FeeLetterController struct {
	DB     *gorm.DB
	Mailer service.Mailer // nil when MAILER_URL is not configured
}

func NewFeeLetterController(db *gorm.DB, mailer service.Mailer) *FeeLetterController {
	return &FeeLetterController{DB: db, Mailer: mailer}
}

// =============================
// POST /:firm_id/letters — render a letter for one fee calculation
// =============================
func (ctl *FeeLetterController) Generate(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.GenerateLetterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}

	var letter *model.FeeLetterModel
	var recipient string

	// Letter insert and the fee's sent flag move together or not at all.
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		var fee feeModel.FeeCalculationModel
		if err := tx.Where("fee_calculation_id = ? AND fee_calculation_firm_id = ?",
			req.FeeCalculationID, firmID).First(&fee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "חישוב שכר טרחה לא נמצא")
			}
			return err
		}
		if fee.FeeCalculationStatus == feeModel.FeeStatusCancelled {
			return fiber.NewError(fiber.StatusConflict, "לא ניתן להפיק מכתב לחישוב שבוטל")
		}

		var client clientModel.ClientModel
		if err := tx.Where("client_id = ?", fee.FeeCalculationClientID).First(&client).Error; err != nil {
			return err
		}

		tpl, err := ctl.resolveTemplate(tx, firmID, req.TemplateID)
		if err != nil {
			return err
		}

		var firmName string
		if err := tx.Table("firms").
			Select("firm_name").
			Where("firm_id = ?", firmID).
			Scan(&firmName).Error; err != nil {
			return err
		}

		data := service.BuildLetterData(firmName, &client, &fee)
		letter = &model.FeeLetterModel{
			FeeLetterFirmID:           firmID,
			FeeLetterClientID:         client.ClientID,
			FeeLetterFeeCalculationID: fee.FeeCalculationID,
			FeeLetterTemplateID:       &tpl.LetterTemplateID,
			FeeLetterSubject:          service.RenderTemplate(tpl.LetterTemplateSubject, data),
			FeeLetterBody:             service.RenderTemplate(tpl.LetterTemplateBody, data),
			FeeLetterGeneratedBy:      &userID,
		}
		if err := tx.Create(letter).Error; err != nil {
			return err
		}

		if fee.FeeCalculationStatus == feeModel.FeeStatusDraft {
			now := time.Now()
			fee.FeeCalculationStatus = feeModel.FeeStatusSent
			fee.FeeCalculationSentAt = &now
			if err := tx.Save(&fee).Error; err != nil {
				return err
			}
		}

		if req.SendEmail {
			if client.ClientEmail == nil || *client.ClientEmail == "" {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "ללקוח אין כתובת דוא\"ל")
			}
			recipient = *client.ClientEmail
		}
		return nil
	})
	if err != nil {
		return respondErr(c, err, "הפקת המכתב נכשלה")
	}

	// Mail goes out after commit; a relay failure must not roll back the letter.
	if recipient != "" && ctl.Mailer != nil {
		now := time.Now()
		if err := ctl.Mailer.Send(recipient, letter.FeeLetterSubject, letter.FeeLetterBody); err != nil {
			return respondErr(c, err, "המכתב נשמר אך שליחת הדוא\"ל נכשלה")
		}
		letter.FeeLetterSentAt = &now
		letter.FeeLetterSentTo = &recipient
		if err := ctl.DB.Save(letter).Error; err != nil {
			return respondErr(c, err, "עדכון סטטוס השליחה נכשל")
		}
	}

	return helper.JsonCreated(c, "המכתב הופק", dto.ToFeeLetterResponse(letter))
}

// =============================
// GET /:firm_id/letters?fee_calculation_id=&client_id=
// =============================
func (ctl *FeeLetterController) List(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.FeeLetterModel{}).
		Where("fee_letter_firm_id = ?", firmID)

	if fid := c.Query("fee_calculation_id"); fid != "" {
		id, err := uuid.Parse(fid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "מזהה חישוב לא תקין")
		}
		q = q.Where("fee_letter_fee_calculation_id = ?", id)
	}
	if cid := c.Query("client_id"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "מזהה לקוח לא תקין")
		}
		q = q.Where("fee_letter_client_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return respondErr(c, err, "שליפת המכתבים נכשלה")
	}

	var rows []model.FeeLetterModel
	if err := q.Order("fee_letter_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return respondErr(c, err, "שליפת המכתבים נכשלה")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", dto.ToFeeLetterResponses(rows), &pg)
}

// =============================
// GET /:firm_id/letters/:id/pdf
// =============================
func (ctl *FeeLetterController) DownloadPDF(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה מכתב לא תקין")
	}

	var letter model.FeeLetterModel
	if err := ctl.DB.Where("fee_letter_id = ? AND fee_letter_firm_id = ?", id, firmID).
		First(&letter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "מכתב לא נמצא")
		}
		return respondErr(c, err, "אירעה שגיאה פנימית")
	}

	var firmName string
	if err := ctl.DB.Table("firms").
		Select("firm_name").
		Where("firm_id = ?", firmID).
		Scan(&firmName).Error; err != nil {
		return respondErr(c, err, "אירעה שגיאה פנימית")
	}

	pdfBytes, err := service.RenderLetterPDF(service.LetterPDFInput{
		FirmName: firmName,
		Subject:  letter.FeeLetterSubject,
		Body:     letter.FeeLetterBody,
	})
	if err != nil {
		return respondErr(c, err, "הפקת קובץ ה-PDF נכשלה")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="letter-%s.pdf"`, letter.FeeLetterID))
	return c.Send(pdfBytes)
}

func (ctl *FeeLetterController) resolveTemplate(tx *gorm.DB, firmID uuid.UUID, templateID *uuid.UUID) (*model.LetterTemplateModel, error) {
	var tpl model.LetterTemplateModel
	q := tx.Where("letter_template_firm_id = ?", firmID)
	if templateID != nil {
		q = q.Where("letter_template_id = ?", *templateID)
	} else {
		q = q.Where("letter_template_is_default = TRUE")
	}
	if err := q.First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "תבנית מכתב לא נמצאה; הגדר תבנית ברירת מחדל")
		}
		return nil, err
	}
	return &tpl, nil
}
