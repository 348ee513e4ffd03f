package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"misradcrm_backend/internals/features/letters/dto"
	"misradcrm_backend/internals/features/letters/model"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type LetterTemplateController struct {
	DB *gorm.DB
}

func NewLetterTemplateController(db *gorm.DB) *LetterTemplateController {
	return &LetterTemplateController{DB: db}
}

var validate = validator.New()

func parseFirmID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("firm_id"))
}

func respondErr(c *fiber.Ctx, err error, fallback string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Println("[ERROR] letters:", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}

// =============================
// POST /:firm_id/letter-templates
// =============================
func (ctl *LetterTemplateController) Create(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.CreateLetterTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	slug, err := helper.GenerateUniqueSlug(ctl.DB, helper.SlugOptions{
		Table:            "letter_templates",
		SlugColumn:       "letter_template_slug",
		SoftDeleteColumn: "letter_template_deleted_at",
		Filters:          map[string]any{"letter_template_firm_id": firmID},
		DefaultBase:      "template",
	}, req.Name)
	if err != nil {
		return respondErr(c, err, "יצירת התבנית נכשלה")
	}

	m := req.ToModel(firmID, slug)
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		// One default per firm.
		if m.LetterTemplateIsDefault {
			if err := tx.Model(&model.LetterTemplateModel{}).
				Where("letter_template_firm_id = ?", firmID).
				Update("letter_template_is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return respondErr(c, err, "יצירת התבנית נכשלה")
	}

	return helper.JsonCreated(c, "התבנית נוצרה", dto.ToLetterTemplateResponse(m))
}

// =============================
// GET /:firm_id/letter-templates
// =============================
func (ctl *LetterTemplateController) List(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.LetterTemplateModel{}).
		Where("letter_template_firm_id = ?", firmID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return respondErr(c, err, "שליפת התבניות נכשלה")
	}

	var rows []model.LetterTemplateModel
	if err := q.Order("letter_template_is_default DESC, letter_template_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return respondErr(c, err, "שליפת התבניות נכשלה")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", dto.ToLetterTemplateResponses(rows), &pg)
}

// =============================
// GET /:firm_id/letter-templates/:id
// =============================
func (ctl *LetterTemplateController) GetByID(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return respondErr(c, err, "אירעה שגיאה פנימית")
	}
	return helper.JsonOK(c, "OK", dto.ToLetterTemplateResponse(m))
}

// =============================
// PATCH /:firm_id/letter-templates/:id
// =============================
func (ctl *LetterTemplateController) Update(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.UpdateLetterTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m *model.LetterTemplateModel
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		var inner error
		m, inner = ctl.findScopedTx(tx, firmID, c.Params("id"))
		if inner != nil {
			return inner
		}
		dto.ApplyLetterTemplateUpdate(m, &req)
		if m.LetterTemplateIsDefault {
			if err := tx.Model(&model.LetterTemplateModel{}).
				Where("letter_template_firm_id = ? AND letter_template_id <> ?", firmID, m.LetterTemplateID).
				Update("letter_template_is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return respondErr(c, err, "עדכון התבנית נכשל")
	}

	return helper.JsonUpdated(c, "התבנית עודכנה", dto.ToLetterTemplateResponse(m))
}

// =============================
// DELETE /:firm_id/letter-templates/:id
// =============================
func (ctl *LetterTemplateController) Delete(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return respondErr(c, err, "אירעה שגיאה פנימית")
	}
	if err := ctl.DB.Delete(m).Error; err != nil {
		return respondErr(c, err, "מחיקת התבנית נכשלה")
	}
	return helper.JsonDeleted(c, "התבנית נמחקה", fiber.Map{"letter_template_id": m.LetterTemplateID})
}

func (ctl *LetterTemplateController) findScoped(firmID uuid.UUID, rawID string) (*model.LetterTemplateModel, error) {
	return ctl.findScopedTx(ctl.DB, firmID, rawID)
}

func (ctl *LetterTemplateController) findScopedTx(tx *gorm.DB, firmID uuid.UUID, rawID string) (*model.LetterTemplateModel, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "מזהה תבנית לא תקין")
	}
	var m model.LetterTemplateModel
	if err := tx.Where("letter_template_id = ? AND letter_template_firm_id = ?", id, firmID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "תבנית לא נמצאה")
		}
		return nil, err
	}
	return &m, nil
}
