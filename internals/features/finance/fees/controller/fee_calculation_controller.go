package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"misradcrm_backend/internals/features/finance/fees/calc"
	"misradcrm_backend/internals/features/finance/fees/dto"
	"misradcrm_backend/internals/features/finance/fees/model"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type FeeCalculationController struct {
	DB *gorm.DB
}

func NewFeeCalculationController(db *gorm.DB) *FeeCalculationController {
	return &FeeCalculationController{DB: db}
}

var validate = validator.New()

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func parseFirmID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("firm_id"))
}

// =============================
// POST /:firm_id/fee-calculations
// =============================
func (ctl *FeeCalculationController) Create(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.CreateFeeCalculationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel(firmID)
	now := time.Now()

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		// Client must exist and belong to the firm.
		var clientCount int64
		if err := tx.Table("clients").
			Where("client_id = ? AND client_firm_id = ? AND client_deleted_at IS NULL",
				m.FeeCalculationClientID, firmID).
			Count(&clientCount).Error; err != nil {
			return err
		}
		if clientCount == 0 {
			return fiber.NewError(fiber.StatusNotFound, "לקוח לא נמצא במשרד זה")
		}

		// Prior-year lookup only when no manual override came in.
		if m.FeeCalculationPreviousYearTotal == nil {
			var prior model.FeeCalculationModel
			q := tx.Where(
				"fee_calculation_firm_id = ? AND fee_calculation_client_id = ? AND fee_calculation_tax_year = ? AND fee_calculation_status <> ?",
				firmID, m.FeeCalculationClientID, m.FeeCalculationTaxYear-1, model.FeeStatusCancelled,
			).Order("fee_calculation_month DESC, fee_calculation_created_at DESC")
			if err := q.First(&prior).Error; err == nil {
				total := prior.FeeCalculationTotalAmount
				m.FeeCalculationPreviousYearTotal = &total
				snap := dto.SnapshotFromPriorRecord(&prior, now)
				m.FeeCalculationPriorYearSnapshot = &snap
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		dto.ApplyCalculatorOutput(m, calc.CalculateFeeAmounts(dto.CalcInput(m)))

		if err := tx.Create(m).Error; err != nil {
			if isUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "כבר קיים חישוב שכר טרחה ללקוח זה בתקופה זו")
			}
			return err
		}
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Println("[ERROR] create fee calculation:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שמירת החישוב נכשלה")
	}

	return helper.JsonCreated(c, "חישוב שכר הטרחה נוצר", dto.ToFeeCalculationResponse(m))
}

// =============================
// GET /:firm_id/fee-calculations/:id
// =============================
func (ctl *FeeCalculationController) GetByID(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return respondLookupError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.ToFeeCalculationResponse(m))
}

// =============================
// GET /:firm_id/fee-calculations?tax_year=&client_id=&status=&page=&per_page=
// =============================
func (ctl *FeeCalculationController) List(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.FeeCalculationModel{}).
		Where("fee_calculation_firm_id = ?", firmID)

	if y := c.QueryInt("tax_year", 0); y > 0 {
		q = q.Where("fee_calculation_tax_year = ?", y)
	}
	if cid := c.Query("client_id"); cid != "" {
		clientID, err := uuid.Parse(cid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "מזהה לקוח לא תקין")
		}
		q = q.Where("fee_calculation_client_id = ?", clientID)
	}
	if st := c.Query("status"); st != "" {
		q = q.Where("fee_calculation_status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] count fee calculations:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שליפת הנתונים נכשלה")
	}

	var rows []model.FeeCalculationModel
	if err := q.Order("fee_calculation_tax_year DESC, fee_calculation_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Println("[ERROR] list fee calculations:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שליפת הנתונים נכשלה")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", dto.ToFeeCalculationResponses(rows), &pg)
}

// =============================
// PATCH /:firm_id/fee-calculations/:id
// =============================
func (ctl *FeeCalculationController) Update(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.UpdateFeeCalculationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m *model.FeeCalculationModel
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		var inner error
		m, inner = ctl.findScopedTx(tx, firmID, c.Params("id"))
		if inner != nil {
			return inner
		}
		if m.FeeCalculationStatus == model.FeeStatusCancelled || m.FeeCalculationStatus == model.FeeStatusPaid {
			return fiber.NewError(fiber.StatusConflict, "לא ניתן לערוך חישוב ששולם או בוטל")
		}

		// Derived amounts go out in the same UPDATE as the inputs, so a
		// reader never sees inputs and amounts from different runs.
		if dto.ApplyFeeCalculationUpdate(m, &req) {
			dto.ApplyCalculatorOutput(m, calc.CalculateFeeAmounts(dto.CalcInput(m)))
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return respondLookupError(c, err)
	}

	return helper.JsonUpdated(c, "חישוב שכר הטרחה עודכן", dto.ToFeeCalculationResponse(m))
}

// =============================
// DELETE /:firm_id/fee-calculations/:id — drafts only
// =============================
func (ctl *FeeCalculationController) Delete(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return respondLookupError(c, err)
	}
	if !m.IsDraft() {
		return helper.JsonError(c, fiber.StatusConflict, "רק טיוטה ניתנת למחיקה; השתמש בביטול")
	}

	if err := ctl.DB.Delete(m).Error; err != nil {
		log.Println("[ERROR] delete fee calculation:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "מחיקת החישוב נכשלה")
	}
	return helper.JsonDeleted(c, "החישוב נמחק", fiber.Map{"fee_calculation_id": m.FeeCalculationID})
}

// =============================
// POST /:firm_id/fee-calculations/:id/cancel
// =============================
func (ctl *FeeCalculationController) Cancel(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return respondLookupError(c, err)
	}
	if !m.CanCancel() {
		return helper.JsonError(c, fiber.StatusConflict, "לא ניתן לבטל חישוב במצב הנוכחי")
	}

	m.FeeCalculationStatus = model.FeeStatusCancelled
	if err := ctl.DB.Save(m).Error; err != nil {
		log.Println("[ERROR] cancel fee calculation:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "ביטול החישוב נכשל")
	}
	return helper.JsonUpdated(c, "החישוב בוטל", dto.ToFeeCalculationResponse(m))
}

/* =============================
   internals
============================= */

func (ctl *FeeCalculationController) findScoped(firmID uuid.UUID, rawID string) (*model.FeeCalculationModel, error) {
	return ctl.findScopedTx(ctl.DB, firmID, rawID)
}

func (ctl *FeeCalculationController) findScopedTx(tx *gorm.DB, firmID uuid.UUID, rawID string) (*model.FeeCalculationModel, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "מזהה חישוב לא תקין")
	}
	var m model.FeeCalculationModel
	if err := tx.Where("fee_calculation_id = ? AND fee_calculation_firm_id = ?", id, firmID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "חישוב שכר טרחה לא נמצא")
		}
		return nil, err
	}
	return &m, nil
}

func respondLookupError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Println("[ERROR] fee calculation query:", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "אירעה שגיאה פנימית")
}
