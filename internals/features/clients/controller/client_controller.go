package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"misradcrm_backend/internals/features/clients/dto"
	"misradcrm_backend/internals/features/clients/model"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type ClientController struct {
	DB *gorm.DB
}

func NewClientController(db *gorm.DB) *ClientController {
	return &ClientController{DB: db}
}

var validate = validator.New()

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// =============================
// POST /:firm_id/clients
// =============================
func (ctl *ClientController) Create(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.TaxFileNumber = strings.TrimSpace(req.TaxFileNumber)
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel(firmID)
	if err := ctl.DB.Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "לקוח עם מספר תיק זה כבר קיים במשרד")
		}
		log.Println("[ERROR] create client:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שמירת הלקוח נכשלה")
	}

	return helper.JsonCreated(c, "הלקוח נוצר", dto.ToClientResponse(m))
}

// =============================
// GET /:firm_id/clients?q=&active=&page=&per_page=
// =============================
func (ctl *ClientController) List(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.ClientModel{}).
		Where("client_firm_id = ?", firmID)

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + search + "%"
		q = q.Where("client_name ILIKE ? OR client_tax_file_number ILIKE ?", like, like)
	}
	if active := c.Query("active"); active != "" {
		q = q.Where("client_is_active = ?", active == "true" || active == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] count clients:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שליפת הלקוחות נכשלה")
	}

	var rows []model.ClientModel
	if err := q.Order("client_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Println("[ERROR] list clients:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שליפת הלקוחות נכשלה")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", dto.ToClientResponses(rows), &pg)
}

// =============================
// GET /:firm_id/clients/:id
// =============================
func (ctl *ClientController) GetByID(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return ctl.respondErr(c, err)
	}
	return helper.JsonOK(c, "OK", dto.ToClientResponse(m))
}

// =============================
// PATCH /:firm_id/clients/:id
// =============================
func (ctl *ClientController) Update(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return ctl.respondErr(c, err)
	}

	dto.ApplyClientUpdate(m, &req)
	if err := ctl.DB.Save(m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "לקוח עם מספר תיק זה כבר קיים במשרד")
		}
		log.Println("[ERROR] update client:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "עדכון הלקוח נכשל")
	}

	return helper.JsonUpdated(c, "הלקוח עודכן", dto.ToClientResponse(m))
}

// =============================
// DELETE /:firm_id/clients/:id — soft delete
// =============================
func (ctl *ClientController) Delete(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return ctl.respondErr(c, err)
	}

	if err := ctl.DB.Delete(m).Error; err != nil {
		log.Println("[ERROR] delete client:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "מחיקת הלקוח נכשלה")
	}
	return helper.JsonDeleted(c, "הלקוח נמחק", fiber.Map{"client_id": m.ClientID})
}

func (ctl *ClientController) findScoped(firmID uuid.UUID, rawID string) (*model.ClientModel, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "מזהה לקוח לא תקין")
	}
	var m model.ClientModel
	if err := ctl.DB.Where("client_id = ? AND client_firm_id = ?", id, firmID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "לקוח לא נמצא")
		}
		return nil, err
	}
	return &m, nil
}

func (ctl *ClientController) respondErr(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Println("[ERROR] client query:", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "אירעה שגיאה פנימית")
}
