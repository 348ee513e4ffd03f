package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"misradcrm_backend/internals/features/declarations/dto"
	"misradcrm_backend/internals/features/declarations/model"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
	helperOSS "misradcrm_backend/internals/helpers/oss"
)

type CapitalDeclarationController struct {
	DB   *gorm.DB
	Blob helperOSS.BlobService // nil when object storage is not configured
}

func NewCapitalDeclarationController(db *gorm.DB, blob helperOSS.BlobService) *CapitalDeclarationController {
	return &CapitalDeclarationController{DB: db, Blob: blob}
}

var validate = validator.New()

// =============================
// POST /:firm_id/capital-declarations
// =============================
func (ctl *CapitalDeclarationController) Create(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.CreateDeclarationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var clientCount int64
	if err := ctl.DB.Table("clients").
		Where("client_id = ? AND client_firm_id = ? AND client_deleted_at IS NULL", req.ClientID, firmID).
		Count(&clientCount).Error; err != nil {
		return ctl.respondErr(c, err, "יצירת הצהרת ההון נכשלה")
	}
	if clientCount == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "לקוח לא נמצא במשרד זה")
	}

	m := req.ToModel(firmID)
	if err := ctl.DB.Create(m).Error; err != nil {
		return ctl.respondErr(c, err, "יצירת הצהרת ההון נכשלה")
	}
	return helper.JsonCreated(c, "הצהרת ההון נפתחה", dto.ToDeclarationResponse(m))
}

// =============================
// GET /:firm_id/capital-declarations?client_id=&status=&tax_year=
// =============================
func (ctl *CapitalDeclarationController) List(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.CapitalDeclarationModel{}).
		Where("capital_declaration_firm_id = ?", firmID)

	if cid := c.Query("client_id"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "מזהה לקוח לא תקין")
		}
		q = q.Where("capital_declaration_client_id = ?", id)
	}
	if st := c.Query("status"); st != "" {
		q = q.Where("capital_declaration_status = ?", st)
	}
	if y := c.QueryInt("tax_year", 0); y > 0 {
		q = q.Where("capital_declaration_tax_year = ?", y)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ctl.respondErr(c, err, "שליפת ההצהרות נכשלה")
	}

	var rows []model.CapitalDeclarationModel
	if err := q.Order("capital_declaration_deadline ASC NULLS LAST, capital_declaration_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return ctl.respondErr(c, err, "שליפת ההצהרות נכשלה")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", dto.ToDeclarationResponses(rows), &pg)
}

// =============================
// GET /:firm_id/capital-declarations/:id
// =============================
func (ctl *CapitalDeclarationController) GetByID(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return ctl.respondErr(c, err, "אירעה שגיאה פנימית")
	}
	return helper.JsonOK(c, "OK", dto.ToDeclarationResponse(m))
}

// =============================
// PATCH /:firm_id/capital-declarations/:id — deadline/notes only
// =============================
func (ctl *CapitalDeclarationController) Update(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.UpdateDeclarationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return ctl.respondErr(c, err, "אירעה שגיאה פנימית")
	}
	if req.Deadline != nil {
		m.CapitalDeclarationDeadline = req.Deadline
	}
	if req.Notes != nil {
		m.CapitalDeclarationNotes = req.Notes
	}
	if err := ctl.DB.Save(m).Error; err != nil {
		return ctl.respondErr(c, err, "עדכון ההצהרה נכשל")
	}
	return helper.JsonUpdated(c, "ההצהרה עודכנה", dto.ToDeclarationResponse(m))
}

// =============================
// POST /:firm_id/capital-declarations/:id/transition
// =============================
func (ctl *CapitalDeclarationController) Transition(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.TransitionDeclarationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	target := model.DeclarationStatus(req.Status)
	if !model.IsValidStatus(target) {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "סטטוס לא מוכר")
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return ctl.respondErr(c, err, "אירעה שגיאה פנימית")
	}
	if !model.CanTransition(m.CapitalDeclarationStatus, target) {
		return helper.JsonError(c, fiber.StatusConflict, "מעבר סטטוס לא חוקי")
	}

	m.CapitalDeclarationStatus = target
	if target == model.DeclarationStatusSubmitted {
		now := time.Now()
		m.CapitalDeclarationSubmittedAt = &now
	}
	if err := ctl.DB.Save(m).Error; err != nil {
		return ctl.respondErr(c, err, "עדכון הסטטוס נכשל")
	}
	return helper.JsonUpdated(c, "הסטטוס עודכן", dto.ToDeclarationResponse(m))
}

// =============================
// POST /:firm_id/capital-declarations/:id/attachments (multipart "file")
// =============================
func (ctl *CapitalDeclarationController) UploadAttachment(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}
	if ctl.Blob == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "אחסון הקבצים אינו מוגדר")
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return ctl.respondErr(c, err, "אירעה שגיאה פנימית")
	}
	if m.CapitalDeclarationStatus == model.DeclarationStatusClosed {
		return helper.JsonError(c, fiber.StatusConflict, "לא ניתן לצרף מסמכים להצהרה סגורה")
	}

	fh := helperOSS.TryGetFormFile(c, "file", "attachment")
	if fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "לא צורף קובץ")
	}

	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}

	key, err := ctl.Blob.UploadAttachment(c.Context(), firmID, "declarations", fh)
	if err != nil {
		return ctl.respondErr(c, err, "העלאת הקובץ נכשלה")
	}

	atts := m.CapitalDeclarationAttachments.Data()
	atts = append(atts, model.DeclarationAttachment{
		ObjectKey:  key,
		FileName:   fh.Filename,
		UploadedAt: time.Now(),
		UploadedBy: userID,
	})
	m.CapitalDeclarationAttachments = datatypes.NewJSONType(atts)

	if err := ctl.DB.Save(m).Error; err != nil {
		return ctl.respondErr(c, err, "שמירת הקובץ נכשלה")
	}
	return helper.JsonUpdated(c, "המסמך צורף", dto.ToDeclarationResponse(m))
}

// =============================
// GET /:firm_id/capital-declarations/:id/attachments/url?object_key=
// =============================
func (ctl *CapitalDeclarationController) AttachmentURL(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}
	if ctl.Blob == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "אחסון הקבצים אינו מוגדר")
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return ctl.respondErr(c, err, "אירעה שגיאה פנימית")
	}

	key := c.Query("object_key")
	found := false
	for _, a := range m.CapitalDeclarationAttachments.Data() {
		if a.ObjectKey == key {
			found = true
			break
		}
	}
	if !found {
		return helper.JsonError(c, fiber.StatusNotFound, "מסמך לא נמצא בהצהרה זו")
	}

	url, err := ctl.Blob.SignedURL(c.Context(), key, 15*time.Minute)
	if err != nil {
		return ctl.respondErr(c, err, "הפקת הקישור נכשלה")
	}
	return helper.JsonOK(c, "OK", fiber.Map{"url": url, "expires_in_seconds": 900})
}

func (ctl *CapitalDeclarationController) findScoped(firmID uuid.UUID, rawID string) (*model.CapitalDeclarationModel, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "מזהה הצהרה לא תקין")
	}
	var m model.CapitalDeclarationModel
	if err := ctl.DB.Where("capital_declaration_id = ? AND capital_declaration_firm_id = ?", id, firmID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "הצהרת הון לא נמצאה")
		}
		return nil, err
	}
	return &m, nil
}

func (ctl *CapitalDeclarationController) respondErr(c *fiber.Ctx, err error, fallback string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Println("[ERROR] capital declaration:", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}
