package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"misradcrm_backend/internals/constants"
	"misradcrm_backend/internals/features/users/firm/dto"
	"misradcrm_backend/internals/features/users/firm/model"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
	helperOSS "misradcrm_backend/internals/helpers/oss"
)

type FirmController struct {
	DB   *gorm.DB
	Blob helperOSS.BlobService // nil when object storage is not configured
}

func NewFirmController(db *gorm.DB, blob helperOSS.BlobService) *FirmController {
	return &FirmController{DB: db, Blob: blob}
}

var validate = validator.New()

// =============================
// POST /api/firms — creator becomes owner; claims refresh on next login
// =============================
func (ctl *FirmController) Create(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "לא מחובר")
	}

	var req dto.CreateFirmRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	slug, err := helper.GenerateUniqueSlug(ctl.DB, helper.SlugOptions{
		Table:            "firms",
		SlugColumn:       "firm_slug",
		SoftDeleteColumn: "firm_deleted_at",
		DefaultBase:      "firm",
	}, req.Name)
	if err != nil {
		return ctl.respondErr(c, err, "יצירת המשרד נכשלה")
	}

	firm := req.ToModel(slug)
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(firm).Error; err != nil {
			return err
		}
		return tx.Create(&model.FirmMemberModel{
			FirmMemberFirmID: firm.FirmID,
			FirmMemberUserID: userID,
			FirmMemberRole:   constants.RoleOwner,
		}).Error
	})
	if err != nil {
		return ctl.respondErr(c, err, "יצירת המשרד נכשלה")
	}

	return helper.JsonCreated(c, "המשרד נוצר; התחבר מחדש לרענון ההרשאות", dto.ToFirmResponse(firm, nil))
}

// =============================
// GET /api/firms — firms the caller belongs to
// =============================
func (ctl *FirmController) ListMine(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "לא מחובר")
	}

	var firms []model.FirmModel
	if err := ctl.DB.
		Joins("JOIN firm_members m ON m.firm_member_firm_id = firms.firm_id").
		Where("m.firm_member_user_id = ?", userID).
		Order("firms.firm_name ASC").
		Find(&firms).Error; err != nil {
		return ctl.respondErr(c, err, "שליפת המשרדים נכשלה")
	}

	out := make([]*dto.FirmResponse, 0, len(firms))
	for i := range firms {
		out = append(out, dto.ToFirmResponse(&firms[i], ctl.logoURL(&firms[i])))
	}
	return helper.JsonOK(c, "OK", out)
}

// =============================
// GET /:firm_id/firm
// =============================
func (ctl *FirmController) Get(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	firm, err := ctl.findFirm(firmID)
	if err != nil {
		return ctl.respondErr(c, err, "אירעה שגיאה פנימית")
	}
	return helper.JsonOK(c, "OK", dto.ToFirmResponse(firm, ctl.logoURL(firm)))
}

// =============================
// PATCH /:firm_id/firm — owner only
// =============================
func (ctl *FirmController) Update(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureOwnerFirm(c, firmID); err != nil {
		return err
	}

	var req dto.UpdateFirmRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	firm, err := ctl.findFirm(firmID)
	if err != nil {
		return ctl.respondErr(c, err, "אירעה שגיאה פנימית")
	}
	dto.ApplyFirmUpdate(firm, &req)
	if err := ctl.DB.Save(firm).Error; err != nil {
		return ctl.respondErr(c, err, "עדכון המשרד נכשל")
	}
	return helper.JsonUpdated(c, "המשרד עודכן", dto.ToFirmResponse(firm, ctl.logoURL(firm)))
}

// =============================
// POST /:firm_id/firm/logo (multipart "logo") — owner only
// =============================
func (ctl *FirmController) UploadLogo(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureOwnerFirm(c, firmID); err != nil {
		return err
	}
	if ctl.Blob == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "אחסון הקבצים אינו מוגדר")
	}

	fh := helperOSS.TryGetFormFile(c, "logo", "file")
	if fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "לא צורף קובץ")
	}
	if !helperOSS.IsImageFilename(fh.Filename) {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "הקובץ אינו תמונה")
	}

	firm, err := ctl.findFirm(firmID)
	if err != nil {
		return ctl.respondErr(c, err, "אירעה שגיאה פנימית")
	}

	key, err := ctl.Blob.UploadImage(c.Context(), firmID, "logo", fh)
	if err != nil {
		return ctl.respondErr(c, err, "העלאת הלוגו נכשלה")
	}

	old := firm.FirmLogoObjectKey
	firm.FirmLogoObjectKey = &key
	if err := ctl.DB.Save(firm).Error; err != nil {
		return ctl.respondErr(c, err, "שמירת הלוגו נכשלה")
	}
	if old != nil && *old != key {
		if err := ctl.Blob.DeleteByObjectKey(c.Context(), *old); err != nil {
			log.Println("[WARN] delete old logo:", err)
		}
	}

	return helper.JsonUpdated(c, "הלוגו עודכן", dto.ToFirmResponse(firm, ctl.logoURL(firm)))
}

// =============================
// POST /:firm_id/firm/members — owner only
// =============================
func (ctl *FirmController) AddMember(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureOwnerFirm(c, firmID); err != nil {
		return err
	}

	var req dto.AddFirmMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var userID uuid.UUID
	if err := ctl.DB.Table("users").
		Select("user_id").
		Where("user_email = ? AND user_deleted_at IS NULL", req.UserEmail).
		Scan(&userID).Error; err != nil {
		return ctl.respondErr(c, err, "הוספת החבר נכשלה")
	}
	if userID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusNotFound, "משתמש עם דוא\"ל זה לא נמצא")
	}

	member := &model.FirmMemberModel{
		FirmMemberFirmID: firmID,
		FirmMemberUserID: userID,
		FirmMemberRole:   req.Role,
	}
	if err := ctl.DB.Create(member).Error; err != nil {
		return helper.JsonError(c, fiber.StatusConflict, "המשתמש כבר חבר במשרד")
	}

	return helper.JsonCreated(c, "החבר נוסף למשרד", member)
}

// =============================
// DELETE /:firm_id/firm/members/:user_id — owner only
// =============================
func (ctl *FirmController) RemoveMember(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureOwnerFirm(c, firmID); err != nil {
		return err
	}

	memberUserID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משתמש לא תקין")
	}

	callerID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	if callerID == memberUserID {
		return helper.JsonError(c, fiber.StatusConflict, "בעלים אינו יכול להסיר את עצמו")
	}

	res := ctl.DB.Where("firm_member_firm_id = ? AND firm_member_user_id = ?", firmID, memberUserID).
		Delete(&model.FirmMemberModel{})
	if res.Error != nil {
		return ctl.respondErr(c, res.Error, "הסרת החבר נכשלה")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "חבר לא נמצא במשרד")
	}

	return helper.JsonDeleted(c, "החבר הוסר מהמשרד", fiber.Map{"user_id": memberUserID})
}

func (ctl *FirmController) findFirm(firmID uuid.UUID) (*model.FirmModel, error) {
	var m model.FirmModel
	if err := ctl.DB.Where("firm_id = ?", firmID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "משרד לא נמצא")
		}
		return nil, err
	}
	return &m, nil
}

func (ctl *FirmController) logoURL(firm *model.FirmModel) *string {
	if ctl.Blob == nil || firm.FirmLogoObjectKey == nil {
		return nil
	}
	url, err := ctl.Blob.SignedURL(context.Background(), *firm.FirmLogoObjectKey, 1*time.Hour)
	if err != nil {
		return nil
	}
	return &url
}

func (ctl *FirmController) respondErr(c *fiber.Ctx, err error, fallback string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Println("[ERROR] firm:", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}
