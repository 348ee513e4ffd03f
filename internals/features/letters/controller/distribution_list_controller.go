package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"misradcrm_backend/internals/features/letters/dto"
	"misradcrm_backend/internals/features/letters/model"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type DistributionListController struct {
	DB *gorm.DB
}

func NewDistributionListController(db *gorm.DB) *DistributionListController {
	return &DistributionListController{DB: db}
}

// =============================
// POST /:firm_id/distribution-lists
// =============================
func (ctl *DistributionListController) Create(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.CreateDistributionListRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := &model.DistributionListModel{
		DistributionListFirmID:      firmID,
		DistributionListName:        req.Name,
		DistributionListDescription: req.Description,
	}
	if err := ctl.DB.Create(m).Error; err != nil {
		return respondErr(c, err, "יצירת הרשימה נכשלה")
	}
	return helper.JsonCreated(c, "רשימת התפוצה נוצרה", dto.ToDistributionListResponse(m, 0))
}

// =============================
// GET /:firm_id/distribution-lists
// =============================
func (ctl *DistributionListController) List(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var lists []model.DistributionListModel
	if err := ctl.DB.Where("distribution_list_firm_id = ?", firmID).
		Order("distribution_list_name ASC").
		Find(&lists).Error; err != nil {
		return respondErr(c, err, "שליפת הרשימות נכשלה")
	}

	type countRow struct {
		ListID uuid.UUID `gorm:"column:distribution_list_member_list_id"`
		Count  int       `gorm:"column:cnt"`
	}
	var counts []countRow
	if err := ctl.DB.Model(&model.DistributionListMemberModel{}).
		Select("distribution_list_member_list_id, COUNT(*) AS cnt").
		Group("distribution_list_member_list_id").
		Find(&counts).Error; err != nil {
		return respondErr(c, err, "שליפת הרשימות נכשלה")
	}
	byList := make(map[uuid.UUID]int, len(counts))
	for _, r := range counts {
		byList[r.ListID] = r.Count
	}

	out := make([]*dto.DistributionListResponse, 0, len(lists))
	for i := range lists {
		out = append(out, dto.ToDistributionListResponse(&lists[i], byList[lists[i].DistributionListID]))
	}
	return helper.JsonOK(c, "OK", out)
}

// =============================
// PATCH /:firm_id/distribution-lists/:id
// =============================
func (ctl *DistributionListController) Update(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.UpdateDistributionListRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return respondErr(c, err, "אירעה שגיאה פנימית")
	}
	if req.Name != nil {
		m.DistributionListName = *req.Name
	}
	if req.Description != nil {
		m.DistributionListDescription = req.Description
	}
	if err := ctl.DB.Save(m).Error; err != nil {
		return respondErr(c, err, "עדכון הרשימה נכשל")
	}
	return helper.JsonUpdated(c, "הרשימה עודכנה", dto.ToDistributionListResponse(m, ctl.memberCount(m.DistributionListID)))
}

// =============================
// DELETE /:firm_id/distribution-lists/:id
// =============================
func (ctl *DistributionListController) Delete(c *fiber.Ctx) error {
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

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("distribution_list_member_list_id = ?", m.DistributionListID).
			Delete(&model.DistributionListMemberModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
	if err != nil {
		return respondErr(c, err, "מחיקת הרשימה נכשלה")
	}
	return helper.JsonDeleted(c, "הרשימה נמחקה", fiber.Map{"distribution_list_id": m.DistributionListID})
}

// =============================
// POST /:firm_id/distribution-lists/:id/members
// =============================
func (ctl *DistributionListController) AddMembers(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.ModifyListMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	list, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return respondErr(c, err, "אירעה שגיאה פנימית")
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		// Only the firm's own clients can join.
		var valid []uuid.UUID
		if err := tx.Table("clients").
			Select("client_id").
			Where("client_id IN ? AND client_firm_id = ? AND client_deleted_at IS NULL", req.ClientIDs, firmID).
			Scan(&valid).Error; err != nil {
			return err
		}
		if len(valid) != len(req.ClientIDs) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "חלק מהלקוחות אינם שייכים למשרד")
		}

		members := make([]model.DistributionListMemberModel, 0, len(valid))
		for _, id := range valid {
			members = append(members, model.DistributionListMemberModel{
				DistributionListMemberListID:   list.DistributionListID,
				DistributionListMemberClientID: id,
			})
		}
		// Re-adding an existing member is a no-op.
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error
	})
	if err != nil {
		return respondErr(c, err, "הוספת החברים נכשלה")
	}

	return helper.JsonUpdated(c, "החברים נוספו", dto.ToDistributionListResponse(list, ctl.memberCount(list.DistributionListID)))
}

// =============================
// DELETE /:firm_id/distribution-lists/:id/members
// =============================
func (ctl *DistributionListController) RemoveMembers(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.ModifyListMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	list, err := ctl.findScoped(firmID, c.Params("id"))
	if err != nil {
		return respondErr(c, err, "אירעה שגיאה פנימית")
	}

	if err := ctl.DB.
		Where("distribution_list_member_list_id = ? AND distribution_list_member_client_id IN ?",
			list.DistributionListID, req.ClientIDs).
		Delete(&model.DistributionListMemberModel{}).Error; err != nil {
		return respondErr(c, err, "הסרת החברים נכשלה")
	}

	return helper.JsonUpdated(c, "החברים הוסרו", dto.ToDistributionListResponse(list, ctl.memberCount(list.DistributionListID)))
}

func (ctl *DistributionListController) memberCount(listID uuid.UUID) int {
	var cnt int64
	ctl.DB.Model(&model.DistributionListMemberModel{}).
		Where("distribution_list_member_list_id = ?", listID).
		Count(&cnt)
	return int(cnt)
}

func (ctl *DistributionListController) findScoped(firmID uuid.UUID, rawID string) (*model.DistributionListModel, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "מזהה רשימה לא תקין")
	}
	var m model.DistributionListModel
	if err := ctl.DB.Where("distribution_list_id = ? AND distribution_list_firm_id = ?", id, firmID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "רשימת תפוצה לא נמצאה")
		}
		return nil, err
	}
	return &m, nil
}
