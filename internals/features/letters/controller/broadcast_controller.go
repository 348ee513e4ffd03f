package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"misradcrm_backend/internals/features/letters/dto"
	"misradcrm_backend/internals/features/letters/model"
	"misradcrm_backend/internals/features/letters/service"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type BroadcastController struct {
	DB     *gorm.DB
	Mailer service.Mailer
}

func NewBroadcastController(db *gorm.DB, mailer service.Mailer) *BroadcastController {
	return &BroadcastController{DB: db, Mailer: mailer}
}

// =============================
// POST /:firm_id/broadcasts
// =============================
func (ctl *BroadcastController) Create(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}
	if ctl.Mailer == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "שירות הדיוור אינו מוגדר")
	}

	var req dto.CreateBroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if len(req.ListIDs) == 0 && len(req.ClientIDs) == 0 {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "נדרשת לפחות רשימת תפוצה אחת או לקוח אחד")
	}

	subject, body := req.Subject, req.Body
	if req.TemplateID != nil {
		var tpl model.LetterTemplateModel
		if err := ctl.DB.Where("letter_template_id = ? AND letter_template_firm_id = ?",
			*req.TemplateID, firmID).First(&tpl).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusNotFound, "תבנית לא נמצאה")
			}
			return respondErr(c, err, "אירעה שגיאה פנימית")
		}
		subject, body = tpl.LetterTemplateSubject, tpl.LetterTemplateBody
	}

	recipients, err := ctl.resolveRecipients(firmID, req.ListIDs, req.ClientIDs)
	if err != nil {
		return respondErr(c, err, "איתור הנמענים נכשל")
	}
	if len(recipients) == 0 {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "לא נמצאו נמענים עם כתובת דוא\"ל")
	}

	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}

	emails := make(pq.StringArray, 0, len(recipients))
	for _, r := range recipients {
		emails = append(emails, r.Email)
	}

	broadcast := &model.BroadcastModel{
		BroadcastFirmID:          firmID,
		BroadcastTemplateID:      req.TemplateID,
		BroadcastSubject:         subject,
		BroadcastBody:            body,
		BroadcastStatus:          model.BroadcastStatusPending,
		BroadcastRecipientEmails: emails,
		BroadcastTotalRecipients: len(recipients),
		BroadcastCreatedBy:       &userID,
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(broadcast).Error; err != nil {
			return err
		}
		rows := make([]model.BroadcastRecipientModel, 0, len(recipients))
		for _, r := range recipients {
			rows = append(rows, model.BroadcastRecipientModel{
				BroadcastRecipientBroadcastID: broadcast.BroadcastID,
				BroadcastRecipientClientID:    r.ClientID,
				BroadcastRecipientEmail:       r.Email,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return respondErr(c, err, "יצירת הדיוור נכשלה")
	}

	go ctl.runBroadcast(broadcast.BroadcastID)

	return helper.JsonCreated(c, "הדיוור נוצר והשליחה החלה", dto.ToBroadcastResponse(broadcast))
}

// =============================
// GET /:firm_id/broadcasts/:id — progress polling
// =============================
func (ctl *BroadcastController) Progress(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "OK", dto.ToBroadcastResponse(m))
}

// =============================
// GET /:firm_id/broadcasts
// =============================
func (ctl *BroadcastController) List(c *fiber.Ctx) error {
	firmID, err := parseFirmID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.BroadcastModel{}).
		Where("broadcast_firm_id = ?", firmID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return respondErr(c, err, "שליפת הדיוורים נכשלה")
	}

	var rows []model.BroadcastModel
	if err := q.Order("broadcast_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return respondErr(c, err, "שליפת הדיוורים נכשלה")
	}

	out := make([]*dto.BroadcastResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToBroadcastResponse(&rows[i]))
	}
	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", out, &pg)
}

// =============================
// POST /:firm_id/broadcasts/:id/cancel
// =============================
func (ctl *BroadcastController) Cancel(c *fiber.Ctx) error {
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
	if m.BroadcastStatus == model.BroadcastStatusDone || m.BroadcastStatus == model.BroadcastStatusCancelled {
		return helper.JsonError(c, fiber.StatusConflict, "הדיוור כבר הסתיים")
	}

	// The send loop re-reads status between recipients and stops here.
	if err := ctl.DB.Model(&model.BroadcastModel{}).
		Where("broadcast_id = ?", m.BroadcastID).
		Update("broadcast_status", model.BroadcastStatusCancelled).Error; err != nil {
		return respondErr(c, err, "ביטול הדיוור נכשל")
	}
	m.BroadcastStatus = model.BroadcastStatusCancelled
	return helper.JsonUpdated(c, "הדיוור בוטל", dto.ToBroadcastResponse(m))
}

/* =============================
   send loop
============================= */

// runBroadcast walks pending recipients one by one. Counters and per-row
// status are persisted after each send, so progress survives a restart and
// polling reads live numbers.
func (ctl *BroadcastController) runBroadcast(broadcastID uuid.UUID) {
	now := time.Now()
	if err := ctl.DB.Model(&model.BroadcastModel{}).
		Where("broadcast_id = ? AND broadcast_status = ?", broadcastID, model.BroadcastStatusPending).
		Updates(map[string]interface{}{
			"broadcast_status":     model.BroadcastStatusSending,
			"broadcast_started_at": now,
		}).Error; err != nil {
		log.Println("[ERROR] start broadcast:", err)
		return
	}

	var broadcast model.BroadcastModel
	if err := ctl.DB.First(&broadcast, "broadcast_id = ?", broadcastID).Error; err != nil {
		log.Println("[ERROR] load broadcast:", err)
		return
	}
	if broadcast.BroadcastStatus != model.BroadcastStatusSending {
		return // cancelled before the first send
	}

	var recipients []model.BroadcastRecipientModel
	if err := ctl.DB.
		Where("broadcast_recipient_broadcast_id = ? AND broadcast_recipient_status = ?",
			broadcastID, model.RecipientStatusPending).
		Order("broadcast_recipient_created_at ASC").
		Find(&recipients).Error; err != nil {
		log.Println("[ERROR] load broadcast recipients:", err)
		return
	}

	for i := range recipients {
		// Cancellation check between every send.
		var status string
		if err := ctl.DB.Model(&model.BroadcastModel{}).
			Select("broadcast_status").
			Where("broadcast_id = ?", broadcastID).
			Scan(&status).Error; err == nil && status == string(model.BroadcastStatusCancelled) {
			ctl.markRemainingSkipped(broadcastID)
			log.Println("📣 broadcast cancelled mid-send:", broadcastID)
			return
		}

		r := &recipients[i]
		sendErr := ctl.Mailer.Send(r.BroadcastRecipientEmail, broadcast.BroadcastSubject, broadcast.BroadcastBody)

		ts := time.Now()
		if sendErr != nil {
			msg := sendErr.Error()
			r.BroadcastRecipientStatus = model.RecipientStatusFailed
			r.BroadcastRecipientError = &msg
		} else {
			r.BroadcastRecipientStatus = model.RecipientStatusSent
			r.BroadcastRecipientSentAt = &ts
		}
		if err := ctl.DB.Save(r).Error; err != nil {
			log.Println("[ERROR] save recipient status:", err)
		}

		counter := "broadcast_sent_count"
		if sendErr != nil {
			counter = "broadcast_failed_count"
		}
		if err := ctl.DB.Model(&model.BroadcastModel{}).
			Where("broadcast_id = ?", broadcastID).
			UpdateColumn(counter, gorm.Expr(counter+" + 1")).Error; err != nil {
			log.Println("[ERROR] bump broadcast counter:", err)
		}
	}

	finished := time.Now()
	if err := ctl.DB.Model(&model.BroadcastModel{}).
		Where("broadcast_id = ? AND broadcast_status = ?", broadcastID, model.BroadcastStatusSending).
		Updates(map[string]interface{}{
			"broadcast_status":      model.BroadcastStatusDone,
			"broadcast_finished_at": finished,
		}).Error; err != nil {
		log.Println("[ERROR] finish broadcast:", err)
		return
	}
	log.Println("📣 broadcast done:", broadcastID)
}

func (ctl *BroadcastController) markRemainingSkipped(broadcastID uuid.UUID) {
	if err := ctl.DB.Model(&model.BroadcastRecipientModel{}).
		Where("broadcast_recipient_broadcast_id = ? AND broadcast_recipient_status = ?",
			broadcastID, model.RecipientStatusPending).
		Update("broadcast_recipient_status", model.RecipientStatusSkipped).Error; err != nil {
		log.Println("[ERROR] skip remaining recipients:", err)
	}
}

/* =============================
   recipient resolution
============================= */

func (ctl *BroadcastController) resolveRecipients(firmID uuid.UUID, listIDs, clientIDs []uuid.UUID) ([]service.Recipient, error) {
	var merged []service.Recipient

	if len(listIDs) > 0 {
		var rows []service.Recipient
		if err := ctl.DB.Table("distribution_list_members m").
			Select("c.client_id AS client_id, c.client_name AS name, c.client_email AS email").
			Joins("JOIN clients c ON c.client_id = m.distribution_list_member_client_id").
			Joins("JOIN distribution_lists l ON l.distribution_list_id = m.distribution_list_member_list_id").
			Where("m.distribution_list_member_list_id IN ?", listIDs).
			Where("l.distribution_list_firm_id = ? AND l.distribution_list_deleted_at IS NULL", firmID).
			Where("c.client_deleted_at IS NULL AND c.client_is_active = TRUE").
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		merged = append(merged, rows...)
	}

	if len(clientIDs) > 0 {
		var rows []service.Recipient
		if err := ctl.DB.Table("clients").
			Select("client_id AS client_id, client_name AS name, client_email AS email").
			Where("client_id IN ? AND client_firm_id = ? AND client_deleted_at IS NULL AND client_is_active = TRUE",
				clientIDs, firmID).
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		merged = append(merged, rows...)
	}

	return service.DedupRecipients(merged), nil
}

func (ctl *BroadcastController) findScoped(firmID uuid.UUID, rawID string) (*model.BroadcastModel, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "מזהה דיוור לא תקין")
	}
	var m model.BroadcastModel
	if err := ctl.DB.Where("broadcast_id = ? AND broadcast_firm_id = ?", id, firmID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "דיוור לא נמצא")
		}
		return nil, err
	}
	return &m, nil
}
