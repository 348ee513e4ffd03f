package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	clientModel "misradcrm_backend/internals/features/clients/model"
	feeModel "misradcrm_backend/internals/features/finance/fees/model"
	"misradcrm_backend/internals/features/finance/payments/dto"
	"misradcrm_backend/internals/features/finance/payments/model"
	"misradcrm_backend/internals/features/finance/payments/service"
	helper "misradcrm_backend/internals/helpers"
	helperAuth "misradcrm_backend/internals/helpers/auth"
)

type PaymentController struct {
	DB *gorm.DB
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

var validate = validator.New()

// =============================
// POST /:firm_id/payments — manual payment entry
// =============================
func (ctl *PaymentController) Record(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.RecordPaymentRequest
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

	var payment *model.PaymentModel
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		fee, err := loadFeeScoped(tx, firmID, req.FeeCalculationID)
		if err != nil {
			return err
		}
		if fee.FeeCalculationStatus == feeModel.FeeStatusCancelled {
			return fiber.NewError(fiber.StatusConflict, "לא ניתן לרשום תשלום על חישוב שבוטל")
		}

		paidAt := time.Now()
		if req.PaidAt != nil {
			paidAt = *req.PaidAt
		}

		payment = &model.PaymentModel{
			PaymentFirmID:           firmID,
			PaymentClientID:         fee.FeeCalculationClientID,
			PaymentFeeCalculationID: fee.FeeCalculationID,
			PaymentAmount:           decimalFromFloat(req.Amount),
			PaymentMethod:           model.PaymentMethod(req.Method),
			PaymentStatus:           model.PaymentStatusConfirmed,
			PaymentPaidAt:           &paidAt,
			PaymentReference:        req.Reference,
			PaymentNote:             req.Note,
			PaymentRecordedBy:       &userID,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return service.SyncFeeStatus(tx, fee.FeeCalculationID)
	})
	if err != nil {
		return respondPaymentErr(c, err, "רישום התשלום נכשל")
	}

	return helper.JsonCreated(c, "התשלום נרשם", dto.ToPaymentResponse(payment))
}

// =============================
// POST /:firm_id/payments/checkout — gateway checkout for one fee
// =============================
func (ctl *PaymentController) CreateGatewayCheckout(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	var req dto.CreateGatewayPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var resp *dto.GatewayCheckoutResponse
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		fee, err := loadFeeScoped(tx, firmID, req.FeeCalculationID)
		if err != nil {
			return err
		}
		if fee.FeeCalculationStatus == feeModel.FeeStatusPaid {
			return fiber.NewError(fiber.StatusConflict, "החישוב כבר שולם במלואו")
		}
		if fee.FeeCalculationStatus == feeModel.FeeStatusCancelled {
			return fiber.NewError(fiber.StatusConflict, "לא ניתן לגבות חישוב שבוטל")
		}

		var client clientModel.ClientModel
		if err := tx.Where("client_id = ?", fee.FeeCalculationClientID).First(&client).Error; err != nil {
			return err
		}

		orderID := fmt.Sprintf("fee-%s-%d", fee.FeeCalculationID, time.Now().Unix())
		payment := &model.PaymentModel{
			PaymentFirmID:           firmID,
			PaymentClientID:         fee.FeeCalculationClientID,
			PaymentFeeCalculationID: fee.FeeCalculationID,
			PaymentAmount:           fee.FeeCalculationTotalAmount,
			PaymentMethod:           model.PaymentMethodGateway,
			PaymentStatus:           model.PaymentStatusPending,
			PaymentOrderID:          &orderID,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		desc := fmt.Sprintf("שכר טרחה %d - %s", fee.FeeCalculationTaxYear, client.ClientName)
		payer := service.PayerInput{Name: client.ClientName}
		if client.ClientEmail != nil {
			payer.Email = *client.ClientEmail
		}
		if client.ClientPhone != nil {
			payer.Phone = *client.ClientPhone
		}

		token, redirect, err := service.GenerateSnapToken(orderID, fee.FeeCalculationTotalAmount, desc, payer)
		if err != nil {
			return err
		}

		resp = &dto.GatewayCheckoutResponse{
			PaymentID:   payment.PaymentID,
			OrderID:     orderID,
			SnapToken:   token,
			RedirectURL: redirect,
		}
		return nil
	})
	if err != nil {
		return respondPaymentErr(c, err, "פתיחת עסקת הסליקה נכשלה")
	}

	return helper.JsonCreated(c, "עסקת סליקה נפתחה", resp)
}

// =============================
// GET /:firm_id/payments?fee_calculation_id=&client_id=&page=&per_page=
// =============================
func (ctl *PaymentController) List(c *fiber.Ctx) error {
	firmID, err := uuid.Parse(c.Params("firm_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "מזהה משרד לא תקין")
	}
	if err := helperAuth.EnsureStaffFirm(c, firmID); err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.PaymentModel{}).
		Where("payment_firm_id = ?", firmID)

	if fid := c.Query("fee_calculation_id"); fid != "" {
		id, err := uuid.Parse(fid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "מזהה חישוב לא תקין")
		}
		q = q.Where("payment_fee_calculation_id = ?", id)
	}
	if cid := c.Query("client_id"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "מזהה לקוח לא תקין")
		}
		q = q.Where("payment_client_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] count payments:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שליפת התשלומים נכשלה")
	}

	var rows []model.PaymentModel
	if err := q.Order("payment_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Println("[ERROR] list payments:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "שליפת התשלומים נכשלה")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", dto.ToPaymentResponses(rows), &pg)
}

// =============================
// POST /api/payments/notification — gateway webhook, no auth
// =============================
func (ctl *PaymentController) HandleNotification(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := service.HandlePaymentStatusWebhook(ctl.DB, body); err != nil {
		log.Println("[ERROR] payment webhook:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "webhook processing failed")
	}
	return helper.JsonOK(c, "OK", nil)
}

/* =============================
   internals
============================= */

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func loadFeeScoped(tx *gorm.DB, firmID, feeID uuid.UUID) (*feeModel.FeeCalculationModel, error) {
	var fee feeModel.FeeCalculationModel
	if err := tx.Where("fee_calculation_id = ? AND fee_calculation_firm_id = ?", feeID, firmID).
		First(&fee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "חישוב שכר טרחה לא נמצא")
		}
		return nil, err
	}
	return &fee, nil
}

func respondPaymentErr(c *fiber.Ctx, err error, fallback string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Println("[ERROR] payment:", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}
