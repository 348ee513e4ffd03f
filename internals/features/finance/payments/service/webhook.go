package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	feeModel "misradcrm_backend/internals/features/finance/fees/model"
	"misradcrm_backend/internals/features/finance/payments/model"
)

// HandlePaymentStatusWebhook processes a gateway notification. Lookup is by
// order_id; unknown transaction statuses are logged and left alone so a
// replayed or early notification never corrupts state.
func HandlePaymentStatusWebhook(db *gorm.DB, body map[string]interface{}) error {
	orderID, ok1 := body["order_id"].(string)
	status, ok2 := body["transaction_status"].(string)
	if !ok1 || !ok2 {
		log.Println("[ERROR] incomplete webhook payload:", body)
		return fmt.Errorf("invalid payload")
	}

	log.Println("📄 order_id:", orderID, "| transaction_status:", status)

	return db.Transaction(func(tx *gorm.DB) error {
		var payment model.PaymentModel
		if err := tx.Where("payment_order_id = ?", orderID).First(&payment).Error; err != nil {
			log.Println("[ERROR] payment not found for order:", orderID)
			return fmt.Errorf("payment with order_id %s not found", orderID)
		}

		switch status {
		case "capture", "settlement":
			if payment.PaymentStatus == model.PaymentStatusConfirmed {
				return nil // replay
			}
			now := time.Now()
			payment.PaymentStatus = model.PaymentStatusConfirmed
			payment.PaymentPaidAt = &now
		case "expire":
			payment.PaymentStatus = model.PaymentStatusExpired
		case "cancel":
			payment.PaymentStatus = model.PaymentStatusCancelled
		case "deny", "failure":
			payment.PaymentStatus = model.PaymentStatusFailed
		default:
			log.Println("[INFO] unhandled transaction status:", status)
			return nil
		}

		if err := tx.Save(&payment).Error; err != nil {
			log.Println("[ERROR] save payment status:", err)
			return err
		}

		if payment.PaymentStatus == model.PaymentStatusConfirmed {
			return SyncFeeStatus(tx, payment.PaymentFeeCalculationID)
		}
		return nil
	})
}

func decimalFromString(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// SyncFeeStatus re-derives the fee's paid flag from its confirmed payments.
// Runs inside the caller's transaction.
func SyncFeeStatus(tx *gorm.DB, feeCalculationID uuid.UUID) error {
	var fee feeModel.FeeCalculationModel
	if err := tx.Where("fee_calculation_id = ?", feeCalculationID).First(&fee).Error; err != nil {
		return err
	}

	var confirmed struct {
		Sum string
	}
	if err := tx.Model(&model.PaymentModel{}).
		Select("COALESCE(SUM(payment_amount), 0)::text AS sum").
		Where("payment_fee_calculation_id = ? AND payment_status = ?", fee.FeeCalculationID, model.PaymentStatusConfirmed).
		Scan(&confirmed).Error; err != nil {
		return err
	}

	sum, err := decimalFromString(confirmed.Sum)
	if err != nil {
		return err
	}

	res := Allocate(fee.FeeCalculationTotalAmount, sum)
	if res.FullyPaid && fee.FeeCalculationStatus != feeModel.FeeStatusPaid {
		now := time.Now()
		fee.FeeCalculationStatus = feeModel.FeeStatusPaid
		fee.FeeCalculationPaidAt = &now
		return tx.Save(&fee).Error
	}
	if !res.FullyPaid && fee.FeeCalculationStatus == feeModel.FeeStatusPaid {
		// Payment was voided; fall back to sent so tracking shows it open.
		fee.FeeCalculationStatus = feeModel.FeeStatusSent
		fee.FeeCalculationPaidAt = nil
		return tx.Save(&fee).Error
	}
	return nil
}
