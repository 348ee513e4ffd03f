package service

import (
	"errors"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans must be called once at bootstrap.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

type PayerInput struct {
	Name  string
	Email string
	Phone string
}

/* =========================================================
   Generate Snap Token
========================================================= */

// GenerateSnapToken opens a gateway checkout for one fee. The gateway wants
// whole-unit integer amounts, so agorot are rounded up — better a shekel
// over than an unpayable remainder.
func GenerateSnapToken(orderID string, amount decimal.Decimal, description string, payer PayerInput) (string, string, error) {
	if orderID == "" {
		return "", "", errors.New("order id is required")
	}
	if !amount.GreaterThan(decimal.Zero) {
		return "", "", errors.New("amount must be positive")
	}

	gross := amount.Ceil().IntPart()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: payer.Name,
			Email: payer.Email,
			Phone: payer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       orderID,
				Price:    gross,
				Qty:      1,
				Name:     truncate(description, 50),
				Category: "accounting-fee",
			},
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

// truncate cuts on a rune boundary; Hebrew descriptions are multi-byte and
// a byte slice would hand the gateway invalid UTF-8.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}
