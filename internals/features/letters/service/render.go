package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	clientModel "misradcrm_backend/internals/features/clients/model"
	feeModel "misradcrm_backend/internals/features/finance/fees/model"
)

// RenderTemplate substitutes {{key}} markers. Unknown markers are left in
// place so a typo in the template is visible in the output, not silently
// blanked.
func RenderTemplate(body string, data map[string]string) string {
	if len(data) == 0 {
		return body
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

// FormatAmount renders money for letters: thousands separators, two decimal
// places, shekel sign after the number.
func FormatAmount(v decimal.Decimal) string {
	s := v.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + fracPart + " ₪"
	if neg {
		out = "-" + out
	}
	return out
}

// BuildLetterData assembles the full placeholder set for one fee letter.
func BuildLetterData(firmName string, client *clientModel.ClientModel, fee *feeModel.FeeCalculationModel) map[string]string {
	data := map[string]string{
		"firm_name":        firmName,
		"client_name":      client.ClientName,
		"tax_file_number":  client.ClientTaxFileNumber,
		"tax_year":         fmt.Sprintf("%d", fee.FeeCalculationTaxYear),
		"base_amount":      FormatAmount(fee.FeeCalculationBaseAmount),
		"final_amount":     FormatAmount(fee.FeeCalculationFinalAmount),
		"vat_amount":       FormatAmount(fee.FeeCalculationVATAmount),
		"total_amount":     FormatAmount(fee.FeeCalculationTotalAmount),
		"discount_amount":  FormatAmount(fee.FeeCalculationDiscountAmount),
		"change_amount":    FormatAmount(fee.FeeCalculationChangeAmount),
		"change_percent":   fee.FeeCalculationChangePercent.Round(2).String() + "%",
		"today":            time.Now().Format("02/01/2006"),
	}
	if client.ClientContactName != nil {
		data["contact_name"] = *client.ClientContactName
	}
	if fee.FeeCalculationDueDate != nil {
		data["due_date"] = fee.FeeCalculationDueDate.Format("02/01/2006")
	}
	return data
}
