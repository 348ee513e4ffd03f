package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	body := "שלום {{client_name}}, שכר הטרחה לשנת {{tax_year}} הוא {{total_amount}}."
	out := RenderTemplate(body, map[string]string{
		"client_name":  "ישראל ישראלי",
		"tax_year":     "2025",
		"total_amount": "12,154.00 ₪",
	})
	require.Equal(t, "שלום ישראל ישראלי, שכר הטרחה לשנת 2025 הוא 12,154.00 ₪.", out)
}

func TestRenderTemplateLeavesUnknownMarkers(t *testing.T) {
	out := RenderTemplate("שלום {{client_nmae}}", map[string]string{"client_name": "דנה"})
	require.Equal(t, "שלום {{client_nmae}}", out)
}

func TestRenderTemplateEmptyData(t *testing.T) {
	require.Equal(t, "{{x}}", RenderTemplate("{{x}}", nil))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00 ₪"},
		{"12154", "12,154.00 ₪"},
		{"1234567.5", "1,234,567.50 ₪"},
		{"999", "999.00 ₪"},
		{"-1030", "-1,030.00 ₪"},
	}
	for _, tc := range tests {
		v, err := decimal.NewFromString(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, FormatAmount(v))
	}
}
