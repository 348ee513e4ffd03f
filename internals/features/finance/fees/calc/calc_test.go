package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestCalculateFeeAmounts(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Output
	}{
		{
			name: "base with inflation only",
			in: Input{
				BaseAmount:          d("10000"),
				ApplyInflationIndex: true,
				InflationRate:       d("3"),
			},
			want: Output{
				InflationAdjustment: d("300"),
				AdjustedAmount:      d("10300"),
				DiscountAmount:      d("0"),
				FinalAmount:         d("10300"),
				VATAmount:           d("1854"),
				TotalWithVAT:        d("12154"),
			},
		},
		{
			name: "discount applied after inflation",
			in: Input{
				BaseAmount:          d("10000"),
				ApplyInflationIndex: true,
				InflationRate:       d("3"),
				DiscountPercentage:  d("10"),
			},
			want: Output{
				InflationAdjustment: d("300"),
				AdjustedAmount:      d("10300"),
				DiscountAmount:      d("1030"),
				FinalAmount:         d("9270"),
				VATAmount:           d("1668.60"),
				TotalWithVAT:        d("10938.60"),
			},
		},
		{
			name: "real adjustment with inflation disabled",
			in: Input{
				BaseAmount:     d("10000"),
				RealAdjustment: d("500"),
			},
			want: Output{
				InflationAdjustment: d("0"),
				AdjustedAmount:      d("10500"),
				DiscountAmount:      d("0"),
				FinalAmount:         d("10500"),
				VATAmount:           d("1890"),
				TotalWithVAT:        d("12390"),
			},
		},
		{
			name: "year over year delta",
			in: Input{
				BaseAmount:               d("10000"),
				ApplyInflationIndex:      true,
				InflationRate:            d("3"),
				PreviousYearTotalWithVAT: dp("12000"),
			},
			want: Output{
				InflationAdjustment: d("300"),
				AdjustedAmount:      d("10300"),
				FinalAmount:         d("10300"),
				VATAmount:           d("1854"),
				TotalWithVAT:        d("12154"),
				ChangeAmount:        d("154"),
				ChangePercent:       d("1.2833"),
			},
		},
		{
			name: "negative real adjustment lowers the total",
			in: Input{
				BaseAmount:     d("8000"),
				RealAdjustment: d("-1000"),
			},
			want: Output{
				AdjustedAmount: d("7000"),
				FinalAmount:    d("7000"),
				VATAmount:      d("1260"),
				TotalWithVAT:   d("8260"),
			},
		},
		{
			name: "agorot rounding at each step",
			in: Input{
				BaseAmount:          d("3333.33"),
				ApplyInflationIndex: true,
				InflationRate:       d("3.3"),
				DiscountPercentage:  d("7.5"),
			},
			want: Output{
				InflationAdjustment: d("110.00"),
				AdjustedAmount:      d("3443.33"),
				DiscountAmount:      d("258.25"),
				FinalAmount:         d("3185.08"),
				VATAmount:           d("573.31"),
				TotalWithVAT:        d("3758.39"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateFeeAmounts(tc.in)
			require.True(t, tc.want.InflationAdjustment.Equal(got.InflationAdjustment), "inflation: want %s got %s", tc.want.InflationAdjustment, got.InflationAdjustment)
			require.True(t, tc.want.AdjustedAmount.Equal(got.AdjustedAmount), "adjusted: want %s got %s", tc.want.AdjustedAmount, got.AdjustedAmount)
			require.True(t, tc.want.DiscountAmount.Equal(got.DiscountAmount), "discount: want %s got %s", tc.want.DiscountAmount, got.DiscountAmount)
			require.True(t, tc.want.FinalAmount.Equal(got.FinalAmount), "final: want %s got %s", tc.want.FinalAmount, got.FinalAmount)
			require.True(t, tc.want.VATAmount.Equal(got.VATAmount), "vat: want %s got %s", tc.want.VATAmount, got.VATAmount)
			require.True(t, tc.want.TotalWithVAT.Equal(got.TotalWithVAT), "total: want %s got %s", tc.want.TotalWithVAT, got.TotalWithVAT)
			require.True(t, tc.want.ChangeAmount.Equal(got.ChangeAmount), "change: want %s got %s", tc.want.ChangeAmount, got.ChangeAmount)
			require.True(t, tc.want.ChangePercent.Equal(got.ChangePercent), "change%%: want %s got %s", tc.want.ChangePercent, got.ChangePercent)
		})
	}
}

func TestCalculateFeeAmountsZeroPriorYearGuard(t *testing.T) {
	out := CalculateFeeAmounts(Input{
		BaseAmount:               d("10000"),
		PreviousYearTotalWithVAT: dp("0"),
	})
	require.True(t, out.ChangeAmount.IsZero())
	require.True(t, out.ChangePercent.IsZero())
}

func TestCalculateFeeAmountsVATInvariant(t *testing.T) {
	bases := []string{"0", "1", "99.99", "4500", "10000", "123456.78"}
	for _, b := range bases {
		out := CalculateFeeAmounts(Input{BaseAmount: d(b)})
		sum := out.FinalAmount.Add(out.VATAmount)
		require.True(t, sum.Equal(out.TotalWithVAT), "base %s: %s + %s != %s", b, out.FinalAmount, out.VATAmount, out.TotalWithVAT)
	}
}

func TestCalculateFeeAmountsFullDiscount(t *testing.T) {
	out := CalculateFeeAmounts(Input{
		BaseAmount:          d("10000"),
		ApplyInflationIndex: true,
		InflationRate:       d("3"),
		DiscountPercentage:  d("100"),
	})
	require.True(t, out.FinalAmount.IsZero())
	require.True(t, out.VATAmount.IsZero())
	require.True(t, out.TotalWithVAT.IsZero())
}
