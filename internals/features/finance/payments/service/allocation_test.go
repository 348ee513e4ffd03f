package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	total := decimal.NewFromFloat(12154)

	tests := []struct {
		name        string
		paid        decimal.Decimal
		fullyPaid   bool
		outstanding string
	}{
		{"nothing paid", decimal.Zero, false, "12154"},
		{"partial", decimal.NewFromInt(5000), false, "7154"},
		{"exact", total, true, "0"},
		{"overpaid clamps to zero", decimal.NewFromInt(13000), true, "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Allocate(total, tc.paid)
			require.Equal(t, tc.fullyPaid, res.FullyPaid)
			want, err := decimal.NewFromString(tc.outstanding)
			require.NoError(t, err)
			require.True(t, res.Outstanding.Equal(want), "outstanding: want %s got %s", want, res.Outstanding)
		})
	}
}

func TestAllocateZeroTotalNeverFullyPaid(t *testing.T) {
	res := Allocate(decimal.Zero, decimal.Zero)
	require.False(t, res.FullyPaid)
	require.True(t, res.Outstanding.IsZero())
}
