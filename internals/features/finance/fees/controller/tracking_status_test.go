package controller

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestClassifyTracking(t *testing.T) {
	zero := decimal.Zero
	total := decimal.NewFromInt(12154)

	tests := []struct {
		name    string
		hasCalc bool
		sent    bool
		paid    decimal.Decimal
		total   decimal.Decimal
		want    TrackingStatus
	}{
		{"no calculation", false, false, zero, zero, TrackingNotCalculated},
		{"calculated but letter not sent", true, false, zero, total, TrackingNotSent},
		{"sent and unpaid", true, true, zero, total, TrackingPending},
		{"sent and partially paid", true, true, decimal.NewFromInt(5000), total, TrackingPartialPaid},
		{"sent and fully paid", true, true, total, total, TrackingPaid},
		{"overpaid still counts as paid", true, true, decimal.NewFromInt(13000), total, TrackingPaid},
		{"zero-total stays pending until a payment lands", true, true, zero, zero, TrackingPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyTracking(tc.hasCalc, tc.sent, tc.paid, tc.total))
		})
	}
}

func TestRollupKPIsPartition(t *testing.T) {
	statuses := []TrackingStatus{
		TrackingNotCalculated,
		TrackingNotSent, TrackingNotSent,
		TrackingPending,
		TrackingPartialPaid,
		TrackingPaid, TrackingPaid, TrackingPaid, TrackingPaid, TrackingPaid,
	}

	k := RollupKPIs(statuses, decimal.NewFromInt(100000), decimal.NewFromInt(61000))
	require.Equal(t, 10, k.TotalClients)
	require.Equal(t, k.TotalClients, k.NotCalculated+k.NotSent+k.Pending+k.PartialPaid+k.Paid)
	require.Equal(t, 5, k.Paid)
	require.True(t, k.CompletionPercentage.Equal(decimal.NewFromInt(50)))
}

func TestRollupKPIsEmptyFirm(t *testing.T) {
	k := RollupKPIs(nil, decimal.Zero, decimal.Zero)
	require.Equal(t, 0, k.TotalClients)
	require.True(t, k.CompletionPercentage.IsZero())
}
