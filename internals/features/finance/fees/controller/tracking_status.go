package controller

import "github.com/shopspring/decimal"

// TrackingStatus buckets one client for a tax year. Every client lands in
// exactly one bucket.
type TrackingStatus string

const (
	TrackingNotCalculated TrackingStatus = "not_calculated"
	TrackingNotSent       TrackingStatus = "not_sent"
	TrackingPending       TrackingStatus = "pending"
	TrackingPartialPaid   TrackingStatus = "partial_paid"
	TrackingPaid          TrackingStatus = "paid"
)

// ClassifyTracking maps a client's calculation state for the year into a
// bucket. Cancelled calculations count as no calculation at all.
func ClassifyTracking(hasCalculation bool, letterSent bool, paidAmount, totalAmount decimal.Decimal) TrackingStatus {
	switch {
	case !hasCalculation:
		return TrackingNotCalculated
	case !letterSent:
		return TrackingNotSent
	case totalAmount.GreaterThan(decimal.Zero) && paidAmount.GreaterThanOrEqual(totalAmount):
		return TrackingPaid
	case paidAmount.GreaterThan(decimal.Zero):
		return TrackingPartialPaid
	default:
		return TrackingPending
	}
}

// TrackingKPIs is the summary block above the per-client table.
type TrackingKPIs struct {
	TotalClients         int             `json:"total_clients"`
	NotCalculated        int             `json:"not_calculated"`
	NotSent              int             `json:"not_sent"`
	Pending              int             `json:"pending"`
	PartialPaid          int             `json:"partial_paid"`
	Paid                 int             `json:"paid"`
	TotalBilled          decimal.Decimal `json:"total_billed"`
	TotalCollected       decimal.Decimal `json:"total_collected"`
	CompletionPercentage decimal.Decimal `json:"completion_percentage"`
}

// RollupKPIs tallies buckets and amounts. Completion is the share of fully
// paid clients out of all clients, 0 when the firm has none.
func RollupKPIs(statuses []TrackingStatus, billed, collected decimal.Decimal) TrackingKPIs {
	k := TrackingKPIs{
		TotalClients:   len(statuses),
		TotalBilled:    billed,
		TotalCollected: collected,
	}
	for _, s := range statuses {
		switch s {
		case TrackingNotCalculated:
			k.NotCalculated++
		case TrackingNotSent:
			k.NotSent++
		case TrackingPending:
			k.Pending++
		case TrackingPartialPaid:
			k.PartialPaid++
		case TrackingPaid:
			k.Paid++
		}
	}
	if k.TotalClients > 0 {
		k.CompletionPercentage = decimal.NewFromInt(int64(k.Paid)).
			Div(decimal.NewFromInt(int64(k.TotalClients))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	} else {
		k.CompletionPercentage = decimal.Zero
	}
	return k
}
