package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"misradcrm_backend/internals/features/finance/fees/calc"
	"misradcrm_backend/internals/features/finance/fees/model"
)

func TestCreateRequestDefaults(t *testing.T) {
	firmID := uuid.New()
	req := CreateFeeCalculationRequest{
		ClientID:   uuid.New(),
		TaxYear:    2025,
		BaseAmount: 10000,
	}

	m := req.ToModel(firmID)
	require.Equal(t, firmID, m.FeeCalculationFirmID)
	require.True(t, m.FeeCalculationApplyInflationIndex)
	require.True(t, m.FeeCalculationInflationRate.Equal(decimal.NewFromInt(3)))
	require.Equal(t, model.FeeStatusDraft, m.FeeCalculationStatus)
	require.Nil(t, m.FeeCalculationPreviousYearTotal)
}

func TestMonthSentinelRoundTrip(t *testing.T) {
	// Annual records store AnnualMonth, never NULL. Two annual rows for the
	// same (firm, client, year) must collide on the unique index, and NULL
	// months are distinct to Postgres, so the sentinel is load-bearing.
	annual := CreateFeeCalculationRequest{ClientID: uuid.New(), TaxYear: 2025, BaseAmount: 10000}
	m := annual.ToModel(uuid.New())
	require.Equal(t, model.AnnualMonth, m.FeeCalculationMonth)
	require.Nil(t, ToFeeCalculationResponse(m).Month)

	march := 3
	monthly := CreateFeeCalculationRequest{ClientID: uuid.New(), TaxYear: 2025, Month: &march, BaseAmount: 10000}
	m = monthly.ToModel(uuid.New())
	require.Equal(t, 3, m.FeeCalculationMonth)

	resp := ToFeeCalculationResponse(m)
	require.NotNil(t, resp.Month)
	require.Equal(t, 3, *resp.Month)
}

func TestCreateRequestOverrides(t *testing.T) {
	off := false
	rate := 2.5
	prev := 12000.0
	req := CreateFeeCalculationRequest{
		ClientID:            uuid.New(),
		TaxYear:             2025,
		BaseAmount:          10000,
		ApplyInflationIndex: &off,
		InflationRate:       &rate,
		PreviousYearTotal:   &prev,
	}

	m := req.ToModel(uuid.New())
	require.False(t, m.FeeCalculationApplyInflationIndex)
	require.True(t, m.FeeCalculationInflationRate.Equal(decimal.NewFromFloat(2.5)))
	require.NotNil(t, m.FeeCalculationPreviousYearTotal)
	require.True(t, m.FeeCalculationPreviousYearTotal.Equal(decimal.NewFromInt(12000)))
}

func TestApplyUpdateReportsInputChanges(t *testing.T) {
	m := &model.FeeCalculationModel{
		FeeCalculationBaseAmount: decimal.NewFromInt(10000),
	}

	notes := "עודכן לאחר שיחה עם הלקוח"
	require.False(t, ApplyFeeCalculationUpdate(m, &UpdateFeeCalculationRequest{Notes: &notes}))
	require.Equal(t, notes, *m.FeeCalculationNotes)

	base := 11000.0
	require.True(t, ApplyFeeCalculationUpdate(m, &UpdateFeeCalculationRequest{BaseAmount: &base}))
	require.True(t, m.FeeCalculationBaseAmount.Equal(decimal.NewFromInt(11000)))
}

func TestApplyCalculatorOutputRewritesDerived(t *testing.T) {
	m := &model.FeeCalculationModel{
		FeeCalculationBaseAmount:          decimal.NewFromInt(10000),
		FeeCalculationApplyInflationIndex: true,
		FeeCalculationInflationRate:       decimal.NewFromInt(3),
	}

	ApplyCalculatorOutput(m, calc.CalculateFeeAmounts(CalcInput(m)))
	require.True(t, m.FeeCalculationFinalAmount.Equal(decimal.NewFromInt(10300)))
	require.True(t, m.FeeCalculationVATAmount.Equal(decimal.NewFromInt(1854)))
	require.True(t, m.FeeCalculationTotalAmount.Equal(decimal.NewFromInt(12154)))
}
