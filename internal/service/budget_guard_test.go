package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestValidateBudget(t *testing.T) {
	itemA := uuid.New()
	itemB := uuid.New()

	t.Run("all within limits", func(t *testing.T) {
		lines := []BudgetLine{
			{ItemID: itemA, Quantity: d("10"), Rate: d("50"), Amount: d("500")},
		}
		limits := map[uuid.UUID]BudgetLimits{
			itemA: {MaxQty: decPtr("100"), MaxRate: decPtr("60"), MaxValue: decPtr("1000")},
		}

		assert.Nil(t, ValidateBudget(lines, limits))
	})

	t.Run("sibling consumption counts against quantity ceiling", func(t *testing.T) {
		lines := []BudgetLine{
			{ItemID: itemA, Quantity: d("20"), Rate: d("50"), Amount: d("1000")},
		}
		limits := map[uuid.UUID]BudgetLimits{
			itemA: {MaxQty: decPtr("100"), ConsumedQty: d("90")},
		}

		err := ValidateBudget(lines, limits)
		require.NotNil(t, err)
		require.Len(t, err.Violations, 1)
		assert.Equal(t, LimitKindItem, err.Violations[0].Kind)
		assert.Equal(t, itemA, err.Violations[0].ItemID)
		assert.Equal(t, "110:100", err.Violations[0].Usage)
	})

	t.Run("exactly at the ceiling passes", func(t *testing.T) {
		lines := []BudgetLine{
			{ItemID: itemA, Quantity: d("10"), Rate: d("50"), Amount: d("500")},
		}
		limits := map[uuid.UUID]BudgetLimits{
			itemA: {MaxQty: decPtr("100"), ConsumedQty: d("90")},
		}

		assert.Nil(t, ValidateBudget(lines, limits))
	})

	t.Run("rate and value violations collect together", func(t *testing.T) {
		lines := []BudgetLine{
			{ItemID: itemA, Quantity: d("5"), Rate: d("120"), Amount: d("600")},
		}
		limits := map[uuid.UUID]BudgetLimits{
			itemA: {MaxRate: decPtr("100"), MaxValue: decPtr("500")},
		}

		err := ValidateBudget(lines, limits)
		require.NotNil(t, err)
		require.Len(t, err.Violations, 2)
		assert.Equal(t, LimitKindRate, err.Violations[0].Kind)
		assert.Equal(t, "120:100", err.Violations[0].Usage)
		assert.Equal(t, LimitKindValue, err.Violations[1].Kind)
		assert.Equal(t, "600:500", err.Violations[1].Usage)
	})

	t.Run("items without limits are unconstrained", func(t *testing.T) {
		lines := []BudgetLine{
			{ItemID: itemB, Quantity: d("99999"), Rate: d("99999"), Amount: d("99999")},
		}
		limits := map[uuid.UUID]BudgetLimits{
			itemA: {MaxQty: decPtr("1")},
		}

		assert.Nil(t, ValidateBudget(lines, limits))
	})

	t.Run("violations span multiple lines", func(t *testing.T) {
		lines := []BudgetLine{
			{ItemID: itemA, Quantity: d("200"), Rate: d("10"), Amount: d("2000")},
			{ItemID: itemB, Quantity: d("5"), Rate: d("999"), Amount: d("4995")},
		}
		limits := map[uuid.UUID]BudgetLimits{
			itemA: {MaxQty: decPtr("100")},
			itemB: {MaxRate: decPtr("500")},
		}

		err := ValidateBudget(lines, limits)
		require.NotNil(t, err)
		assert.Len(t, err.Violations, 2)
	})
}

func TestMonthlyQuotaCeiling(t *testing.T) {
	t.Run("full single month", func(t *testing.T) {
		from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

		got := MonthlyQuotaCeiling(d("300"), from, to)
		assert.True(t, got.Equal(d("300")), "got %s", got)
	})

	t.Run("half month", func(t *testing.T) {
		from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)

		// 300 / 30 days × 15 days
		got := MonthlyQuotaCeiling(d("300"), from, to)
		assert.True(t, got.Equal(d("150")), "got %s", got)
	})

	t.Run("window spanning two months", func(t *testing.T) {
		from := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, time.July, 16, 0, 0, 0, 0, time.UTC)

		// 15 days of June (300/30×15 = 150) + 15 days of July (300/31×15 ≈ 145.1613)
		got := MonthlyQuotaCeiling(d("300"), from, to)
		want := d("150").Add(d("300").Div(d("31")).Mul(d("15"))).Round(4)
		assert.True(t, got.Equal(want), "got %s want %s", got, want)
	})

	t.Run("degenerate window falls back to the monthly quota", func(t *testing.T) {
		at := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

		got := MonthlyQuotaCeiling(d("300"), at, at)
		assert.True(t, got.Equal(d("300")))

		got = MonthlyQuotaCeiling(d("300"), at, at.AddDate(0, 0, -5))
		assert.True(t, got.Equal(d("300")))
	})
}
