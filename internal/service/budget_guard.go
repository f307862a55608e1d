package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetLine is the slice of a PO line the budget guard inspects
type BudgetLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// BudgetLimits holds the ceilings for one item, derived on demand from the
// source indent or BOQ at validation time and never cached across requests.
// Nil ceilings mean unconstrained. ConsumedQty is the quantity sibling
// orders against the same source have already taken.
type BudgetLimits struct {
	MaxQty      *decimal.Decimal
	MaxRate     *decimal.Decimal
	MaxValue    *decimal.Decimal
	ConsumedQty decimal.Decimal
}

// ValidateBudget checks every line against its item's ceilings and returns
// nil when all pass. All violations are collected into one error so the
// client can attribute each to its row.
func ValidateBudget(lines []BudgetLine, limitsByItem map[uuid.UUID]BudgetLimits) *ExceededLimitsError {
	var violations []LimitViolation

	for _, line := range lines {
		limits, ok := limitsByItem[line.ItemID]
		if !ok {
			continue
		}

		if limits.MaxQty != nil {
			used := limits.ConsumedQty.Add(line.Quantity)
			if used.GreaterThan(*limits.MaxQty) {
				violations = append(violations, LimitViolation{
					Kind:   LimitKindItem,
					ItemID: line.ItemID,
					Usage:  used.String() + ":" + limits.MaxQty.String(),
				})
			}
		}

		if limits.MaxRate != nil && limits.MaxRate.IsPositive() && line.Rate.GreaterThan(*limits.MaxRate) {
			violations = append(violations, LimitViolation{
				Kind:   LimitKindRate,
				ItemID: line.ItemID,
				Usage:  line.Rate.String() + ":" + limits.MaxRate.String(),
			})
		}

		if limits.MaxValue != nil && limits.MaxValue.IsPositive() && line.Amount.GreaterThan(*limits.MaxValue) {
			violations = append(violations, LimitViolation{
				Kind:   LimitKindValue,
				ItemID: line.ItemID,
				Usage:  line.Amount.String() + ":" + limits.MaxValue.String(),
			})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &ExceededLimitsError{Violations: violations}
}

// CeilingStrategy computes the quantity ceiling a BOQ monthly quota grants
// for a delivery window. Pluggable: the apportionment formula is product
// policy, not an invariant.
type CeilingStrategy func(monthlyQty decimal.Decimal, from, to time.Time) decimal.Decimal

// MonthlyQuotaCeiling apportions the monthly quota linearly over the window:
// monthlyQty / daysInMonth × windowDays, evaluated per month the window
// touches.
func MonthlyQuotaCeiling(monthlyQty decimal.Decimal, from, to time.Time) decimal.Decimal {
	if !to.After(from) {
		return monthlyQty
	}

	total := decimal.Zero
	cursor := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	for cursor.Before(end) {
		monthStart := time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, time.UTC)
		nextMonth := monthStart.AddDate(0, 1, 0)
		daysInMonth := decimal.NewFromInt(int64(nextMonth.Sub(monthStart).Hours() / 24))

		sliceEnd := nextMonth
		if end.Before(sliceEnd) {
			sliceEnd = end
		}
		sliceDays := decimal.NewFromInt(int64(sliceEnd.Sub(cursor).Hours() / 24))

		total = total.Add(monthlyQty.Div(daysInMonth).Mul(sliceDays))
		cursor = nextMonth
	}

	return total.Round(4)
}
