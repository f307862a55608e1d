package service

import (
	"backend/internal/model"

	"github.com/shopspring/decimal"
)

// Pure amount computation for purchase order lines and headers. These
// functions know nothing about approval stages; callers pick which quantity
// field to feed in. All results are rounded to 2 decimal places, half away
// from zero.

// LineAmounts holds the derived monetary fields for a single PO line
type LineAmounts struct {
	Base     decimal.Decimal // qty × rate, unrounded
	Discount decimal.Decimal
	Taxable  decimal.Decimal
	Cgst     decimal.Decimal
	Sgst     decimal.Decimal
	Igst     decimal.Decimal
	Amount   decimal.Decimal
}

// HeaderTotals holds the aggregated totals for a purchase order header
type HeaderTotals struct {
	TotalAmount   decimal.Decimal
	TotalCgst     decimal.Decimal
	TotalSgst     decimal.Decimal
	TotalIgst     decimal.Decimal
	TotalDiscount decimal.Decimal
}

// Charge is a supplementary header charge (transit insurance, transport,
// GST reverse charge). Its amount joins the header total only when the
// status is EXCLUSIVE.
type Charge struct {
	Status string
	Amount decimal.Decimal
}

const round2Places = 2

// ComputeLineAmounts derives every monetary field of a line from its raw
// numeric inputs. Percent clamping to [0,100] is the caller's job; garbage
// percents produce garbage totals but never an error.
func ComputeLineAmounts(qty, rate, discountPct, cgstPct, sgstPct, igstPct decimal.Decimal) LineAmounts {
	hundred := decimal.NewFromInt(100)

	base := qty.Mul(rate)
	discount := base.Mul(discountPct).Div(hundred).Round(round2Places)
	taxable := base.Sub(discount).Round(round2Places)
	cgst := taxable.Mul(cgstPct).Div(hundred).Round(round2Places)
	sgst := taxable.Mul(sgstPct).Div(hundred).Round(round2Places)
	igst := taxable.Mul(igstPct).Div(hundred).Round(round2Places)
	amount := taxable.Add(cgst).Add(sgst).Add(igst).Round(round2Places)

	return LineAmounts{
		Base:     base,
		Discount: discount,
		Taxable:  taxable,
		Cgst:     cgst,
		Sgst:     sgst,
		Igst:     igst,
		Amount:   amount,
	}
}

// ComputeHeaderTotals sums the line amounts and adds each charge only when
// its status is EXCLUSIVE. INCLUSIVE charges are assumed folded into line
// rates; NOT_APPLICABLE charges are absent. Both contribute zero.
func ComputeHeaderTotals(lines []LineAmounts, transitInsurance, transportCharge, gstReverse Charge) HeaderTotals {
	var t HeaderTotals
	t.TotalAmount = decimal.Zero
	t.TotalCgst = decimal.Zero
	t.TotalSgst = decimal.Zero
	t.TotalIgst = decimal.Zero
	t.TotalDiscount = decimal.Zero

	for _, l := range lines {
		t.TotalAmount = t.TotalAmount.Add(l.Amount)
		t.TotalCgst = t.TotalCgst.Add(l.Cgst)
		t.TotalSgst = t.TotalSgst.Add(l.Sgst)
		t.TotalIgst = t.TotalIgst.Add(l.Igst)
		t.TotalDiscount = t.TotalDiscount.Add(l.Discount)
	}

	for _, c := range []Charge{transitInsurance, transportCharge, gstReverse} {
		if c.Status == model.ChargeExclusive {
			t.TotalAmount = t.TotalAmount.Add(c.Amount)
		}
	}

	t.TotalAmount = t.TotalAmount.Round(round2Places)
	return t
}
