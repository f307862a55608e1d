package service

import (
	"testing"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeLineAmounts(t *testing.T) {
	tests := []struct {
		name         string
		qty          string
		rate         string
		discountPct  string
		cgstPct      string
		sgstPct      string
		igstPct      string
		wantDiscount string
		wantTaxable  string
		wantCgst     string
		wantSgst     string
		wantIgst     string
		wantAmount   string
	}{
		{
			name: "intra-state with discount",
			qty:  "10", rate: "100", discountPct: "10", cgstPct: "9", sgstPct: "9", igstPct: "0",
			wantDiscount: "100.00", wantTaxable: "900.00",
			wantCgst: "81.00", wantSgst: "81.00", wantIgst: "0.00", wantAmount: "1062.00",
		},
		{
			name: "inter-state igst only",
			qty:  "5", rate: "200", discountPct: "0", cgstPct: "0", sgstPct: "0", igstPct: "18",
			wantDiscount: "0.00", wantTaxable: "1000.00",
			wantCgst: "0.00", wantSgst: "0.00", wantIgst: "180.00", wantAmount: "1180.00",
		},
		{
			name: "no tax no discount",
			qty:  "3", rate: "33.33", discountPct: "0", cgstPct: "0", sgstPct: "0", igstPct: "0",
			wantDiscount: "0.00", wantTaxable: "99.99",
			wantCgst: "0.00", wantSgst: "0.00", wantIgst: "0.00", wantAmount: "99.99",
		},
		{
			name: "fractional qty rounds half away from zero",
			qty:  "2.5", rate: "40.01", discountPct: "5", cgstPct: "2.5", sgstPct: "2.5", igstPct: "0",
			// base = 100.025, discount = 5.00125 -> 5.00, taxable = 95.025 -> 95.03
			wantDiscount: "5.00", wantTaxable: "95.03",
			wantCgst: "2.38", wantSgst: "2.38", wantIgst: "0.00", wantAmount: "99.79",
		},
		{
			name: "zero quantity",
			qty:  "0", rate: "100", discountPct: "10", cgstPct: "9", sgstPct: "9", igstPct: "0",
			wantDiscount: "0.00", wantTaxable: "0.00",
			wantCgst: "0.00", wantSgst: "0.00", wantIgst: "0.00", wantAmount: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLineAmounts(d(tt.qty), d(tt.rate), d(tt.discountPct), d(tt.cgstPct), d(tt.sgstPct), d(tt.igstPct))

			assert.Equal(t, tt.wantDiscount, got.Discount.StringFixed(2), "discount")
			assert.Equal(t, tt.wantTaxable, got.Taxable.StringFixed(2), "taxable")
			assert.Equal(t, tt.wantCgst, got.Cgst.StringFixed(2), "cgst")
			assert.Equal(t, tt.wantSgst, got.Sgst.StringFixed(2), "sgst")
			assert.Equal(t, tt.wantIgst, got.Igst.StringFixed(2), "igst")
			assert.Equal(t, tt.wantAmount, got.Amount.StringFixed(2), "amount")
		})
	}
}

func TestComputeHeaderTotals(t *testing.T) {
	lines := []LineAmounts{
		ComputeLineAmounts(d("10"), d("100"), d("10"), d("9"), d("9"), d("0")),
		ComputeLineAmounts(d("5"), d("200"), d("0"), d("0"), d("0"), d("18")),
	}

	t.Run("exclusive charges join the total", func(t *testing.T) {
		got := ComputeHeaderTotals(lines,
			Charge{Status: model.ChargeExclusive, Amount: d("50")},
			Charge{Status: model.ChargeExclusive, Amount: d("120.50")},
			Charge{Status: model.ChargeNotApplicable, Amount: d("0")},
		)

		// 1062.00 + 1180.00 + 50 + 120.50
		assert.Equal(t, "2412.50", got.TotalAmount.StringFixed(2))
		assert.Equal(t, "81.00", got.TotalCgst.StringFixed(2))
		assert.Equal(t, "81.00", got.TotalSgst.StringFixed(2))
		assert.Equal(t, "180.00", got.TotalIgst.StringFixed(2))
		assert.Equal(t, "100.00", got.TotalDiscount.StringFixed(2))
	})

	t.Run("inclusive charges contribute nothing", func(t *testing.T) {
		got := ComputeHeaderTotals(lines,
			Charge{Status: model.ChargeInclusive, Amount: d("50")},
			Charge{Status: model.ChargeInclusive, Amount: d("75")},
			Charge{Status: model.ChargeInclusive, Amount: d("25")},
		)

		assert.Equal(t, "2242.00", got.TotalAmount.StringFixed(2))
	})

	t.Run("no lines no charges", func(t *testing.T) {
		got := ComputeHeaderTotals(nil,
			Charge{Status: model.ChargeNotApplicable},
			Charge{Status: model.ChargeNotApplicable},
			Charge{Status: model.ChargeNotApplicable},
		)

		assert.True(t, got.TotalAmount.IsZero())
		assert.True(t, got.TotalDiscount.IsZero())
	})
}

func TestEffectiveQty(t *testing.T) {
	q1 := d("8")
	q2 := d("6")

	line := model.PurchaseOrderLine{Quantity: d("10")}
	assert.Equal(t, "10", line.EffectiveQty(model.POApprovalDraft).String())

	line.ApprovedQty1 = &q1
	assert.Equal(t, "8", line.EffectiveQty(model.POApprovalLevel1).String())
	// Level 2 falls back to approved qty 1 until qty 2 is set
	assert.Equal(t, "8", line.EffectiveQty(model.POApprovalLevel2).String())

	line.ApprovedQty2 = &q2
	assert.Equal(t, "6", line.EffectiveQty(model.POApprovalLevel2).String())
	assert.Equal(t, "6", line.EffectiveQty(model.POApprovalCompleted).String())
}
