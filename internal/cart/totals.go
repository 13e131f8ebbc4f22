package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

// 税率（固定7%）
var TaxRate = decimal.RequireFromString("0.07")

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Σ price × quantity（数量0の明細は0）
func Subtotal(state model.CartState) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range state.Items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(it.Quantity))
		sum = sum.Add(line)
	}
	return sum
}

func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

func ComputeTotals(state model.CartState) Totals {
	sub := Subtotal(state)
	tax := Tax(sub)
	return Totals{
		Subtotal: sub,
		Tax:      tax,
		Total:    sub.Add(tax),
	}
}
