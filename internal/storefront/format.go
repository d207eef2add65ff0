package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
)

// FormatBRL renders an amount the way the storefront shows prices: R$ 29,90.
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + cart.FormatAmount(d)
}
