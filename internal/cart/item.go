package cart

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/errors"
)

var validate = validator.New()

// Product is the payload of an add: what the storefront knows about the item
// being put in the cart.
type Product struct {
	ID    string `validate:"required,max=128"`
	Name  string `validate:"required,max=256"`
	Price decimal.Decimal
}

// LineItem is one product entry in the cart.
type LineItem struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Qty   int
}

// Subtotal returns price × quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Qty)))
}

func (p Product) normalized() Product {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	return p
}

func (p Product) validate() error {
	if err := validate.Struct(p); err != nil {
		details := map[string]string{}
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				details[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product").WithDetails(details)
	}
	if p.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").
			WithDetails(map[string]string{"price": "gte"})
	}
	return nil
}

func totalItems(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Qty
	}
	return total
}

func totalPrice(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func indexOf(items []LineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
