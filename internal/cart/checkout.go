package cart

import (
	"errors"
	"net/url"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/errors"
)

// DefaultLinkBaseURL is the WhatsApp click-to-chat host.
const DefaultLinkBaseURL = "https://wa.me"

const (
	checkoutTitle    = "🛒 *Pedido — MFG Arte e Fé*"
	checkoutGreeting = "Olá! Gostaria de finalizar este pedido. 😊"
)

// ErrEmptyCart is returned when a checkout is attempted with no line items.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeEmptyCart, "Seu carrinho está vazio!")

var messageTmpl = template.Must(template.New("checkout").
	Funcs(template.FuncMap{"amount": FormatAmount}).
	Parse("{{.Title}}\n\n" +
		"{{range .Lines}}{{.Position}}. *{{.Name}}*\n" +
		"   Qtd: {{.Qty}} × R$ {{amount .UnitPrice}}\n" +
		"   Subtotal: R$ {{amount .Subtotal}}\n\n" +
		"{{end}}" +
		"──────────────\n" +
		"*Total: R$ {{amount .TotalPrice}}*\n" +
		"*Itens: {{.TotalItems}}*\n\n" +
		"{{.Greeting}}"))

// SummaryLine is one numbered entry of the order summary.
type SummaryLine struct {
	Position  int
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// CheckoutSummary is the order handed to the shop over WhatsApp.
type CheckoutSummary struct {
	Title      string
	Lines      []SummaryLine
	TotalPrice decimal.Decimal
	TotalItems int
	Greeting   string
}

// Text renders the summary as the chat message body.
func (c CheckoutSummary) Text() (string, error) {
	var sb strings.Builder
	if err := messageTmpl.Execute(&sb, c); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render checkout message")
	}
	return sb.String(), nil
}

// Checkout is an order summary with the deep link carrying its text, both
// taken from the same cart state.
type Checkout struct {
	Summary CheckoutSummary
	Message string
	Link    string
}

// NewCheckoutSummary builds the summary for items, or ErrEmptyCart.
func NewCheckoutSummary(items []LineItem) (CheckoutSummary, error) {
	if len(items) == 0 {
		return CheckoutSummary{}, ErrEmptyCart
	}
	lines := make([]SummaryLine, 0, len(items))
	for i, item := range items {
		lines = append(lines, SummaryLine{
			Position:  i + 1,
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: item.Price,
			Subtotal:  item.Subtotal(),
		})
	}
	return CheckoutSummary{
		Title:      checkoutTitle,
		Lines:      lines,
		TotalPrice: totalPrice(items),
		TotalItems: totalItems(items),
		Greeting:   checkoutGreeting,
	}, nil
}

// BuildCheckoutMessage summarises the current cart. An empty cart yields
// ErrEmptyCart.
func (s *Store) BuildCheckoutMessage() (CheckoutSummary, error) {
	return NewCheckoutSummary(s.Items())
}

// CheckoutLink returns the deep link opening a chat with phone pre-filled
// with the order summary. It does not open it and is not counted as a
// checkout.
func (s *Store) CheckoutLink(phone string) (string, error) {
	c, err := s.prepareCheckout(phone)
	if err != nil {
		return "", err
	}
	return c.Link, nil
}

// Checkout builds the summary and its link from one snapshot of the cart and
// records the attempt.
func (s *Store) Checkout(phone string) (Checkout, error) {
	c, err := s.prepareCheckout(phone)
	switch {
	case errors.Is(err, ErrEmptyCart):
		s.metrics.IncCheckout("empty")
	case err != nil:
		s.metrics.IncCheckout("failed")
	default:
		s.metrics.IncCheckout("link")
	}
	return c, err
}

func (s *Store) prepareCheckout(phone string) (Checkout, error) {
	summary, err := NewCheckoutSummary(s.Items())
	if err != nil {
		return Checkout{}, err
	}
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return Checkout{}, err
	}
	text, err := summary.Text()
	if err != nil {
		return Checkout{}, err
	}
	link, err := ComposeLink(s.linkBaseURL, normalized, text)
	if err != nil {
		return Checkout{}, err
	}
	return Checkout{Summary: summary, Message: text, Link: link}, nil
}

// ComposeLink builds <base>/<phone>?text=<percent-encoded text>.
func ComposeLink(baseURL, phone, text string) (string, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "invalid checkout link base url")
	}
	return base.String() + "/" + phone + "?text=" + encodeComponent(text), nil
}

// NormalizePhone strips formatting from a phone number and checks it is a
// click-to-chat target: 8 to 15 digits, country code first, no leading +.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '+', ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, raw)
	if err := validate.Var(cleaned, "required,number,min=8,max=15"); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid phone number").
			WithDetails(map[string]string{"phone": raw})
	}
	return cleaned, nil
}

// FormatAmount renders a price with two fraction digits and a decimal comma.
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// componentUnescaper restores the marks a URI component keeps literal but
// url.QueryEscape encodes, and spaces as %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent percent-encodes s the way a URI component is encoded:
// unreserved characters and !*'() stay literal.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
