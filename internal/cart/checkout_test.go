package cart

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/errors"
)

func TestBuildCheckoutMessageText(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, NewMemoryStorage())

	rosary := Product{ID: "A", Name: "Rosário de Madeira", Price: price(t, "29.90")}
	require.NoError(t, s.Add(ctx, rosary))
	require.NoError(t, s.Add(ctx, rosary))
	require.NoError(t, s.Add(ctx, Product{ID: "B", Name: "Terço de Cristal", Price: price(t, "1234.5")}))

	summary, err := s.BuildCheckoutMessage()
	require.NoError(t, err)

	want := "🛒 *Pedido — MFG Arte e Fé*\n\n" +
		"1. *Rosário de Madeira*\n" +
		"   Qtd: 2 × R$ 29,90\n" +
		"   Subtotal: R$ 59,80\n\n" +
		"2. *Terço de Cristal*\n" +
		"   Qtd: 1 × R$ 1234,50\n" +
		"   Subtotal: R$ 1234,50\n\n" +
		"──────────────\n" +
		"*Total: R$ 1294,30*\n" +
		"*Itens: 3*\n\n" +
		"Olá! Gostaria de finalizar este pedido. 😊"
	text, err := summary.Text()
	require.NoError(t, err)
	assert.Equal(t, want, text)

	require.Len(t, summary.Lines, 2)
	assert.Equal(t, 1, summary.Lines[0].Position)
	assert.True(t, summary.Lines[0].Subtotal.Equal(price(t, "59.80")))
	assert.Equal(t, 3, summary.TotalItems)
}

func TestCheckoutOnEmptyCartRefuses(t *testing.T) {
	s, _, _ := newTestStore(t, NewMemoryStorage())

	_, err := s.BuildCheckoutMessage()
	require.ErrorIs(t, err, ErrEmptyCart)

	link, err := s.CheckoutLink("5511999999999")
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, link)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))

	// Emptiness wins over a bad phone so the shopper sees the right refusal.
	_, err = s.CheckoutLink("abc")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutLinkEncodesMessage(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, NewMemoryStorage())
	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "Terço & Cia + 100%", Price: price(t, "10")}))

	link, err := s.CheckoutLink("+55 (11) 99999-9999")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511999999999?text="), link)
	assert.NotContains(t, link, "+", "spaces must be %20 and plus signs escaped")
	assert.NotContains(t, link, " ")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	summary, err := s.BuildCheckoutMessage()
	require.NoError(t, err)
	text, err := summary.Text()
	require.NoError(t, err)
	assert.Equal(t, text, parsed.Query().Get("text"))
	assert.Len(t, parsed.Query(), 1)
}

func TestCheckoutLinkKeepsURIComponentMarks(t *testing.T) {
	link, err := ComposeLink("https://wa.me", "5511999999999", "*Pedido* Olá! (it's ~ok_-.)")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5511999999999?text=*Pedido*%20Ol%C3%A1!%20(it's%20~ok_-.)", link)

	// Reserved characters are still escaped.
	assert.Equal(t, "a%2Bb%26c%3Dd%25e%23f%2Fg%3Fh", encodeComponent("a+b&c=d%e#f/g?h"))
}

func TestCheckoutReturnsMessageAndLinkFromOneSnapshot(t *testing.T) {
	ctx := context.Background()
	rec := newCountingRecorder()
	s, err := NewStore(ctx, StoreParams{Key: testKey, Storage: NewMemoryStorage(), Metrics: rec})
	require.NoError(t, err)

	_, err = s.Checkout("5511999999999")
	require.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "Vela", Price: price(t, "7.25")}))
	_, err = s.Checkout("abc")
	require.Error(t, err)

	c, err := s.Checkout("5511999999999")
	require.NoError(t, err)
	parsed, err := url.Parse(c.Link)
	require.NoError(t, err)
	assert.Equal(t, c.Message, parsed.Query().Get("text"))
	assert.Equal(t, 1, c.Summary.TotalItems)

	_, err = s.CheckoutLink("5511999999999")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"empty": 1, "failed": 1, "link": 1}, rec.checkouts)
}

func TestCheckoutLinkCustomBaseURL(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(ctx, StoreParams{Key: testKey, Storage: NewMemoryStorage(), LinkBaseURL: "https://api.whatsapp.com/send/"})
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "A", Price: decimal.NewFromInt(1)}))

	link, err := s.CheckoutLink("5511999999999")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://api.whatsapp.com/send/5511999999999?text="), link)
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"5511999999999":       "5511999999999",
		"+55 11 99999-9999":   "5511999999999",
		"+1 (415) 555.0100":   "14155550100",
		"  +351 912 345 678 ": "351912345678",
	}
	for raw, want := range cases {
		got, err := NormalizePhone(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "1234567", "55119999999999999", "55-11-abc", "+"} {
		_, err := NormalizePhone(bad)
		require.Error(t, err, bad)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	}
}

func TestComposeLinkRejectsRelativeBase(t *testing.T) {
	_, err := ComposeLink("wa.me", "5511999999999", "oi")
	assert.Error(t, err)

	link, err := ComposeLink("https://wa.me/", "5511999999999", "olá mundo")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5511999999999?text=ol%C3%A1%20mundo", link)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "29,90", FormatAmount(price(t, "29.9")))
	assert.Equal(t, "0,00", FormatAmount(decimal.Zero))
	assert.Equal(t, "1234,57", FormatAmount(price(t, "1234.567")))
	assert.Equal(t, "0,30", FormatAmount(price(t, "0.1").Add(price(t, "0.2"))))
}

func TestNewCheckoutSummaryEmpty(t *testing.T) {
	_, err := NewCheckoutSummary(nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}
