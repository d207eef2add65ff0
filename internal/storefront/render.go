package storefront

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

type drawerItem struct {
	ID        string
	Name      string
	UnitPrice string
	Qty       int
}

type drawerView struct {
	Empty        bool
	Items        []drawerItem
	TotalItems   int
	Total        string
	CheckoutLink template.URL
}

// Renderer draws the cart drawer fragment. Controls carry data-cart-action
// and data-item-id attributes for the page script to bind.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse storefront templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderDrawer writes the drawer for snap. An empty link renders a disabled
// checkout button.
func (r *Renderer) RenderDrawer(w io.Writer, snap cart.Snapshot, checkoutLink string) error {
	view := drawerView{
		Empty:        len(snap.Items) == 0,
		Items:        make([]drawerItem, 0, len(snap.Items)),
		TotalItems:   snap.TotalItems,
		Total:        FormatBRL(snap.TotalPrice),
		CheckoutLink: template.URL(checkoutLink),
	}
	for _, item := range snap.Items {
		view.Items = append(view.Items, drawerItem{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: FormatBRL(item.Price),
			Qty:       item.Qty,
		})
	}
	return r.tmpl.ExecuteTemplate(w, "drawer", view)
}
