package controllers

import (
	"net/http"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/responses"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/catalog"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/storefront"
)

type productResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	PriceFormatted string `json:"priceFormatted"`
	Description    string `json:"description,omitempty"`
	Image          string `json:"image,omitempty"`
}

// ProductsList exposes the storefront catalog in file order.
func ProductsList(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := make([]productResponse, 0, cat.Len())
		for _, p := range cat.All() {
			items = append(items, productResponse{
				ID:             p.ID,
				Name:           p.Name,
				Price:          p.Price.StringFixed(2),
				PriceFormatted: storefront.FormatBRL(p.Price),
				Description:    p.Description,
				Image:          p.Image,
			})
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
