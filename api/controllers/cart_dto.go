package controllers

import (
	"github.com/shopspring/decimal"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/notifications"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/storefront"
)

type addItemRequest struct {
	ID    string           `json:"id" validate:"required,max=128"`
	Name  string           `json:"name" validate:"omitempty,max=256"`
	Price *decimal.Decimal `json:"price"`
}

type updateItemRequest struct {
	Qty   *int `json:"qty" validate:"required_without=Delta,excluded_with=Delta"`
	Delta *int `json:"delta" validate:"required_without=Qty"`
}

type cartItemResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Price             string `json:"price"`
	PriceFormatted    string `json:"priceFormatted"`
	Qty               int    `json:"qty"`
	Subtotal          string `json:"subtotal"`
	SubtotalFormatted string `json:"subtotalFormatted"`
}

type cartResponse struct {
	Items               []cartItemResponse    `json:"items"`
	TotalItems          int                   `json:"totalItems"`
	TotalPrice          string                `json:"totalPrice"`
	TotalPriceFormatted string                `json:"totalPriceFormatted"`
	Badge               storefront.Badge      `json:"badge"`
	Toasts              []notifications.Toast `json:"toasts,omitempty"`
}

type checkoutResponse struct {
	Link    string `json:"link"`
	Message string `json:"message"`
}

func newCartResponse(snap cart.Snapshot, session *storefront.Session) cartResponse {
	resp := cartResponse{
		Items:               make([]cartItemResponse, 0, len(snap.Items)),
		TotalItems:          snap.TotalItems,
		TotalPrice:          snap.TotalPrice.StringFixed(2),
		TotalPriceFormatted: storefront.FormatBRL(snap.TotalPrice),
	}
	for _, item := range snap.Items {
		subtotal := item.Subtotal()
		resp.Items = append(resp.Items, cartItemResponse{
			ID:                item.ID,
			Name:              item.Name,
			Price:             item.Price.StringFixed(2),
			PriceFormatted:    storefront.FormatBRL(item.Price),
			Qty:               item.Qty,
			Subtotal:          subtotal.StringFixed(2),
			SubtotalFormatted: storefront.FormatBRL(subtotal),
		})
	}
	if session != nil {
		resp.Badge = session.Badge.State()
		resp.Toasts = session.Toaster.Active()
	}
	return resp
}
