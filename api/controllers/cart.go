package controllers

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/middleware"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/responses"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/validators"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/catalog"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/storefront"
	pkgerrors "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/errors"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

// CartStores resolves the cart of a shopper session.
type CartStores interface {
	Store(ctx context.Context, session string) (*cart.Store, error)
}

func storeFromRequest(r *http.Request, stores CartStores) (*cart.Store, string, error) {
	if stores == nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable")
	}
	session := middleware.SessionIDFromContext(r.Context())
	if session == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeInternal, "cart session missing")
	}
	store, err := stores.Store(r.Context(), session)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, "", err
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return store, session, nil
}

func writeCart(w http.ResponseWriter, store *cart.Store, sessions *storefront.Sessions, session string) {
	var sess *storefront.Session
	if sessions != nil {
		sess = sessions.Get(session)
	}
	responses.WriteSuccess(w, newCartResponse(store.Snapshot(), sess))
}

// CartFetch returns the session's cart with its badge.
func CartFetch(stores CartStores, sessions *storefront.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, session, err := storeFromRequest(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, store, sessions, session)
	}
}

// CartAddItem adds one unit of a product. Catalog products use the catalog's
// name and price; other ids must carry both.
func CartAddItem(stores CartStores, sessions *storefront.Sessions, cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, session, err := storeFromRequest(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := resolveProduct(payload, cat)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithItemID(r.Context(), product.ID)
		if err := store.Add(ctx, product); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, store, sessions, session)
	}
}

func resolveProduct(payload addItemRequest, cat *catalog.Catalog) (cart.Product, error) {
	if cat != nil {
		if p, ok := cat.Lookup(payload.ID); ok {
			return p.CartProduct(), nil
		}
	}
	details := map[string]string{}
	if payload.Name == "" {
		details["name"] = "is required for products outside the catalog"
	}
	if payload.Price == nil {
		details["price"] = "is required for products outside the catalog"
	}
	if len(details) > 0 {
		return cart.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return cart.Product{ID: payload.ID, Name: payload.Name, Price: *payload.Price}, nil
}

// CartUpdateItem sets ({qty}) or moves ({delta}) a line's quantity, clamped at 1.
func CartUpdateItem(stores CartStores, sessions *storefront.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, session, err := storeFromRequest(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID := chi.URLParam(r, "itemId")
		ctx := logg.WithItemID(r.Context(), itemID)
		if payload.Qty != nil {
			err = store.UpdateQuantity(ctx, itemID, *payload.Qty)
		} else {
			err = store.ChangeQuantity(ctx, itemID, *payload.Delta)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, store, sessions, session)
	}
}

// CartRemoveItem drops a line. Unknown ids succeed.
func CartRemoveItem(stores CartStores, sessions *storefront.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, session, err := storeFromRequest(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID := chi.URLParam(r, "itemId")
		ctx := logg.WithItemID(r.Context(), itemID)
		if err := store.Remove(ctx, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, store, sessions, session)
	}
}

func CartClear(stores CartStores, sessions *storefront.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, session, err := storeFromRequest(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, store, sessions, session)
	}
}

// CartToasts lists the session's live toasts.
func CartToasts(sessions *storefront.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middleware.SessionIDFromContext(r.Context())
		if sessions == nil || session == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": sessions.Get(session).Toaster.Active()})
	}
}

// CartView renders the cart drawer HTML fragment.
func CartView(stores CartStores, renderer *storefront.Renderer, phone string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _, err := storeFromRequest(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap := store.Snapshot()
		link := ""
		if len(snap.Items) > 0 {
			link, err = store.CheckoutLink(phone)
			if err != nil && !errors.Is(err, cart.ErrEmptyCart) {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "cart.view_link_failed")
			}
		}

		var buf bytes.Buffer
		if err := renderer.RenderDrawer(&buf, snap, link); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render cart"))
			return
		}
		responses.WriteHTML(w, http.StatusOK, buf.Bytes())
	}
}

// CartCheckout returns the WhatsApp deep link and the message it carries.
// An empty cart is refused with EMPTY_CART.
func CartCheckout(stores CartStores, phone string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _, err := storeFromRequest(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkout, err := store.Checkout(phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{
			"total_items": checkout.Summary.TotalItems,
			"total_price": checkout.Summary.TotalPrice.StringFixed(2),
		})
		logg.Info(ctx, "cart.checkout_link")
		responses.WriteSuccess(w, checkoutResponse{Link: checkout.Link, Message: checkout.Message})
	}
}
