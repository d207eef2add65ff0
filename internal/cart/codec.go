package cart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// storedItem is the persisted shape of a line item. It matches the value the
// storefront kept in the browser's localStorage, so prices stay JSON numbers.
type storedItem struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
	Qty   int         `json:"qty"`
}

func encodeItems(items []LineItem) ([]byte, error) {
	stored := make([]storedItem, 0, len(items))
	for _, item := range items {
		stored = append(stored, storedItem{
			ID:    item.ID,
			Name:  item.Name,
			Price: json.Number(item.Price.String()),
			Qty:   item.Qty,
		})
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return payload, nil
}

// decodeItems parses a persisted cart. Any invalid entry rejects the whole
// payload; callers treat that as an empty cart.
func decodeItems(raw []byte) ([]LineItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var stored []storedItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	items := make([]LineItem, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i, entry := range stored {
		if entry.ID == "" {
			return nil, fmt.Errorf("decode cart: item %d has no id", i)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("decode cart: duplicate item id %q", entry.ID)
		}
		seen[entry.ID] = struct{}{}

		if entry.Qty < 1 {
			return nil, fmt.Errorf("decode cart: item %q has quantity %d", entry.ID, entry.Qty)
		}
		price, err := decimal.NewFromString(entry.Price.String())
		if err != nil {
			return nil, fmt.Errorf("decode cart: item %q price: %w", entry.ID, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("decode cart: item %q has negative price", entry.ID)
		}

		items = append(items, LineItem{ID: entry.ID, Name: entry.Name, Price: price, Qty: entry.Qty})
	}
	return items, nil
}
