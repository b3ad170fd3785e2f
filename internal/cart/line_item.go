package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LineItem is one entry in a shopper's cart. Prices are snapshotted at
// add time so later catalog edits never change an open cart.
type LineItem struct {
	ProductID       string          `json:"product_id"`
	Title           string          `json:"title"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ImageURL        string          `json:"image_url,omitempty"`
	Quantity        int             `json:"quantity"`
	SelectedVariant string          `json:"selected_variant,omitempty"`
}

// Subtotal is the line total for the item.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// persistedItem mirrors the stored JSON shape with loose typing, so
// snapshots written by older clients still load.
type persistedItem struct {
	ProductID       string          `json:"product_id"`
	Title           string          `json:"title"`
	UnitPrice       json.RawMessage `json:"unit_price"`
	ImageURL        string          `json:"image_url"`
	Quantity        int             `json:"quantity"`
	SelectedVariant json.RawMessage `json:"selected_variant"`
}

// encodeItems renders the cart snapshot for persistence.
func encodeItems(items []LineItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeItems parses a persisted snapshot, silently dropping entries
// that are malformed: missing product id or title, unparseable price,
// or a non-string variant payload. A corrupt blob yields an empty
// cart, never an error.
func decodeItems(blob string) []LineItem {
	if blob == "" {
		return nil
	}

	var raw []persistedItem
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil
	}

	items := make([]LineItem, 0, len(raw))
	for _, entry := range raw {
		if entry.ProductID == "" || entry.Title == "" {
			continue
		}
		price, ok := coercePrice(entry.UnitPrice)
		if !ok {
			continue
		}

		item := LineItem{
			ProductID: entry.ProductID,
			Title:     entry.Title,
			UnitPrice: price,
			ImageURL:  entry.ImageURL,
			Quantity:  entry.Quantity,
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		// non-string variants (objects, numbers) degrade to absent
		if len(entry.SelectedVariant) > 0 {
			var variant string
			if err := json.Unmarshal(entry.SelectedVariant, &variant); err == nil {
				item.SelectedVariant = variant
			}
		}
		items = append(items, item)
	}
	return items
}

// coercePrice accepts a JSON number or a numeric string and returns
// the decimal value. Anything else is rejected.
func coercePrice(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Decimal{}, false
	}
	var price decimal.Decimal
	if err := json.Unmarshal(raw, &price); err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}
