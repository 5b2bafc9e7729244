package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is the catalog data needed to add an item to the cart.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
	ImageURL string
}

// LineItem is one product entry in the cart, uniquely keyed by ProductID.
type LineItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Category  string
	ImageURL  string
	Quantity  int
}

// snapshotRecord is the persisted shape of a line item. The field set and
// names are the storage contract for the "cart" key and must stay stable.
type snapshotRecord struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	ImageURL string  `json:"image_url"`
	Quantity int     `json:"quantity"`
}

// encodeSnapshot serializes the full cart as the JSON array stored under the
// snapshot key. There is no delta format; every save rewrites everything.
func encodeSnapshot(items []LineItem) ([]byte, error) {
	records := make([]snapshotRecord, len(items))
	for i, item := range items {
		records[i] = snapshotRecord{
			ID:       item.ProductID,
			Name:     item.Name,
			Price:    item.UnitPrice.InexactFloat64(),
			Category: item.Category,
			ImageURL: item.ImageURL,
			Quantity: item.Quantity,
		}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding cart snapshot: %w", err)
	}
	return payload, nil
}

// decodeSnapshot parses a persisted snapshot back into line items. It also
// repairs invariant violations in tampered or legacy payloads: duplicate
// product ids are merged and rows with quantity <= 0 or negative price are
// dropped.
func decodeSnapshot(payload []byte) ([]LineItem, error) {
	var records []snapshotRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decoding cart snapshot: %w", err)
	}

	items := make([]LineItem, 0, len(records))
	index := make(map[string]int, len(records))
	for _, rec := range records {
		if rec.ID == "" || rec.Quantity <= 0 || rec.Price < 0 {
			continue
		}
		if at, ok := index[rec.ID]; ok {
			items[at].Quantity += rec.Quantity
			continue
		}
		index[rec.ID] = len(items)
		items = append(items, LineItem{
			ProductID: rec.ID,
			Name:      rec.Name,
			UnitPrice: decimal.NewFromFloat(rec.Price),
			Category:  rec.Category,
			ImageURL:  rec.ImageURL,
			Quantity:  rec.Quantity,
		})
	}
	return items, nil
}
