package picnic

import (
	"encoding/json"
	"strconv"

	"github.com/recipecart/backend/internal/domain"
)

// ParseSearchResults normalizes a raw search payload into catalog products.
// The bridge is not strongly typed: depending on version the payload is a
// bare array, or an object wrapping the hits under "products" or "items",
// and ids/prices arrive as strings or numbers. Everything is coerced here
// so the scoring layer never touches the wire shape. Hits without an id or
// name are dropped.
func ParseSearchResults(payload json.RawMessage) []domain.CatalogProduct {
	raw := extractHitList(payload)

	products := make([]domain.CatalogProduct, 0, len(raw))
	for _, hit := range raw {
		product := domain.CatalogProduct{
			ID:           stringField(hit, "id", "product_id", "productId"),
			Name:         stringField(hit, "name", "display_name", "displayName"),
			UnitQuantity: stringField(hit, "unit_quantity", "unitQuantity"),
			Price:        intField(hit, "price", "display_price"),
			ImageURL:     stringField(hit, "image_url", "imageUrl"),
		}
		if product.ID == "" || product.Name == "" {
			continue
		}
		products = append(products, product)
	}
	return products
}

// extractHitList digs the hit array out of whichever wrapper the bridge used.
func extractHitList(payload json.RawMessage) []map[string]interface{} {
	var list []map[string]interface{}
	if err := json.Unmarshal(payload, &list); err == nil {
		return list
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		return nil
	}
	for _, key := range []string{"products", "items", "results"} {
		if raw, ok := wrapper[key]; ok {
			if err := json.Unmarshal(raw, &list); err == nil {
				return list
			}
		}
	}
	return nil
}

// stringField returns the first present key coerced to a string.
func stringField(hit map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := hit[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// intField returns the first present key coerced to an int.
func intField(hit map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		switch v := hit[key].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}
