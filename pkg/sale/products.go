package sale

import (
	"fmt"
	"strings"
)

// ProductEntry is one normalized line item: the resolved global product
// identity plus the net quantity (sold minus returned, floored at zero).
type ProductEntry struct {
	GlobalProductID   *string `json:"global_product_id"`
	GlobalProductName *string `json:"global_product_name"`
	Quantity          int     `json:"quantity"`
}

// UnknownProduct is the summary key for line items whose product could not
// be resolved to either an id or a name.
const UnknownProduct = "N/A"

// Key names tried, in order, when resolving the nested product reference and
// the sold quantity. Declarative so each schema variant is testable alone.
var (
	nestedProductKeys = []string{"product", "article"}
	productRefKeys    = []string{"product", "product_global", "global_product_id"}
	quantityKeys      = []string{"saleQuantity", "qty", "qte", "quantity"}
)

const returnedQuantityKey = "returnedQuantity"

// Normalize extracts the sale's line items in order and resolves each to a
// ProductEntry. catalog maps global product ids to display names; an id
// absent from the catalog yields a nil name. A sale with no line items
// yields nil.
func Normalize(r Record, catalog map[string]string) []ProductEntry {
	items := r.Items()
	if len(items) == 0 {
		return nil
	}

	entries := make([]ProductEntry, 0, len(items))
	for _, item := range items {
		var id *string
		if ref, ok := resolveProductRef(item); ok {
			id = &ref
		}
		var name *string
		if id != nil {
			if n, ok := catalog[*id]; ok {
				name = &n
			}
		}
		entries = append(entries, ProductEntry{
			GlobalProductID:   id,
			GlobalProductName: name,
			Quantity:          netQuantity(item),
		})
	}
	return entries
}

// SummaryName is the key an entry aggregates under: name, falling back to
// id, falling back to UnknownProduct.
func (e ProductEntry) SummaryName() string {
	if e.GlobalProductName != nil && *e.GlobalProductName != "" {
		return *e.GlobalProductName
	}
	if e.GlobalProductID != nil && *e.GlobalProductID != "" {
		return *e.GlobalProductID
	}
	return UnknownProduct
}

// resolveProductRef digs the global product reference out of the nested
// product/article mapping. Only mapping-shaped references resolve; a bare
// scalar reference is treated as unresolvable.
func resolveProductRef(item map[string]interface{}) (string, bool) {
	var nested map[string]interface{}
	for _, key := range nestedProductKeys {
		if m, ok := item[key].(map[string]interface{}); ok && len(m) > 0 {
			nested = m
			break
		}
	}
	if nested == nil {
		return "", false
	}
	for _, key := range productRefKeys {
		if v := nested[key]; truthy(v) {
			return stringify(v), true
		}
	}
	return "", false
}

// netQuantity computes max(quantity - returned, 0). Zero and empty quantity
// values fall through to the next candidate key; when no key yields a value
// the quantity defaults to 1. Coercion failures default to 1 sold and 0
// returned.
func netQuantity(item map[string]interface{}) int {
	qty := 1
	for _, key := range quantityKeys {
		if v := item[key]; truthy(v) {
			if n, ok := toInt(v); ok {
				qty = n
			}
			break
		}
	}
	returned := 0
	if v := item[returnedQuantityKey]; truthy(v) {
		if n, ok := toInt(v); ok {
			returned = n
		}
	}
	if qty -= returned; qty < 0 {
		qty = 0
	}
	return qty
}

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Filter restricts clustering to sales containing a given global product,
// matched by id or by resolved name (case-insensitive exact match). The zero
// Filter matches every sale.
type Filter struct {
	ProductID   string
	ProductName string
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return f.ProductID != "" || f.ProductName != ""
}

// Matches reports whether at least one entry satisfies the filter. An
// inactive filter matches everything, including sales with no line items.
func (f Filter) Matches(entries []ProductEntry) bool {
	if !f.Active() {
		return true
	}
	for _, e := range entries {
		if f.ProductID != "" && e.GlobalProductID != nil && *e.GlobalProductID == f.ProductID {
			return true
		}
		if f.ProductName != "" && e.GlobalProductName != nil &&
			strings.EqualFold(*e.GlobalProductName, f.ProductName) {
			return true
		}
	}
	return false
}
