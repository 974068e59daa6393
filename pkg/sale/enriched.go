package sale

import "encoding/json"

// Enriched is a coordinate-validated sale carrying its normalized line
// items. Instances live for the duration of one clustering call.
type Enriched struct {
	Record    Record
	Latitude  float64
	Longitude float64
	Products  []ProductEntry
}

// TenantID returns the originating tenant.
func (e *Enriched) TenantID() string { return e.Record.TenantID() }

// Amount returns the sale's resolved monetary amount.
func (e *Enriched) Amount() float64 { return e.Record.Amount() }

// MarshalJSON flattens the original record and overlays the validated
// coordinates and normalized line items, the shape the map frontend
// consumes.
func (e *Enriched) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Record)+3)
	for k, v := range e.Record {
		out[k] = v
	}
	out["latitude"] = e.Latitude
	out["longitude"] = e.Longitude
	products := e.Products
	if products == nil {
		products = []ProductEntry{}
	}
	out["products_enriched"] = products
	return json.Marshal(out)
}

// Prepare runs the per-sale preprocessing pass: coordinate validation,
// product normalization and the optional product filter. Sales failing
// coordinate validation are dropped silently; when the filter is active,
// sales without a matching line item are dropped as well. Input order is
// preserved, which later fixes the clustering seed order.
func Prepare(records []Record, catalog map[string]string, filter Filter) []*Enriched {
	prepared := make([]*Enriched, 0, len(records))
	for _, rec := range records {
		lat, lon, ok := rec.Coordinates()
		if !ok {
			continue
		}
		entries := Normalize(rec, catalog)
		if !filter.Matches(entries) {
			continue
		}
		prepared = append(prepared, &Enriched{
			Record:    rec,
			Latitude:  lat,
			Longitude: lon,
			Products:  entries,
		})
	}
	return prepared
}
