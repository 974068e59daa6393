package sale

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one raw sale document as returned by a tenant store. Tenant
// schemas differ wildly, so fields are read through tolerant extractors that
// normalize or drop malformed values instead of returning errors.
type Record map[string]interface{}

// TenantKey is attached to every record by the fetch layer.
const TenantKey = "tenant_id"

// Coordinate bounds in WGS-84 degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// amountKeys is the priority order for resolving a sale amount. The first
// present, non-nil, numeric-coercible field wins.
var amountKeys = []string{"salesPrice", "amount", "total", "price", "value"}

// lineItemKeys is the priority order for locating line items. The first
// non-empty list wins.
var lineItemKeys = []string{"products", "items", "lignes"}

// TenantID returns the tenant identifier attached by the fetch layer, or ""
// for an untagged record.
func (r Record) TenantID() string {
	if v, ok := r[TenantKey].(string); ok {
		return v
	}
	return ""
}

// Coordinates returns the validated (latitude, longitude) pair. ok is false
// when either field is missing, nil, non-numeric, or out of range; such a
// sale is excluded from clustering entirely.
func (r Record) Coordinates() (lat, lon float64, ok bool) {
	lat, ok = toFloat(r["latitude"])
	if !ok {
		return 0, 0, false
	}
	lon, ok = toFloat(r["longitude"])
	if !ok {
		return 0, 0, false
	}
	if lat < MinLatitude || lat > MaxLatitude || lon < MinLongitude || lon > MaxLongitude {
		return 0, 0, false
	}
	return lat, lon, true
}

// Amount resolves the sale's monetary amount. Non-numeric candidates are
// skipped, not fatal; a sale with no usable amount field is worth 0.
func (r Record) Amount() float64 {
	for _, key := range amountKeys {
		v, present := r[key]
		if !present || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return 0.0
}

// Items locates the sale's line items under the first non-empty of the known
// line-item keys. Non-map elements are skipped.
func (r Record) Items() []map[string]interface{} {
	for _, key := range lineItemKeys {
		list, ok := r[key].([]interface{})
		if !ok || len(list) == 0 {
			continue
		}
		items := make([]map[string]interface{}, 0, len(list))
		for _, el := range list {
			if m, ok := el.(map[string]interface{}); ok {
				items = append(items, m)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

// toFloat coerces the numeric shapes a JSON-ish record can carry: numbers,
// json.Number, and numeric strings.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// toInt coerces integer-like values. Floats truncate toward zero; strings
// must be plain integers.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case json.Number:
		f, err := n.Float64()
		return int(f), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// truthy mirrors the reference semantics for "field present": nil, numeric
// zero and the empty string all fall through to the next candidate key.
func truthy(v interface{}) bool {
	switch n := v.(type) {
	case nil:
		return false
	case string:
		return n != ""
	case bool:
		return n
	case float64:
		return n != 0
	case float32:
		return n != 0
	case int:
		return n != 0
	case int32:
		return n != 0
	case int64:
		return n != 0
	case json.Number:
		f, err := n.Float64()
		return err != nil || f != 0
	}
	return true
}
