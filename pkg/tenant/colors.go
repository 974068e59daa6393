// Package tenant assigns stable display colors to tenants for the map
// legend.
package tenant

import "sort"

// palette is the fixed 20-color legend palette. Assignment cycles through it
// for deployments with more than 20 tenants.
var palette = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#e67e22", "#34495e", "#f1c40f", "#e91e63",
	"#8e44ad", "#16a085", "#27ae60", "#2980b9", "#d35400",
	"#c0392b", "#7f8c8d", "#f39800", "#8b4513", "#4682b4",
}

// Colors maps each tenant to a palette color. The mapping depends only on
// the sorted set of identifiers, so it is deterministic and independent of
// sale order: the same tenants always get the same colors.
func Colors(tenants []string) map[string]string {
	unique := make(map[string]struct{}, len(tenants))
	for _, id := range tenants {
		unique[id] = struct{}{}
	}
	sorted := make([]string, 0, len(unique))
	for id := range unique {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	colors := make(map[string]string, len(sorted))
	for i, id := range sorted {
		colors[id] = palette[i%len(palette)]
	}
	return colors
}

// PaletteSize returns the number of distinct colors available before the
// assignment cycles.
func PaletteSize() int { return len(palette) }
