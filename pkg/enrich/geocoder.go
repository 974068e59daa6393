// Package enrich finishes location groups for presentation: reverse
// geocoding of the representative point, product ranking and the final
// cross-group sort. Every step is best-effort; a collaborator failure
// degrades one group's fields, never the response.
package enrich

import "context"

// Place is a best-effort country/city resolution. Either field may be nil
// when the geocoder could not resolve it.
type Place struct {
	Country *string `json:"country"`
	City    *string `json:"city"`
}

// Geocoder resolves a coordinate to a Place. Implementations perform
// external I/O and must honor the context deadline.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}
