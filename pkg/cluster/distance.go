package cluster

import "github.com/pymaxion/geographiclib-go/geodesic"

// DistanceKm returns the geodesic distance in kilometers between two WGS-84
// coordinates, using Karney's algorithm on the ellipsoid. Group membership
// is decided at the radius boundary, so a spherical approximation is not
// good enough here.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	r := geodesic.WGS84.Inverse(lat1, lon1, lat2, lon2)
	return r.S12 / 1000.0
}
