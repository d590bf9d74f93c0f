// Package geo holds the planar geometry used by feature extraction and sampling.
// Coordinates are orb.Point{lon, lat} in degrees; distances are planar (Euclidean
// in degree space) and converted to kilometres with a flat 111 km per degree.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// KmPerDegree is the flat degree-to-kilometre factor; it ignores latitude
// shrinkage of longitude degrees
const KmPerDegree = 111.0

// Distance is the planar distance between a and b in degrees
func Distance(a, b orb.Point) float64 { return planar.Distance(a, b) }

// Km converts a planar degree distance to kilometres
func Km(deg float64) float64 { return deg * KmPerDegree }

// WithinKm reports Km(Distance(a, b)) <= km
func WithinKm(a, b orb.Point, km float64) bool { return Km(Distance(a, b)) <= km }

// Nearest returns the index of the closest center and its distance in degrees;
// (-1, 0) when centers is empty
func Nearest(p orb.Point, centers []orb.Point) (int, float64) {
	idx, best := -1, 0.0
	for i, c := range centers {
		d := Distance(p, c)
		if idx < 0 || d < best {
			idx, best = i, d
		}
	}
	return idx, best
}

// Bounds is the bounding box of points; the zero bound when empty
func Bounds(points []orb.Point) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	return orb.MultiPoint(points).Bound()
}

// Valid reports a finite lon/lat inside the WGS84 range
func Valid(p orb.Point) bool {
	lon, lat := p.Lon(), p.Lat()
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}
