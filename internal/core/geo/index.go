package geo

import (
	"math"

	"github.com/paulmach/orb"
)

type cell struct{ x, y int64 }

// Index buckets points into square cells so radius queries only visit
// neighbouring cells. Results match a brute-force scan exactly.
type Index struct {
	size   float64
	points []orb.Point
	cells  map[cell][]int
}

// NewIndex builds an index with cell size in kilometres; non-positive falls back to 1 km
func NewIndex(points []orb.Point, cellKm float64) *Index {
	if cellKm <= 0 {
		cellKm = 1
	}
	ix := &Index{
		size:   cellKm / KmPerDegree,
		points: points,
		cells:  make(map[cell][]int),
	}
	for i, p := range points {
		c := ix.cellOf(p)
		ix.cells[c] = append(ix.cells[c], i)
	}
	return ix
}

func (ix *Index) cellOf(p orb.Point) cell {
	return cell{int64(math.Floor(p.Lon() / ix.size)), int64(math.Floor(p.Lat() / ix.size))}
}

// Len is the number of indexed points
func (ix *Index) Len() int { return len(ix.points) }

// visit calls fn for every point that may lie within km of p; fn returns false to stop
func (ix *Index) visit(p orb.Point, km float64, fn func(orb.Point) bool) {
	// one extra ring absorbs floor rounding at cell edges
	rings := int64(math.Ceil(km/KmPerDegree/ix.size)) + 1
	c := ix.cellOf(p)
	for dx := -rings; dx <= rings; dx++ {
		for dy := -rings; dy <= rings; dy++ {
			for _, i := range ix.cells[cell{c.x + dx, c.y + dy}] {
				if !fn(ix.points[i]) {
					return
				}
			}
		}
	}
}

// CountWithin counts indexed points with WithinKm(p, q, km), p itself included if indexed
func (ix *Index) CountWithin(p orb.Point, km float64) int {
	n := 0
	ix.visit(p, km, func(q orb.Point) bool {
		if WithinKm(p, q, km) {
			n++
		}
		return true
	})
	return n
}

// AnyWithin reports whether some indexed point is within km of p
func (ix *Index) AnyWithin(p orb.Point, km float64) bool {
	found := false
	ix.visit(p, km, func(q orb.Point) bool {
		if WithinKm(p, q, km) {
			found = true
			return false
		}
		return true
	})
	return found
}
