// Package hotspot finds crime hotspot centres with seeded k-means
package hotspot

import (
	"errors"
	"math"
	"math/rand"

	"github.com/paulmach/orb"
)

// ErrNoPoints is returned when there is nothing to cluster
var ErrNoPoints = errors.New("hotspot: no points to cluster")

// DefaultK is the number of hotspots when unconfigured
const DefaultK = 10

// Options tunes the k-means run
type Options struct {
	Restarts int     // independent k-means++ seedings; best inertia wins
	MaxIter  int     // Lloyd iterations per restart
	Tol      float64 // stop once summed squared centre movement is within Tol²
}

// DefaultOptions mirror the usual k-means defaults
func DefaultOptions() Options { return Options{Restarts: 10, MaxIter: 300, Tol: 1e-4} }

// Result is the outcome of Compute
type Result struct {
	Centers []orb.Point
	Labels  []int
	Sizes   []int
	Inertia float64
}

// Compute clusters points into min(k, len(points)) groups, at least one.
// The same points, k and seed always give the same centres.
func Compute(points []orb.Point, k int, seed int64, opt Options) (Result, error) {
	if len(points) == 0 {
		return Result{}, ErrNoPoints
	}
	if k < 1 {
		k = 1
	}
	if k > len(points) {
		k = len(points)
	}
	def := DefaultOptions()
	if opt.Restarts <= 0 {
		opt.Restarts = def.Restarts
	}
	if opt.MaxIter <= 0 {
		opt.MaxIter = def.MaxIter
	}
	if opt.Tol <= 0 {
		opt.Tol = def.Tol
	}

	rng := rand.New(rand.NewSource(seed))
	var best Result
	for r := 0; r < opt.Restarts; r++ {
		res := lloyd(points, seedPlusPlus(points, k, rng), opt, rng)
		if r == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func sq(a, b orb.Point) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}

// seedPlusPlus picks k initial centres with D² weighting
func seedPlusPlus(points []orb.Point, k int, rng *rand.Rand) []orb.Point {
	centers := make([]orb.Point, 0, k)
	centers = append(centers, points[rng.Intn(len(points))])
	d2 := make([]float64, len(points))
	for i, p := range points {
		d2[i] = sq(p, centers[0])
	}
	for len(centers) < k {
		total := 0.0
		for _, d := range d2 {
			total += d
		}
		var next int
		if total == 0 {
			// every point sits on a centre; duplicates are unavoidable
			next = rng.Intn(len(points))
		} else {
			target := rng.Float64() * total
			for i, d := range d2 {
				target -= d
				if target < 0 {
					next = i
					break
				}
				next = i
			}
		}
		c := points[next]
		centers = append(centers, c)
		for i, p := range points {
			if d := sq(p, c); d < d2[i] {
				d2[i] = d
			}
		}
	}
	return centers
}

func assign(points, centers []orb.Point, labels []int) float64 {
	inertia := 0.0
	for i, p := range points {
		best, bestD := 0, math.Inf(1)
		for j, c := range centers {
			if d := sq(p, c); d < bestD {
				best, bestD = j, d
			}
		}
		labels[i] = best
		inertia += bestD
	}
	return inertia
}

func lloyd(points, centers []orb.Point, opt Options, rng *rand.Rand) Result {
	k := len(centers)
	labels := make([]int, len(points))
	sizes := make([]int, k)
	for iter := 0; iter < opt.MaxIter; iter++ {
		assign(points, centers, labels)

		sums := make([]orb.Point, k)
		for j := range sizes {
			sizes[j] = 0
		}
		for i, p := range points {
			l := labels[i]
			sums[l][0] += p[0]
			sums[l][1] += p[1]
			sizes[l]++
		}
		shift := 0.0
		for j := range centers {
			var next orb.Point
			if sizes[j] == 0 {
				// reseed an empty cluster on a random point
				next = points[rng.Intn(len(points))]
			} else {
				next = orb.Point{sums[j][0] / float64(sizes[j]), sums[j][1] / float64(sizes[j])}
			}
			shift += sq(centers[j], next)
			centers[j] = next
		}
		if shift <= opt.Tol*opt.Tol {
			break
		}
	}
	inertia := assign(points, centers, labels)
	for j := range sizes {
		sizes[j] = 0
	}
	for _, l := range labels {
		sizes[l]++
	}
	return Result{Centers: centers, Labels: labels, Sizes: sizes, Inertia: inertia}
}
