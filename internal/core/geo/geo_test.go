package geo

import (
	"math"
	"math/rand"
	"testing"

	kit "crimecast/internal/platform/testkit"

	"github.com/paulmach/orb"
)

func TestDistanceAndKm(t *testing.T) {
	a, b := orb.Point{0, 0}, orb.Point{3, 4}
	kit.MustNear(t, Distance(a, b), 5, 1e-12)
	kit.MustNear(t, Km(Distance(a, b)), 555, 1e-9)
	if !WithinKm(orb.Point{0, 0}, orb.Point{0.9 / KmPerDegree, 0}, 1) {
		t.Fatalf("boundary point should be within")
	}
	if WithinKm(orb.Point{0, 0}, orb.Point{0.01, 0}, 1) {
		t.Fatalf("1.11 km should not be within 1 km")
	}
}

func TestNearest(t *testing.T) {
	if i, d := Nearest(orb.Point{1, 1}, nil); i != -1 || d != 0 {
		t.Fatalf("empty centers = %d %v", i, d)
	}
	centers := []orb.Point{{10, 10}, {1, 2}, {-5, 0}}
	i, d := Nearest(orb.Point{1, 1}, centers)
	if i != 1 {
		t.Fatalf("nearest = %d", i)
	}
	kit.MustNear(t, d, 1, 1e-12)
}

func TestBoundsAndValid(t *testing.T) {
	if b := Bounds(nil); b != (orb.Bound{}) {
		t.Fatalf("empty bounds = %v", b)
	}
	b := Bounds([]orb.Point{{1, 5}, {-2, 3}, {4, -1}})
	if b.Min != (orb.Point{-2, -1}) || b.Max != (orb.Point{4, 5}) {
		t.Fatalf("bounds = %v", b)
	}
	for _, p := range []orb.Point{{181, 0}, {0, -91}, {math.NaN(), 0}, {math.Inf(1), 0}} {
		if Valid(p) {
			t.Fatalf("%v should be invalid", p)
		}
	}
	if !Valid(orb.Point{-87.6, 41.8}) {
		t.Fatalf("chicago should be valid")
	}
}

func TestIndexMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := make([]orb.Point, 400)
	for i := range pts {
		pts[i] = orb.Point{-87.7 + rng.Float64()*0.1, 41.8 + rng.Float64()*0.1}
	}
	for _, cellKm := range []float64{0.1, 1, 3} {
		ix := NewIndex(pts, cellKm)
		for q := 0; q < 50; q++ {
			p := orb.Point{-87.7 + rng.Float64()*0.1, 41.8 + rng.Float64()*0.1}
			for _, km := range []float64{0.1, 1} {
				want := 0
				for _, o := range pts {
					if WithinKm(p, o, km) {
						want++
					}
				}
				if got := ix.CountWithin(p, km); got != want {
					t.Fatalf("cell %v km %v: got %d want %d", cellKm, km, got, want)
				}
				if ix.AnyWithin(p, km) != (want > 0) {
					t.Fatalf("AnyWithin mismatch at %v", p)
				}
			}
		}
	}
}

func TestIndexCountsSelf(t *testing.T) {
	pts := []orb.Point{{0, 0}, {0, 0}, {1, 1}}
	ix := NewIndex(pts, 1)
	if got := ix.CountWithin(orb.Point{0, 0}, 1); got != 2 {
		t.Fatalf("count = %d", got)
	}
	if ix.Len() != 3 {
		t.Fatalf("len = %d", ix.Len())
	}
}
