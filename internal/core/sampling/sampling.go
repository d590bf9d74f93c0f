// Package sampling draws synthetic "no crime" rows for classifier training
package sampling

import (
	"context"
	"errors"
	"math/rand"

	"crimecast/internal/core/features"
	"crimecast/internal/core/geo"

	"github.com/paulmach/orb"
)

// ErrExhausted is returned when the attempt budget runs out before n points are accepted
var ErrExhausted = errors.New("could not generate negative samples")

// Options tunes negative sampling
type Options struct {
	Ratio          int     // negatives per positive
	MinKm          float64 // a candidate within this distance of any crime is rejected
	AttemptsFactor int     // attempt budget is AttemptsFactor × wanted
}

// DefaultOptions are 2 negatives per positive, 0.1 km clearance, 50× attempt budget
func DefaultOptions() Options { return Options{Ratio: 2, MinKm: 0.1, AttemptsFactor: 50} }

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Ratio <= 0 {
		o.Ratio = d.Ratio
	}
	if o.MinKm <= 0 {
		o.MinKm = d.MinKm
	}
	if o.AttemptsFactor <= 0 {
		o.AttemptsFactor = d.AttemptsFactor
	}
	return o
}

// Points draws n points uniformly inside bound, keeping only those farther than
// minKm from every indexed crime
func Points(ctx context.Context, rng *rand.Rand, crimes *geo.Index, bound orb.Bound, n int, minKm float64, maxAttempts int) ([]orb.Point, error) {
	out := make([]orb.Point, 0, n)
	w, h := bound.Max[0]-bound.Min[0], bound.Max[1]-bound.Min[1]
	for attempt := 0; len(out) < n; attempt++ {
		if attempt >= maxAttempts {
			return nil, ErrExhausted
		}
		if attempt%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		p := orb.Point{bound.Min[0] + rng.Float64()*w, bound.Min[1] + rng.Float64()*h}
		if !crimes.AnyWithin(p, minKm) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Negatives builds Ratio × positives label-0 vectors: random hour, weekday and
// month, not violent, the dataset's most common district. Distance and density
// are measured against the real crimes and centres.
func Negatives(ctx context.Context, ds *features.Dataset, centers []orb.Point, positives int, seed int64, opt Options) ([]features.Vector, error) {
	opt = opt.withDefaults()
	n := opt.Ratio * positives
	if n == 0 || ds.Empty() {
		return nil, nil
	}
	rng := rand.New(rand.NewSource(seed))
	clearance := geo.NewIndex(ds.Points(), opt.MinKm)
	pts, err := Points(ctx, rng, clearance, ds.Bounds(), n, opt.MinKm, opt.AttemptsFactor*n)
	if err != nil {
		return nil, err
	}
	district := ds.DefaultDistrict()
	out := make([]features.Vector, len(pts))
	for i, p := range pts {
		out[i] = features.At(ds, centers, p, rng.Intn(24), rng.Intn(7), 1+rng.Intn(12), false, district)
	}
	return out, nil
}
