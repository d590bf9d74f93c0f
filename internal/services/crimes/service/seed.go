package service

import (
	"context"
	"math/rand"
	"time"

	"crimecast/internal/services/crimes/domain"
)

type category struct {
	name     string
	severity int
}

// violent above this severity
const violentSeverity = 5

var sampleCategories = []category{
	{"THEFT", 3}, {"BURGLARY", 5}, {"ASSAULT", 7}, {"VANDALISM", 2}, {"ROBBERY", 6},
	{"HOMICIDE", 10}, {"DRUG OFFENSE", 4}, {"VEHICLE THEFT", 4}, {"FRAUD", 3}, {"DUI", 5},
}

type district struct {
	code     string
	lat, lon float64
}

// sampleDistricts sit around downtown San Francisco
var sampleDistricts = []district{
	{"DT", 0.01, 0.01}, {"ND", 0.03, 0}, {"SD", -0.03, 0}, {"ED", 0, 0.03}, {"WD", 0, -0.03}, {"CD", 0, 0},
}

// SampleCentre is the (lat, lon) the sample districts are offset from
var SampleCentre = [2]float64{37.7749, -122.4194}

// Synthetic generates n crimes over the three years before now: each district
// has three to five neighbourhoods and crimes scatter ±0.003° around one
func Synthetic(n int, seed int64, now time.Time) []domain.Crime {
	rng := rand.New(rand.NewSource(seed))

	type hood struct {
		district string
		lat, lon float64
	}
	var hoods []hood
	for _, d := range sampleDistricts {
		for i := 0; i < 3+rng.Intn(3); i++ {
			hoods = append(hoods, hood{
				district: d.code,
				lat:      SampleCentre[0] + d.lat + (rng.Float64()*2-1)*0.01,
				lon:      SampleCentre[1] + d.lon + (rng.Float64()*2-1)*0.01,
			})
		}
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(-3, 0, 0)
	days := int(end.Sub(start).Hours() / 24)

	out := make([]domain.Crime, n)
	for i := range out {
		c := sampleCategories[rng.Intn(len(sampleCategories))]
		h := hoods[rng.Intn(len(hoods))]
		date := start.AddDate(0, 0, rng.Intn(days+1))
		tod := time.Duration(rng.Intn(24))*time.Hour + time.Duration(rng.Intn(60))*time.Minute
		lat := h.lat + (rng.Float64()*2-1)*0.003
		lon := h.lon + (rng.Float64()*2-1)*0.003
		out[i] = domain.Crime{
			Category:  c.name,
			Date:      &date,
			TimeOfDay: &tod,
			Latitude:  &lat,
			Longitude: &lon,
			IsViolent: c.severity > violentSeverity,
			District:  h.district,
		}
	}
	return out
}

// Seed inserts n synthetic crimes unless the store already holds some and force is off.
// It returns the number inserted.
func (s *Service) Seed(ctx context.Context, n int, seed int64, force bool) (int, error) {
	if !force {
		n, err := s.Count(ctx)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return 0, nil
		}
	}
	return s.InsertBatch(ctx, Synthetic(n, seed, time.Now().UTC()))
}
