// Package features turns crime records into the fixed-order numeric vectors the
// classifier is trained on and queried with
package features

import (
	"sort"
	"strings"
	"time"

	"crimecast/internal/core/geo"
	"crimecast/internal/core/normalize"

	"github.com/paulmach/orb"
)

// Column order is part of the persisted model; never reorder
const (
	DistanceToHotspot = iota
	CrimeDensity
	Hour
	DayOfWeek
	Month
	IsViolent
	DistrictEncoded

	NumFeatures
)

// Columns names each position of a Vector
var Columns = [NumFeatures]string{
	"distance_to_hotspot",
	"crime_density",
	"hour",
	"day_of_week",
	"month",
	"is_violent",
	"district_encoded",
}

const (
	// OtherCategory fills a missing category
	OtherCategory = "OTHER"
	// UnknownDistrict fills a missing district
	UnknownDistrict = "UNKNOWN"
	// DensityKm is the radius of the density feature
	DensityKm = 1.0
)

// Vector is one feature row
type Vector [NumFeatures]float64

// Slice returns a copy as a slice
func (v Vector) Slice() []float64 { return append([]float64(nil), v[:]...) }

// Record is a crime as read from a store; nil fields are unknown
type Record struct {
	ID        string
	Location  *orb.Point
	Category  string
	Date      *time.Time
	Time      *time.Duration // since midnight; nil is 00:00
	IsViolent bool
	District  string
}

// Crime is a record that survived preparation
type Crime struct {
	ID       string
	Point    orb.Point
	At       time.Time
	Category string
	Violent  bool
	District string
	Code     int
}

// Dataset is the prepared crime set
type Dataset struct {
	Crimes []Crime
	// Vocab is the sorted district vocabulary; a crime's Code indexes it
	Vocab []string

	points  []orb.Point
	density *geo.Index
}

// Prepare drops records without location or date, fills defaults and encodes districts
func Prepare(records []Record) *Dataset {
	ds := &Dataset{}
	seen := map[string]struct{}{}
	for _, r := range records {
		if r.Location == nil || r.Date == nil || !geo.Valid(*r.Location) {
			continue
		}
		d := *r.Date
		at := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if r.Time != nil {
			at = at.Add(*r.Time)
		}
		district := strings.TrimSpace(r.District)
		if district == "" {
			district = UnknownDistrict
		}
		seen[district] = struct{}{}
		ds.Crimes = append(ds.Crimes, Crime{
			ID:       r.ID,
			Point:    *r.Location,
			At:       at,
			Category: normalize.Or(r.Category, OtherCategory),
			Violent:  r.IsViolent,
			District: district,
		})
	}

	ds.Vocab = make([]string, 0, len(seen))
	for d := range seen {
		ds.Vocab = append(ds.Vocab, d)
	}
	sort.Strings(ds.Vocab)
	for i := range ds.Crimes {
		ds.Crimes[i].Code = sort.SearchStrings(ds.Vocab, ds.Crimes[i].District)
	}

	ds.points = make([]orb.Point, len(ds.Crimes))
	for i, c := range ds.Crimes {
		ds.points[i] = c.Point
	}
	ds.density = geo.NewIndex(ds.points, DensityKm)
	return ds
}

// Len is the number of kept crimes
func (ds *Dataset) Len() int { return len(ds.Crimes) }

// Empty reports no usable crimes
func (ds *Dataset) Empty() bool { return len(ds.Crimes) == 0 }

// Points returns the crime locations in dataset order
func (ds *Dataset) Points() []orb.Point { return ds.points }

// Bounds is the bounding box of the crime locations
func (ds *Dataset) Bounds() orb.Bound { return geo.Bounds(ds.points) }

// Density counts crimes within DensityKm of p
func (ds *Dataset) Density(p orb.Point) int { return ds.density.CountWithin(p, DensityKm) }

// DefaultDistrict is the most frequent district code, lowest code on ties; 0 when empty
func (ds *Dataset) DefaultDistrict() int {
	if ds.Empty() {
		return 0
	}
	counts := make([]int, len(ds.Vocab))
	for _, c := range ds.Crimes {
		counts[c.Code]++
	}
	best := 0
	for i, n := range counts {
		if n > counts[best] {
			best = i
		}
	}
	return best
}

// DayOfWeekOf numbers days from Monday=0 to Sunday=6
func DayOfWeekOf(t time.Time) int { return (int(t.Weekday()) + 6) % 7 }

// At builds a vector for point p at the given time slots
func At(ds *Dataset, centers []orb.Point, p orb.Point, hour, dow, month int, violent bool, district int) Vector {
	_, dist := geo.Nearest(p, centers)
	var v Vector
	v[DistanceToHotspot] = dist
	v[CrimeDensity] = float64(ds.Density(p))
	v[Hour] = float64(hour)
	v[DayOfWeek] = float64(dow)
	v[Month] = float64(month)
	if violent {
		v[IsViolent] = 1
	}
	v[DistrictEncoded] = float64(district)
	return v
}

// Training returns one vector per crime and its label: 1 when target is empty
// or the crime's category equals target after normalisation
func Training(ds *Dataset, centers []orb.Point, target string) ([]Vector, []int) {
	target = normalize.Label(target)
	rows := make([]Vector, len(ds.Crimes))
	labels := make([]int, len(ds.Crimes))
	for i, c := range ds.Crimes {
		rows[i] = At(ds, centers, c.Point, c.At.Hour(), DayOfWeekOf(c.At), int(c.At.Month()), c.Violent, c.Code)
		if target == "" || c.Category == target {
			labels[i] = 1
		}
	}
	return rows, labels
}
