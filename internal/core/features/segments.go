package features

import (
	"time"

	"crimecast/internal/core/normalize"

	"github.com/paulmach/orb"
)

// Segment is a time-of-day bucket queried at its starting hour
type Segment struct {
	Name string
	Hour int
}

// Segments are the four buckets every prediction covers, in output order
var Segments = [4]Segment{
	{Name: "Night", Hour: 0},
	{Name: "Morning", Hour: 6},
	{Name: "Afternoon", Hour: 12},
	{Name: "Evening", Hour: 18},
}

// violentTypes flag a requested crime type as violent
var violentTypes = map[string]struct{}{
	"HOMICIDE": {},
	"ROBBERY":  {},
	"VIOLENT":  {},
}

// IsViolentType reports whether crimeType names one of the violent types
func IsViolentType(crimeType string) bool {
	_, ok := violentTypes[normalize.Label(crimeType)]
	return ok
}

// SegmentRow is the vector for one segment
type SegmentRow struct {
	Segment Segment
	Vector  Vector
}

// Prediction builds one row per segment for point p on date. Distance and
// density are computed once; only the hour varies between rows.
func Prediction(ds *Dataset, centers []orb.Point, p orb.Point, date time.Time, crimeType string, district int) []SegmentRow {
	base := At(ds, centers, p, 0, DayOfWeekOf(date), int(date.Month()), IsViolentType(crimeType), district)
	out := make([]SegmentRow, len(Segments))
	for i, s := range Segments {
		v := base
		v[Hour] = float64(s.Hour)
		out[i] = SegmentRow{Segment: s, Vector: v}
	}
	return out
}
