// Package domain defines the crime records the predictor reads
package domain

import (
	"time"

	"crimecast/internal/core/features"

	"github.com/paulmach/orb"
)

// Crime is one row of the crimes table. Nil pointers are unknown values.
type Crime struct {
	ID        int64
	Category  string
	Date      *time.Time
	TimeOfDay *time.Duration // since midnight
	Latitude  *float64
	Longitude *float64
	IsViolent bool
	District  string
}

// Location is the crime's point, nil unless both coordinates are known
func (c Crime) Location() *orb.Point {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	return &orb.Point{*c.Longitude, *c.Latitude}
}

// Record converts to the feature extractor input
func (c Crime) Record() features.Record {
	return features.Record{
		ID:        formatID(c.ID),
		Location:  c.Location(),
		Category:  c.Category,
		Date:      c.Date,
		Time:      c.TimeOfDay,
		IsViolent: c.IsViolent,
		District:  c.District,
	}
}

// CategoryCount is one row of the category breakdown
type CategoryCount struct {
	Category string `json:"category" example:"THEFT"`
	Count    int64  `json:"count"    example:"412"`
}

// Summary describes the crime set the predictor trains on
type Summary struct {
	Total        int64           `json:"total"         example:"1200"`
	WithLocation int64           `json:"with_location" example:"1180"`
	Violent      int64           `json:"violent"       example:"210"`
	First        *time.Time      `json:"first,omitempty"`
	Last         *time.Time      `json:"last,omitempty"`
	Categories   []CategoryCount `json:"categories"`
}
