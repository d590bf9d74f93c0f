package repo

import (
	"fmt"
	"time"

	"crimecast/internal/modkit/repokit"
)

var pgDialect = dialect{
	name: "pg",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS crimes (
			id          BIGSERIAL PRIMARY KEY,
			category    TEXT,
			date        DATE,
			time_of_day TIME,
			latitude    DOUBLE PRECISION,
			longitude   DOUBLE PRECISION,
			is_violent  BOOLEAN NOT NULL DEFAULT FALSE,
			district    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS crimes_date_idx ON crimes (date)`,
	},
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	timeExpr:    func(ph string) string { return "make_interval(secs => " + ph + "::double precision)::time" },
	selectTime:  "EXTRACT(EPOCH FROM time_of_day)::bigint",
	scanDate: func() (any, func() (*time.Time, error)) {
		var t *time.Time
		return &t, func() (*time.Time, error) { return t, nil }
	},
	dateArg: func(t *time.Time) any {
		if t == nil {
			return nil
		}
		return *t
	},
}

// NewPG binds the crimes repo to Postgres
func NewPG() repokit.Binder[Storage] { return binder{d: pgDialect} }
