package repo

import (
	"fmt"
	"time"

	"crimecast/internal/modkit/repokit"
)

const dateLayout = "2006-01-02"

var liteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS crimes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			category    TEXT,
			date        TEXT,
			time_of_day INTEGER,
			latitude    REAL,
			longitude   REAL,
			is_violent  BOOLEAN NOT NULL DEFAULT 0,
			district    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS crimes_date_idx ON crimes (date)`,
	},
	placeholder: func(int) string { return "?" },
	timeExpr:    func(ph string) string { return ph },
	selectTime:  "time_of_day",
	scanDate: func() (any, func() (*time.Time, error)) {
		var s *string
		return &s, func() (*time.Time, error) {
			if s == nil || *s == "" {
				return nil, nil
			}
			// tolerate full timestamps written by other tools
			raw := *s
			if len(raw) > len(dateLayout) {
				raw = raw[:len(dateLayout)]
			}
			t, err := time.Parse(dateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("bad date %q: %w", *s, err)
			}
			return &t, nil
		}
	},
	dateArg: func(t *time.Time) any {
		if t == nil {
			return nil
		}
		return t.Format(dateLayout)
	},
}

// NewLite binds the crimes repo to SQLite
func NewLite() repokit.Binder[Storage] { return binder{d: liteDialect} }
