// Package repo reads and writes the crimes table on Postgres or SQLite
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crimecast/internal/modkit/repokit"
	"crimecast/internal/platform/store"
	"crimecast/internal/services/crimes/domain"
)

// Storage is the crimes repository
type Storage interface {
	EnsureSchema(ctx context.Context) error
	ListAll(ctx context.Context) ([]domain.Crime, error)
	Summary(ctx context.Context) (domain.Summary, error)
	Count(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, xs []domain.Crime) (int, error)
}

// dialect holds what differs between the two SQL backends
type dialect struct {
	name   string
	schema []string
	// placeholder renders the n-th (1-based) bind parameter
	placeholder func(n int) string
	// timeExpr wraps a seconds-since-midnight parameter for the time_of_day column
	timeExpr func(ph string) string
	// selectTime reads time_of_day back as integer seconds
	selectTime string
	// scanDate reads the date column
	scanDate func() (dest any, get func() (*time.Time, error))
	// dateArg encodes a date parameter
	dateArg func(*time.Time) any
}

type sqlRepo struct {
	q repokit.Queryer
	d dialect
}

type binder struct{ d dialect }

// Bind implements repokit.Binder
func (b binder) Bind(q repokit.Queryer) Storage { return &sqlRepo{q: q, d: b.d} }

const insertChunk = 500

func (s *sqlRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.d.schema {
		if _, err := s.q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", s.d.name, err)
		}
	}
	return nil
}

func (s *sqlRepo) ListAll(ctx context.Context) ([]domain.Crime, error) {
	return store.Many(ctx, s.q, s.scanCrime, `
		SELECT id, COALESCE(category, ''), date, `+s.d.selectTime+`,
			latitude, longitude, is_violent, COALESCE(district, '')
		FROM crimes
		ORDER BY id`)
}

func (s *sqlRepo) scanCrime(r store.Row) (domain.Crime, error) {
	var (
		c    domain.Crime
		secs *int64
	)
	dateDest, getDate := s.d.scanDate()
	if err := r.Scan(&c.ID, &c.Category, dateDest, &secs, &c.Latitude, &c.Longitude, &c.IsViolent, &c.District); err != nil {
		return c, err
	}
	date, err := getDate()
	if err != nil {
		return c, fmt.Errorf("crime %d: %w", c.ID, err)
	}
	c.Date = date
	if secs != nil {
		d := time.Duration(*secs) * time.Second
		c.TimeOfDay = &d
	}
	return c, nil
}

func (s *sqlRepo) Count(ctx context.Context) (int64, error) {
	return store.Scalar[int64](ctx, s.q, `SELECT COUNT(*) FROM crimes`)
}

func (s *sqlRepo) Summary(ctx context.Context) (domain.Summary, error) {
	sum, err := store.One(ctx, s.q, s.scanTotals, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN latitude IS NOT NULL AND longitude IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_violent THEN 1 ELSE 0 END), 0),
			MIN(date), MAX(date)
		FROM crimes`)
	if err != nil {
		return sum, err
	}

	cats, err := store.Many(ctx, s.q, func(r store.Row) (domain.CategoryCount, error) {
		var cc domain.CategoryCount
		return cc, r.Scan(&cc.Category, &cc.Count)
	}, `
		SELECT COALESCE(NULLIF(category, ''), 'OTHER') AS cat, COUNT(*) AS n
		FROM crimes
		GROUP BY cat
		ORDER BY n DESC, cat`)
	if err != nil {
		return sum, err
	}
	sum.Categories = append([]domain.CategoryCount{}, cats...)
	return sum, nil
}

func (s *sqlRepo) scanTotals(r store.Row) (domain.Summary, error) {
	var sum domain.Summary
	first, getFirst := s.d.scanDate()
	last, getLast := s.d.scanDate()
	if err := r.Scan(&sum.Total, &sum.WithLocation, &sum.Violent, first, last); err != nil {
		return sum, err
	}
	var err error
	if sum.First, err = getFirst(); err != nil {
		return sum, err
	}
	sum.Last, err = getLast()
	return sum, err
}

func (s *sqlRepo) InsertBatch(ctx context.Context, xs []domain.Crime) (int, error) {
	n := 0
	for start := 0; start < len(xs); start += insertChunk {
		end := min(start+insertChunk, len(xs))
		tag, err := s.insert(ctx, xs[start:end])
		if err != nil {
			return n, err
		}
		n += int(tag.RowsAffected())
	}
	return n, nil
}

func (s *sqlRepo) insert(ctx context.Context, xs []domain.Crime) (repokit.CommandTag, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO crimes
		(category, date, time_of_day, latitude, longitude, is_violent, district) VALUES `)
	args := make([]any, 0, len(xs)*7)
	arg := func(v any) string { args = append(args, v); return s.d.placeholder(len(args)) }
	for i, c := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		var secs any
		if c.TimeOfDay != nil {
			secs = float64(*c.TimeOfDay / time.Second)
		}
		fmt.Fprintf(&sb, "(%s,%s,%s,%s,%s,%s,%s)",
			arg(nullString(c.Category)),
			arg(s.d.dateArg(c.Date)),
			s.d.timeExpr(arg(secs)),
			arg(nullFloat(c.Latitude)),
			arg(nullFloat(c.Longitude)),
			arg(c.IsViolent),
			arg(nullString(c.District)),
		)
	}
	return s.q.Exec(ctx, sb.String(), args...)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
