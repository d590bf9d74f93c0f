package repo

import (
	"context"
	"testing"
	"time"

	"crimecast/internal/modkit/repokit"
	perr "crimecast/internal/platform/errors"
)

type tag int64

func (t tag) String() string      { return "UPDATE" }
func (t tag) RowsAffected() int64 { return int64(t) }

type modelRows struct {
	params []string
	i      int
}

func (r *modelRows) Next() bool { r.i++; return r.i <= len(r.params) }

func (r *modelRows) Scan(dst ...any) error {
	*(dst[0].(*string)) = "v" + string(rune('0'+r.i))
	*(dst[1].(*string)) = "crime-hotspot-rf"
	*(dst[2].(*string)) = "random_forest"
	*(dst[3].(*string)) = r.params[r.i-1]
	*(dst[4].(*float64)) = 0.9
	*(dst[5].(*bool)) = r.i == 1
	*(dst[6].(*time.Time)) = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	*(dst[7].(*int)) = 10
	*(dst[8].(*int)) = 20
	*(dst[9].(*string)) = ""
	return nil
}

func (r *modelRows) Err() error        { return nil }
func (r *modelRows) Close()            {}
func (r *modelRows) Columns() []string { return nil }

type fakePG struct {
	affected []int64
	execs    int
	params   []string
}

func (f *fakePG) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	n := int64(0)
	if f.execs < len(f.affected) {
		n = f.affected[f.execs]
	}
	f.execs++
	return tag(n), nil
}

func (f *fakePG) Query(context.Context, string, ...any) (repokit.Rows, error) {
	return &modelRows{params: f.params}, nil
}

func (f *fakePG) QueryRow(context.Context, string, ...any) repokit.Row { return nil }

func TestActivateUnknownVersion(t *testing.T) {
	ctx := context.Background()
	if err := NewPG().Bind(&fakePG{affected: []int64{1, 1}}).Activate(ctx, "v2"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	err := NewPG().Bind(&fakePG{affected: []int64{0, 0}}).Activate(ctx, "missing")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListDecodesParams(t *testing.T) {
	db := &fakePG{params: []string{`{"trees": 100, "seed": 42}`, `{"trees": 10}`}}
	xs, err := NewPG().Bind(db).List(context.Background(), 5)
	if err != nil || len(xs) != 2 {
		t.Fatalf("list = %v, %v", xs, err)
	}
	if xs[0].Params.Trees != 100 || xs[0].Params.Seed != 42 || !xs[0].IsActive || xs[1].IsActive {
		t.Fatalf("rows = %+v", xs)
	}

	db.params = []string{`{not json`}
	if _, err := NewPG().Bind(db).List(context.Background(), 5); err == nil {
		t.Fatal("expected decode error")
	}
}
