package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"crimecast/internal/core/features"
	"crimecast/internal/core/forest"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/services/predictor/domain"
)

func model(version string, at time.Time) *domain.Model {
	return &domain.Model{
		Version:   version,
		Name:      "crime-hotspot-rf",
		Algorithm: domain.Algorithm,
		TrainedAt: at,
		Columns:   features.Columns[:],
		Forest: &forest.Forest{
			NumFeatures: features.NumFeatures,
			Importances: make([]float64, features.NumFeatures),
			Trees:       []forest.Tree{{Nodes: []forest.Node{{Left: -1, Right: -1, Value: 0.5}}}},
		},
		OOBScore: 0.8,
	}
}

func TestSaveActivateLoad(t *testing.T) {
	ctx := context.Background()
	reg, err := Open(filepath.Join(t.TempDir(), "models"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.LoadActive(ctx); !errors.Is(err, ErrNoModel) {
		t.Fatalf("empty registry err = %v", err)
	}

	t0 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range []string{"v1", "v2"} {
		p, err := reg.Save(ctx, model(v, t0.Add(time.Duration(i)*time.Hour)))
		if err != nil {
			t.Fatalf("save %s: %v", v, err)
		}
		if filepath.Base(p) != v+".json" {
			t.Fatalf("path = %s", p)
		}
	}
	if err := reg.Activate(ctx, "v1"); err != nil {
		t.Fatal(err)
	}
	m, err := reg.LoadActive(ctx)
	if err != nil || m.Version != "v1" {
		t.Fatalf("active = %v, %v", m, err)
	}
	if m.Forest.Proba(make([]float64, features.NumFeatures)) != 0.5 {
		t.Fatalf("forest not restored")
	}

	if err := reg.Activate(ctx, "v2"); err != nil {
		t.Fatal(err)
	}
	list, err := reg.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Version != "v2" || !list[0].IsActive || list[1].IsActive {
		t.Fatalf("list = %+v", list)
	}
	if list[0].Accuracy != 0.8 {
		t.Fatalf("accuracy = %v", list[0].Accuracy)
	}

	// no temp files are left behind
	entries, _ := os.ReadDir(reg.Root())
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestActivateUnknown(t *testing.T) {
	reg, _ := Open(t.TempDir())
	if err := reg.Activate(context.Background(), "nope"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRejectsBadVersions(t *testing.T) {
	reg, _ := Open(t.TempDir())
	for _, v := range []string{"", "../x", "a/b", ".hidden", "current"} {
		if _, err := reg.Save(context.Background(), model(v, time.Now())); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("version %q err = %v", v, err)
		}
	}
}

func TestLoadRejectsCorruptArtifacts(t *testing.T) {
	ctx := context.Background()
	reg, _ := Open(t.TempDir())

	if err := os.WriteFile(filepath.Join(reg.Root(), "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Load(ctx, "broken"); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("broken err = %v", err)
	}

	m := model("cols", time.Now())
	m.Columns = []string{"x"}
	if _, err := reg.Save(ctx, m); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Load(ctx, "cols"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("column mismatch err = %v", err)
	}

	if _, err := reg.Load(ctx, "missing"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing err = %v", err)
	}

	list, err := reg.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list should skip unreadable files: %+v %v", list, err)
	}
}

func TestOpenEmptyDir(t *testing.T) {
	if _, err := Open(" "); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}
