package forest

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	kit "crimecast/internal/platform/testkit"
)

// separable: class 1 when x0 > 0.5, x1 is noise
func separable(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		x[i] = []float64{rng.Float64(), rng.Float64(), float64(rng.Intn(3))}
		if x[i][0] > 0.5 {
			y[i] = 1
		}
	}
	return x, y
}

func TestFitRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	if _, err := Fit(ctx, nil, nil, DefaultParams()); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty err = %v", err)
	}
	if _, err := Fit(ctx, [][]float64{{1}}, []int{1, 0}, DefaultParams()); err == nil {
		t.Fatalf("length mismatch accepted")
	}
	if _, err := Fit(ctx, [][]float64{{1}, {1, 2}}, []int{1, 0}, DefaultParams()); err == nil {
		t.Fatalf("ragged rows accepted")
	}
	if _, err := Fit(ctx, [][]float64{{1}}, []int{2}, DefaultParams()); err == nil {
		t.Fatalf("non-binary label accepted")
	}
}

func TestFitLearnsSeparableData(t *testing.T) {
	x, y := separable(400, 1)
	p := DefaultParams()
	p.Trees = 25
	f, err := Fit(context.Background(), x, y, p)
	if err != nil {
		t.Fatal(err)
	}
	tx, ty := separable(200, 2)
	if acc := f.Accuracy(tx, ty); acc < 0.9 {
		t.Fatalf("holdout accuracy %.3f", acc)
	}
	if f.OOBScore < 0.85 {
		t.Fatalf("oob score %.3f", f.OOBScore)
	}
	if f.Importances[0] < f.Importances[1] || f.Importances[0] < f.Importances[2] {
		t.Fatalf("signal feature should dominate: %v", f.Importances)
	}
	sum := 0.0
	for _, v := range f.Importances {
		sum += v
	}
	kit.MustNear(t, sum, 1, 1e-9)
	if err := f.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestProbaRange(t *testing.T) {
	x, y := separable(120, 3)
	f, err := Fit(context.Background(), x, y, Params{Trees: 10, Seed: 42, Balanced: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range x {
		if p := f.Proba(row); p < 0 || p > 1 {
			t.Fatalf("proba %v out of range", p)
		}
	}
	if (&Forest{}).Proba([]float64{1, 2, 3}) != 0 {
		t.Fatalf("empty forest proba should be 0")
	}
}

func TestFitDeterministicAcrossWorkers(t *testing.T) {
	x, y := separable(150, 4)
	p := DefaultParams()
	p.Trees = 12
	p.Workers = 1
	a, err := Fit(context.Background(), x, y, p)
	if err != nil {
		t.Fatal(err)
	}
	p.Workers = 8
	b, err := Fit(context.Background(), x, y, p)
	if err != nil {
		t.Fatal(err)
	}
	ja, _ := json.Marshal(a.Trees)
	jb, _ := json.Marshal(b.Trees)
	if string(ja) != string(jb) {
		t.Fatalf("worker count changed the forest")
	}
}

func TestSingleClass(t *testing.T) {
	x := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	f, err := Fit(context.Background(), x, []int{1, 1, 1}, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if f.Proba([]float64{0, 0}) != 1 {
		t.Fatalf("single class should predict 1")
	}
	for _, v := range f.Importances {
		if v != 0 {
			t.Fatalf("no split means no importance: %v", f.Importances)
		}
	}
}

func TestFitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x, y := separable(50, 5)
	if _, err := Fit(ctx, x, y, DefaultParams()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestClassWeights(t *testing.T) {
	w := ClassWeights([]int{0, 0, 0, 1})
	kit.MustNear(t, w[0], 4.0/6.0, 1e-12)
	kit.MustNear(t, w[1], 2, 1e-12)
	if w := ClassWeights([]int{1, 1}); w[0] != 0 || w[1] != 1 {
		t.Fatalf("single class weights = %v", w)
	}
	if w := ClassWeights([]int{0, 0, 0}); w[0] != 1 || w[1] != 0 {
		t.Fatalf("only negatives weights = %v", w)
	}
}

func TestCheckRejectsMalformed(t *testing.T) {
	bad := []*Forest{
		nil,
		{NumFeatures: 1, Importances: []float64{1}},
		{NumFeatures: 1, Importances: []float64{1}, Trees: []Tree{{}}},
		{NumFeatures: 1, Importances: []float64{1}, Trees: []Tree{{Nodes: []Node{{Left: 0, Right: 0}}}}},
		{NumFeatures: 1, Importances: []float64{1, 0}, Trees: []Tree{{Nodes: []Node{{Left: -1}}}}},
	}
	for i, f := range bad {
		if err := f.Check(); err == nil {
			t.Fatalf("case %d accepted", i)
		}
	}
}

func TestTreeDepth(t *testing.T) {
	tr := Tree{Nodes: []Node{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Left: -1, Right: -1},
		{Feature: 0, Threshold: 0.8, Left: 3, Right: 4},
		{Left: -1, Right: -1, Value: 0.25},
		{Left: -1, Right: -1, Value: 1},
	}}
	if tr.Depth() != 2 {
		t.Fatalf("depth = %d", tr.Depth())
	}
	kit.MustNear(t, tr.Leaf([]float64{0.7}), 0.25, 0)
	kit.MustNear(t, tr.Leaf([]float64{0.9}), 1, 0)
}
