// Package forest is a binary random forest classifier: bootstrap-sampled CART
// trees with Gini splits and a random feature subset per split. It is seeded,
// so the same data and params always give the same forest.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrEmpty is returned when there are no training rows
var ErrEmpty = errors.New("forest: no training rows")

// Params controls training
type Params struct {
	Trees           int   `json:"trees"`
	Seed            int64 `json:"seed"`
	MaxFeatures     int   `json:"max_features"`      // 0 means floor(sqrt(features))
	MaxDepth        int   `json:"max_depth"`         // 0 means unlimited
	MinSamplesSplit int   `json:"min_samples_split"` // default 2
	MinSamplesLeaf  int   `json:"min_samples_leaf"`  // default 1
	Balanced        bool  `json:"balanced"`          // weight classes inversely to their frequency
	Workers         int   `json:"-"`                 // 0 means GOMAXPROCS
}

// DefaultParams are 100 balanced trees seeded with 42
func DefaultParams() Params {
	return Params{Trees: 100, Seed: 42, MinSamplesSplit: 2, MinSamplesLeaf: 1, Balanced: true}
}

func (p Params) withDefaults(features int) Params {
	if p.Trees <= 0 {
		p.Trees = 100
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = 1
	}
	if p.MaxFeatures <= 0 || p.MaxFeatures > features {
		p.MaxFeatures = max(1, int(math.Sqrt(float64(features))))
	}
	if p.Workers <= 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	return p
}

// Forest is a fitted model; it serialises to JSON as is
type Forest struct {
	Params      Params    `json:"params"`
	NumFeatures int       `json:"num_features"`
	Trees       []Tree    `json:"trees"`
	Importances []float64 `json:"importances"`
	// OOBScore is the accuracy on rows judged only by trees that did not sample them; 0 when no row was out of bag
	OOBScore float64 `json:"oob_score"`
}

// ClassWeights returns the balanced weights n / (classes·n_c) for classes 0 and 1,
// where classes counts the labels actually present
func ClassWeights(y []int) [2]float64 {
	var n [2]int
	for _, c := range y {
		n[c&1]++
	}
	present := 0
	for _, k := range n {
		if k > 0 {
			present++
		}
	}
	var w [2]float64
	for c := range w {
		if n[c] > 0 {
			w[c] = float64(len(y)) / (float64(present) * float64(n[c]))
		}
	}
	return w
}

// Fit trains a forest on rows x with labels y in {0,1}. Trees are grown in
// parallel; each gets a seed drawn up front from Params.Seed.
func Fit(ctx context.Context, x [][]float64, y []int, p Params) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrEmpty
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("forest: %d rows but %d labels", len(x), len(y))
	}
	nf := len(x[0])
	for i, row := range x {
		if len(row) != nf {
			return nil, fmt.Errorf("forest: row %d has %d features, want %d", i, len(row), nf)
		}
		if y[i] != 0 && y[i] != 1 {
			return nil, fmt.Errorf("forest: label %d at row %d is not binary", y[i], i)
		}
	}
	p = p.withDefaults(nf)

	cw := [2]float64{1, 1}
	if p.Balanced {
		cw = ClassWeights(y)
	}

	master := rand.New(rand.NewSource(p.Seed))
	seeds := make([]int64, p.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]Tree, p.Trees)
	imps := make([][]float64, p.Trees)
	inbag := make([][]bool, p.Trees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for t := 0; t < p.Trees; t++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trees[t], imps[t], inbag[t] = grow(x, y, cw, p, seeds[t])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := &Forest{Params: p, NumFeatures: nf, Trees: trees, Importances: average(imps, nf)}
	f.OOBScore = f.oob(x, y, inbag)
	return f, nil
}

func grow(x [][]float64, y []int, cw [2]float64, p Params, seed int64) (Tree, []float64, []bool) {
	rng := rand.New(rand.NewSource(seed))
	n := len(x)
	counts := make([]int, n)
	for i := 0; i < n; i++ {
		counts[rng.Intn(n)]++
	}
	b := &builder{
		x: x, y: y, p: p, mtry: p.MaxFeatures, rng: rng,
		w:          make([]float64, n),
		importance: make([]float64, len(x[0])),
	}
	idx := make([]int, 0, n)
	in := make([]bool, n)
	for i, c := range counts {
		if c == 0 {
			continue
		}
		in[i] = true
		b.w[i] = cw[y[i]] * float64(c)
		b.total += b.w[i]
		idx = append(idx, i)
	}
	b.grow(idx, 0)

	sum := 0.0
	for _, v := range b.importance {
		sum += v
	}
	if sum > 0 {
		for i := range b.importance {
			b.importance[i] /= sum
		}
	}
	return Tree{Nodes: b.nodes}, b.importance, in
}

// average is the mean of per-tree importances renormalised to sum to 1
func average(imps [][]float64, nf int) []float64 {
	out := make([]float64, nf)
	for _, imp := range imps {
		for i, v := range imp {
			out[i] += v
		}
	}
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if sum > 0 {
		for i := range out {
			out[i] /= sum
		}
	}
	return out
}

func (f *Forest) oob(x [][]float64, y []int, inbag [][]bool) float64 {
	correct, seen := 0, 0
	for i, row := range x {
		votes, n := 0.0, 0
		for t, tree := range f.Trees {
			if inbag[t][i] {
				continue
			}
			votes += tree.Leaf(row)
			n++
		}
		if n == 0 {
			continue
		}
		seen++
		if label(votes/float64(n)) == y[i] {
			correct++
		}
	}
	if seen == 0 {
		return 0
	}
	return float64(correct) / float64(seen)
}

func label(p float64) int {
	if p > 0.5 {
		return 1
	}
	return 0
}

// Proba is the mean class-1 probability over all trees, in [0, 1]
func (f *Forest) Proba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	s := 0.0
	for _, t := range f.Trees {
		s += t.Leaf(x)
	}
	return math.Min(1, math.Max(0, s/float64(len(f.Trees))))
}

// Predict is the majority class for x
func (f *Forest) Predict(x []float64) int { return label(f.Proba(x)) }

// Accuracy is the share of rows predicted correctly
func (f *Forest) Accuracy(x [][]float64, y []int) float64 {
	if len(x) == 0 {
		return 0
	}
	ok := 0
	for i, row := range x {
		if f.Predict(row) == y[i] {
			ok++
		}
	}
	return float64(ok) / float64(len(x))
}

// Check validates a decoded forest before use
func (f *Forest) Check() error {
	if f == nil || len(f.Trees) == 0 {
		return errors.New("forest: no trees")
	}
	if len(f.Importances) != f.NumFeatures {
		return fmt.Errorf("forest: %d importances for %d features", len(f.Importances), f.NumFeatures)
	}
	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("forest: tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Left < 0 {
				continue
			}
			if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) || n.Feature < 0 || n.Feature >= f.NumFeatures {
				return fmt.Errorf("forest: tree %d node %d is malformed", ti, ni)
			}
		}
	}
	return nil
}
