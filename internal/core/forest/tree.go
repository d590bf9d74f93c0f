package forest

import (
	"math"
	"math/rand"
	"sort"
)

// Node is a flattened tree node; Left < 0 marks a leaf
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	// Value is the weighted share of class 1 among the training samples that reached the node
	Value float64 `json:"v"`
}

// Tree is a binary CART tree; Nodes[0] is the root
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Leaf returns the class-1 share for x
func (t Tree) Leaf(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth is the longest root-to-leaf path
func (t Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Left < 0 {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0)
}

// builder grows one tree over weighted samples
type builder struct {
	x          [][]float64
	y          []int
	w          []float64 // per-sample weight, 0 for out-of-bag rows
	p          Params
	mtry       int
	rng        *rand.Rand
	nodes      []Node
	importance []float64
	total      float64
}

func gini(w0, w1 float64) float64 {
	t := w0 + w1
	if t <= 0 {
		return 0
	}
	p0, p1 := w0/t, w1/t
	return 1 - p0*p0 - p1*p1
}

func (b *builder) weights(idx []int) (w0, w1 float64) {
	for _, i := range idx {
		if b.y[i] == 1 {
			w1 += b.w[i]
		} else {
			w0 += b.w[i]
		}
	}
	return
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	pos       int // idx[:pos] goes left after sorting by feature
	ok        bool
}

// best scans features in random order; it stops after mtry features that vary
// within the node, or keeps going until one does
func (b *builder) best(idx []int, w0, w1 float64) split {
	parent := gini(w0, w1)
	wt := w0 + w1
	order := b.rng.Perm(len(b.x[0]))
	var out split
	sorted := make([]int, len(idx))
	visited := 0
	for _, f := range order {
		if visited >= b.mtry && out.ok {
			break
		}
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool { return b.x[sorted[a]][f] < b.x[sorted[c]][f] })
		lo, hi := b.x[sorted[0]][f], b.x[sorted[len(sorted)-1]][f]
		if lo == hi {
			continue
		}
		visited++

		var l0, l1 float64
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			if b.y[i] == 1 {
				l1 += b.w[i]
			} else {
				l0 += b.w[i]
			}
			cur, next := b.x[i][f], b.x[sorted[k+1]][f]
			if cur == next {
				continue
			}
			left := k + 1
			if left < b.p.MinSamplesLeaf || len(sorted)-left < b.p.MinSamplesLeaf {
				continue
			}
			wl := l0 + l1
			wr := wt - wl
			gain := parent - (wl/wt)*gini(l0, l1) - (wr/wt)*gini(w0-l0, w1-l1)
			if !out.ok || gain > out.gain {
				thr := cur + (next-cur)/2
				if thr >= next || math.IsInf(thr, 0) {
					thr = cur
				}
				out = split{feature: f, threshold: thr, gain: gain, pos: left, ok: true}
			}
		}
	}
	return out
}

// grow builds the subtree over idx and returns its node index
func (b *builder) grow(idx []int, depth int) int {
	w0, w1 := b.weights(idx)
	self := len(b.nodes)
	value := 0.0
	if w0+w1 > 0 {
		value = w1 / (w0 + w1)
	}
	b.nodes = append(b.nodes, Node{Left: -1, Right: -1, Value: value})

	if len(idx) < b.p.MinSamplesSplit || gini(w0, w1) == 0 || (b.p.MaxDepth > 0 && depth >= b.p.MaxDepth) {
		return self
	}
	s := b.best(idx, w0, w1)
	if !s.ok || s.gain <= 0 {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][s.feature] <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return self
	}
	b.importance[s.feature] += (w0 + w1) / b.total * s.gain

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[self].Feature = s.feature
	b.nodes[self].Threshold = s.threshold
	b.nodes[self].Left = l
	b.nodes[self].Right = r
	return self
}
