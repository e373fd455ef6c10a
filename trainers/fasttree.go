package trainers

import (
	"context"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/parallel"
	"github.com/neurlang/mlsamples/pipeline"
)

// FastTreeOptions configures gradient boosted regression trees.
type FastTreeOptions struct {
	LabelColumnName            string
	FeatureColumnName          string
	NumberOfLeaves             int
	NumberOfTrees              int
	MinimumExampleCountPerLeaf int
	LearningRate               float64
	MaximumBinCountPerFeature  int
}

func (o FastTreeOptions) withDefaults() FastTreeOptions {
	o.LabelColumnName = orDefault(o.LabelColumnName, DefaultLabel)
	o.FeatureColumnName = orDefault(o.FeatureColumnName, DefaultFeatures)
	if o.NumberOfLeaves < 2 {
		o.NumberOfLeaves = 20
	}
	if o.NumberOfTrees <= 0 {
		o.NumberOfTrees = 100
	}
	if o.MinimumExampleCountPerLeaf <= 0 {
		o.MinimumExampleCountPerLeaf = 10
	}
	if o.LearningRate <= 0 {
		o.LearningRate = 0.2
	}
	if o.MaximumBinCountPerFeature < 2 || o.MaximumBinCountPerFeature > 256 {
		o.MaximumBinCountPerFeature = 255
	}
	return o
}

// FastTreeTrainer grows regression trees leaf-wise on histogram binned features.
type FastTreeTrainer struct {
	Options FastTreeOptions
}

// FastTree returns a boosted trees regression trainer.
func FastTree(opts FastTreeOptions) *FastTreeTrainer {
	return &FastTreeTrainer{Options: opts.withDefaults()}
}

// TreeNode is one node of a flattened tree. Leaves carry Value; inner nodes
// send rows with x[Feature] >= Threshold to the node Positive places ahead,
// and all other rows to the next node.
type TreeNode struct {
	Leaf      bool
	Feature   uint32
	Threshold float64
	Positive  uint32
	Value     float64
}

// FastTreeModel is a boosted forest stored depth first in one node slice.
type FastTreeModel struct {
	Features string
	Dim      int
	Bias     float64
	Roots    []uint32
	Nodes    []TreeNode
}

// Kind implements pipeline.Persistent.
func (m *FastTreeModel) Kind() string { return "trainers.FastTreeModel" }

// Predict sums the leaf values reached by row.
func (m *FastTreeModel) Predict(row []float64) float64 {
	sum := m.Bias
	for _, root := range m.Roots {
		idx := root
		for {
			node := &m.Nodes[idx]
			if node.Leaf {
				sum += node.Value
				break
			}
			if row[node.Feature] >= node.Threshold {
				idx += node.Positive
			} else {
				idx++
			}
		}
	}
	return sum
}

// Transform adds Score.
func (m *FastTreeModel) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	x, dim, err := featureMatrix(v, m.Features)
	if err != nil {
		return nil, err
	}
	if len(x) > 0 && dim != m.Dim {
		return nil, errWidth(m.Features, dim, m.Dim)
	}
	out := make([]float64, len(x))
	parallel.ForEach(len(x), parallel.Threads(), func(i int) {
		out[i] = m.Predict(x[i])
	})
	v = v.Clone()
	return v, v.Add(data.NewFloats(Score, out))
}

// binStat accumulates the residuals falling into one bin.
type binStat struct {
	count int
	sum   float64
}

type split struct {
	gain    float64
	feature int
	bin     int // rows with bin >= this go positive
}

type buildNode struct {
	leaf      bool
	feature   int
	threshold float64
	value     float64
	negative  *buildNode
	positive  *buildNode
}

type growLeaf struct {
	rows  []int
	hist  [][]binStat
	sum   float64
	node  *buildNode
	split split
}

type forestBuilder struct {
	o          FastTreeOptions
	thresholds [][]float64
	bins       [][]uint8
	threads    int
}

// Fit boosts trees on the squared loss starting from the label mean.
func (t *FastTreeTrainer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	o := t.Options
	x, dim, err := featureMatrix(v, o.FeatureColumnName)
	if err != nil {
		return nil, err
	}
	y, err := floatLabels(v, o.LabelColumnName)
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, errors.New("fasttree: no rows")
	}

	b := &forestBuilder{o: o, threads: parallel.Threads()}
	b.binFeatures(x, dim)

	var mean float64
	for _, l := range y {
		mean += l
	}
	mean /= float64(len(y))
	model := &FastTreeModel{Features: o.FeatureColumnName, Dim: dim, Bias: mean}

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = mean
	}
	residual := make([]float64, len(y))
	logger := logging.Global()
	for tree := 0; tree < o.NumberOfTrees; tree++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var sse float64
		for i := range residual {
			residual[i] = y[i] - pred[i]
			sse += residual[i] * residual[i]
		}
		root, leafOf := b.grow(residual)
		model.Roots = append(model.Roots, uint32(len(model.Nodes)))
		model.Nodes = flatten(root, model.Nodes)
		for i := range pred {
			pred[i] += leafOf[i].value
		}
		if (tree+1)%10 == 0 {
			logger.Debugw("boosting", "trees", tree+1, "rmse", math.Sqrt(sse/float64(len(y))))
		}
	}
	return model, nil
}

// binFeatures picks at most MaximumBinCountPerFeature-1 thresholds per feature
// at quantiles of the distinct values and bins every row.
func (b *forestBuilder) binFeatures(x [][]float64, dim int) {
	b.thresholds = make([][]float64, dim)
	b.bins = make([][]uint8, dim)
	parallel.ForEach(dim, b.threads, func(j int) {
		values := make([]float64, len(x))
		for i, row := range x {
			values[i] = row[j]
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		var distinct []float64
		var counts []int
		for _, v := range sorted {
			if n := len(distinct); n > 0 && distinct[n-1] == v {
				counts[n-1]++
				continue
			}
			distinct = append(distinct, v)
			counts = append(counts, 1)
		}
		maxThresholds := b.o.MaximumBinCountPerFeature - 1
		var ths []float64
		if len(distinct)-1 <= maxThresholds {
			for k := 1; k < len(distinct); k++ {
				ths = append(ths, (distinct[k-1]+distinct[k])/2)
			}
		} else {
			per := float64(len(sorted)) / float64(maxThresholds+1)
			next := per
			seen := 0
			for k := 0; k+1 < len(distinct) && len(ths) < maxThresholds; k++ {
				seen += counts[k]
				if float64(seen) >= next {
					ths = append(ths, (distinct[k]+distinct[k+1])/2)
					for next <= float64(seen) {
						next += per
					}
				}
			}
		}
		b.thresholds[j] = ths
		bins := make([]uint8, len(values))
		for i, v := range values {
			bins[i] = uint8(binOf(ths, v))
		}
		b.bins[j] = bins
	})
}

// binOf counts the thresholds not above v.
func binOf(ths []float64, v float64) int {
	return sort.Search(len(ths), func(i int) bool { return ths[i] > v })
}

// grow builds one tree on residual and returns the leaf of every row.
func (b *forestBuilder) grow(residual []float64) (*buildNode, []*buildNode) {
	rows := make([]int, len(residual))
	var sum float64
	for i := range rows {
		rows[i] = i
		sum += residual[i]
	}
	root := &growLeaf{rows: rows, sum: sum, node: &buildNode{leaf: true}}
	root.hist = b.histogram(rows, residual)
	root.split = b.bestSplit(root)
	leaves := []*growLeaf{root}

	for len(leaves) < b.o.NumberOfLeaves {
		best := -1
		for i, l := range leaves {
			if l.split.gain > 0 && (best < 0 || l.split.gain > leaves[best].split.gain) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		parent := leaves[best]
		s := parent.split
		var neg, pos []int
		for _, r := range parent.rows {
			if int(b.bins[s.feature][r]) >= s.bin {
				pos = append(pos, r)
			} else {
				neg = append(neg, r)
			}
		}
		negLeaf := &growLeaf{rows: neg, node: &buildNode{leaf: true}}
		posLeaf := &growLeaf{rows: pos, node: &buildNode{leaf: true}}
		small, large := negLeaf, posLeaf
		if len(pos) < len(neg) {
			small, large = posLeaf, negLeaf
		}
		small.hist = b.histogram(small.rows, residual)
		large.hist = subtract(parent.hist, small.hist)
		for _, r := range neg {
			negLeaf.sum += residual[r]
		}
		posLeaf.sum = parent.sum - negLeaf.sum
		negLeaf.split = b.bestSplit(negLeaf)
		posLeaf.split = b.bestSplit(posLeaf)

		*parent.node = buildNode{
			feature:   s.feature,
			threshold: b.thresholds[s.feature][s.bin-1],
			negative:  negLeaf.node,
			positive:  posLeaf.node,
		}
		parent.hist = nil
		leaves[best] = negLeaf
		leaves = append(leaves, posLeaf)
	}

	leafOf := make([]*buildNode, len(residual))
	for _, l := range leaves {
		l.node.value = b.o.LearningRate * l.sum / float64(len(l.rows))
		for _, r := range l.rows {
			leafOf[r] = l.node
		}
	}
	return root.node, leafOf
}

func (b *forestBuilder) histogram(rows []int, residual []float64) [][]binStat {
	hist := make([][]binStat, len(b.bins))
	parallel.ForEach(len(b.bins), b.threads, func(j int) {
		h := make([]binStat, len(b.thresholds[j])+1)
		bins := b.bins[j]
		for _, r := range rows {
			h[bins[r]].count++
			h[bins[r]].sum += residual[r]
		}
		hist[j] = h
	})
	return hist
}

func subtract(parent, child [][]binStat) [][]binStat {
	out := make([][]binStat, len(parent))
	for j := range parent {
		out[j] = make([]binStat, len(parent[j]))
		for k := range parent[j] {
			out[j][k] = binStat{parent[j][k].count - child[j][k].count, parent[j][k].sum - child[j][k].sum}
		}
	}
	return out
}

// bestSplit maximises the reduction of squared error over every feature and
// bin boundary keeping MinimumExampleCountPerLeaf rows on both sides.
func (b *forestBuilder) bestSplit(l *growLeaf) split {
	n := len(l.rows)
	minLeaf := b.o.MinimumExampleCountPerLeaf
	best := split{}
	if n < 2*minLeaf {
		return best
	}
	base := l.sum * l.sum / float64(n)
	perFeature := make([]split, len(l.hist))
	parallel.ForEach(len(l.hist), b.threads, func(j int) {
		h := l.hist[j]
		var posCount int
		var posSum float64
		for k := len(h) - 1; k >= 1; k-- {
			posCount += h[k].count
			posSum += h[k].sum
			negCount := n - posCount
			if posCount < minLeaf {
				continue
			}
			if negCount < minLeaf {
				break
			}
			negSum := l.sum - posSum
			gain := posSum*posSum/float64(posCount) + negSum*negSum/float64(negCount) - base
			if gain > perFeature[j].gain {
				perFeature[j] = split{gain: gain, feature: j, bin: k}
			}
		}
	})
	for _, s := range perFeature {
		if s.gain > best.gain {
			best = s
		}
	}
	return best
}

// flatten appends the tree depth first, negative child right after its parent.
func flatten(n *buildNode, nodes []TreeNode) []TreeNode {
	if n.leaf {
		return append(nodes, TreeNode{Leaf: true, Value: n.value})
	}
	self := len(nodes)
	nodes = append(nodes, TreeNode{Feature: uint32(n.feature), Threshold: n.threshold})
	nodes = flatten(n.negative, nodes)
	nodes[self].Positive = uint32(len(nodes) - self)
	return flatten(n.positive, nodes)
}
