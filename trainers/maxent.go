package trainers

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/parallel"
	"github.com/neurlang/mlsamples/pipeline"
)

// MaximumEntropyOptions configures the multiclass logistic regression trainer.
type MaximumEntropyOptions struct {
	// LabelColumnName must name a key column.
	LabelColumnName           string
	FeatureColumnName         string
	L2Regularization          float64
	MaximumNumberOfIterations int
	OptimizationTolerance     float64
}

func (o MaximumEntropyOptions) withDefaults() MaximumEntropyOptions {
	o.LabelColumnName = orDefault(o.LabelColumnName, DefaultLabel)
	o.FeatureColumnName = orDefault(o.FeatureColumnName, DefaultFeatures)
	if o.L2Regularization <= 0 {
		o.L2Regularization = 1
	}
	if o.MaximumNumberOfIterations <= 0 {
		o.MaximumNumberOfIterations = 100
	}
	if o.OptimizationTolerance <= 0 {
		o.OptimizationTolerance = 1e-5
	}
	return o
}

// MaximumEntropyTrainer fits softmax regression with L-BFGS.
type MaximumEntropyTrainer struct {
	Options MaximumEntropyOptions
}

// LbfgsMaximumEntropy returns a multiclass trainer.
func LbfgsMaximumEntropy(opts MaximumEntropyOptions) *MaximumEntropyTrainer {
	return &MaximumEntropyTrainer{Options: opts.withDefaults()}
}

// Fit minimises the summed cross entropy plus L2/2 times the squared weights.
// Rows with a missing key are skipped.
func (t *MaximumEntropyTrainer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	o := t.Options
	labels, err := v.ColumnOf(o.LabelColumnName, data.Key)
	if err != nil {
		return nil, err
	}
	all, dim, err := featureMatrix(v, o.FeatureColumnName)
	if err != nil {
		return nil, err
	}
	classes := len(labels.Vocabulary)
	if classes < 2 {
		return nil, errors.Errorf("label %q has %d classes, need at least 2", o.LabelColumnName, classes)
	}
	var x [][]float64
	var y []int
	for i, k := range labels.Keys {
		if k == 0 {
			continue
		}
		x = append(x, all[i])
		y = append(y, int(k-1))
	}
	if len(x) == 0 {
		return nil, errors.New("no labelled rows")
	}

	scale := maxAbsScale(x, dim)
	xs := make([][]float64, len(x))
	for i, row := range x {
		xs[i] = make([]float64, dim)
		floats.MulTo(xs[i], row, scale)
	}

	obj := &softmaxObjective{x: xs, y: y, classes: classes, dim: dim, l2: o.L2Regularization,
		chunks: parallel.Chunks(len(xs), parallel.Threads())}
	problem := optimize.Problem{
		Func: func(theta []float64) float64 { return obj.eval(theta, nil) },
		Grad: func(grad, theta []float64) { obj.eval(theta, grad) },
	}
	settings := &optimize.Settings{
		MajorIterations:   o.MaximumNumberOfIterations,
		GradientThreshold: o.OptimizationTolerance,
		Recorder:          contextRecorder{ctx},
	}
	init := make([]float64, classes*(dim+1))
	result, err := optimize.Minimize(problem, init, settings, &optimize.LBFGS{})
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}
	if result == nil {
		return nil, errors.Wrap(err, "lbfgs")
	}
	if err != nil {
		logging.Global().Warnw("lbfgs stopped early", "error", err)
	}
	logging.Global().Debugw("lbfgs finished", "status", result.Status.String(),
		"iterations", result.Stats.MajorIterations, "loss", result.F)

	m := &MulticlassModel{Features: o.FeatureColumnName, Classes: labels.Vocabulary,
		Weights: make([][]float64, classes), Bias: make([]float64, classes)}
	for c := 0; c < classes; c++ {
		m.Weights[c] = make([]float64, dim)
		floats.MulTo(m.Weights[c], result.X[c*dim:(c+1)*dim], scale)
		m.Bias[c] = result.X[classes*dim+c]
	}
	return m, nil
}

// contextRecorder fails the optimization once ctx is done.
type contextRecorder struct {
	ctx context.Context
}

func (r contextRecorder) Init() error { return r.ctx.Err() }

func (r contextRecorder) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return r.ctx.Err()
}

type softmaxObjective struct {
	x       [][]float64
	y       []int
	classes int
	dim     int
	l2      float64
	chunks  [][2]int
}

// eval returns the objective at theta and writes the gradient when grad is
// not nil. theta holds the class weight rows followed by the class biases.
func (s *softmaxObjective) eval(theta, grad []float64) float64 {
	k, d := s.classes, s.dim
	losses := make([]float64, len(s.chunks))
	var grads [][]float64
	if grad != nil {
		grads = make([][]float64, len(s.chunks))
	}
	parallel.ForEach(len(s.chunks), len(s.chunks), func(c int) {
		z := make([]float64, k)
		var g []float64
		if grad != nil {
			g = make([]float64, len(theta))
			grads[c] = g
		}
		for i := s.chunks[c][0]; i < s.chunks[c][1]; i++ {
			row := s.x[i]
			for j := 0; j < k; j++ {
				z[j] = floats.Dot(theta[j*d:(j+1)*d], row) + theta[k*d+j]
			}
			softmax(z)
			losses[c] -= math.Log(math.Max(z[s.y[i]], 1e-300))
			if g == nil {
				continue
			}
			z[s.y[i]] -= 1
			for j := 0; j < k; j++ {
				floats.AddScaled(g[j*d:(j+1)*d], z[j], row)
				g[k*d+j] += z[j]
			}
		}
	})
	loss := floats.Sum(losses)
	weights := theta[:k*d]
	loss += s.l2 / 2 * floats.Dot(weights, weights)
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
		for _, g := range grads {
			floats.Add(grad, g)
		}
		floats.AddScaled(grad[:k*d], s.l2, weights)
	}
	return loss
}

// MulticlassModel adds class probabilities as Score and the most likely
// class as the PredictedLabel key.
type MulticlassModel struct {
	Features string
	Classes  []string
	Weights  [][]float64
	Bias     []float64
}

// Kind implements pipeline.Persistent.
func (m *MulticlassModel) Kind() string { return "trainers.MulticlassModel" }

// Probabilities returns the class probabilities of one feature vector.
func (m *MulticlassModel) Probabilities(row []float64) ([]float64, error) {
	z := make([]float64, len(m.Classes))
	for c := range z {
		if len(row) != len(m.Weights[c]) {
			return nil, errWidth(m.Features, len(row), len(m.Weights[c]))
		}
		z[c] = floats.Dot(m.Weights[c], row) + m.Bias[c]
	}
	softmax(z)
	return z, nil
}

// Transform adds Score and PredictedLabel.
func (m *MulticlassModel) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	x, _, err := featureMatrix(v, m.Features)
	if err != nil {
		return nil, err
	}
	scores := make([][]float64, len(x))
	keys := make([]uint32, len(x))
	for i, row := range x {
		p, err := m.Probabilities(row)
		if err != nil {
			return nil, err
		}
		scores[i] = p
		keys[i] = uint32(argmax(p) + 1)
	}
	v = v.Clone()
	if err := v.Add(data.NewVectors(Score, scores)); err != nil {
		return nil, err
	}
	return v, v.Add(data.NewKeys(PredictedLabel, keys, m.Classes))
}
