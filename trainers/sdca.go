package trainers

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
)

// SdcaOptions configures the stochastic dual coordinate ascent trainers.
type SdcaOptions struct {
	LabelColumnName   string
	FeatureColumnName string
	// MaximumNumberOfIterations is the number of passes over the data.
	MaximumNumberOfIterations int
	L2Regularization          float64
	// ConvergenceTolerance stops training once the mean dual update of a
	// pass falls below it.
	ConvergenceTolerance float64
	Seed                 int64
}

func (o SdcaOptions) withDefaults() SdcaOptions {
	o.LabelColumnName = orDefault(o.LabelColumnName, DefaultLabel)
	o.FeatureColumnName = orDefault(o.FeatureColumnName, DefaultFeatures)
	if o.MaximumNumberOfIterations <= 0 {
		o.MaximumNumberOfIterations = 100
	}
	if o.L2Regularization <= 0 {
		o.L2Regularization = 1e-4
	}
	if o.ConvergenceTolerance <= 0 {
		o.ConvergenceTolerance = 1e-7
	}
	return o
}

type dualLoss int

const (
	squaredLoss dualLoss = iota
	logisticLoss
)

// LinearModel scores rows as Weights·x + Bias.
type LinearModel struct {
	Features string
	Weights  []float64
	Bias     float64
}

func (m *LinearModel) scores(v *data.View) ([]float64, error) {
	x, _, err := featureMatrix(v, m.Features)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != len(m.Weights) {
			return nil, errWidth(m.Features, len(row), len(m.Weights))
		}
		out[i] = floats.Dot(m.Weights, row) + m.Bias
	}
	return out, nil
}

// sdca maximises the dual of the L2 regularised empirical loss. Features are
// scaled into [-1, 1] and a constant bias feature is appended; the returned
// weights are in the original feature space.
func sdca(ctx context.Context, x [][]float64, dim int, y []float64, loss dualLoss, o SdcaOptions) (*LinearModel, error) {
	n := len(x)
	model := &LinearModel{Features: o.FeatureColumnName, Weights: make([]float64, dim)}
	if n == 0 {
		return model, nil
	}
	scale := maxAbsScale(x, dim)
	xs := make([][]float64, n)
	norms := make([]float64, n)
	for i, row := range x {
		xs[i] = make([]float64, dim)
		floats.MulTo(xs[i], row, scale)
		norms[i] = floats.Dot(xs[i], xs[i]) + 1
	}

	ln := o.L2Regularization * float64(n)
	w := make([]float64, dim)
	var b float64
	alpha := make([]float64, n)
	rng := rand.New(rand.NewSource(o.Seed))

	epoch := 0
	for ; epoch < o.MaximumNumberOfIterations; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var change float64
		for _, i := range rng.Perm(n) {
			m := floats.Dot(w, xs[i]) + b
			q := norms[i] / ln
			var delta float64
			switch loss {
			case squaredLoss:
				delta = (y[i] - m - alpha[i]) / (1 + q)
			case logisticLoss:
				beta := alpha[i] * y[i]
				delta = y[i] * (logisticDual(beta, y[i]*m, q) - beta)
			}
			if delta == 0 {
				continue
			}
			alpha[i] += delta
			floats.AddScaled(w, delta/ln, xs[i])
			b += delta / ln
			change += math.Abs(delta)
		}
		if change/float64(n) < o.ConvergenceTolerance {
			break
		}
	}
	logging.Global().Debugw("sdca converged", "passes", epoch, "rows", n, "features", dim)

	floats.MulTo(model.Weights, w, scale)
	model.Bias = b
	return model, nil
}

// logisticDual solves log(b/(1-b)) + ym + (b-beta)q = 0 for b in (0, 1), the
// coordinate maximiser of the logistic dual, by safeguarded Newton steps.
func logisticDual(beta, ym, q float64) float64 {
	const eps = 1e-12
	lo, hi := 0.0, 1.0
	b := sigmoid(-ym)
	for iter := 0; iter < 30; iter++ {
		b = math.Min(math.Max(b, eps), 1-eps)
		f := math.Log(b/(1-b)) + ym + (b-beta)*q
		if math.Abs(f) < 1e-10 {
			break
		}
		if f > 0 {
			hi = b
		} else {
			lo = b
		}
		next := b - f/(1/(b*(1-b))+q)
		if next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		b = next
	}
	return b
}

// SdcaRegressionTrainer fits a linear regressor with squared loss.
type SdcaRegressionTrainer struct {
	Options SdcaOptions
}

// SdcaRegression returns a regression trainer.
func SdcaRegression(opts SdcaOptions) *SdcaRegressionTrainer {
	return &SdcaRegressionTrainer{Options: opts.withDefaults()}
}

// Fit trains on the label and feature columns.
func (t *SdcaRegressionTrainer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	x, dim, err := featureMatrix(v, t.Options.FeatureColumnName)
	if err != nil {
		return nil, err
	}
	y, err := floatLabels(v, t.Options.LabelColumnName)
	if err != nil {
		return nil, err
	}
	m, err := sdca(ctx, x, dim, y, squaredLoss, t.Options)
	if err != nil {
		return nil, err
	}
	return &RegressionModel{LinearModel: *m}, nil
}

// RegressionModel adds a Score column.
type RegressionModel struct {
	LinearModel
}

// Kind implements pipeline.Persistent.
func (m *RegressionModel) Kind() string { return "trainers.RegressionModel" }

// Transform adds Score.
func (m *RegressionModel) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	s, err := m.scores(v)
	if err != nil {
		return nil, err
	}
	v = v.Clone()
	return v, v.Add(data.NewFloats(Score, s))
}

// SdcaLogisticRegressionTrainer fits a binary classifier with logistic loss.
type SdcaLogisticRegressionTrainer struct {
	Options SdcaOptions
}

// SdcaLogisticRegression returns a binary classification trainer.
func SdcaLogisticRegression(opts SdcaOptions) *SdcaLogisticRegressionTrainer {
	return &SdcaLogisticRegressionTrainer{Options: opts.withDefaults()}
}

// Fit trains on the label and feature columns.
func (t *SdcaLogisticRegressionTrainer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	x, dim, err := featureMatrix(v, t.Options.FeatureColumnName)
	if err != nil {
		return nil, err
	}
	labels, err := boolLabels(v, t.Options.LabelColumnName)
	if err != nil {
		return nil, err
	}
	y := make([]float64, len(labels))
	for i, l := range labels {
		y[i] = -1
		if l {
			y[i] = 1
		}
	}
	m, err := sdca(ctx, x, dim, y, logisticLoss, t.Options)
	if err != nil {
		return nil, err
	}
	return &BinaryModel{LinearModel: *m}, nil
}

// BinaryModel adds Score, Probability and PredictedLabel columns.
type BinaryModel struct {
	LinearModel
}

// Kind implements pipeline.Persistent.
func (m *BinaryModel) Kind() string { return "trainers.BinaryModel" }

// Transform adds the raw score, its sigmoid and the decision score > 0.
func (m *BinaryModel) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	s, err := m.scores(v)
	if err != nil {
		return nil, err
	}
	p := make([]float64, len(s))
	l := make([]bool, len(s))
	for i, x := range s {
		p[i] = sigmoid(x)
		l[i] = x > 0
	}
	v = v.Clone()
	for _, c := range []*data.Column{
		data.NewFloats(Score, s),
		data.NewFloats(Probability, p),
		data.NewBools(PredictedLabel, l),
	} {
		if err := v.Add(c); err != nil {
			return nil, err
		}
	}
	return v, nil
}
