package trainers

import (
	"context"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
)

// MatrixFactorizationOptions configures the recommendation trainer. Both
// index columns must be key columns.
type MatrixFactorizationOptions struct {
	MatrixColumnIndexColumnName string
	MatrixRowIndexColumnName    string
	LabelColumnName             string
	ApproximationRank           int
	NumberOfIterations          int
	LearningRate                float64
	Lambda                      float64
	Seed                        int64
}

func (o MatrixFactorizationOptions) withDefaults() MatrixFactorizationOptions {
	o.LabelColumnName = orDefault(o.LabelColumnName, DefaultLabel)
	if o.ApproximationRank <= 0 {
		o.ApproximationRank = 8
	}
	if o.NumberOfIterations <= 0 {
		o.NumberOfIterations = 20
	}
	if o.LearningRate <= 0 {
		o.LearningRate = 0.1
	}
	if o.Lambda <= 0 {
		o.Lambda = 0.1
	}
	return o
}

// MatrixFactorizationTrainer learns low rank factors of a sparse rating
// matrix with adaptive stochastic gradient descent.
type MatrixFactorizationTrainer struct {
	Options MatrixFactorizationOptions
}

// MatrixFactorization returns a recommendation trainer.
func MatrixFactorization(opts MatrixFactorizationOptions) *MatrixFactorizationTrainer {
	return &MatrixFactorizationTrainer{Options: opts.withDefaults()}
}

// Fit factorises label ≈ mean + column bias + row bias + column factor · row factor.
func (t *MatrixFactorizationTrainer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	o := t.Options
	if o.MatrixColumnIndexColumnName == "" || o.MatrixRowIndexColumnName == "" {
		return nil, errors.New("matrix factorization: index columns not set")
	}
	cols, err := v.ColumnOf(o.MatrixColumnIndexColumnName, data.Key)
	if err != nil {
		return nil, err
	}
	rows, err := v.ColumnOf(o.MatrixRowIndexColumnName, data.Key)
	if err != nil {
		return nil, err
	}
	labels, err := floatLabels(v, o.LabelColumnName)
	if err != nil {
		return nil, err
	}

	type rating struct {
		c, r int
		y    float64
	}
	var ratings []rating
	var mean float64
	for i, y := range labels {
		if cols.Keys[i] == 0 || rows.Keys[i] == 0 {
			continue
		}
		ratings = append(ratings, rating{int(cols.Keys[i] - 1), int(rows.Keys[i] - 1), y})
		mean += y
	}
	if len(ratings) == 0 {
		return nil, errors.New("matrix factorization: no ratings")
	}
	mean /= float64(len(ratings))

	k := o.ApproximationRank
	nc, nr := len(cols.Vocabulary), len(rows.Vocabulary)
	rng := rand.New(rand.NewSource(o.Seed))
	initial := func(n int) *mat.Dense {
		m := mat.NewDense(n, k, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < k; j++ {
				m.Set(i, j, rng.NormFloat64()*0.1/math.Sqrt(float64(k)))
			}
		}
		return m
	}
	p, q := initial(nc), initial(nr)
	bc, br := make([]float64, nc), make([]float64, nr)
	// adagrad accumulators, one per factor vector
	gp, gq := ones(nc), ones(nr)
	gbc, gbr := ones(nc), ones(nr)

	gradP := make([]float64, k)
	gradQ := make([]float64, k)
	lr, lambda := o.LearningRate, o.Lambda
	logger := logging.Global()
	for iter := 0; iter < o.NumberOfIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var sse float64
		for _, idx := range rng.Perm(len(ratings)) {
			rt := ratings[idx]
			pu, qi := p.RawRowView(rt.c), q.RawRowView(rt.r)
			e := rt.y - (mean + bc[rt.c] + br[rt.r] + floats.Dot(pu, qi))
			sse += e * e

			// gradients of the regularised squared error
			floats.ScaleTo(gradP, -e, qi)
			floats.AddScaled(gradP, lambda, pu)
			floats.ScaleTo(gradQ, -e, pu)
			floats.AddScaled(gradQ, lambda, qi)
			gc := -e + lambda*bc[rt.c]
			gr := -e + lambda*br[rt.r]

			gp[rt.c] += floats.Dot(gradP, gradP) / float64(k)
			gq[rt.r] += floats.Dot(gradQ, gradQ) / float64(k)
			gbc[rt.c] += gc * gc
			gbr[rt.r] += gr * gr

			floats.AddScaled(pu, -lr/math.Sqrt(gp[rt.c]), gradP)
			floats.AddScaled(qi, -lr/math.Sqrt(gq[rt.r]), gradQ)
			bc[rt.c] -= lr / math.Sqrt(gbc[rt.c]) * gc
			br[rt.r] -= lr / math.Sqrt(gbr[rt.r]) * gr
		}
		logger.Debugw("matrix factorization", "iteration", iter+1,
			"rmse", math.Sqrt(sse/float64(len(ratings))))
	}

	m := &MatrixFactorizationModel{
		ColumnIndex: o.MatrixColumnIndexColumnName,
		RowIndex:    o.MatrixRowIndexColumnName,
		Mean:        mean,
		ColumnBias:  bc,
		RowBias:     br,
		Columns:     rowsOf(p),
		Rows:        rowsOf(q),
	}
	return m, nil
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func rowsOf(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = append([]float64(nil), m.RawRowView(i)...)
	}
	return out
}

// MatrixFactorizationModel predicts ratings from two key columns.
type MatrixFactorizationModel struct {
	ColumnIndex string
	RowIndex    string
	Mean        float64
	ColumnBias  []float64
	RowBias     []float64
	Columns     [][]float64
	Rows        [][]float64
}

// Kind implements pipeline.Persistent.
func (m *MatrixFactorizationModel) Kind() string { return "trainers.MatrixFactorizationModel" }

// Predict returns the rating of column key c and row key r. Missing or
// unknown keys fall back to the global mean.
func (m *MatrixFactorizationModel) Predict(c, r uint32) float64 {
	if c == 0 || r == 0 || int(c) > len(m.Columns) || int(r) > len(m.Rows) {
		return m.Mean
	}
	return m.Mean + m.ColumnBias[c-1] + m.RowBias[r-1] + floats.Dot(m.Columns[c-1], m.Rows[r-1])
}

// Transform adds Score.
func (m *MatrixFactorizationModel) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	cols, err := v.ColumnOf(m.ColumnIndex, data.Key)
	if err != nil {
		return nil, err
	}
	rows, err := v.ColumnOf(m.RowIndex, data.Key)
	if err != nil {
		return nil, err
	}
	out := make([]float64, cols.Len())
	for i := range out {
		out[i] = m.Predict(cols.Keys[i], rows.Keys[i])
	}
	v = v.Clone()
	return v, v.Add(data.NewFloats(Score, out))
}
