package transforms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/inference"
	"github.com/neurlang/mlsamples/pipeline"
)

// ScoreOptions names the tensors a Scorer feeds and reads.
type ScoreOptions struct {
	InputColumn  string
	OutputColumn string
	// InputTensor and OutputTensor default to the column names.
	InputTensor  string
	OutputTensor string
	// InputShape is the tensor shape of one row, without the batch dimension.
	InputShape []int
	// AddBatchDimension prefixes InputShape with 1.
	AddBatchDimension bool
}

// Scorer runs every row of a vector column through a pretrained network.
type Scorer struct {
	ModelPath string
	Options   ScoreOptions

	model inference.Model
}

// ScoreModel returns an estimator scoring with model, which was loaded from
// modelPath. A nil model is opened from modelPath on first use.
func ScoreModel(modelPath string, model inference.Model, opts ScoreOptions) *Scorer {
	if opts.InputTensor == "" {
		opts.InputTensor = opts.InputColumn
	}
	if opts.OutputTensor == "" {
		opts.OutputTensor = opts.OutputColumn
	}
	return &Scorer{ModelPath: modelPath, Options: opts, model: model}
}

// Kind implements pipeline.Persistent.
func (s *Scorer) Kind() string { return "transforms.ScoreModel" }

// Bind reattaches the network after loading, preferring a model passed in
// opts under ModelPath.
func (s *Scorer) Bind(opts pipeline.LoadOptions) error {
	if r, ok := opts.Resource(s.ModelPath); ok {
		m, ok := r.(inference.Model)
		if !ok {
			return errors.Errorf("resource %q is %T, not a model", s.ModelPath, r)
		}
		s.model = m
		return nil
	}
	return s.open()
}

func (s *Scorer) open() error {
	if s.model != nil {
		return nil
	}
	m, err := inference.Load(s.ModelPath)
	if err != nil {
		return err
	}
	s.model = m
	return nil
}

// Close releases the network.
func (s *Scorer) Close() error {
	if s.model == nil {
		return nil
	}
	err := s.model.Close()
	s.model = nil
	return err
}

// Fit opens the network if needed and returns s.
func (s *Scorer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// Transform adds the network output of every row.
func (s *Scorer) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	col, err := v.ColumnOf(s.Options.InputColumn, data.Vector)
	if err != nil {
		return nil, err
	}
	shape := s.Options.InputShape
	if s.Options.AddBatchDimension {
		shape = append([]int{1}, shape...)
	}
	out := make([][]float64, len(col.Vectors))
	for i, vec := range col.Vectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf := make([]float32, len(vec))
		for j, x := range vec {
			buf[j] = float32(x)
		}
		rowShape := shape
		if len(rowShape) == 0 {
			rowShape = []int{1, len(buf)}
		}
		result, err := s.model.Infer(ctx, inference.Tensors{
			s.Options.InputTensor: inference.NewFloat32(buf, rowShape...),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "score row %d", i)
		}
		t, ok := result[s.Options.OutputTensor]
		if !ok && len(result) == 1 {
			for _, only := range result {
				t = only
			}
		}
		values, err := inference.Float32(t)
		if err != nil {
			return nil, errors.Wrapf(err, "output %q of row %d", s.Options.OutputTensor, i)
		}
		row := make([]float64, len(values))
		for j, x := range values {
			row[j] = float64(x)
		}
		out[i] = row
	}
	v = v.Clone()
	return v, v.Add(data.NewVectors(s.Options.OutputColumn, out))
}
