package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/parallel"
)

// PredictionEngine maps In rows to Out rows through a fitted transformer.
// Out fields are filled from the output columns by their `col` names.
//
// A PredictionEngine reuses its input buffer and is not safe for concurrent use.
type PredictionEngine[In, Out any] struct {
	model Transformer
	one   []In
}

// NewPredictionEngine returns an engine over model.
func NewPredictionEngine[In, Out any](model Transformer) *PredictionEngine[In, Out] {
	return &PredictionEngine[In, Out]{model: model, one: make([]In, 1)}
}

// Predict runs a single row.
func (e *PredictionEngine[In, Out]) Predict(in In) (Out, error) {
	var zero Out
	e.one[0] = in
	out, err := e.run(context.Background(), e.one)
	if err != nil {
		return zero, err
	}
	if len(out) != 1 {
		return zero, errors.Errorf("model returned %d rows for 1", len(out))
	}
	return out[0], nil
}

// PredictBatch runs rows in parallel chunks and returns the outputs in input order.
func (e *PredictionEngine[In, Out]) PredictBatch(rows []In) ([]Out, error) {
	return e.PredictBatchContext(context.Background(), rows)
}

// PredictBatchContext is PredictBatch with cancellation.
func (e *PredictionEngine[In, Out]) PredictBatchContext(ctx context.Context, rows []In) ([]Out, error) {
	chunks := parallel.Chunks(len(rows), parallel.Threads())
	results := make([][]Out, len(chunks))
	err := parallel.ForEachErr(ctx, len(chunks), len(chunks), func(i int) error {
		c := chunks[i]
		out, err := e.run(ctx, rows[c[0]:c[1]])
		if err != nil {
			return err
		}
		results[i] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]Out, 0, len(rows))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (e *PredictionEngine[In, Out]) run(ctx context.Context, rows []In) ([]Out, error) {
	v, err := data.FromStructs(rows)
	if err != nil {
		return nil, err
	}
	v, err = e.model.Transform(ctx, v)
	if err != nil {
		return nil, err
	}
	return data.ToStructs[Out](v)
}
