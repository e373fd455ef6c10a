// Package pipeline chains feature transforms and a trainer into a fitted Model.
//
// An Estimator learns from a view and returns a Transformer; a Chain fits its
// estimators in order, each on the output of the transformers fitted before it.
package pipeline

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/logging"
)

// Estimator learns a Transformer from a view.
type Estimator interface {
	Fit(ctx context.Context, v *data.View) (Transformer, error)
}

// Transformer maps a view to a new view. Transform must not modify its input.
type Transformer interface {
	Transform(ctx context.Context, v *data.View) (*data.View, error)
}

// Chain is an ordered list of estimators.
type Chain struct {
	estimators []Estimator
}

// Append returns a chain of estimators.
func Append(estimators ...Estimator) *Chain {
	return &Chain{estimators: append([]Estimator(nil), estimators...)}
}

// Append returns a new chain with estimators added at the end.
func (c *Chain) Append(estimators ...Estimator) *Chain {
	out := &Chain{estimators: make([]Estimator, 0, len(c.estimators)+len(estimators))}
	out.estimators = append(out.estimators, c.estimators...)
	out.estimators = append(out.estimators, estimators...)
	return out
}

// Len returns the number of estimators.
func (c *Chain) Len() int {
	return len(c.estimators)
}

// Fit fits every estimator in turn and returns the fitted model.
func (c *Chain) Fit(ctx context.Context, v *data.View) (*Model, error) {
	logger := logging.Global()
	model := &Model{}
	current := v
	for i, e := range c.estimators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := e.Fit(ctx, current)
		if err != nil {
			return nil, errors.Wrapf(err, "fit stage %d (%T)", i, e)
		}
		model.Transformers = append(model.Transformers, t)
		logger.Debugw("fitted", "stage", i, "estimator", fmt.Sprintf("%T", e), "rows", current.Len())
		if i+1 == len(c.estimators) {
			break
		}
		current, err = t.Transform(ctx, current)
		if err != nil {
			return nil, errors.Wrapf(err, "transform stage %d (%T)", i, t)
		}
	}
	return model, nil
}

// Model is a fitted chain of transformers.
type Model struct {
	Transformers []Transformer
}

// Transform runs v through every transformer.
func (m *Model) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	current := v
	for i, t := range m.Transformers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		current, err = t.Transform(ctx, current)
		if err != nil {
			return nil, errors.Wrapf(err, "transform stage %d (%T)", i, t)
		}
	}
	return current, nil
}

// Close releases transformers that hold external resources.
func (m *Model) Close() error {
	var err error
	for _, t := range m.Transformers {
		if c, ok := t.(interface{ Close() error }); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
