// Package transforms holds the feature transforms that precede a trainer in a pipeline.
package transforms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/pipeline"
)

// Concatenator joins numeric columns into one vector column.
type Concatenator struct {
	Output string
	Inputs []string
}

// Concatenate returns an estimator that joins inputs into output.
func Concatenate(output string, inputs ...string) *Concatenator {
	return &Concatenator{Output: output, Inputs: inputs}
}

// Kind implements pipeline.Persistent.
func (c *Concatenator) Kind() string { return "transforms.Concatenate" }

// Fit returns c, nothing is learned.
func (c *Concatenator) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	return c, nil
}

// Transform writes the joined vectors.
func (c *Concatenator) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	cols := make([]*data.Column, len(c.Inputs))
	for i, name := range c.Inputs {
		col, err := v.Column(name)
		if err != nil {
			return nil, err
		}
		if !col.Numeric() {
			return nil, errors.Errorf("concatenate: column %q of kind %s is not numeric", name, col.Kind)
		}
		cols[i] = col
	}
	out := make([][]float64, v.Len())
	for row := range out {
		var vec []float64
		for _, col := range cols {
			part, err := col.Vector(row)
			if err != nil {
				return nil, err
			}
			vec = append(vec, part...)
		}
		out[row] = vec
	}
	v = v.Clone()
	return v, v.Add(data.NewVectors(c.Output, out))
}

// Copier copies a column under a new name.
type Copier struct {
	Output string
	Input  string
}

// CopyColumns returns an estimator that copies input to output.
func CopyColumns(output, input string) *Copier {
	return &Copier{Output: output, Input: input}
}

// Kind implements pipeline.Persistent.
func (c *Copier) Kind() string { return "transforms.CopyColumns" }

// Fit returns c, nothing is learned.
func (c *Copier) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	return c, nil
}

// Transform adds the copy.
func (c *Copier) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	col, err := v.Column(c.Input)
	if err != nil {
		return nil, err
	}
	v = v.Clone()
	return v, v.Add(col.Renamed(c.Output))
}
