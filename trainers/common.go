// Package trainers contains the learning algorithms that terminate a pipeline.
//
// Every trainer is an Estimator whose Fit returns a persistent Transformer
// adding the conventional output columns: Score for regressors; Score,
// Probability and PredictedLabel for binary classifiers; Score (class
// probabilities) and PredictedLabel (a key) for multiclass classifiers and
// clustering.
package trainers

import (
	"math"

	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
)

// Conventional column names.
const (
	DefaultFeatures = "Features"
	DefaultLabel    = "Label"
	Score           = "Score"
	Probability     = "Probability"
	PredictedLabel  = "PredictedLabel"
)

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// featureMatrix reads the numeric column name as rows of equal width.
func featureMatrix(v *data.View, name string) ([][]float64, int, error) {
	col, err := v.Column(name)
	if err != nil {
		return nil, 0, err
	}
	if !col.Numeric() {
		return nil, 0, errors.Errorf("feature column %q of kind %s is not numeric", name, col.Kind)
	}
	dim := col.Dim()
	rows := make([][]float64, col.Len())
	for i := range rows {
		row, err := col.Vector(i)
		if err != nil {
			return nil, 0, err
		}
		if len(row) != dim {
			return nil, 0, errors.Errorf("feature column %q: row %d has %d values, want %d", name, i, len(row), dim)
		}
		rows[i] = row
	}
	return rows, dim, nil
}

// floatLabels reads a regression target.
func floatLabels(v *data.View, name string) ([]float64, error) {
	col, err := v.ColumnOf(name, data.Float, data.Bool)
	if err != nil {
		return nil, err
	}
	out := make([]float64, col.Len())
	for i := range out {
		row, err := col.Vector(i)
		if err != nil {
			return nil, err
		}
		out[i] = row[0]
	}
	return out, nil
}

// boolLabels reads a binary target, numbers above zero are true.
func boolLabels(v *data.View, name string) ([]bool, error) {
	col, err := v.ColumnOf(name, data.Bool, data.Float)
	if err != nil {
		return nil, err
	}
	if col.Kind == data.Bool {
		return col.Bools, nil
	}
	out := make([]bool, len(col.Floats))
	for i, f := range col.Floats {
		out[i] = f > 0
	}
	return out, nil
}

// maxAbsScale returns per feature factors mapping every column into [-1, 1].
func maxAbsScale(x [][]float64, dim int) []float64 {
	scale := make([]float64, dim)
	for _, row := range x {
		for j, v := range row {
			if a := math.Abs(v); a > scale[j] {
				scale[j] = a
			}
		}
	}
	for j, s := range scale {
		if s == 0 || math.IsInf(s, 0) || math.IsNaN(s) {
			scale[j] = 1
		} else {
			scale[j] = 1 / s
		}
	}
	return scale
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// softmax overwrites z with probabilities.
func softmax(z []float64) {
	m := math.Inf(-1)
	for _, v := range z {
		if v > m {
			m = v
		}
	}
	var sum float64
	for i, v := range z {
		z[i] = math.Exp(v - m)
		sum += z[i]
	}
	for i := range z {
		z[i] /= sum
	}
}

func argmax(z []float64) int {
	best := 0
	for i, v := range z {
		if v > z[best] {
			best = i
		}
	}
	return best
}

func errWidth(column string, got, want int) error {
	return errors.Errorf("feature column %q has %d values, model expects %d", column, got, want)
}
