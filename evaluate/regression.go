package evaluate

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
)

// RegressionMetrics are the quality metrics of a regressor.
type RegressionMetrics struct {
	MeanAbsoluteError    float64
	MeanSquaredError     float64
	RootMeanSquaredError float64
	// RSquared is one minus the residual sum of squares over the total sum
	// of squares around the label mean.
	RSquared float64
}

// Rows lists the metrics for Report.
func (m RegressionMetrics) Rows() []Row {
	return []Row{
		{Name: "RSquared", Value: m.RSquared},
		{Name: "Root Mean Squared Error", Value: m.RootMeanSquaredError},
		{Name: "Mean Squared Error", Value: m.MeanSquaredError},
		{Name: "Mean Absolute Error", Value: m.MeanAbsoluteError},
	}
}

// Regression compares the Label and Score columns of v.
func Regression(v *data.View, cols Columns) (RegressionMetrics, error) {
	cols = cols.withDefaults()
	labels, err := numbers(v, cols.Label)
	if err != nil {
		return RegressionMetrics{}, err
	}
	scores, err := numbers(v, cols.Score)
	if err != nil {
		return RegressionMetrics{}, err
	}
	mean, err := stats.Mean(labels)
	if err != nil {
		return RegressionMetrics{}, errors.Wrap(err, "regression metrics")
	}
	var abs, sq, total float64
	for i, y := range labels {
		d := y - scores[i]
		abs += math.Abs(d)
		sq += d * d
		total += (y - mean) * (y - mean)
	}
	n := float64(len(labels))
	m := RegressionMetrics{
		MeanAbsoluteError: abs / n,
		MeanSquaredError:  sq / n,
	}
	m.RootMeanSquaredError = math.Sqrt(m.MeanSquaredError)
	if total > 0 {
		m.RSquared = 1 - sq/total
	}
	return m, nil
}
