package evaluate

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/neurlang/mlsamples/data"
)

// ClusteringMetrics are the quality metrics of a clustering model.
type ClusteringMetrics struct {
	// AverageDistance is the mean squared distance of rows to their cluster.
	AverageDistance float64
	// DaviesBouldinIndex is only computed when a features column is given.
	DaviesBouldinIndex float64
}

// Rows lists the metrics for Report.
func (m ClusteringMetrics) Rows() []Row {
	return []Row{
		{Name: "Average Distance", Value: m.AverageDistance},
		{Name: "Davies Bouldin Index", Value: m.DaviesBouldinIndex},
	}
}

// Clustering evaluates the Score distance vectors and PredictedLabel cluster
// keys of v.
func Clustering(v *data.View, cols Columns) (ClusteringMetrics, error) {
	cols = cols.withDefaults()
	scores, err := v.ColumnOf(cols.Score, data.Vector)
	if err != nil {
		return ClusteringMetrics{}, err
	}
	predicted, err := v.ColumnOf(cols.PredictedLabel, data.Key)
	if err != nil {
		return ClusteringMetrics{}, err
	}
	n := scores.Len()
	if n == 0 {
		return ClusteringMetrics{}, errors.New("clustering metrics: no rows")
	}
	var m ClusteringMetrics
	for i, d := range scores.Vectors {
		m.AverageDistance += d[predicted.Keys[i]-1]
	}
	m.AverageDistance /= float64(n)

	if cols.Features == "" {
		return m, nil
	}
	features, err := v.Column(cols.Features)
	if err != nil {
		return ClusteringMetrics{}, err
	}
	k := len(predicted.Vocabulary)
	dim := features.Dim()
	centroids := make([][]float64, k)
	counts := make([]float64, k)
	rows := make([][]float64, n)
	for c := range centroids {
		centroids[c] = make([]float64, dim)
	}
	for i := 0; i < n; i++ {
		row, err := features.Vector(i)
		if err != nil {
			return ClusteringMetrics{}, err
		}
		c := predicted.Keys[i] - 1
		floats.Add(centroids[c], row)
		counts[c]++
		rows[i] = row
	}
	for c := range centroids {
		if counts[c] > 0 {
			floats.Scale(1/counts[c], centroids[c])
		}
	}
	scatter := make([]float64, k)
	for i, row := range rows {
		c := predicted.Keys[i] - 1
		scatter[c] += floats.Distance(row, centroids[c], 2)
	}
	var used int
	for c := range scatter {
		if counts[c] == 0 {
			continue
		}
		scatter[c] /= counts[c]
		used++
	}
	if used < 2 {
		return m, nil
	}
	for a := 0; a < k; a++ {
		if counts[a] == 0 {
			continue
		}
		worst := 0.0
		for b := 0; b < k; b++ {
			if a == b || counts[b] == 0 {
				continue
			}
			if d := floats.Distance(centroids[a], centroids[b], 2); d > 0 {
				worst = math.Max(worst, (scatter[a]+scatter[b])/d)
			}
		}
		m.DaviesBouldinIndex += worst
	}
	m.DaviesBouldinIndex /= float64(used)
	return m, nil
}
