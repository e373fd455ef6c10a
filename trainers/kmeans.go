package trainers

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
)

// KMeansOptions configures the k-means trainer.
type KMeansOptions struct {
	FeatureColumnName string
	NumberOfClusters  int
	// NumberOfInitializations is how many random restarts are tried; the
	// partition with the lowest inertia wins.
	NumberOfInitializations int
}

func (o KMeansOptions) withDefaults() KMeansOptions {
	o.FeatureColumnName = orDefault(o.FeatureColumnName, DefaultFeatures)
	if o.NumberOfClusters <= 0 {
		o.NumberOfClusters = 5
	}
	if o.NumberOfInitializations <= 0 {
		o.NumberOfInitializations = 10
	}
	return o
}

// KMeansTrainer partitions rows with Lloyd's algorithm.
type KMeansTrainer struct {
	Options KMeansOptions
}

// KMeans returns a clustering trainer.
func KMeans(opts KMeansOptions) *KMeansTrainer {
	return &KMeansTrainer{Options: opts.withDefaults()}
}

// Fit clusters min-max normalised features and keeps the centroids in the
// original feature space, ordered lexicographically.
func (t *KMeansTrainer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	o := t.Options
	x, dim, err := featureMatrix(v, o.FeatureColumnName)
	if err != nil {
		return nil, err
	}
	if len(x) < o.NumberOfClusters {
		return nil, errors.Errorf("kmeans: %d rows for %d clusters", len(x), o.NumberOfClusters)
	}

	lo := make([]float64, dim)
	span := make([]float64, dim)
	for j := 0; j < dim; j++ {
		lo[j], span[j] = math.Inf(1), math.Inf(-1)
	}
	for _, row := range x {
		for j, val := range row {
			lo[j] = math.Min(lo[j], val)
			span[j] = math.Max(span[j], val)
		}
	}
	for j := range span {
		span[j] -= lo[j]
		if span[j] == 0 {
			span[j] = 1
		}
	}
	obs := make(clusters.Observations, len(x))
	for i, row := range x {
		c := make(clusters.Coordinates, dim)
		for j, val := range row {
			c[j] = (val - lo[j]) / span[j]
		}
		obs[i] = c
	}

	var best clusters.Clusters
	bestInertia := math.Inf(1)
	km := kmeans.New()
	for run := 0; run < o.NumberOfInitializations; run++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cc, err := km.Partition(obs, o.NumberOfClusters)
		if err != nil {
			return nil, errors.Wrap(err, "kmeans")
		}
		var inertia float64
		for _, c := range cc {
			for _, p := range c.Observations {
				inertia += p.Distance(c.Center)
			}
		}
		if inertia < bestInertia {
			best, bestInertia = cc, inertia
		}
	}
	logging.Global().Debugw("kmeans partitioned", "clusters", o.NumberOfClusters,
		"restarts", o.NumberOfInitializations, "inertia", bestInertia)

	m := &KMeansModel{Features: o.FeatureColumnName}
	for _, c := range best {
		center := make([]float64, dim)
		for j := range center {
			center[j] = c.Center[j]*span[j] + lo[j]
		}
		m.Centroids = append(m.Centroids, center)
	}
	sort.Slice(m.Centroids, func(a, b int) bool {
		for j := range m.Centroids[a] {
			if m.Centroids[a][j] != m.Centroids[b][j] {
				return m.Centroids[a][j] < m.Centroids[b][j]
			}
		}
		return false
	})
	return m, nil
}

// KMeansModel assigns rows to the nearest centroid.
type KMeansModel struct {
	Features  string
	Centroids [][]float64
}

// Kind implements pipeline.Persistent.
func (m *KMeansModel) Kind() string { return "trainers.KMeansModel" }

// Distances returns the squared Euclidean distance from row to every centroid.
func (m *KMeansModel) Distances(row []float64) []float64 {
	out := make([]float64, len(m.Centroids))
	diff := make([]float64, len(row))
	for c, center := range m.Centroids {
		floats.SubTo(diff, row, center)
		out[c] = floats.Dot(diff, diff)
	}
	return out
}

// Transform adds the distances as Score and the 1-based nearest cluster as
// the PredictedLabel key.
func (m *KMeansModel) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	x, dim, err := featureMatrix(v, m.Features)
	if err != nil {
		return nil, err
	}
	if len(x) > 0 && len(m.Centroids) > 0 && dim != len(m.Centroids[0]) {
		return nil, errWidth(m.Features, dim, len(m.Centroids[0]))
	}
	names := make([]string, len(m.Centroids))
	for i := range names {
		names[i] = strconv.Itoa(i + 1)
	}
	scores := make([][]float64, len(x))
	keys := make([]uint32, len(x))
	for i, row := range x {
		d := m.Distances(row)
		scores[i] = d
		keys[i] = uint32(floats.MinIdx(d) + 1)
	}
	v = v.Clone()
	if err := v.Add(data.NewVectors(Score, scores)); err != nil {
		return nil, err
	}
	return v, v.Add(data.NewKeys(PredictedLabel, keys, names))
}
