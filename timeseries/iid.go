// Package timeseries detects anomalies in a numeric series whose points are
// assumed independent and identically distributed.
//
// Both detectors score each point against a kernel density estimate of the
// points seen before it, so they need no training; Fit accepts any view,
// including an empty one.
package timeseries

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/pipeline"
)

// epsilon of the power martingale
const martingaleEpsilon = 0.1

// smallest p-value fed to the martingale
const minPValue = 1e-8

// SpikeDetector emits [alert, raw score, p-value] per point.
type SpikeDetector struct {
	Output              string
	Input               string
	Confidence          float64
	PvalueHistoryLength int
}

// DetectIidSpike flags points whose two-sided p-value against the trailing
// pvalueHistoryLength points is below 1 - confidence/100.
func DetectIidSpike(output, input string, confidence float64, pvalueHistoryLength int) *SpikeDetector {
	return &SpikeDetector{Output: output, Input: input, Confidence: confidence, PvalueHistoryLength: pvalueHistoryLength}
}

// Kind implements pipeline.Persistent.
func (d *SpikeDetector) Kind() string { return "timeseries.DetectIidSpike" }

// Fit validates the parameters.
func (d *SpikeDetector) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	if err := validate(d.Confidence, d.PvalueHistoryLength); err != nil {
		return nil, err
	}
	return d, nil
}

// Transform scores the input column in row order.
func (d *SpikeDetector) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	series, err := values(v, d.Input)
	if err != nil {
		return nil, err
	}
	alpha := 1 - d.Confidence/100
	w := newWindow(d.PvalueHistoryLength)
	out := make([][]float64, len(series))
	for i, x := range series {
		p := w.pValue(x)
		alert := 0.0
		if p < alpha {
			alert = 1
		}
		out[i] = []float64{alert, x, p}
		w.push(x)
	}
	v = v.Clone()
	return v, v.Add(data.NewVectors(d.Output, out))
}

// ChangePointDetector emits [alert, raw score, p-value, martingale] per point.
type ChangePointDetector struct {
	Output              string
	Input               string
	Confidence          float64
	ChangeHistoryLength int
}

// DetectIidChangePoint flags points where a power martingale over the last
// changeHistoryLength p-values grows beyond 1/(1 - confidence/100).
func DetectIidChangePoint(output, input string, confidence float64, changeHistoryLength int) *ChangePointDetector {
	return &ChangePointDetector{Output: output, Input: input, Confidence: confidence, ChangeHistoryLength: changeHistoryLength}
}

// Kind implements pipeline.Persistent.
func (d *ChangePointDetector) Kind() string { return "timeseries.DetectIidChangePoint" }

// Fit validates the parameters.
func (d *ChangePointDetector) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	if err := validate(d.Confidence, d.ChangeHistoryLength); err != nil {
		return nil, err
	}
	return d, nil
}

// Transform scores the input column in row order. After an alert the history
// starts over so that the next regime is learned from scratch.
func (d *ChangePointDetector) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	series, err := values(v, d.Input)
	if err != nil {
		return nil, err
	}
	threshold := math.Log(1 / (1 - d.Confidence/100))
	w := newWindow(d.ChangeHistoryLength)
	bets := newWindow(d.ChangeHistoryLength)
	out := make([][]float64, len(series))
	for i, x := range series {
		p := w.pValue(x)
		bets.push(math.Log(martingaleEpsilon) + (martingaleEpsilon-1)*math.Log(math.Max(p, minPValue)))
		logM := bets.sum()
		alert := 0.0
		if logM > threshold {
			alert = 1
		}
		out[i] = []float64{alert, x, p, math.Exp(logM)}
		if alert == 1 {
			w.reset()
			bets.reset()
		}
		w.push(x)
	}
	v = v.Clone()
	return v, v.Add(data.NewVectors(d.Output, out))
}

func validate(confidence float64, history int) error {
	if confidence <= 0 || confidence >= 100 {
		return errors.Errorf("confidence %v is not in (0, 100)", confidence)
	}
	if history < 2 {
		return errors.Errorf("history length %d is below 2", history)
	}
	return nil
}

func values(v *data.View, name string) ([]float64, error) {
	c, err := v.ColumnOf(name, data.Float)
	if err != nil {
		return nil, err
	}
	return c.Floats, nil
}

// window keeps the last size values.
type window struct {
	size   int
	values []float64
}

func newWindow(size int) *window {
	return &window{size: size}
}

func (w *window) push(x float64) {
	if len(w.values) == w.size {
		copy(w.values, w.values[1:])
		w.values = w.values[:w.size-1]
	}
	w.values = append(w.values, x)
}

func (w *window) reset() { w.values = w.values[:0] }

func (w *window) sum() float64 {
	s, err := stats.Sum(w.values)
	if err != nil {
		return 0
	}
	return s
}

// pValue is the two-sided tail probability of x under a Gaussian kernel
// density over the window. Fewer than two points give 1.
func (w *window) pValue(x float64) float64 {
	n := len(w.values)
	if n < 2 {
		return 1
	}
	sd, err := stats.StandardDeviationSample(w.values)
	if err != nil || math.IsNaN(sd) {
		sd = 0
	}
	// Silverman's rule of thumb
	bandwidth := 1.06 * sd * math.Pow(float64(n), -0.2)
	if bandwidth < 1e-8 {
		bandwidth = 1e-8 * math.Max(1, math.Abs(x))
	}
	var cdf float64
	for _, h := range w.values {
		cdf += distuv.UnitNormal.CDF((x - h) / bandwidth)
	}
	cdf /= float64(n)
	return math.Min(1, 2*math.Min(cdf, 1-cdf))
}
