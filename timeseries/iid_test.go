package timeseries

import (
	"context"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/pipeline"
)

// cycle repeats base, base+1, base-1.
func cycle(n int, base float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + []float64{0, 1, -1}[i%3]
	}
	return out
}

func run(t *testing.T, e pipeline.Estimator, values []float64) [][]float64 {
	t.Helper()
	empty, err := data.New()
	test.That(t, err, test.ShouldBeNil)
	tr, err := e.Fit(context.Background(), empty)
	test.That(t, err, test.ShouldBeNil)

	v, err := data.New(data.NewFloats("NumSales", values))
	test.That(t, err, test.ShouldBeNil)
	out, err := tr.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	c, err := out.ColumnOf("Prediction", data.Vector)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Vectors, test.ShouldHaveLength, len(values))
	return c.Vectors
}

func TestDetectIidSpike(t *testing.T) {
	values := cycle(24, 10)
	values[12] = 100

	out := run(t, DetectIidSpike("Prediction", "NumSales", 95, 8), values)
	for i, row := range out {
		test.That(t, row, test.ShouldHaveLength, 3)
		test.That(t, row[1], test.ShouldEqual, values[i])
		test.That(t, row[2], test.ShouldBeBetweenOrEqual, 0, 1)
		if i == 12 {
			test.That(t, row[0], test.ShouldEqual, 1)
			test.That(t, row[2], test.ShouldBeLessThan, 0.05)
		} else {
			test.That(t, row[0], test.ShouldEqual, 0)
		}
	}
	// no history yet
	test.That(t, out[0][2], test.ShouldEqual, 1)
}

func TestDetectIidChangePoint(t *testing.T) {
	values := append(cycle(20, 10), cycle(20, 50)...)

	out := run(t, DetectIidChangePoint("Prediction", "NumSales", 95, 8), values)
	first := -1
	for i, row := range out {
		test.That(t, row, test.ShouldHaveLength, 4)
		test.That(t, row[3], test.ShouldBeGreaterThan, 0)
		if row[0] == 1 && first < 0 {
			first = i
		}
	}
	test.That(t, first, test.ShouldBeBetweenOrEqual, 20, 23)
	test.That(t, out[first][3], test.ShouldBeGreaterThan, 20)
}

func TestDetectorValidation(t *testing.T) {
	empty, err := data.New()
	test.That(t, err, test.ShouldBeNil)
	_, err = DetectIidSpike("Prediction", "NumSales", 100, 8).Fit(context.Background(), empty)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = DetectIidChangePoint("Prediction", "NumSales", 95, 1).Fit(context.Background(), empty)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestWindow(t *testing.T) {
	w := newWindow(3)
	for _, x := range []float64{1, 2, 3, 4} {
		w.push(x)
	}
	test.That(t, w.values, test.ShouldResemble, []float64{2, 3, 4})
	test.That(t, w.sum(), test.ShouldEqual, 9)
	test.That(t, w.pValue(3), test.ShouldAlmostEqual, 1)
	w.reset()
	test.That(t, w.values, test.ShouldBeEmpty)
	test.That(t, w.sum(), test.ShouldEqual, 0)
}

func TestDetectorSaveLoad(t *testing.T) {
	empty, err := data.New()
	test.That(t, err, test.ShouldBeNil)
	model, err := pipeline.Append(DetectIidSpike("Prediction", "NumSales", 95, 8)).Fit(context.Background(), empty)
	test.That(t, err, test.ShouldBeNil)
	path := filepath.Join(t.TempDir(), "spike.zip")
	test.That(t, model.Save(path), test.ShouldBeNil)

	loaded, err := pipeline.Load(path, pipeline.LoadOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.Transformers[0], test.ShouldResemble, DetectIidSpike("Prediction", "NumSales", 95, 8))
}
