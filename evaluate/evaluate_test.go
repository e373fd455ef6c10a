package evaluate

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
)

func view(t *testing.T, cols ...*data.Column) *data.View {
	t.Helper()
	v, err := data.New(cols...)
	test.That(t, err, test.ShouldBeNil)
	return v
}

func TestRegression(t *testing.T) {
	v := view(t,
		data.NewFloats("Label", []float64{1, 2, 3, 4}),
		data.NewFloats("Score", []float64{1, 2, 3, 5}),
	)
	m, err := Regression(v, Columns{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.MeanAbsoluteError, test.ShouldAlmostEqual, 0.25)
	test.That(t, m.MeanSquaredError, test.ShouldAlmostEqual, 0.25)
	test.That(t, m.RootMeanSquaredError, test.ShouldAlmostEqual, 0.5)
	test.That(t, m.RSquared, test.ShouldAlmostEqual, 0.8)
}

func TestRegressionCustomColumns(t *testing.T) {
	v := view(t,
		data.NewFloats("FareAmount", []float64{2, 4}),
		data.NewFloats("Predicted", []float64{2, 4}),
	)
	m, err := Regression(v, Columns{Label: "FareAmount", Score: "Predicted"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.RSquared, test.ShouldAlmostEqual, 1)

	_, err = Regression(v, Columns{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBinaryClassification(t *testing.T) {
	v := view(t,
		data.NewBools("Label", []bool{true, true, false, false}),
		data.NewFloats("Score", []float64{0.9, -0.2, 0.3, -0.8}),
		data.NewFloats("Probability", []float64{0.5, 0.5, 0.5, 0.5}),
		data.NewBools("PredictedLabel", []bool{true, false, true, false}),
	)
	m, err := BinaryClassification(v, Columns{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Accuracy, test.ShouldAlmostEqual, 0.5)
	test.That(t, m.PositivePrecision, test.ShouldAlmostEqual, 0.5)
	test.That(t, m.PositiveRecall, test.ShouldAlmostEqual, 0.5)
	test.That(t, m.F1Score, test.ShouldAlmostEqual, 0.5)
	test.That(t, m.AreaUnderRocCurve, test.ShouldAlmostEqual, 0.75)
	test.That(t, m.LogLoss, test.ShouldAlmostEqual, 1)
	test.That(t, m.Entropy, test.ShouldAlmostEqual, 1)
	test.That(t, m.LogLossReduction, test.ShouldAlmostEqual, 0)
}

func TestAucSingleClass(t *testing.T) {
	test.That(t, auc([]float64{1, 2}, []bool{true, true}), test.ShouldEqual, 0)
	test.That(t, auc([]float64{1, 2}, []bool{false, true}), test.ShouldAlmostEqual, 1)
}

func TestMulticlassClassification(t *testing.T) {
	v := view(t,
		data.NewKeys("Label", []uint32{1, 1, 2, 0}, []string{"a", "b"}),
		data.NewVectors("Score", [][]float64{{.8, .2}, {.4, .6}, {.3, .7}, {.5, .5}}),
		data.NewKeys("PredictedLabel", []uint32{1, 2, 2, 1}, []string{"a", "b"}),
	)
	m, err := MulticlassClassification(v, Columns{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.MicroAccuracy, test.ShouldAlmostEqual, 2.0/3)
	test.That(t, m.MacroAccuracy, test.ShouldAlmostEqual, 0.75)
	test.That(t, m.LogLoss, test.ShouldAlmostEqual, -(math.Log(.8)+math.Log(.4)+math.Log(.7))/3)
	test.That(t, m.PerClassLogLoss[0], test.ShouldAlmostEqual, -(math.Log(.8)+math.Log(.4))/2)
	test.That(t, m.PerClassLogLoss[1], test.ShouldAlmostEqual, -math.Log(.7))
	test.That(t, m.ConfusionMatrix, test.ShouldResemble, [][]int{{1, 1}, {0, 1}})

	prior := -(2.0/3*math.Log(2.0/3) + 1.0/3*math.Log(1.0/3))
	test.That(t, m.LogLossReduction, test.ShouldAlmostEqual, 1-m.LogLoss/prior)
}

func TestMulticlassTextPrediction(t *testing.T) {
	v := view(t,
		data.NewKeys("Label", []uint32{1, 2, 2}, []string{"a", "b"}),
		data.NewVectors("Score", [][]float64{{.9, .1}, {.2, .8}, {.6, .4}}),
		data.NewTexts("PredictedLabel", []string{"a", "b", "c"}),
	)
	m, err := MulticlassClassification(v, Columns{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.MicroAccuracy, test.ShouldAlmostEqual, 2.0/3)
	test.That(t, m.ConfusionMatrix, test.ShouldResemble, [][]int{{1, 0}, {0, 1}})
}

func TestClustering(t *testing.T) {
	v := view(t,
		data.NewVectors("Features", [][]float64{{0}, {2}, {10}, {12}}),
		data.NewVectors("Score", [][]float64{{1, 121}, {1, 81}, {81, 1}, {121, 1}}),
		data.NewKeys("PredictedLabel", []uint32{1, 1, 2, 2}, []string{"1", "2"}),
	)
	m, err := Clustering(v, Columns{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.AverageDistance, test.ShouldAlmostEqual, 1)
	test.That(t, m.DaviesBouldinIndex, test.ShouldEqual, 0)

	m, err = Clustering(v, Columns{Features: "Features"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.DaviesBouldinIndex, test.ShouldAlmostEqual, 0.2)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, "Model quality metrics evaluation", BinaryMetrics{Accuracy: 0.5, LogLoss: 1}.Rows()...)
	out := buf.String()
	test.That(t, out, test.ShouldContainSubstring, "Model quality metrics evaluation")
	test.That(t, out, test.ShouldContainSubstring, "Accuracy")
	test.That(t, out, test.ShouldContainSubstring, "50.00%")
	test.That(t, out, test.ShouldContainSubstring, "1.0000")
}

func TestReportLongTitle(t *testing.T) {
	for _, title := range []string{
		"Model quality metrics evaluation",
		"Metrics for Multi-class Classification model - Test Data",
	} {
		var buf bytes.Buffer
		Report(&buf, title, BinaryMetrics{Accuracy: .5}.Rows()[:3]...)
		lines := strings.Split(buf.String(), "\n")
		test.That(t, lines[0], test.ShouldEqual, title)
		test.That(t, buf.String(), test.ShouldContainSubstring, "F1Score")
	}
}

func TestFormat(t *testing.T) {
	test.That(t, Format(0.98765, 2), test.ShouldEqual, "0.99")
	test.That(t, Format(2.5, 2), test.ShouldEqual, "2.5")
	test.That(t, Format(3, 3), test.ShouldEqual, "3")
	test.That(t, Format(-0.1234, 3), test.ShouldEqual, "-0.123")
}
