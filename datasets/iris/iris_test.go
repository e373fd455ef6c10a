package iris

import (
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
)

func TestLoad(t *testing.T) {
	v, err := Load("testdata/iris.data")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.Names(), test.ShouldResemble, []string{"SepalLength", "SepalWidth", "PetalLength", "PetalWidth"})
	rows, err := data.ToStructs[IrisData](v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows[0], test.ShouldResemble, TestIrisData.Setosa)
}

func TestClusterPrediction(t *testing.T) {
	v, err := data.New(
		data.NewKeys("PredictedLabel", []uint32{2}, []string{"1", "2", "3"}),
		data.NewVectors("Score", [][]float64{{4, 0.5, 9}}),
	)
	test.That(t, err, test.ShouldBeNil)
	out, err := data.ToStructs[ClusterPrediction](v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out[0], test.ShouldResemble, ClusterPrediction{PredictedClusterId: 2, Distances: []float32{4, 0.5, 9}})
}
