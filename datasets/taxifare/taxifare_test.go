package taxifare

import (
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
)

func TestLoad(t *testing.T) {
	v, err := Load("testdata/trips.csv")
	test.That(t, err, test.ShouldBeNil)
	rows, err := data.ToStructs[TaxiTrip](v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldResemble, []TaxiTrip{
		{"CMT", "1", 1, 1271, 3.8, "CRD", 17.5},
		{"VTS", "1", 1, 474, 1.5, "CSH", 8},
	})
}

func TestPredictionColumn(t *testing.T) {
	v, err := data.New(data.NewFloats("Score", []float64{15.25}))
	test.That(t, err, test.ShouldBeNil)
	out, err := data.ToStructs[TaxiTripFarePrediction](v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out[0].FareAmount, test.ShouldEqual, float32(15.25))
}
