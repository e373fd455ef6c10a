// Package taxifare implements the New York taxi fare dataset of the regression sample.
package taxifare

import (
	"github.com/neurlang/mlsamples/data"
)

// Default locations of the dataset and the trained model.
const (
	TrainPath = "Data/taxi-fare-train.csv"
	TestPath  = "Data/taxi-fare-test.csv"
	ModelPath = "Data/model.zip"
)

// TaxiTrip is one trip, FareAmount is the label.
type TaxiTrip struct {
	VendorId       string  `load:"0"`
	RateCode       string  `load:"1"`
	PassengerCount float32 `load:"2"`
	TripTime       float32 `load:"3"`
	TripDistance   float32 `load:"4"`
	PaymentType    string  `load:"5"`
	FareAmount     float32 `load:"6"`
}

// TaxiTripFarePrediction reads the regression score as a fare.
type TaxiTripFarePrediction struct {
	FareAmount float32 `col:"Score"`
}

// Sample is a trip whose actual fare was 15.5.
var Sample = TaxiTrip{
	VendorId:       "VTS",
	RateCode:       "1",
	PassengerCount: 1,
	TripTime:       1140,
	TripDistance:   3.75,
	PaymentType:    "CRD",
}

// SampleFare is the actual fare of Sample.
const SampleFare = 15.5

// Load reads a comma separated trips file with a header.
func Load(path string) (*data.View, error) {
	return data.LoadFromTextFile[TaxiTrip](path, data.TextOptions{Separator: ',', HasHeader: true})
}
