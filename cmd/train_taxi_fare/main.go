package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/datasets/taxifare"
	"github.com/neurlang/mlsamples/evaluate"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/trainer"
	"github.com/neurlang/mlsamples/trainers"
	"github.com/neurlang/mlsamples/transforms"
)

func main() {
	trainPath := flag.String("train", taxifare.TrainPath, "training trips, comma separated")
	testPath := flag.String("test", taxifare.TestPath, "test trips, comma separated")
	dstmodel := flag.String("dstmodel", taxifare.ModelPath, "model destination .zip file")
	resume := flag.Bool("resume", false, "load the model from -dstmodel instead of training")
	trees := flag.Int("trees", 100, "number of boosted trees")
	flag.Parse()

	ctx := context.Background()

	chain := pipeline.Append(
		transforms.CopyColumns("Label", "FareAmount"),
		transforms.OneHotEncoding("VendorIdEncoded", "VendorId"),
		transforms.OneHotEncoding("RateCodeEncoded", "RateCode"),
		transforms.OneHotEncoding("PaymentTypeEncoded", "PaymentType"),
		transforms.Concatenate("Features", "VendorIdEncoded", "RateCodeEncoded", "PassengerCount",
			"TripTime", "TripDistance", "PaymentTypeEncoded"),
		trainers.FastTree(trainers.FastTreeOptions{NumberOfTrees: *trees}),
	)

	model, err := trainer.FitOrResume(ctx, chain, load(*trainPath), resume, dstmodel, pipeline.LoadOptions{})
	if err != nil {
		panic(err.Error())
	}
	if !*resume {
		if err := trainer.Save(model, dstmodel); err != nil {
			panic(err.Error())
		}
	}

	predictions, err := model.Transform(ctx, load(*testPath))
	if err != nil {
		panic(err.Error())
	}
	metrics, err := evaluate.Regression(predictions, evaluate.Columns{})
	if err != nil {
		panic(err.Error())
	}
	evaluate.Report(os.Stdout, "Model quality metrics evaluation", metrics.Rows()[:2]...)

	engine := pipeline.NewPredictionEngine[taxifare.TaxiTrip, taxifare.TaxiTripFarePrediction](model)
	prediction, err := engine.Predict(taxifare.Sample)
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("Predicted fare: %s, actual fare: %v\n", evaluate.Format(float64(prediction.FareAmount), 4), taxifare.SampleFare)
}

func load(path string) *data.View {
	located, err := datasets.Locate(path)
	if err != nil {
		panic(err.Error())
	}
	v, err := taxifare.Load(located)
	if err != nil {
		panic(err.Error())
	}
	return v
}
