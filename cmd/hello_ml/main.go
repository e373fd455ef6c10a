package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets/housing"
	"github.com/neurlang/mlsamples/evaluate"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/trainers"
	"github.com/neurlang/mlsamples/transforms"
)

func main() {
	iterations := flag.Int("iterations", 100, "maximum number of SDCA passes")
	flag.Parse()

	ctx := context.Background()

	trainingData, err := data.LoadFromStructs(housing.Train)
	if err != nil {
		panic(err.Error())
	}

	chain := pipeline.Append(
		transforms.Concatenate("Features", "Size"),
		trainers.SdcaRegression(trainers.SdcaOptions{LabelColumnName: "Price", MaximumNumberOfIterations: *iterations}),
	)
	model, err := chain.Fit(ctx, trainingData)
	if err != nil {
		panic(err.Error())
	}

	size := housing.HouseData{Size: 2.5}
	price, err := pipeline.NewPredictionEngine[housing.HouseData, housing.Prediction](model).Predict(size)
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("Predicted price for size: %v sq ft = $%.2fk\n", size.Size*1000, price.Price*100)

	testData, err := data.LoadFromStructs(housing.Test)
	if err != nil {
		panic(err.Error())
	}
	testView, err := model.Transform(ctx, testData)
	if err != nil {
		panic(err.Error())
	}
	metrics, err := evaluate.Regression(testView, evaluate.Columns{Label: "Price"})
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("R^2: %s\n", evaluate.Format(metrics.RSquared, 2))
	fmt.Printf("RMS error: %s\n", evaluate.Format(metrics.RootMeanSquaredError, 2))
}
