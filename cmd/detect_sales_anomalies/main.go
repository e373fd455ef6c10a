package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/fatih/color"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/datasets/productsales"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/timeseries"
)

var alert = color.New(color.FgRed, color.Bold)

func main() {
	dataPath := flag.String("data", productsales.DataPath, "monthly sales, comma separated")
	confidence := flag.Float64("confidence", 95, "detector confidence in percent")
	flag.Parse()

	path, err := datasets.Locate(*dataPath)
	if err != nil {
		panic(err.Error())
	}
	sales, err := productsales.Load(path)
	if err != nil {
		panic(err.Error())
	}

	history := productsales.DocSize / 4

	fmt.Println("Detect temporary changes in pattern")
	predictions := detect(sales, timeseries.DetectIidSpike("Prediction", "NumSales", *confidence, history))
	fmt.Println("Alert\tScore\tP-Value")
	for _, p := range predictions {
		line := fmt.Sprintf("%v\t%.2f\t%.2f", p.Prediction[0], p.Prediction[1], p.Prediction[2])
		if p.Prediction[0] == 1 {
			alert.Println(line + " <-- Spike detected")
			continue
		}
		fmt.Println(line)
	}
	fmt.Println()

	fmt.Println("Detect Persistent changes in pattern")
	predictions = detect(sales, timeseries.DetectIidChangePoint("Prediction", "NumSales", *confidence, history))
	fmt.Println("Alert\tScore\tP-Value\tMartingale value")
	for _, p := range predictions {
		line := fmt.Sprintf("%v\t%.2f\t%.2f\t%.2f", p.Prediction[0], p.Prediction[1], p.Prediction[2], p.Prediction[3])
		if p.Prediction[0] == 1 {
			alert.Println(line + " <-- alert is on, predicted changepoint")
			continue
		}
		fmt.Println(line)
	}
}

// detect fits the stateless detector on an empty view and runs the series through it.
func detect(sales *data.View, detector pipeline.Estimator) []productsales.ProductSalesPrediction {
	ctx := context.Background()

	fmt.Println("=============== Training the model ===============")
	empty, err := data.New(data.NewFloats("NumSales", nil))
	if err != nil {
		panic(err.Error())
	}
	model, err := pipeline.Append(detector).Fit(ctx, empty)
	if err != nil {
		panic(err.Error())
	}
	fmt.Println("=============== End of training process ===============")

	scored, err := model.Transform(ctx, sales)
	if err != nil {
		panic(err.Error())
	}
	predictions, err := data.ToStructs[productsales.ProductSalesPrediction](scored)
	if err != nil {
		panic(err.Error())
	}
	return predictions
}
