package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/datasets/yelp"
	"github.com/neurlang/mlsamples/evaluate"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/trainer"
	"github.com/neurlang/mlsamples/trainers"
	"github.com/neurlang/mlsamples/transforms"
)

func main() {
	dataPath := flag.String("data", yelp.DataPath, "labelled sentences, tab separated")
	dstmodel := flag.String("dstmodel", "MLModels/sentiment_model.zip", "model destination .zip file")
	resume := flag.Bool("resume", false, "load the model from -dstmodel instead of training")
	seed := flag.Int64("seed", 0, "train test split seed")
	flag.Parse()

	ctx := context.Background()

	path, err := datasets.Locate(*dataPath)
	if err != nil {
		panic(err.Error())
	}
	dataView, err := yelp.Load(path)
	if err != nil {
		panic(err.Error())
	}
	trainSet, testSet, err := data.TrainTestSplit(dataView, 0.2, *seed)
	if err != nil {
		panic(err.Error())
	}

	chain := pipeline.Append(
		transforms.FeaturizeText("Features", "SentimentText"),
		trainers.SdcaLogisticRegression(trainers.SdcaOptions{LabelColumnName: "Label", FeatureColumnName: "Features"}),
	)

	fmt.Println("=============== Create and Train the Model ===============")
	model, err := trainer.FitOrResume(ctx, chain, trainSet, resume, dstmodel, pipeline.LoadOptions{})
	if err != nil {
		panic(err.Error())
	}
	fmt.Println("=============== End of training ===============")
	fmt.Println()

	fmt.Println("=============== Evaluating Model accuracy with Test data ===============")
	predictions, err := model.Transform(ctx, testSet)
	if err != nil {
		panic(err.Error())
	}
	metrics, err := evaluate.BinaryClassification(predictions, evaluate.Columns{Label: "Label"})
	if err != nil {
		panic(err.Error())
	}
	fmt.Println()
	evaluate.Report(os.Stdout, "Model quality metrics evaluation", metrics.Rows()[:3]...)
	fmt.Println("=============== End of model evaluation ===============")

	engine := pipeline.NewPredictionEngine[yelp.SentimentData, yelp.SentimentPrediction](model)

	single, err := engine.Predict(yelp.SentimentData{SentimentText: "This was a very bad steak"})
	if err != nil {
		panic(err.Error())
	}
	fmt.Println()
	fmt.Println("=============== Prediction Test of model with a single sample and test dataset ===============")
	fmt.Println()
	printPrediction(single)
	fmt.Println()
	fmt.Println("=============== End of Predictions ===============")

	batch, err := engine.PredictBatch([]yelp.SentimentData{
		{SentimentText: "This was a horrible meal"},
		{SentimentText: "I love this spaghetti"},
	})
	if err != nil {
		panic(err.Error())
	}
	fmt.Println()
	fmt.Println("=============== Prediction Test of loaded model with multiple samples ===============")
	fmt.Println()
	for _, p := range batch {
		printPrediction(p)
	}
	fmt.Println()
	fmt.Println("=============== End of predictions ===============")

	if !*resume {
		if err := trainer.Save(model, dstmodel); err != nil {
			panic(err.Error())
		}
	}
}

func printPrediction(p yelp.SentimentPrediction) {
	fmt.Printf("Sentiment: %s | Prediction: %s | Probability: %v \n", p.SentimentText, yelp.Sentiment(p.Prediction), p.Probability)
}
