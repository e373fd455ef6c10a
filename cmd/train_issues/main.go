package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/datasets/issues"
	"github.com/neurlang/mlsamples/evaluate"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/trainer"
	"github.com/neurlang/mlsamples/trainers"
	"github.com/neurlang/mlsamples/transforms"
)

func main() {
	trainPath := flag.String("train", issues.TrainPath, "training issues, tab separated")
	testPath := flag.String("test", issues.TestPath, "test issues, tab separated")
	dstmodel := flag.String("dstmodel", issues.ModelPath, "model destination .zip file")
	resume := flag.Bool("resume", false, "load the model from -dstmodel instead of training")
	flag.Parse()

	ctx := context.Background()

	trainingData := load(*trainPath)

	chain := pipeline.Append(
		transforms.MapValueToKey("Label", "Area"),
		transforms.FeaturizeText("TitleFeaturized", "Title"),
		transforms.FeaturizeText("DescriptionFeaturized", "Description"),
		transforms.Concatenate("Features", "TitleFeaturized", "DescriptionFeaturized"),
		trainers.LbfgsMaximumEntropy(trainers.MaximumEntropyOptions{LabelColumnName: "Label", FeatureColumnName: "Features"}),
		transforms.MapKeyToValue("PredictedLabel"),
	)

	fmt.Println("=============== Training the model ===============")
	model, err := trainer.FitOrResume(ctx, chain, trainingData, resume, dstmodel, pipeline.LoadOptions{})
	if err != nil {
		panic(err.Error())
	}
	fmt.Println("=============== Finished Training the model ===============")

	engine := pipeline.NewPredictionEngine[issues.GitHubIssue, issues.IssuePrediction](model)
	prediction, err := engine.Predict(issues.GitHubIssue{
		Title:       "WebSockets communication is slow in my machine",
		Description: "The WebSockets communication used under the covers by SignalR looks like it is going slow in my development machine.",
	})
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("=============== Single Prediction just-trained-model - Result: %s ===============\n", prediction.Area)

	testView, err := model.Transform(ctx, load(*testPath))
	if err != nil {
		panic(err.Error())
	}
	metrics, err := evaluate.MulticlassClassification(testView, evaluate.Columns{Label: "Label"})
	if err != nil {
		panic(err.Error())
	}
	evaluate.Report(os.Stdout, "Metrics for Multi-class Classification model - Test Data", metrics.Rows()[:4]...)

	if err := trainer.Save(model, dstmodel); err != nil {
		panic(err.Error())
	}

	loaded, err := pipeline.Load(*dstmodel, pipeline.LoadOptions{})
	if err != nil {
		panic(err.Error())
	}
	engine = pipeline.NewPredictionEngine[issues.GitHubIssue, issues.IssuePrediction](loaded)
	prediction, err = engine.Predict(issues.GitHubIssue{
		Title:       "Entity Framework crashes",
		Description: "When connecting to the database, EF is crashing",
	})
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("=============== Single Prediction - Result: %s ===============\n", prediction.Area)
}

func load(path string) *data.View {
	located, err := datasets.Locate(path)
	if err != nil {
		panic(err.Error())
	}
	v, err := issues.Load(located)
	if err != nil {
		panic(err.Error())
	}
	return v
}
