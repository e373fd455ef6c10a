package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/datasets/iris"
	"github.com/neurlang/mlsamples/evaluate"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/trainer"
	"github.com/neurlang/mlsamples/trainers"
	"github.com/neurlang/mlsamples/transforms"
)

func main() {
	dataPath := flag.String("data", iris.DataPath, "iris measurements, comma separated")
	dstmodel := flag.String("dstmodel", iris.ModelPath, "model destination .zip file")
	resume := flag.Bool("resume", false, "load the model from -dstmodel instead of training")
	clusters := flag.Int("clusters", 3, "number of clusters")
	flag.Parse()

	ctx := context.Background()

	path, err := datasets.Locate(*dataPath)
	if err != nil {
		panic(err.Error())
	}
	dataView, err := iris.Load(path)
	if err != nil {
		panic(err.Error())
	}

	chain := pipeline.Append(
		transforms.Concatenate("Features", "SepalLength", "SepalWidth", "PetalLength", "PetalWidth"),
		trainers.KMeans(trainers.KMeansOptions{NumberOfClusters: *clusters}),
	)
	model, err := trainer.FitOrResume(ctx, chain, dataView, resume, dstmodel, pipeline.LoadOptions{})
	if err != nil {
		panic(err.Error())
	}
	if !*resume {
		if err := trainer.Save(model, dstmodel); err != nil {
			panic(err.Error())
		}
	}

	scored, err := model.Transform(ctx, dataView)
	if err != nil {
		panic(err.Error())
	}
	metrics, err := evaluate.Clustering(scored, evaluate.Columns{Features: "Features"})
	if err != nil {
		panic(err.Error())
	}
	evaluate.Report(os.Stdout, "Clustering metrics", metrics.Rows()...)

	engine := pipeline.NewPredictionEngine[iris.IrisData, iris.ClusterPrediction](model)
	prediction, err := engine.Predict(iris.TestIrisData.Setosa)
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("Cluster: %d\n", prediction.PredictedClusterId)
	fmt.Printf("Distances: %s\n", strings.Join(lo.Map(prediction.Distances, func(d float32, _ int) string {
		return fmt.Sprint(d)
	}), " "))
}
