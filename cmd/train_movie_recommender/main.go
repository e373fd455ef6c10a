package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/datasets/movieratings"
	"github.com/neurlang/mlsamples/evaluate"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/trainer"
	"github.com/neurlang/mlsamples/trainers"
	"github.com/neurlang/mlsamples/transforms"
)

func main() {
	trainPath := flag.String("train", movieratings.TrainPath, "training ratings, comma separated")
	testPath := flag.String("test", movieratings.TestPath, "test ratings, comma separated")
	dstmodel := flag.String("dstmodel", movieratings.ModelPath, "model destination .zip file")
	resume := flag.Bool("resume", false, "load the model from -dstmodel instead of training")
	rank := flag.Int("rank", 100, "approximation rank")
	iterations := flag.Int("iterations", 20, "number of passes over the ratings")
	user := flag.Int("user", 6, "user to recommend for")
	movie := flag.Int("movie", 10, "movie to recommend")
	flag.Parse()

	ctx := context.Background()

	chain := pipeline.Append(
		transforms.MapValueToKey("userIdEncoded", "UserId"),
		transforms.MapValueToKey("movieIdEncoded", "MovieId"),
		trainers.MatrixFactorization(trainers.MatrixFactorizationOptions{
			MatrixColumnIndexColumnName: "userIdEncoded",
			MatrixRowIndexColumnName:    "movieIdEncoded",
			LabelColumnName:             "Label",
			NumberOfIterations:          *iterations,
			ApproximationRank:           *rank,
		}),
	)

	fmt.Println("=============== Training the model ===============")
	model, err := trainer.FitOrResume(ctx, chain, load(*trainPath), resume, dstmodel, pipeline.LoadOptions{})
	if err != nil {
		panic(err.Error())
	}

	fmt.Println("=============== Evaluating the model ===============")
	predictions, err := model.Transform(ctx, load(*testPath))
	if err != nil {
		panic(err.Error())
	}
	metrics, err := evaluate.Regression(predictions, evaluate.Columns{Label: "Label", Score: "Score"})
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("Root Mean Squared Error : %v\n", metrics.RootMeanSquaredError)
	fmt.Printf("RSquared: %v\n", metrics.RSquared)

	fmt.Println("=============== Making a prediction ===============")
	engine := pipeline.NewPredictionEngine[movieratings.MovieRating, movieratings.MovieRatingPrediction](model)
	input := movieratings.MovieRating{UserId: float32(*user), MovieId: float32(*movie)}
	prediction, err := engine.Predict(input)
	if err != nil {
		panic(err.Error())
	}
	if movieratings.Recommend(float64(prediction.Score)) {
		fmt.Printf("Movie %v is recommended for user %v\n", input.MovieId, input.UserId)
	} else {
		fmt.Printf("Movie %v is not recommended for user %v\n", input.MovieId, input.UserId)
	}

	fmt.Println("=============== Saving the model to a file ===============")
	if err := trainer.Save(model, dstmodel); err != nil {
		panic(err.Error())
	}
}

func load(path string) *data.View {
	located, err := datasets.Locate(path)
	if err != nil {
		panic(err.Error())
	}
	v, err := movieratings.Load(located)
	if err != nil {
		panic(err.Error())
	}
	return v
}
