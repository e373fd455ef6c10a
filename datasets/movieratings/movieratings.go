// Package movieratings implements the MovieLens ratings subset of the
// recommendation sample.
package movieratings

import (
	"math"

	"github.com/neurlang/mlsamples/data"
)

// Default locations of the dataset and the trained model.
const (
	TrainPath = "Data/recommendation-ratings-train.csv"
	TestPath  = "Data/recommendation-ratings-test.csv"
	ModelPath = "Data/model.zip"
)

// MovieRating is one rating; Label is the rating from 1 to 5.
type MovieRating struct {
	UserId  float32 `load:"0"`
	MovieId float32 `load:"1"`
	Label   float32 `load:"2"`
}

// MovieRatingPrediction is the predicted rating.
type MovieRatingPrediction struct {
	Label float32
	Score float32
}

// Threshold is the rating above which a movie is recommended.
const Threshold = 3.5

// Recommend reports whether score rounded to one decimal exceeds Threshold.
func Recommend(score float64) bool {
	return math.Round(score*10)/10 > Threshold
}

// Load reads a comma separated ratings file with a header.
func Load(path string) (*data.View, error) {
	return data.LoadFromTextFile[MovieRating](path, data.TextOptions{Separator: ',', HasHeader: true})
}
