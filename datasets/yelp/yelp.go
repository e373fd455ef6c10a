// Package yelp implements the labelled Yelp review sentences dataset of the
// sentiment analysis samples.
//
// Each line of yelp_labelled.txt is a sentence, a tab and 1 for a positive or
// 0 for a negative review. There is no header.
package yelp

import (
	"github.com/neurlang/mlsamples/data"
)

// DataPath is the default location of the dataset.
const DataPath = "Data/yelp_labelled.txt"

// SentimentData is one review.
type SentimentData struct {
	SentimentText string `load:"0"`
	Sentiment     bool   `load:"1" col:"Label"`
}

// SentimentPrediction is the scored review.
type SentimentPrediction struct {
	SentimentText string
	Prediction    bool `col:"PredictedLabel"`
	Probability   float32
	Score         float32
}

// Load reads the dataset at path.
func Load(path string) (*data.View, error) {
	return data.LoadFromTextFile[SentimentData](path, data.TextOptions{Separator: '\t'})
}

// Sentiment names a prediction.
func Sentiment(positive bool) string {
	if positive {
		return "Positive"
	}
	return "Negative"
}
