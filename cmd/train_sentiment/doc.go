// Package main provides a demo program for binary sentiment classification of
// Yelp review sentences. Sentences are featurized into word and character
// n-grams and classified with logistic regression; the model is saved for
// the serve_sentiment program.
package main
