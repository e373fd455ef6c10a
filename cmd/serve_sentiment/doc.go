// Package main provides a demo program serving the sentiment model trained by
// train_sentiment over HTTP.
//
// POST /api/predict/predictsentiment with {"SentimentText": "..."} answers
// Positive or Negative as plain text.
package main
