package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"goji.io"
	"goji.io/pat"

	"github.com/neurlang/mlsamples/datasets/yelp"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
)

const (
	predictRoute    = "/api/predict/predictsentiment"
	requestIDHeader = "X-Request-Id"
)

type sentimentEngine = pipeline.PredictionEngine[yelp.SentimentData, yelp.SentimentPrediction]

// server answers sentiment predictions. Engines are pooled since a single
// engine is not safe for concurrent use.
type server struct {
	logger  logging.Logger
	engines sync.Pool
}

func newServer(model pipeline.Transformer, logger logging.Logger) *server {
	s := &server{logger: logger}
	s.engines.New = func() any {
		return pipeline.NewPredictionEngine[yelp.SentimentData, yelp.SentimentPrediction](model)
	}
	return s
}

func (s *server) handler() http.Handler {
	mux := goji.NewMux()
	mux.HandleFunc(pat.Post(predictRoute), s.predictSentiment)
	return cors.AllowAll().Handler(mux)
}

func (s *server) predictSentiment(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, id)
	logger := s.logger.With("request", id)

	var input yelp.SentimentData
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Debugw("bad request", "error", err)
		http.Error(w, "invalid sentiment data", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(input.SentimentText) == "" {
		http.Error(w, "SentimentText is required", http.StatusBadRequest)
		return
	}

	engine := s.engines.Get().(*sentimentEngine)
	prediction, err := engine.Predict(input)
	s.engines.Put(engine)
	if err != nil {
		logger.Errorw("prediction failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sentiment := yelp.Sentiment(prediction.Prediction)
	logger.Infow("predicted", "sentiment", sentiment, "probability", prediction.Probability)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(sentiment))
}
