package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets/yelp"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/trainers"
	"github.com/neurlang/mlsamples/transforms"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	v, err := data.LoadFromStructs([]yelp.SentimentData{
		{SentimentText: "great food and great service", Sentiment: true},
		{SentimentText: "I love this place", Sentiment: true},
		{SentimentText: "great pasta", Sentiment: true},
		{SentimentText: "terrible food, awful service", Sentiment: false},
		{SentimentText: "I hate this place", Sentiment: false},
		{SentimentText: "awful pasta", Sentiment: false},
	})
	test.That(t, err, test.ShouldBeNil)
	model, err := pipeline.Append(
		transforms.FeaturizeText("Features", "SentimentText"),
		trainers.SdcaLogisticRegression(trainers.SdcaOptions{}),
	).Fit(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)

	srv := httptest.NewServer(newServer(model, logging.NewTestLogger(t)).handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Post(url+predictRoute, "application/json", strings.NewReader(body))
	test.That(t, err, test.ShouldBeNil)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	test.That(t, err, test.ShouldBeNil)
	return resp.StatusCode, string(b), resp.Header
}

func TestPredictSentiment(t *testing.T) {
	srv := testServer(t)

	code, body, header := post(t, srv.URL, `{"SentimentText": "great service"}`)
	test.That(t, code, test.ShouldEqual, http.StatusOK)
	test.That(t, body, test.ShouldEqual, "Positive")
	test.That(t, header.Get(requestIDHeader), test.ShouldNotBeEmpty)

	code, body, _ = post(t, srv.URL, `{"SentimentText": "awful service"}`)
	test.That(t, code, test.ShouldEqual, http.StatusOK)
	test.That(t, body, test.ShouldEqual, "Negative")
}

func TestPredictSentimentBadRequest(t *testing.T) {
	srv := testServer(t)
	for _, body := range []string{`{"SentimentText": `, `{}`, `{"SentimentText": "   "}`} {
		code, _, _ := post(t, srv.URL, body)
		test.That(t, code, test.ShouldEqual, http.StatusBadRequest)
	}
}

func TestPredictSentimentRequestID(t *testing.T) {
	srv := testServer(t)
	req, err := http.NewRequest(http.MethodPost, srv.URL+predictRoute, strings.NewReader(`{"SentimentText": "great"}`))
	test.That(t, err, test.ShouldBeNil)
	req.Header.Set(requestIDHeader, "abc")
	resp, err := http.DefaultClient.Do(req)
	test.That(t, err, test.ShouldBeNil)
	resp.Body.Close()
	test.That(t, resp.Header.Get(requestIDHeader), test.ShouldEqual, "abc")
}

func TestPredictSentimentMethod(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + predictRoute)
	test.That(t, err, test.ShouldBeNil)
	resp.Body.Close()
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusNotFound)
}

func TestPredictSentimentConcurrent(t *testing.T) {
	srv := testServer(t)
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Post(srv.URL+predictRoute, "application/json",
				strings.NewReader(`{"SentimentText": "I love this pasta"}`))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			results[i] = string(b)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		test.That(t, r, test.ShouldEqual, results[0])
		test.That(t, r, test.ShouldBeIn, "Positive", "Negative")
	}
}
