package yelp

import (
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
)

func TestLoad(t *testing.T) {
	v, err := Load("testdata/yelp_labelled.txt")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.Len(), test.ShouldEqual, 3)

	rows, err := data.ToStructs[SentimentData](v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldResemble, []SentimentData{
		{"Wow... Loved this place.", true},
		{"Crust is not good.", false},
		{`The "fries" were great too.`, true},
	})
	label, err := v.ColumnOf("Label", data.Bool)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, label.Bools, test.ShouldResemble, []bool{true, false, true})
}

func TestSentiment(t *testing.T) {
	test.That(t, Sentiment(true), test.ShouldEqual, "Positive")
	test.That(t, Sentiment(false), test.ShouldEqual, "Negative")
}
