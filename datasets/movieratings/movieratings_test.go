package movieratings

import (
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
)

func TestLoad(t *testing.T) {
	v, err := Load("testdata/ratings.csv")
	test.That(t, err, test.ShouldBeNil)
	rows, err := data.ToStructs[MovieRating](v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldResemble, []MovieRating{{1, 1, 4}, {1, 3, 4}, {6, 10, 3}})
}

func TestRecommend(t *testing.T) {
	test.That(t, Recommend(3.5), test.ShouldBeFalse)
	test.That(t, Recommend(3.54), test.ShouldBeFalse)
	test.That(t, Recommend(3.55), test.ShouldBeTrue)
	test.That(t, Recommend(4.8), test.ShouldBeTrue)
	test.That(t, Recommend(-1), test.ShouldBeFalse)
}

func TestRecommendMonotonic(t *testing.T) {
	prev := false
	for s := 0.0; s <= 5; s += 0.01 {
		r := Recommend(s)
		if prev {
			test.That(t, r, test.ShouldBeTrue)
		}
		prev = r
	}
	test.That(t, prev, test.ShouldBeTrue)
}
