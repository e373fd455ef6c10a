package skills

import (
	"context"
	"testing"

	"go.viam.com/test"
)

var example = []Game{{0, 1}, {0, 3}, {0, 4}, {1, 2}, {3, 1}, {4, 2}}

func TestInferExample(t *testing.T) {
	skills, err := Infer(context.Background(), 5, example, DefaultOptions)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, skills, test.ShouldHaveLength, 5)

	order := make([]int, 0, 5)
	for _, r := range Rank(skills) {
		order = append(order, r.Player)
	}
	test.That(t, order, test.ShouldResemble, []int{0, 3, 4, 1, 2})
	for _, s := range skills {
		test.That(t, s.Variance, test.ShouldBeGreaterThan, 0)
		test.That(t, s.Variance, test.ShouldBeLessThan, DefaultOptions.PriorVariance)
	}
}

func TestInferSingleGame(t *testing.T) {
	skills, err := Infer(context.Background(), 2, []Game{{1, 0}}, DefaultOptions)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, skills[1].Mean, test.ShouldBeGreaterThan, DefaultOptions.PriorMean)
	test.That(t, skills[0].Mean, test.ShouldBeLessThan, DefaultOptions.PriorMean)
	// symmetric about the prior
	test.That(t, skills[1].Mean-6, test.ShouldAlmostEqual, 6-skills[0].Mean, 1e-9)
	test.That(t, skills[1].Variance, test.ShouldAlmostEqual, skills[0].Variance, 1e-9)
}

func TestInferNoGames(t *testing.T) {
	skills, err := Infer(context.Background(), 3, nil, DefaultOptions)
	test.That(t, err, test.ShouldBeNil)
	for _, s := range skills {
		test.That(t, s.Mean, test.ShouldAlmostEqual, 6)
		test.That(t, s.Variance, test.ShouldAlmostEqual, 9)
	}
}

func TestInferValidation(t *testing.T) {
	_, err := Infer(context.Background(), 2, []Game{{0, 2}}, DefaultOptions)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Infer(context.Background(), 2, []Game{{1, 1}}, DefaultOptions)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Infer(context.Background(), 0, nil, DefaultOptions)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestInferCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Infer(ctx, 5, example, DefaultOptions)
	test.That(t, err, test.ShouldEqual, context.Canceled)
}

func TestGaussianString(t *testing.T) {
	test.That(t, Gaussian{9.51734, 3.92631}.String(), test.ShouldEqual, "Gaussian(9.517, 3.926)")
}

func TestRankTies(t *testing.T) {
	r := Rank([]Gaussian{{1, 1}, {2, 1}, {1, 1}})
	test.That(t, []int{r[0].Player, r[1].Player, r[2].Player}, test.ShouldResemble, []int{1, 0, 2})
}
