package data

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// TrainTestSplit shuffles the rows of v with seed and returns the train part
// and the test part holding testFraction of the rows.
func TrainTestSplit(v *View, testFraction float64, seed int64) (train, test *View, err error) {
	if testFraction < 0 || testFraction > 1 {
		return nil, nil, errors.Errorf("test fraction %v out of [0, 1]", testFraction)
	}
	n := v.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	cut := n - int(math.Round(float64(n)*testFraction))
	return v.Take(perm[:cut]), v.Take(perm[cut:]), nil
}
