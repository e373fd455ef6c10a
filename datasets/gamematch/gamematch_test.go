package gamematch

import (
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/skills"
)

func TestGames(t *testing.T) {
	test.That(t, Players(), test.ShouldEqual, 5)
	games := Games()
	test.That(t, games, test.ShouldHaveLength, 6)
	test.That(t, games[3], test.ShouldResemble, skills.Game{Winner: 1, Loser: 2})
}
