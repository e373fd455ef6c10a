// Package gamematch holds the game outcomes of the skill inference sample.
package gamematch

import "github.com/neurlang/mlsamples/skills"

// Winners and Losers are the players of each game.
var (
	Winners = []int{0, 0, 0, 1, 3, 4}
	Losers  = []int{1, 3, 4, 2, 1, 2}
)

// Games pairs Winners with Losers.
func Games() []skills.Game {
	out := make([]skills.Game, len(Winners))
	for i := range out {
		out[i] = skills.Game{Winner: Winners[i], Loser: Losers[i]}
	}
	return out
}

// Players is one more than the highest player index.
func Players() int {
	n := 0
	for _, g := range Games() {
		n = max(n, g.Winner+1, g.Loser+1)
	}
	return n
}
