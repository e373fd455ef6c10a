// Package skills infers player skills from game outcomes.
//
// Every player has a Gaussian skill prior. In each game both players perform
// at their skill plus Gaussian noise and the winner's performance exceeds the
// loser's. The posterior over skills is approximated by expectation
// propagation, one Gaussian message per game and player.
package skills

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/neurlang/mlsamples/logging"
)

// Gaussian is a normal distribution.
type Gaussian struct {
	Mean     float64
	Variance float64
}

func (g Gaussian) String() string {
	return fmt.Sprintf("Gaussian(%.4g, %.4g)", g.Mean, g.Variance)
}

// natural parameters: precision and precision times mean
type message struct {
	pi, tau float64
}

func (m message) gaussian() Gaussian {
	return Gaussian{Mean: m.tau / m.pi, Variance: 1 / m.pi}
}

func natural(g Gaussian) message {
	return message{pi: 1 / g.Variance, tau: g.Mean / g.Variance}
}

func (m message) times(o message) message { return message{m.pi + o.pi, m.tau + o.tau} }
func (m message) over(o message) message  { return message{m.pi - o.pi, m.tau - o.tau} }

// Game records that Winner beat Loser; both are player indices.
type Game struct {
	Winner int
	Loser  int
}

// Options configures inference.
type Options struct {
	PriorMean           float64
	PriorVariance       float64
	PerformanceVariance float64
	MaximumIterations   int
	// Tolerance stops the sweeps once no posterior mean or variance moves
	// by more than it.
	Tolerance float64
}

// DefaultOptions are the priors of the game match example.
var DefaultOptions = Options{
	PriorMean:           6,
	PriorVariance:       9,
	PerformanceVariance: 1,
	MaximumIterations:   100,
	Tolerance:           1e-6,
}

// Infer returns the posterior skill of each of the players.
func Infer(ctx context.Context, players int, games []Game, opts Options) ([]Gaussian, error) {
	if players <= 0 {
		return nil, errors.Errorf("%d players", players)
	}
	if opts.PriorVariance <= 0 || opts.PerformanceVariance < 0 {
		return nil, errors.New("variances must be positive")
	}
	for i, g := range games {
		if g.Winner < 0 || g.Winner >= players || g.Loser < 0 || g.Loser >= players {
			return nil, errors.Errorf("game %d: player out of range", i)
		}
		if g.Winner == g.Loser {
			return nil, errors.Errorf("game %d: player %d plays against itself", i, g.Winner)
		}
	}

	prior := natural(Gaussian{opts.PriorMean, opts.PriorVariance})
	posterior := make([]message, players)
	for i := range posterior {
		posterior[i] = prior
	}
	// messages from each game to its winner and loser, initially uniform
	toWinner := make([]message, len(games))
	toLoser := make([]message, len(games))

	beta2 := opts.PerformanceVariance
	iter := 0
	for ; iter < opts.MaximumIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var change float64
		for g, game := range games {
			cw := posterior[game.Winner].over(toWinner[g])
			cl := posterior[game.Loser].over(toLoser[g])
			w, l := cw.gaussian(), cl.gaussian()

			c2 := w.Variance + l.Variance + 2*beta2
			c := math.Sqrt(c2)
			v, wt := truncate((w.Mean - l.Mean) / c)

			nw := natural(Gaussian{
				Mean:     w.Mean + w.Variance/c*v,
				Variance: w.Variance * (1 - w.Variance/c2*wt),
			})
			nl := natural(Gaussian{
				Mean:     l.Mean - l.Variance/c*v,
				Variance: l.Variance * (1 - l.Variance/c2*wt),
			})
			change = math.Max(change, moved(posterior[game.Winner], nw))
			change = math.Max(change, moved(posterior[game.Loser], nl))

			toWinner[g] = nw.over(cw)
			toLoser[g] = nl.over(cl)
			posterior[game.Winner] = nw
			posterior[game.Loser] = nl
		}
		if change < opts.Tolerance {
			break
		}
	}
	logging.Global().Debugw("skills converged", "sweeps", iter, "games", len(games))

	out := make([]Gaussian, players)
	for i, p := range posterior {
		out[i] = p.gaussian()
	}
	return out, nil
}

// truncate returns the mean and variance corrections v and w of a unit
// Gaussian truncated to values above -t.
func truncate(t float64) (v, w float64) {
	denom := distuv.UnitNormal.CDF(t)
	if denom < 1e-300 {
		// asymptotic limit
		v = -t
	} else {
		v = distuv.UnitNormal.Prob(t) / denom
	}
	return v, v * (v + t)
}

func moved(old, updated message) float64 {
	a, b := old.gaussian(), updated.gaussian()
	return math.Max(math.Abs(a.Mean-b.Mean), math.Abs(a.Variance-b.Variance))
}

// Ranked pairs a player with its skill.
type Ranked struct {
	Player int
	Skill  Gaussian
}

// Rank orders players by descending mean skill, ties by index.
func Rank(skills []Gaussian) []Ranked {
	out := make([]Ranked, len(skills))
	for i, s := range skills {
		out[i] = Ranked{Player: i, Skill: s}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Skill.Mean > out[j].Skill.Mean })
	return out
}
