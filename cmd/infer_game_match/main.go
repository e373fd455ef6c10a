package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neurlang/mlsamples/datasets/gamematch"
	"github.com/neurlang/mlsamples/skills"
)

func main() {
	opts := skills.DefaultOptions
	flag.Float64Var(&opts.PriorMean, "mean", opts.PriorMean, "prior skill mean")
	flag.Float64Var(&opts.PriorVariance, "variance", opts.PriorVariance, "prior skill variance")
	flag.Float64Var(&opts.PerformanceVariance, "noise", opts.PerformanceVariance, "performance noise variance")
	flag.Parse()

	skill, err := skills.Infer(context.Background(), gamematch.Players(), gamematch.Games(), opts)
	if err != nil {
		panic(err.Error())
	}
	for _, r := range skills.Rank(skill) {
		fmt.Printf("Player %d skill: %s\n", r.Player, r.Skill)
	}
}
