// Package main provides a demo program for skill inference: from the outcomes
// of a few two player games, the Gaussian skill of every player is inferred
// and the players are printed from the strongest to the weakest.
package main
