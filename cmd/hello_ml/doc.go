// Package main provides a demo program for the smallest possible regression: it
// fits house prices to house sizes with a linear model and predicts the price
// of a 2500 sq ft house.
package main
