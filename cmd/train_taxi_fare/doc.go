// Package main provides a demo program for regression with boosted trees: New
// York taxi fares are predicted from the vendor, rate code, passenger count,
// trip time, trip distance and payment type.
package main
