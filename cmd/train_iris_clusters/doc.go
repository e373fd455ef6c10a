// Package main provides a demo program for k-means clustering of iris flowers
// into three clusters by their sepal and petal measurements.
package main
