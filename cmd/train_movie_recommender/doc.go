// Package main provides a demo program for movie recommendation with matrix
// factorization of the user by movie rating matrix.
package main
