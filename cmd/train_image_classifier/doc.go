// Package main provides a demo program for transfer learning: a pretrained
// Inception network featurizes images and a maximum entropy classifier is
// trained on its penultimate layer to tell the tagged food and toaster
// images apart.
package main
