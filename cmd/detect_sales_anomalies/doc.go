// Package main provides a demo program for anomaly detection on a monthly
// product sales series. Temporary spikes and persistent change points are
// detected with independent and identically distributed detectors and
// printed as alert tables; alert rows are highlighted.
package main
