// Package trainer provides the fit, resume and save orchestration shared by the
// sample programs. Programs that persist a model expose -dstmodel and -resume
// flags; with -resume the saved model is loaded instead of fitting a new one.
package trainer
