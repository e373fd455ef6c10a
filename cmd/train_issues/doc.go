// Package main provides a demo program for multiclass classification: GitHub
// issues are assigned to an area label from their title and description.
//
// The model is saved to -dstmodel, reloaded and used once more, the way an
// issue triage bot would use a model trained offline.
package main
