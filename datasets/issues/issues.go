// Package issues implements the GitHub issues dataset of the multiclass
// classification sample: tab separated ID, Area, Title and Description with a
// header line.
package issues

import (
	"github.com/neurlang/mlsamples/data"
)

// Default locations of the dataset and the trained model.
const (
	TrainPath = "Data/issues_train.tsv"
	TestPath  = "Data/issues_test.tsv"
	ModelPath = "Models/model.zip"
)

// GitHubIssue is one issue.
type GitHubIssue struct {
	ID          string `load:"0"`
	Area        string `load:"1"`
	Title       string `load:"2"`
	Description string `load:"3"`
}

// IssuePrediction is the predicted area label.
type IssuePrediction struct {
	Area string `col:"PredictedLabel"`
}

// Load reads an issues file.
func Load(path string) (*data.View, error) {
	return data.LoadFromTextFile[GitHubIssue](path, data.TextOptions{Separator: '\t', HasHeader: true})
}
