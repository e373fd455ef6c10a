// Package iris implements the UCI iris flower measurements used by the
// clustering sample. The species column of iris.data is not loaded.
package iris

import (
	"github.com/neurlang/mlsamples/data"
)

// Default locations of the dataset and the trained model.
const (
	DataPath  = "Data/iris.data"
	ModelPath = "Data/model.zip"
)

// IrisData holds the four measurements of one flower in centimetres.
type IrisData struct {
	SepalLength float32 `load:"0"`
	SepalWidth  float32 `load:"1"`
	PetalLength float32 `load:"2"`
	PetalWidth  float32 `load:"3"`
}

// ClusterPrediction is the assigned cluster and the squared distance to
// every centroid.
type ClusterPrediction struct {
	PredictedClusterId uint32    `col:"PredictedLabel"`
	Distances          []float32 `col:"Score"`
}

// TestIrisData holds known flowers.
var TestIrisData = struct {
	Setosa IrisData
}{
	Setosa: IrisData{SepalLength: 5.1, SepalWidth: 3.5, PetalLength: 1.4, PetalWidth: 0.2},
}

// Load reads the comma separated file without header.
func Load(path string) (*data.View, error) {
	return data.LoadFromTextFile[IrisData](path, data.TextOptions{Separator: ','})
}
