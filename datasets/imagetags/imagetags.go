// Package imagetags implements the tagged images of the transfer learning
// sample: tab separated image file names and labels without header.
package imagetags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
)

// Default locations of the assets.
const (
	AssetsPath          = "Data/assets"
	TrainTagsTsv        = "Data/assets/inputs-train/data/tags.tsv"
	TrainImagesFolder   = "Data/assets/inputs-train/data"
	PredictImageListTsv = "Data/assets/inputs-predict/data/image_list.tsv"
	PredictImagesFolder = "Data/assets/inputs-predict/data"
	PredictSingleImage  = "Data/assets/inputs-predict-single/data/toaster3.jpg"
	InceptionModel      = "Data/inception_v1.tflite"
	OutputModel         = "Data/assets/outputs/imageClassifier.zip"
)

// InceptionSettings are the preprocessing parameters of the Inception network.
var InceptionSettings = struct {
	ImageHeight  int
	ImageWidth   int
	Mean         float64
	Scale        float64
	ChannelsLast bool
}{224, 224, 117, 1, true}

// Column names shared by the pipeline and the predictions.
const (
	LabelToKey          = "LabelToKey"
	PredictedLabelValue = "PredictedLabelValue"
	InceptionInput      = "input"
	InceptionOutput     = "softmax2_pre_activation"
)

// ImageData is an image path and its label.
type ImageData struct {
	ImagePath string `load:"0"`
	Label     string `load:"1"`
}

// ImagePrediction is the scored image.
type ImagePrediction struct {
	ImagePath           string
	Label               string
	Score               []float32
	PredictedLabelValue string
}

// MaxScore is the highest class probability.
func (p ImagePrediction) MaxScore() float32 {
	var m float32
	for _, s := range p.Score {
		m = max(m, s)
	}
	return m
}

// Load reads a tags file.
func Load(path string) (*data.View, error) {
	return data.LoadFromTextFile[ImageData](path, data.TextOptions{Separator: '\t'})
}

// ReadFromTsv reads the first column of every line as an image name below
// folder. The returned paths are absolute so that they are not joined with the
// training image folder when loaded.
func ReadFromTsv(file, folder string) ([]ImageData, error) {
	folder, err := filepath.Abs(folder)
	if err != nil {
		return nil, errors.Wrap(err, "image folder")
	}
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "read image list")
	}
	var out []ImageData
	for _, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		name, _, _ := strings.Cut(line, "\t")
		out = append(out, ImageData{ImagePath: filepath.Join(folder, name)})
	}
	return out, nil
}
