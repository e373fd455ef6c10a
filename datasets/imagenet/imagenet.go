// Package imagenet lists the sample images of the object detection program.
package imagenet

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Default locations of the assets.
const (
	AssetsPath   = "assets"
	ModelPath    = "assets/tiny_yolov2/model.tflite"
	ImagesFolder = "assets/images"
	OutputFolder = "assets/images/output"
)

// Network input and output names of the detector.
const (
	ModelInput  = "image"
	ModelOutput = "grid"
)

// ImageNetData is an image file and its file name.
type ImageNetData struct {
	ImagePath string `load:"0"`
	Label     string `load:"1"`
}

// ReadFromFile lists the regular files of folder except markdown notes, in
// name order.
func ReadFromFile(folder string) ([]ImageNetData, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, errors.Wrap(err, "read image folder")
	}
	var out []ImageNetData
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) == ".md" {
			continue
		}
		out = append(out, ImageNetData{
			ImagePath: filepath.Join(folder, e.Name()),
			Label:     e.Name(),
		})
	}
	return out, nil
}
