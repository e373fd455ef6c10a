package imagetags

import (
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
)

func TestLoad(t *testing.T) {
	v, err := Load("testdata/tags.tsv")
	test.That(t, err, test.ShouldBeNil)
	rows, err := data.ToStructs[ImageData](v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldResemble, []ImageData{
		{"broccoli.jpg", "food"}, {"pizza.jpg", "food"}, {"teddy2.jpg", "teddy"},
	})
}

func TestReadFromTsv(t *testing.T) {
	rows, err := ReadFromTsv("testdata/image_list.tsv", "testdata")
	test.That(t, err, test.ShouldBeNil)
	abs, err := filepath.Abs("testdata")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldResemble, []ImageData{
		{ImagePath: filepath.Join(abs, "broccoli.jpg")},
		{ImagePath: filepath.Join(abs, "teddy3.jpg")},
	})

	_, err = ReadFromTsv("testdata/missing.tsv", "testdata")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMaxScore(t *testing.T) {
	test.That(t, ImagePrediction{Score: []float32{0.1, 0.7, 0.2}}.MaxScore(), test.ShouldEqual, float32(0.7))
}
