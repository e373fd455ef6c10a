package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/datasets/imagenet"
	"github.com/neurlang/mlsamples/inference"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/transforms"
	"github.com/neurlang/mlsamples/yolo"
)

// scoredImage is an image with the raw network output grid.
type scoredImage struct {
	ImagePath string
	Label     string
	Grid      []float32 `col:"grid"`
}

func main() {
	modelPath := flag.String("model", imagenet.ModelPath, "Tiny YOLOv2 .tflite model")
	imagesFolder := flag.String("images", imagenet.ImagesFolder, "folder of images to scan")
	outputFolder := flag.String("output", imagenet.OutputFolder, "folder for the annotated images")
	limit := flag.Int("limit", 5, "maximum number of boxes per image")
	overlap := flag.Float64("overlap", .5, "intersection over union above which boxes are suppressed")
	flag.Parse()

	logger := logging.NewLogger("detect_objects")
	if err := run(context.Background(), *modelPath, *imagesFolder, *outputFolder, *limit, *overlap); err != nil {
		logger.Errorw("object detection failed", "error", err)
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, modelPath, imagesFolder, outputFolder string, limit int, overlap float64) error {
	fmt.Println("Read model")
	located, err := datasets.Locate(modelPath)
	if err != nil {
		return err
	}
	fmt.Printf("Model location: %s\n", located)
	fmt.Printf("Default parameters: image size=(%d,%d)\n", yolo.ImageWidth, yolo.ImageHeight)

	network, err := inference.Load(located)
	if err != nil {
		return err
	}

	folder, err := datasets.Locate(imagesFolder)
	if err != nil {
		return err
	}
	fmt.Printf("Images location: %s\n", folder)
	images, err := imagenet.ReadFromFile(folder)
	if err != nil {
		return err
	}
	imageView, err := data.LoadFromStructs(images)
	if err != nil {
		return err
	}

	chain := pipeline.Append(
		transforms.LoadImages("picture", "", "ImagePath"),
		transforms.ResizeImages("picture", yolo.ImageWidth, yolo.ImageHeight, "picture"),
		transforms.ExtractPixels(imagenet.ModelInput, "picture", transforms.PixelOptions{Interleave: true}),
		transforms.ScoreModel(located, network, transforms.ScoreOptions{
			InputColumn:       imagenet.ModelInput,
			OutputColumn:      imagenet.ModelOutput,
			InputShape:        []int{yolo.ImageHeight, yolo.ImageWidth, 3},
			AddBatchDimension: true,
		}),
	)
	model, err := chain.Fit(ctx, imageView)
	if err != nil {
		network.Close()
		return err
	}
	defer model.Close()

	fmt.Println("=====Identify the objects in the images=====")
	scoredView, err := model.Transform(ctx, imageView)
	if err != nil {
		return err
	}
	scored, err := data.ToStructs[scoredImage](scoredView)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputFolder, 0o755); err != nil {
		return errors.Wrap(err, "create output folder")
	}
	parser := yolo.Parser{Layout: yolo.ChannelsLast}
	for _, s := range scored {
		boxes, err := parser.ParseOutputs(s.Grid)
		if err != nil {
			return errors.Wrapf(err, "parse %s", s.Label)
		}
		boxes = yolo.FilterBoundingBoxes(boxes, limit, overlap)

		fmt.Printf("Detected objects in %s:\n", s.Label)
		for _, box := range boxes {
			fmt.Printf("%s - Confidence Score: %v\n", box.Label, box.Confidence)
		}
		fmt.Println()

		original, err := imaging.Open(s.ImagePath, imaging.AutoOrientation(true))
		if err != nil {
			return errors.Wrapf(err, "reopen %s", s.ImagePath)
		}
		if err := imaging.Save(yolo.Draw(original, boxes), filepath.Join(outputFolder, s.Label)); err != nil {
			return errors.Wrapf(err, "save annotated %s", s.Label)
		}
	}
	fmt.Println("========= End of Process ========")
	return nil
}
