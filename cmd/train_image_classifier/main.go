package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/datasets/imagetags"
	"github.com/neurlang/mlsamples/evaluate"
	"github.com/neurlang/mlsamples/inference"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/trainer"
	"github.com/neurlang/mlsamples/trainers"
	"github.com/neurlang/mlsamples/transforms"
)

func main() {
	inceptionPath := flag.String("inception", imagetags.InceptionModel, "Inception .tflite model")
	tagsPath := flag.String("tags", imagetags.TrainTagsTsv, "training image tags, tab separated")
	trainFolder := flag.String("train", imagetags.TrainImagesFolder, "training images folder")
	listPath := flag.String("predict", imagetags.PredictImageListTsv, "images to classify, tab separated")
	predictFolder := flag.String("predictfolder", imagetags.PredictImagesFolder, "folder of the images to classify")
	singlePath := flag.String("single", imagetags.PredictSingleImage, "single image to classify")
	dstmodel := flag.String("dstmodel", imagetags.OutputModel, "model destination .zip file")
	resume := flag.Bool("resume", false, "load the model from -dstmodel instead of training")
	flag.Parse()

	ctx := context.Background()

	inception := locate(*inceptionPath)
	network, err := inference.Load(inception)
	if err != nil {
		panic(err.Error())
	}
	trainImages := locate(*trainFolder)
	trainingData, err := imagetags.Load(locate(*tagsPath))
	if err != nil {
		panic(err.Error())
	}

	settings := imagetags.InceptionSettings
	chain := pipeline.Append(
		transforms.MapValueToKey(imagetags.LabelToKey, "Label"),
		transforms.LoadImages(imagetags.InceptionInput, trainImages, "ImagePath"),
		transforms.ResizeImages(imagetags.InceptionInput, settings.ImageWidth, settings.ImageHeight, imagetags.InceptionInput),
		transforms.ExtractPixels(imagetags.InceptionInput, imagetags.InceptionInput, transforms.PixelOptions{
			Interleave: settings.ChannelsLast,
			Offset:     settings.Mean,
			Scale:      settings.Scale,
		}),
		transforms.ScoreModel(inception, network, transforms.ScoreOptions{
			InputColumn:       imagetags.InceptionInput,
			OutputColumn:      imagetags.InceptionOutput,
			InputShape:        []int{settings.ImageHeight, settings.ImageWidth, 3},
			AddBatchDimension: true,
		}),
		trainers.LbfgsMaximumEntropy(trainers.MaximumEntropyOptions{
			LabelColumnName:   imagetags.LabelToKey,
			FeatureColumnName: imagetags.InceptionOutput,
		}),
		transforms.MapKeyToValue(imagetags.PredictedLabelValue, "PredictedLabel"),
	)

	fmt.Println("=============== Training classification model ===============")
	model, err := trainer.FitOrResume(ctx, chain, trainingData, resume, dstmodel, pipeline.LoadOptions{
		Resources: map[string]any{inception: network},
	})
	if err != nil {
		panic(err.Error())
	}
	defer model.Close()

	predictions, err := model.Transform(ctx, trainingData)
	if err != nil {
		panic(err.Error())
	}
	display(predictions)

	fmt.Println("=============== Classification metrics ===============")
	metrics, err := evaluate.MulticlassClassification(predictions, evaluate.Columns{Label: imagetags.LabelToKey})
	if err != nil {
		panic(err.Error())
	}
	fmt.Printf("LogLoss is: %v\n", metrics.LogLoss)
	fmt.Printf("PerClassLogLoss is: %s\n", strings.Join(lo.Map(metrics.PerClassLogLoss, func(l float64, _ int) string {
		return fmt.Sprint(l)
	}), " , "))

	if !*resume {
		if err := trainer.Save(model, dstmodel); err != nil {
			panic(err.Error())
		}
	}

	fmt.Println("=============== Making classifications ===============")
	images, err := imagetags.ReadFromTsv(locate(*listPath), locate(*predictFolder))
	if err != nil {
		panic(err.Error())
	}
	imageView, err := data.LoadFromStructs(images)
	if err != nil {
		panic(err.Error())
	}
	predictions, err = model.Transform(ctx, imageView)
	if err != nil {
		panic(err.Error())
	}
	display(predictions)

	fmt.Println("=============== Making single image classification ===============")
	single, err := filepath.Abs(locate(*singlePath))
	if err != nil {
		panic(err.Error())
	}
	engine := pipeline.NewPredictionEngine[imagetags.ImageData, imagetags.ImagePrediction](model)
	prediction, err := engine.Predict(imagetags.ImageData{ImagePath: single})
	if err != nil {
		panic(err.Error())
	}
	printPrediction(prediction)
}

func display(v *data.View) {
	predictions, err := data.ToStructs[imagetags.ImagePrediction](v)
	if err != nil {
		panic(err.Error())
	}
	for _, p := range predictions {
		printPrediction(p)
	}
}

func printPrediction(p imagetags.ImagePrediction) {
	fmt.Printf("Image: %s predicted as: %s with score: %v \n", filepath.Base(p.ImagePath), p.PredictedLabelValue, p.MaxScore())
}

func locate(path string) string {
	located, err := datasets.Locate(path)
	if err != nil {
		panic(err.Error())
	}
	return located
}
