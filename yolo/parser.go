// Package yolo turns the raw output grid of a Tiny YOLOv2 network into
// labelled bounding boxes and draws them onto images.
package yolo

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
)

// Network geometry of Tiny YOLOv2 on 416x416 Pascal VOC images.
const (
	Rows         = 13
	Columns      = 13
	BoxesPerCell = 5
	BoxFeatures  = 5
	Classes      = 20
	CellWidth    = 32
	CellHeight   = 32
	Channels     = BoxesPerCell * (BoxFeatures + Classes)
	// ImageWidth and ImageHeight are the model input size in pixels.
	ImageWidth  = Columns * CellWidth
	ImageHeight = Rows * CellHeight

	// Threshold is the smallest confidence × class probability kept.
	Threshold = 0.3
)

// Anchors are the box priors in cells, as width/height pairs.
var Anchors = [BoxesPerCell * 2]float64{1.08, 1.19, 3.42, 4.41, 6.63, 11.38, 9.42, 5.11, 16.62, 10.52}

// Labels are the Pascal VOC classes in output order.
var Labels = [Classes]string{
	"aeroplane", "bicycle", "bird", "boat", "bottle",
	"bus", "car", "cat", "chair", "cow",
	"diningtable", "dog", "horse", "motorbike", "person",
	"pottedplant", "sheep", "sofa", "train", "tvmonitor",
}

// Colors are the box colors, one per box slot of a cell.
var Colors = []color.RGBA{
	{240, 230, 140, 255}, // khaki
	{255, 0, 255, 255},   // fuchsia
	{192, 192, 192, 255}, // silver
	{65, 105, 225, 255},  // royal blue
	{0, 128, 0, 255},     // green
	{255, 140, 0, 255},   // dark orange
	{128, 0, 128, 255},   // purple
	{255, 215, 0, 255},   // gold
	{255, 0, 0, 255},     // red
	{127, 255, 212, 255}, // aquamarine
	{0, 255, 0, 255},     // lime
	{240, 248, 255, 255}, // alice blue
	{160, 82, 45, 255},   // sienna
	{218, 112, 214, 255}, // orchid
	{210, 180, 140, 255}, // tan
	{255, 182, 193, 255}, // light pink
	{255, 255, 0, 255},   // yellow
	{255, 105, 180, 255}, // hot pink
	{107, 142, 35, 255},  // olive drab
	{244, 164, 96, 255},  // sandy brown
	{0, 206, 209, 255},   // dark turquoise
}

// Dimensions is a rectangle in model pixels with X, Y at the top left.
type Dimensions struct {
	X, Y, Width, Height float64
}

// Area of the rectangle.
func (d Dimensions) Area() float64 {
	return d.Width * d.Height
}

// BoundingBox is one detected object.
type BoundingBox struct {
	Dimensions Dimensions
	Label      string
	Confidence float64
	Color      color.RGBA
}

// Layout is the memory order of the output grid.
type Layout int

const (
	// ChannelsFirst is [channel][row][column], as exported to ONNX.
	ChannelsFirst Layout = iota
	// ChannelsLast is [row][column][channel], as exported to TensorFlow Lite.
	ChannelsLast
)

// Parser decodes output grids.
type Parser struct {
	Layout Layout
}

func (p Parser) offset(x, y, channel int) int {
	if p.Layout == ChannelsLast {
		return (y*Columns+x)*Channels + channel
	}
	return channel*Rows*Columns + y*Columns + x
}

// ParseOutputs returns every box whose confidence times best class
// probability reaches Threshold.
func (p Parser) ParseOutputs(output []float32) ([]BoundingBox, error) {
	if len(output) != Rows*Columns*Channels {
		return nil, errors.Errorf("yolo output has %d values, want %d", len(output), Rows*Columns*Channels)
	}
	var boxes []BoundingBox
	classes := make([]float64, Classes)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			for box := 0; box < BoxesPerCell; box++ {
				channel := box * (BoxFeatures + Classes)
				at := func(k int) float64 { return float64(output[p.offset(col, row, channel+k)]) }

				confidence := sigmoid(at(4))
				if confidence < Threshold {
					continue
				}
				for c := range classes {
					classes[c] = at(BoxFeatures + c)
				}
				softmax(classes)
				best := 0
				for c, v := range classes {
					if v > classes[best] {
						best = c
					}
				}
				score := classes[best] * confidence
				if score < Threshold {
					continue
				}

				cx := (float64(col) + sigmoid(at(0))) * CellWidth
				cy := (float64(row) + sigmoid(at(1))) * CellHeight
				w := math.Exp(at(2)) * CellWidth * Anchors[box*2]
				h := math.Exp(at(3)) * CellHeight * Anchors[box*2+1]
				boxes = append(boxes, BoundingBox{
					Dimensions: Dimensions{X: cx - w/2, Y: cy - h/2, Width: w, Height: h},
					Label:      Labels[best],
					Confidence: score,
					Color:      Colors[best%len(Colors)],
				})
			}
		}
	}
	return boxes, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(z []float64) {
	m := math.Inf(-1)
	for _, v := range z {
		m = math.Max(m, v)
	}
	var sum float64
	for i, v := range z {
		z[i] = math.Exp(v - m)
		sum += z[i]
	}
	for i := range z {
		z[i] /= sum
	}
}
