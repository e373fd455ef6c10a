package yolo

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
)

var boldFont *truetype.Font

func init() {
	var err error
	boldFont, err = truetype.Parse(gobold.TTF)
	if err != nil {
		panic(err)
	}
}

// Caption is the text drawn above a box, like "dog (87%)".
func Caption(box BoundingBox) string {
	return fmt.Sprintf("%s (%.0f%%)", box.Label, box.Confidence*100)
}

// Draw returns a copy of img with boxes outlined and captioned. Box
// coordinates are in model space and are scaled to the image size.
func Draw(img image.Image, boxes []BoundingBox) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetFontFace(truetype.NewFace(boldFont, &truetype.Options{Size: 12}))
	width, height := float64(dc.Width()), float64(dc.Height())

	for _, box := range boxes {
		x := math.Max(box.Dimensions.X, 0)
		y := math.Max(box.Dimensions.Y, 0)
		w := math.Min(ImageWidth-x, box.Dimensions.Width)
		h := math.Min(ImageHeight-y, box.Dimensions.Height)

		x = width * x / ImageWidth
		y = height * y / ImageHeight
		w = width * w / ImageWidth
		h = height * h / ImageHeight

		text := Caption(box)
		tw, th := dc.MeasureString(text)
		dc.SetColor(box.Color)
		dc.DrawRectangle(x, y-th-1, tw, th)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawString(text, x, y-1)

		dc.SetColor(box.Color)
		dc.SetLineWidth(3.2)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
	}
	return dc.Image()
}
