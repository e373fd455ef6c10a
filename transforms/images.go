package transforms

import (
	"context"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/parallel"
	"github.com/neurlang/mlsamples/pipeline"
)

// ImageLoader decodes the image files named by a text column.
type ImageLoader struct {
	Output string
	Folder string
	Input  string
}

// LoadImages returns an estimator decoding the files in input, relative to
// folder unless a path is absolute.
func LoadImages(output, folder, input string) *ImageLoader {
	return &ImageLoader{Output: output, Folder: folder, Input: input}
}

// Kind implements pipeline.Persistent.
func (l *ImageLoader) Kind() string { return "transforms.LoadImages" }

// Fit returns l, nothing is learned.
func (l *ImageLoader) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	return l, nil
}

// Transform decodes every image, honouring EXIF orientation.
func (l *ImageLoader) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	col, err := v.ColumnOf(l.Input, data.Text)
	if err != nil {
		return nil, err
	}
	pictures := make([]image.Image, len(col.Texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel.Threads())
	for i, name := range col.Texts {
		i, path := i, name
		if l.Folder != "" && !filepath.IsAbs(path) {
			path = filepath.Join(l.Folder, path)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := imaging.Open(path, imaging.AutoOrientation(true))
			if err != nil {
				return errors.Wrapf(err, "load image %s", path)
			}
			pictures[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	v = v.Clone()
	return v, v.Add(data.NewPictures(l.Output, pictures))
}

// ImageResizer scales pictures to a fixed size.
type ImageResizer struct {
	Output string
	Width  int
	Height int
	Input  string
}

// ResizeImages returns an estimator resizing input to width by height.
func ResizeImages(output string, width, height int, input string) *ImageResizer {
	return &ImageResizer{Output: output, Width: width, Height: height, Input: input}
}

// Kind implements pipeline.Persistent.
func (r *ImageResizer) Kind() string { return "transforms.ResizeImages" }

// Fit returns r, nothing is learned.
func (r *ImageResizer) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	return r, nil
}

// Transform resizes with bilinear interpolation, ignoring aspect ratio.
func (r *ImageResizer) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, errors.Errorf("resize: bad size %dx%d", r.Width, r.Height)
	}
	col, err := v.ColumnOf(r.Input, data.Picture)
	if err != nil {
		return nil, err
	}
	out := make([]image.Image, len(col.Pictures))
	parallel.ForEach(len(out), parallel.Threads(), func(i int) {
		if col.Pictures[i] != nil {
			out[i] = resize.Resize(uint(r.Width), uint(r.Height), col.Pictures[i], resize.Bilinear)
		}
	})
	v = v.Clone()
	return v, v.Add(data.NewPictures(r.Output, out))
}

// PixelOptions tunes ExtractPixels.
type PixelOptions struct {
	// Interleave emits RGBRGB... (height, width, channel) instead of
	// planes of R, G and B (channel, height, width).
	Interleave bool
	// Offset is subtracted from every 0-255 channel value.
	Offset float64
	// Scale multiplies the offset value, 1 when zero.
	Scale float64
}

// PixelExtractor turns pictures into RGB float vectors.
type PixelExtractor struct {
	Output  string
	Input   string
	Options PixelOptions
}

// ExtractPixels returns an estimator reading the pixels of input.
func ExtractPixels(output, input string, opts ...PixelOptions) *PixelExtractor {
	var o PixelOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	return &PixelExtractor{Output: output, Input: input, Options: o}
}

// Kind implements pipeline.Persistent.
func (p *PixelExtractor) Kind() string { return "transforms.ExtractPixels" }

// Fit returns p, nothing is learned.
func (p *PixelExtractor) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	return p, nil
}

// Transform adds the pixel vectors.
func (p *PixelExtractor) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	col, err := v.ColumnOf(p.Input, data.Picture)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(col.Pictures))
	for i, img := range col.Pictures {
		if img == nil {
			return nil, errors.Errorf("extract pixels: row %d has no image", i)
		}
		out[i] = Pixels(img, p.Options)
	}
	v = v.Clone()
	return v, v.Add(data.NewVectors(p.Output, out))
}

// Pixels returns the RGB values of img as (v - Offset) * Scale.
func Pixels(img image.Image, o PixelOptions) []float64 {
	scale := o.Scale
	if scale == 0 {
		scale = 1
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := w * h
	vec := make([]float64, 3*plane)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			rgb := [3]float64{float64(r >> 8), float64(g >> 8), float64(bl >> 8)}
			for c := 0; c < 3; c++ {
				value := (rgb[c] - o.Offset) * scale
				if o.Interleave {
					vec[(y*w+x)*3+c] = value
				} else {
					vec[c*plane+y*w+x] = value
				}
			}
		}
	}
	return vec
}
