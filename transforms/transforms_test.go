package transforms

import (
	"context"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/inference"
	"github.com/neurlang/mlsamples/pipeline"
)

type trip struct {
	VendorId       string
	PassengerCount float32
	TripDistance   float32
	Cash           bool
}

func trips(t *testing.T) *data.View {
	t.Helper()
	v, err := data.FromStructs([]trip{
		{"CMT", 1, 3.5, false},
		{"VTS", 2, 1.5, true},
		{"CMT", 1, 0.5, true},
	})
	test.That(t, err, test.ShouldBeNil)
	return v
}

func fitTransform(t *testing.T, e pipeline.Estimator, v *data.View) *data.View {
	t.Helper()
	tr, err := e.Fit(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	out, err := tr.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	return out
}

func TestConcatenate(t *testing.T) {
	v := trips(t)
	v = fitTransform(t, OneHotEncoding("VendorEncoded", "VendorId"), v)
	out := fitTransform(t, Concatenate("Features", "VendorEncoded", "PassengerCount", "TripDistance", "Cash"), v)

	features, err := out.ColumnOf("Features", data.Vector)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, features.Vectors, test.ShouldResemble, [][]float64{
		{1, 0, 1, 3.5, 0},
		{0, 1, 2, 1.5, 1},
		{1, 0, 1, 0.5, 1},
	})
	// input untouched
	test.That(t, v.Has("Features"), test.ShouldBeFalse)

	_, err = Concatenate("F", "VendorId").Transform(context.Background(), v)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCopyColumns(t *testing.T) {
	out := fitTransform(t, CopyColumns("Label", "TripDistance"), trips(t))
	label, err := out.ColumnOf("Label", data.Float)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, label.Floats, test.ShouldResemble, []float64{3.5, 1.5, 0.5})
	test.That(t, out.Has("TripDistance"), test.ShouldBeTrue)
}

func TestValueToKeyAndBack(t *testing.T) {
	v := trips(t)
	tr, err := MapValueToKey("Label", "VendorId").Fit(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tr.(*ValueToKey).Vocabulary, test.ShouldResemble, []string{"CMT", "VTS"})

	unseen, err := data.FromStructs([]trip{{VendorId: "DDS"}, {VendorId: "VTS"}})
	test.That(t, err, test.ShouldBeNil)
	out, err := tr.Transform(context.Background(), unseen)
	test.That(t, err, test.ShouldBeNil)
	keys, err := out.ColumnOf("Label", data.Key)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, keys.Keys, test.ShouldResemble, []uint32{0, 2})

	back := fitTransform(t, MapKeyToValue("Vendor", "Label"), out)
	vendor, err := back.ColumnOf("Vendor", data.Text)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vendor.Texts, test.ShouldResemble, []string{"", "VTS"})

	inPlace := fitTransform(t, MapKeyToValue("Label"), out)
	label, err := inPlace.ColumnOf("Label", data.Text)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, label.Texts, test.ShouldResemble, []string{"", "VTS"})
}

func TestValueToKeyFloats(t *testing.T) {
	v, err := data.New(data.NewFloats("UserId", []float64{6, 1, 6, 2.5}))
	test.That(t, err, test.ShouldBeNil)
	out := fitTransform(t, MapValueToKey("UserIdEncoded", "UserId"), v)
	keys, _ := out.ColumnOf("UserIdEncoded", data.Key)
	test.That(t, keys.Keys, test.ShouldResemble, []uint32{1, 2, 1, 3})
	test.That(t, keys.Vocabulary, test.ShouldResemble, []string{"6", "1", "2.5"})
}

func TestOneHotUnseen(t *testing.T) {
	tr, err := OneHotEncoding("Encoded", "VendorId").Fit(context.Background(), trips(t))
	test.That(t, err, test.ShouldBeNil)
	v, _ := data.FromStructs([]trip{{VendorId: "XXX"}})
	out, err := tr.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	enc, _ := out.ColumnOf("Encoded", data.Vector)
	test.That(t, enc.Vectors, test.ShouldResemble, [][]float64{{0, 0}})
}

func TestNormalizerTokens(t *testing.T) {
	n := newNormalizer()
	test.That(t, n.tokens("Café, GREAT  naïve!!"), test.ShouldResemble, []string{"cafe", "great", "naive"})
	test.That(t, n.tokens(""), test.ShouldBeEmpty)
	test.That(t, wordGrams([]string{"a", "b", "c"}), test.ShouldResemble, []string{"a", "b", "c", "a b", "b c"})
}

type review struct {
	Text string
}

func TestFeaturizeText(t *testing.T) {
	v, err := data.FromStructs([]review{
		{"Wow... Loved this place."},
		{"Crust is not good."},
		{"Loved it, loved it!"},
	})
	test.That(t, err, test.ShouldBeNil)
	e := FeaturizeText("Features", "Text", TextOptions{MaximumWords: 3, CharBits: 6, Salt: 1})
	tr, err := e.Fit(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	f := tr.(*TextFeaturizer)
	test.That(t, len(f.Dictionary), test.ShouldEqual, 3)
	test.That(t, f.Dictionary, test.ShouldContain, "loved")
	test.That(t, f.Dim(), test.ShouldEqual, 3+64)

	out, err := tr.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	features, _ := out.ColumnOf("Features", data.Vector)
	for _, vec := range features.Vectors {
		test.That(t, len(vec), test.ShouldEqual, f.Dim())
		var chars float64
		for _, x := range vec[3:] {
			chars += x * x
		}
		test.That(t, chars, test.ShouldAlmostEqual, 1.0, 1e-9)
	}

	// text with no known words keeps a zero word block
	empty, _ := data.FromStructs([]review{{"zzz"}})
	out, err = tr.Transform(context.Background(), empty)
	test.That(t, err, test.ShouldBeNil)
	features, _ = out.ColumnOf("Features", data.Vector)
	test.That(t, features.Vectors[0][:3], test.ShouldResemble, []float64{0, 0, 0})
}

func TestPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 100, A: 255})

	planar := Pixels(img, PixelOptions{})
	test.That(t, planar, test.ShouldResemble, []float64{255, 0, 0, 100, 0, 0})

	interleaved := Pixels(img, PixelOptions{Interleave: true, Offset: 100, Scale: 0.5})
	test.That(t, interleaved, test.ShouldResemble, []float64{77.5, -50, -50, -50, 0, -50})
}

type picture struct {
	ImagePath string
	Label     string
}

func TestImagePipeline(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(8, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	test.That(t, imaging.Save(img, filepath.Join(dir, "a.png")), test.ShouldBeNil)

	v, err := data.FromStructs([]picture{{ImagePath: "a.png", Label: "x"}})
	test.That(t, err, test.ShouldBeNil)

	model, err := pipeline.Append(
		LoadImages("input", dir, "ImagePath"),
		ResizeImages("input", 2, 2, "input"),
		ExtractPixels("input", "input", PixelOptions{Interleave: true, Offset: 10}),
	).Fit(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)

	out, err := model.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	pixels, err := out.ColumnOf("input", data.Vector)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(pixels.Vectors[0]), test.ShouldEqual, 12)
	test.That(t, pixels.Vectors[0][:3], test.ShouldResemble, []float64{0, 10, 20})

	missing, _ := data.FromStructs([]picture{{ImagePath: "missing.png"}})
	_, err = model.Transform(context.Background(), missing)
	test.That(t, err, test.ShouldNotBeNil)
}

func sumModel() *inference.Func {
	return &inference.Func{Fn: func(ctx context.Context, in inference.Tensors) (inference.Tensors, error) {
		x, err := inference.Float32(in["input"])
		if err != nil {
			return nil, err
		}
		var sum float32
		for _, f := range x {
			sum += f
		}
		return inference.Tensors{"output": inference.NewFloat32([]float32{sum, -sum}, 1, 2)}, nil
	}}
}

type scored struct {
	Score []float64 `col:"output"`
}

func TestScoreModel(t *testing.T) {
	v, err := data.New(data.NewVectors("input", [][]float64{{1, 2, 3}, {0.5, 0.5, 0}}))
	test.That(t, err, test.ShouldBeNil)

	s := ScoreModel("sum.tflite", sumModel(), ScoreOptions{
		InputColumn:       "input",
		OutputColumn:      "output",
		InputShape:        []int{3},
		AddBatchDimension: true,
	})
	model, err := pipeline.Append(s).Fit(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	out, err := model.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	rows, err := data.ToStructs[scored](out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldResemble, []scored{{[]float64{6, -6}}, {[]float64{1, -1}}})

	path := filepath.Join(t.TempDir(), "model.zip")
	test.That(t, model.Save(path), test.ShouldBeNil)

	loaded, err := pipeline.Load(path, pipeline.LoadOptions{Resources: map[string]any{"sum.tflite": sumModel()}})
	test.That(t, err, test.ShouldBeNil)
	out, err = loaded.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	again, err := data.ToStructs[scored](out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again, test.ShouldResemble, rows)
	test.That(t, loaded.Close(), test.ShouldBeNil)

	// a resource of the wrong type is rejected
	_, err = pipeline.Load(path, pipeline.LoadOptions{Resources: map[string]any{"sum.tflite": 42}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPersistRoundTrip(t *testing.T) {
	v := trips(t)
	model, err := pipeline.Append(
		CopyColumns("Label", "TripDistance"),
		OneHotEncoding("VendorEncoded", "VendorId"),
		MapValueToKey("VendorKey", "VendorId"),
		Concatenate("Features", "VendorEncoded", "PassengerCount"),
		MapKeyToValue("VendorBack", "VendorKey"),
	).Fit(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)

	path := filepath.Join(t.TempDir(), "model.zip")
	test.That(t, model.Save(path), test.ShouldBeNil)
	loaded, err := pipeline.Load(path, pipeline.LoadOptions{})
	test.That(t, err, test.ShouldBeNil)

	a, err := model.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	b, err := loaded.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Names(), test.ShouldResemble, a.Names())
	fa, _ := a.Column("Features")
	fb, _ := b.Column("Features")
	test.That(t, fb.Vectors, test.ShouldResemble, fa.Vectors)
	back, _ := b.Column("VendorBack")
	test.That(t, back.Texts, test.ShouldResemble, []string{"CMT", "VTS", "CMT"})
	test.That(t, math.IsNaN(fb.Vectors[0][0]), test.ShouldBeFalse)
}
