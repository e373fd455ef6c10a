package inference

import (
	"context"
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("model.onnx")
	test.That(t, errors.Is(err, ErrUnsupported), test.ShouldBeTrue)
}

func TestFloat32(t *testing.T) {
	d := NewFloat32([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	test.That(t, d.Shape().Eq([]int{2, 3}), test.ShouldBeTrue)
	data, err := Float32(d)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, data, test.ShouldResemble, []float32{1, 2, 3, 4, 5, 6})

	_, err = Float32(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPick(t *testing.T) {
	a := NewFloat32([]float32{1}, 1)
	b := NewFloat32([]float32{2}, 1)
	got, ok := pick(Tensors{"only": a}, "input")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got, test.ShouldEqual, a)

	got, ok = pick(Tensors{"a": a, "b": b}, "b")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got, test.ShouldEqual, b)

	_, ok = pick(Tensors{"a": a, "b": b}, "c")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestFunc(t *testing.T) {
	var m Model = &Func{
		Meta: Metadata{Inputs: []TensorInfo{{Name: "x", DataType: "Float32", Shape: []int{2}}}},
		Fn: func(ctx context.Context, in Tensors) (Tensors, error) {
			x, err := Float32(in["x"])
			if err != nil {
				return nil, err
			}
			return Tensors{"y": NewFloat32([]float32{x[0] + x[1]}, 1)}, nil
		},
	}
	defer m.Close()

	meta, err := m.Metadata(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, meta.Inputs[0].Name, test.ShouldEqual, "x")

	out, err := m.Infer(context.Background(), Tensors{"x": NewFloat32([]float32{2, 3}, 2)})
	test.That(t, err, test.ShouldBeNil)
	y, err := Float32(out["y"])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, y, test.ShouldResemble, []float32{5})
}
