// Package inference runs pretrained networks over float32 tensors.
package inference

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Tensors maps tensor names to values.
type Tensors map[string]*tensor.Dense

// TensorInfo describes one model input or output.
type TensorInfo struct {
	Name     string
	DataType string
	Shape    []int
}

// Metadata lists the inputs and outputs of a model.
type Metadata struct {
	Inputs  []TensorInfo
	Outputs []TensorInfo
}

// Model is a loaded pretrained network.
type Model interface {
	Metadata(ctx context.Context) (Metadata, error)
	Infer(ctx context.Context, in Tensors) (Tensors, error)
	Close() error
}

// ErrUnsupported is returned for model files this build cannot run.
var ErrUnsupported = errors.New("unsupported model format")

// Load opens the model at path, choosing the runtime by file extension.
func Load(path string) (Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tflite":
		return NewTFLite(path, 0)
	}
	return nil, errors.Wrapf(ErrUnsupported, "%s", path)
}

// Float32 returns the backing data of t as float32.
func Float32(t *tensor.Dense) ([]float32, error) {
	if t == nil {
		return nil, errors.New("nil tensor")
	}
	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("tensor has %v elements, want float32", t.Dtype())
	}
	return data, nil
}

// NewFloat32 wraps data in a tensor of shape.
func NewFloat32(data []float32, shape ...int) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data))
}

// pick returns the entry of in named name, or the only entry when in has one.
func pick(in Tensors, name string) (*tensor.Dense, bool) {
	if t, ok := in[name]; ok {
		return t, true
	}
	if len(in) == 1 {
		for _, t := range in {
			return t, true
		}
	}
	return nil, false
}
