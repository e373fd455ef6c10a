//go:build !notc

package inference

import (
	"context"
	"sync"

	tflite "github.com/mattn/go-tflite"
	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/parallel"
)

// TFLite runs a TensorFlow Lite flatbuffer model. Calls are serialised.
type TFLite struct {
	mu          sync.Mutex
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
	meta        Metadata
}

// NewTFLite loads the model at path with numThreads interpreter threads,
// or one per physical core when numThreads is not positive.
func NewTFLite(path string, numThreads int) (*TFLite, error) {
	if numThreads <= 0 {
		numThreads = parallel.Threads()
	}
	model := tflite.NewModelFromFile(path)
	if model == nil {
		return nil, errors.Errorf("failed to create model from %s", path)
	}
	options := tflite.NewInterpreterOptions()
	if options == nil {
		model.Delete()
		return nil, errors.New("interpreter options failed to be created")
	}
	options.SetNumThread(numThreads)
	logger := logging.Global()
	options.SetErrorReporter(func(msg string, _ interface{}) {
		logger.Warnw("tflite", "msg", msg)
	}, nil)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		options.Delete()
		model.Delete()
		return nil, errors.New("failed to create interpreter")
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		options.Delete()
		model.Delete()
		return nil, errors.New("failed to allocate tensors")
	}

	t := &TFLite{model: model, options: options, interpreter: interpreter}
	for i := 0; i < interpreter.GetInputTensorCount(); i++ {
		t.meta.Inputs = append(t.meta.Inputs, info(interpreter.GetInputTensor(i)))
	}
	for i := 0; i < interpreter.GetOutputTensorCount(); i++ {
		t.meta.Outputs = append(t.meta.Outputs, info(interpreter.GetOutputTensor(i)))
	}
	logger.Infow("loaded tflite model", "path", path, "threads", numThreads,
		"inputs", len(t.meta.Inputs), "outputs", len(t.meta.Outputs))
	return t, nil
}

func info(t *tflite.Tensor) TensorInfo {
	shape := make([]int, t.NumDims())
	for i := range shape {
		shape[i] = t.Dim(i)
	}
	return TensorInfo{Name: t.Name(), DataType: t.Type().String(), Shape: shape}
}

// Metadata returns the tensor layout of the model.
func (t *TFLite) Metadata(ctx context.Context) (Metadata, error) {
	return t.meta, nil
}

// Infer copies the float32 inputs in, invokes the interpreter and returns
// every float32 output by name.
func (t *TFLite) Infer(ctx context.Context, in Tensors) (Tensors, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.interpreter == nil {
		return nil, errors.New("model is closed")
	}

	for i, desc := range t.meta.Inputs {
		value, ok := pick(in, desc.Name)
		if !ok {
			return nil, errors.Errorf("missing input tensor %q", desc.Name)
		}
		buf, err := Float32(value)
		if err != nil {
			return nil, errors.Wrapf(err, "input %q", desc.Name)
		}
		if status := t.interpreter.GetInputTensor(i).CopyFromBuffer(buf); status != tflite.OK {
			return nil, errors.Errorf("copying input %q failed", desc.Name)
		}
	}

	if status := t.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.New("invoke failed")
	}

	out := make(Tensors, len(t.meta.Outputs))
	for i, desc := range t.meta.Outputs {
		current := t.interpreter.GetOutputTensor(i)
		if current.Type() != tflite.Float32 {
			return nil, errors.Errorf("output %q has type %s, want float32", desc.Name, desc.DataType)
		}
		buf := make([]float32, current.ByteSize()/4)
		if status := current.CopyToBuffer(buf); status != tflite.OK {
			return nil, errors.Errorf("copying output %q failed", desc.Name)
		}
		out[desc.Name] = NewFloat32(buf, desc.Shape...)
	}
	return out, nil
}

// Close deletes the interpreter and the model.
func (t *TFLite) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.interpreter == nil {
		return nil
	}
	t.interpreter.Delete()
	t.options.Delete()
	t.model.Delete()
	t.interpreter, t.options, t.model = nil, nil, nil
	return nil
}
