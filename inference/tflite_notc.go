//go:build notc

package inference

import (
	"context"

	"github.com/pkg/errors"
)

// TFLite is unavailable in builds without cgo support.
type TFLite struct{}

// NewTFLite always fails when built with the notc tag.
func NewTFLite(path string, numThreads int) (*TFLite, error) {
	return nil, errors.Wrapf(ErrUnsupported, "%s: tflite runtime not built (notc)", path)
}

// Metadata is never reached.
func (t *TFLite) Metadata(ctx context.Context) (Metadata, error) {
	return Metadata{}, ErrUnsupported
}

// Infer is never reached.
func (t *TFLite) Infer(ctx context.Context, in Tensors) (Tensors, error) {
	return nil, ErrUnsupported
}

// Close is a no-op.
func (t *TFLite) Close() error {
	return nil
}
