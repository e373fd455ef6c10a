package inference

import (
	"context"
)

// Func adapts a Go function to the Model interface. It serves networks that
// are computed in process, and stands in for files in tests.
type Func struct {
	Meta Metadata
	Fn   func(ctx context.Context, in Tensors) (Tensors, error)
}

// Metadata returns f.Meta.
func (f *Func) Metadata(ctx context.Context) (Metadata, error) {
	return f.Meta, nil
}

// Infer calls f.Fn.
func (f *Func) Infer(ctx context.Context, in Tensors) (Tensors, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.Fn(ctx, in)
}

// Close is a no-op.
func (f *Func) Close() error {
	return nil
}
