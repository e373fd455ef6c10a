package trainer

import (
	"context"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
)

// Resume loads the model at *dstmodel when *resume is set. It returns nil when
// nothing was loaded.
func Resume(resume *bool, dstmodel *string, opts pipeline.LoadOptions) *pipeline.Model {
	if resume == nil || !*resume || dstmodel == nil || *dstmodel == "" {
		return nil
	}
	model, err := pipeline.Load(*dstmodel, opts)
	if err != nil {
		println(err.Error())
		return nil
	}
	logging.Global().Infow("resumed model", "path", *dstmodel)
	return model
}

// FitOrResume returns the resumed model, or fits chain on v.
func FitOrResume(ctx context.Context, chain *pipeline.Chain, v *data.View,
	resume *bool, dstmodel *string, opts pipeline.LoadOptions) (*pipeline.Model, error) {
	if model := Resume(resume, dstmodel, opts); model != nil {
		return model, nil
	}
	logging.Global().Infow("fitting", "stages", chain.Len(), "rows", v.Len())
	return chain.Fit(ctx, v)
}

// Save writes model to *dstmodel when a destination is set.
func Save(model *pipeline.Model, dstmodel *string) error {
	if dstmodel == nil || *dstmodel == "" {
		return nil
	}
	if err := model.Save(*dstmodel); err != nil {
		return err
	}
	logging.Global().Infow("saved model", "path", *dstmodel)
	return nil
}
