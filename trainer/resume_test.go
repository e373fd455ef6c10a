package trainer

import (
	"context"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
	"github.com/neurlang/mlsamples/transforms"
)

type row struct {
	A float32
	B float32
}

func TestFitOrResume(t *testing.T) {
	prev := logging.Global()
	defer logging.ReplaceGlobal(prev)
	logger, logs := logging.NewObservedTestLogger(t)
	logging.ReplaceGlobal(logger)

	v, err := data.FromStructs([]row{{1, 2}, {3, 4}})
	test.That(t, err, test.ShouldBeNil)
	chain := pipeline.Append(transforms.Concatenate("Features", "A", "B"))

	dst := filepath.Join(t.TempDir(), "model.zip")
	resume := true

	// nothing saved yet, falls back to fitting
	model, err := FitOrResume(context.Background(), chain, v, &resume, &dst, pipeline.LoadOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessage("fitting").Len(), test.ShouldEqual, 1)
	test.That(t, Save(model, &dst), test.ShouldBeNil)

	model, err = FitOrResume(context.Background(), chain, v, &resume, &dst, pipeline.LoadOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessage("resumed model").Len(), test.ShouldEqual, 1)
	test.That(t, len(model.Transformers), test.ShouldEqual, 1)

	out, err := model.Transform(context.Background(), v)
	test.That(t, err, test.ShouldBeNil)
	features, err := out.ColumnOf("Features", data.Vector)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, features.Vectors, test.ShouldResemble, [][]float64{{1, 2}, {3, 4}})
}

func TestResumeDisabled(t *testing.T) {
	test.That(t, Resume(nil, nil, pipeline.LoadOptions{}), test.ShouldBeNil)
	no := false
	dst := "does-not-matter"
	test.That(t, Resume(&no, &dst, pipeline.LoadOptions{}), test.ShouldBeNil)
	empty := ""
	test.That(t, Save(nil, &empty), test.ShouldBeNil)
}
