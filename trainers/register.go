package trainers

import "github.com/neurlang/mlsamples/pipeline"

func init() {
	pipeline.Register("trainers.RegressionModel", func() pipeline.Persistent { return &RegressionModel{} })
	pipeline.Register("trainers.BinaryModel", func() pipeline.Persistent { return &BinaryModel{} })
	pipeline.Register("trainers.MulticlassModel", func() pipeline.Persistent { return &MulticlassModel{} })
	pipeline.Register("trainers.FastTreeModel", func() pipeline.Persistent { return &FastTreeModel{} })
	pipeline.Register("trainers.KMeansModel", func() pipeline.Persistent { return &KMeansModel{} })
	pipeline.Register("trainers.MatrixFactorizationModel", func() pipeline.Persistent { return &MatrixFactorizationModel{} })
}
