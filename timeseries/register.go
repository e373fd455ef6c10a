package timeseries

import "github.com/neurlang/mlsamples/pipeline"

func init() {
	pipeline.Register("timeseries.DetectIidSpike", func() pipeline.Persistent { return &SpikeDetector{} })
	pipeline.Register("timeseries.DetectIidChangePoint", func() pipeline.Persistent { return &ChangePointDetector{} })
}
