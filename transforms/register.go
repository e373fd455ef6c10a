package transforms

import "github.com/neurlang/mlsamples/pipeline"

func init() {
	pipeline.Register("transforms.Concatenate", func() pipeline.Persistent { return &Concatenator{} })
	pipeline.Register("transforms.CopyColumns", func() pipeline.Persistent { return &Copier{} })
	pipeline.Register("transforms.MapValueToKey", func() pipeline.Persistent { return &ValueToKey{} })
	pipeline.Register("transforms.MapKeyToValue", func() pipeline.Persistent { return &KeyToValue{} })
	pipeline.Register("transforms.OneHotEncoding", func() pipeline.Persistent { return &OneHot{} })
	pipeline.Register("transforms.FeaturizeText", func() pipeline.Persistent { return &TextFeaturizer{} })
	pipeline.Register("transforms.LoadImages", func() pipeline.Persistent { return &ImageLoader{} })
	pipeline.Register("transforms.ResizeImages", func() pipeline.Persistent { return &ImageResizer{} })
	pipeline.Register("transforms.ExtractPixels", func() pipeline.Persistent { return &PixelExtractor{} })
	pipeline.Register("transforms.ScoreModel", func() pipeline.Persistent { return &Scorer{} })
}
