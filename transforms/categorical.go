package transforms

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/pipeline"
)

// valueString renders row i of c as the string used for vocabularies.
func valueString(c *data.Column, i int) (string, error) {
	switch c.Kind {
	case data.Text:
		return c.Texts[i], nil
	case data.Float:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64), nil
	case data.Bool:
		return strconv.FormatBool(c.Bools[i]), nil
	case data.Key:
		return c.KeyValue(i), nil
	}
	return "", errors.Errorf("column %q of kind %s has no categorical values", c.Name, c.Kind)
}

// vocabulary collects the distinct values of c in order of first appearance.
func vocabulary(c *data.Column) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for i := 0; i < c.Len(); i++ {
		s, err := valueString(c, i)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

func index(vocab []string) map[string]uint32 {
	out := make(map[string]uint32, len(vocab))
	for i, s := range vocab {
		out[s] = uint32(i + 1)
	}
	return out
}

// ValueToKey maps values to 1-based keys of a learned vocabulary.
type ValueToKey struct {
	Output     string
	Input      string
	Vocabulary []string
}

// MapValueToKey returns an estimator learning the vocabulary of input.
// Values unseen at fit time map to key 0.
func MapValueToKey(output, input string) *ValueToKey {
	return &ValueToKey{Output: output, Input: input}
}

// Kind implements pipeline.Persistent.
func (m *ValueToKey) Kind() string { return "transforms.MapValueToKey" }

// Fit learns the vocabulary.
func (m *ValueToKey) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	col, err := v.Column(m.Input)
	if err != nil {
		return nil, err
	}
	vocab, err := vocabulary(col)
	if err != nil {
		return nil, err
	}
	return &ValueToKey{Output: m.Output, Input: m.Input, Vocabulary: vocab}, nil
}

// Transform adds the key column.
func (m *ValueToKey) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	col, err := v.Column(m.Input)
	if err != nil {
		return nil, err
	}
	lookup := index(m.Vocabulary)
	keys := make([]uint32, col.Len())
	for i := range keys {
		s, err := valueString(col, i)
		if err != nil {
			return nil, err
		}
		keys[i] = lookup[s]
	}
	v = v.Clone()
	return v, v.Add(data.NewKeys(m.Output, keys, m.Vocabulary))
}

// KeyToValue maps keys back to their vocabulary values.
type KeyToValue struct {
	Output string
	Input  string
}

// MapKeyToValue returns an estimator mapping a key column to text. With one
// argument the column is replaced in place.
func MapKeyToValue(output string, input ...string) *KeyToValue {
	in := output
	if len(input) > 0 {
		in = input[0]
	}
	return &KeyToValue{Output: output, Input: in}
}

// Kind implements pipeline.Persistent.
func (m *KeyToValue) Kind() string { return "transforms.MapKeyToValue" }

// Fit returns m, the vocabulary travels with the key column.
func (m *KeyToValue) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	return m, nil
}

// Transform adds the text column.
func (m *KeyToValue) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	col, err := v.ColumnOf(m.Input, data.Key)
	if err != nil {
		return nil, err
	}
	values := make([]string, col.Len())
	for i := range values {
		values[i] = col.KeyValue(i)
	}
	v = v.Clone()
	return v, v.Add(data.NewTexts(m.Output, values))
}

// OneHot expands a categorical column into indicator vectors.
type OneHot struct {
	Output     string
	Input      string
	Vocabulary []string
}

// OneHotEncoding returns an estimator learning the categories of input.
// Categories unseen at fit time encode to the zero vector.
func OneHotEncoding(output, input string) *OneHot {
	return &OneHot{Output: output, Input: input}
}

// Kind implements pipeline.Persistent.
func (o *OneHot) Kind() string { return "transforms.OneHotEncoding" }

// Fit learns the categories.
func (o *OneHot) Fit(ctx context.Context, v *data.View) (pipeline.Transformer, error) {
	col, err := v.Column(o.Input)
	if err != nil {
		return nil, err
	}
	vocab, err := vocabulary(col)
	if err != nil {
		return nil, err
	}
	return &OneHot{Output: o.Output, Input: o.Input, Vocabulary: vocab}, nil
}

// Transform adds the indicator vectors.
func (o *OneHot) Transform(ctx context.Context, v *data.View) (*data.View, error) {
	col, err := v.Column(o.Input)
	if err != nil {
		return nil, err
	}
	lookup := index(o.Vocabulary)
	out := make([][]float64, col.Len())
	for i := range out {
		s, err := valueString(col, i)
		if err != nil {
			return nil, err
		}
		vec := make([]float64, len(o.Vocabulary))
		if k := lookup[s]; k > 0 {
			vec[k-1] = 1
		}
		out[i] = vec
	}
	v = v.Clone()
	return v, v.Add(data.NewVectors(o.Output, out))
}
