package evaluate

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/neurlang/mlsamples/data"
)

// MulticlassMetrics are the quality metrics of a multiclass classifier.
// Log losses use the natural logarithm.
type MulticlassMetrics struct {
	MicroAccuracy    float64
	MacroAccuracy    float64
	LogLoss          float64
	LogLossReduction float64
	// PerClassLogLoss is indexed by key-1 of the label column.
	PerClassLogLoss []float64
	Classes         []string
	// ConfusionMatrix counts rows by [true key-1][predicted key-1].
	ConfusionMatrix [][]int
}

// Rows lists the metrics for Report.
func (m MulticlassMetrics) Rows() []Row {
	rows := []Row{
		{Name: "MicroAccuracy", Value: m.MicroAccuracy},
		{Name: "MacroAccuracy", Value: m.MacroAccuracy},
		{Name: "LogLoss", Value: m.LogLoss},
		{Name: "LogLossReduction", Value: m.LogLossReduction},
	}
	for c, l := range m.PerClassLogLoss {
		rows = append(rows, Row{Name: "LogLoss(" + m.Classes[c] + ")", Value: l})
	}
	return rows
}

// MulticlassClassification evaluates a key Label column against the Score
// probability vectors and the PredictedLabel keys. Rows with a missing label
// are ignored.
func MulticlassClassification(v *data.View, cols Columns) (MulticlassMetrics, error) {
	cols = cols.withDefaults()
	labels, err := v.ColumnOf(cols.Label, data.Key)
	if err != nil {
		return MulticlassMetrics{}, err
	}
	scores, err := v.ColumnOf(cols.Score, data.Vector)
	if err != nil {
		return MulticlassMetrics{}, err
	}
	predicted, err := predictedKeys(v, cols.PredictedLabel, labels.Vocabulary)
	if err != nil {
		return MulticlassMetrics{}, err
	}
	k := len(labels.Vocabulary)
	m := MulticlassMetrics{
		Classes:         labels.Vocabulary,
		PerClassLogLoss: make([]float64, k),
		ConfusionMatrix: make([][]int, k),
	}
	for c := range m.ConfusionMatrix {
		m.ConfusionMatrix[c] = make([]int, k)
	}

	counts := make([]int, k)
	var n, correct int
	for i, key := range labels.Keys {
		if key == 0 {
			continue
		}
		c := int(key - 1)
		p := scores.Vectors[i]
		if len(p) != k {
			return MulticlassMetrics{}, errors.Errorf("score of row %d has %d classes, label has %d", i, len(p), k)
		}
		loss := -math.Log(math.Max(p[c], epsilon))
		m.LogLoss += loss
		m.PerClassLogLoss[c] += loss
		counts[c]++
		n++
		if pk := predicted[i]; pk > 0 && int(pk) <= k {
			m.ConfusionMatrix[c][pk-1]++
			if int(pk-1) == c {
				correct++
			}
		}
	}
	if n == 0 {
		return MulticlassMetrics{}, errors.New("multiclass metrics: no labelled rows")
	}
	m.MicroAccuracy = float64(correct) / float64(n)
	m.LogLoss /= float64(n)

	var prior float64
	present := lo.Filter(lo.Range(k), func(c, _ int) bool { return counts[c] > 0 })
	for _, c := range present {
		m.PerClassLogLoss[c] /= float64(counts[c])
		m.MacroAccuracy += float64(m.ConfusionMatrix[c][c]) / float64(counts[c])
		q := float64(counts[c]) / float64(n)
		prior -= q * math.Log(q)
	}
	m.MacroAccuracy /= float64(len(present))
	if prior > 0 {
		m.LogLossReduction = 1 - m.LogLoss/prior
	}
	return m, nil
}

// predictedKeys reads the predicted label as keys of vocab. A predicted label
// already mapped back to text is looked up in vocab; unknown values become 0.
func predictedKeys(v *data.View, name string, vocab []string) ([]uint32, error) {
	c, err := v.ColumnOf(name, data.Key, data.Text)
	if err != nil {
		return nil, err
	}
	if c.Kind == data.Key {
		return c.Keys, nil
	}
	index := make(map[string]uint32, len(vocab))
	for i, s := range vocab {
		index[s] = uint32(i + 1)
	}
	return lo.Map(c.Texts, func(s string, _ int) uint32 { return index[s] }), nil
}
