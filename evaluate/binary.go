package evaluate

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/neurlang/mlsamples/data"
)

// probability clip used by the log losses
const epsilon = 1e-15

// BinaryMetrics are the quality metrics of a binary classifier.
type BinaryMetrics struct {
	Accuracy          float64
	AreaUnderRocCurve float64
	F1Score           float64
	PositivePrecision float64
	PositiveRecall    float64
	NegativePrecision float64
	NegativeRecall    float64
	// LogLoss is the mean negative base 2 log likelihood of the probabilities.
	LogLoss float64
	// LogLossReduction is the relative improvement of LogLoss over the
	// entropy of the label prior.
	LogLossReduction float64
	Entropy          float64
}

// Rows lists the metrics for Report.
func (m BinaryMetrics) Rows() []Row {
	return []Row{
		{Name: "Accuracy", Value: m.Accuracy, Percent: true},
		{Name: "Auc", Value: m.AreaUnderRocCurve, Percent: true},
		{Name: "F1Score", Value: m.F1Score, Percent: true},
		{Name: "Positive Precision", Value: m.PositivePrecision},
		{Name: "Positive Recall", Value: m.PositiveRecall},
		{Name: "Negative Precision", Value: m.NegativePrecision},
		{Name: "Negative Recall", Value: m.NegativeRecall},
		{Name: "LogLoss", Value: m.LogLoss},
		{Name: "LogLossReduction", Value: m.LogLossReduction},
	}
}

// BinaryClassification evaluates the Label, Score, Probability and
// PredictedLabel columns of v. A missing Probability column leaves the log
// losses at zero.
func BinaryClassification(v *data.View, cols Columns) (BinaryMetrics, error) {
	cols = cols.withDefaults()
	labels, err := truths(v, cols.Label)
	if err != nil {
		return BinaryMetrics{}, err
	}
	scores, err := numbers(v, cols.Score)
	if err != nil {
		return BinaryMetrics{}, err
	}
	predicted, err := truths(v, cols.PredictedLabel)
	if err != nil {
		return BinaryMetrics{}, err
	}
	if len(labels) == 0 {
		return BinaryMetrics{}, errors.New("binary metrics: no rows")
	}

	var tp, tn, fp, fn float64
	for i, l := range labels {
		switch {
		case l && predicted[i]:
			tp++
		case l:
			fn++
		case predicted[i]:
			fp++
		default:
			tn++
		}
	}
	m := BinaryMetrics{
		Accuracy:          (tp + tn) / float64(len(labels)),
		PositivePrecision: ratio(tp, tp+fp),
		PositiveRecall:    ratio(tp, tp+fn),
		NegativePrecision: ratio(tn, tn+fn),
		NegativeRecall:    ratio(tn, tn+fp),
	}
	m.F1Score = ratio(2*m.PositivePrecision*m.PositiveRecall, m.PositivePrecision+m.PositiveRecall)
	m.AreaUnderRocCurve = auc(scores, labels)

	if v.Has(cols.Probability) {
		probs, err := numbers(v, cols.Probability)
		if err != nil {
			return BinaryMetrics{}, err
		}
		var loss float64
		for i, l := range labels {
			p := probs[i]
			if !l {
				p = 1 - p
			}
			loss -= math.Log2(math.Max(p, epsilon))
		}
		m.LogLoss = loss / float64(len(labels))
		prior := lo.Count(labels, true)
		m.Entropy = binaryEntropy(float64(prior) / float64(len(labels)))
		if m.Entropy > 0 {
			m.LogLossReduction = 1 - m.LogLoss/m.Entropy
		}
	}
	return m, nil
}

func truths(v *data.View, name string) ([]bool, error) {
	c, err := v.ColumnOf(name, data.Bool, data.Float)
	if err != nil {
		return nil, err
	}
	if c.Kind == data.Bool {
		return c.Bools, nil
	}
	return lo.Map(c.Floats, func(f float64, _ int) bool { return f > 0 }), nil
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func binaryEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}

// auc integrates the ROC curve of scores; it is zero unless both classes occur.
func auc(scores []float64, labels []bool) float64 {
	positives := lo.Count(labels, true)
	if positives == 0 || positives == len(labels) {
		return 0
	}
	y := append([]float64(nil), scores...)
	classes := append([]bool(nil), labels...)
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}
