// Package evaluate computes quality metrics of scored views and renders them
// as console tables.
package evaluate

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/neurlang/mlsamples/data"
	"github.com/neurlang/mlsamples/trainers"
)

// Columns names the inputs of an evaluation. Empty names fall back to the
// conventional trainer outputs.
type Columns struct {
	Label          string
	Score          string
	Probability    string
	PredictedLabel string
	Features       string
}

func (c Columns) withDefaults() Columns {
	if c.Label == "" {
		c.Label = trainers.DefaultLabel
	}
	if c.Score == "" {
		c.Score = trainers.Score
	}
	if c.Probability == "" {
		c.Probability = trainers.Probability
	}
	if c.PredictedLabel == "" {
		c.PredictedLabel = trainers.PredictedLabel
	}
	return c
}

// Row is one line of a report.
type Row struct {
	Name    string
	Value   float64
	Percent bool
}

func (r Row) String() string {
	if r.Percent {
		return fmt.Sprintf("%.2f%%", r.Value*100)
	}
	return fmt.Sprintf("%.4f", r.Value)
}

// Report writes title on its own line, unwrapped, followed by rows as a two
// column table.
func Report(w io.Writer, title string, rows ...Row) {
	if title != "" {
		fmt.Fprintln(w, title)
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Name, r.String()})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.SetStyle(table.StyleLight)
	t.Render()
}

// Format rounds x to at most digits decimals and drops trailing zeros.
func Format(x float64, digits int) string {
	p := math.Pow(10, float64(digits))
	return strconv.FormatFloat(math.Round(x*p)/p, 'f', -1, 64)
}

func numbers(v *data.View, name string) ([]float64, error) {
	c, err := v.ColumnOf(name, data.Float, data.Bool)
	if err != nil {
		return nil, err
	}
	out := make([]float64, c.Len())
	for i := range out {
		row, err := c.Vector(i)
		if err != nil {
			return nil, err
		}
		out[i] = row[0]
	}
	return out, nil
}
