// Package data implements the columnar view that flows through every pipeline,
// and the loaders that build views from structs and delimited text files.
package data

import (
	"github.com/pkg/errors"
)

// ErrColumnNotFound is returned when a view lacks a requested column.
var ErrColumnNotFound = errors.New("column not found")

// View is an ordered set of equally long columns.
type View struct {
	columns []*Column
}

// New returns a view over columns.
func New(columns ...*Column) (*View, error) {
	v := &View{}
	for _, c := range columns {
		if err := v.Add(c); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Len returns the number of rows.
func (v *View) Len() int {
	if v == nil || len(v.columns) == 0 {
		return 0
	}
	return v.columns[0].Len()
}

// Names returns the column names in order.
func (v *View) Names() []string {
	out := make([]string, len(v.columns))
	for i, c := range v.columns {
		out[i] = c.Name
	}
	return out
}

// Has reports whether the view contains a column called name.
func (v *View) Has(name string) bool {
	return v.index(name) >= 0
}

// Column returns the column called name.
func (v *View) Column(name string) (*Column, error) {
	if i := v.index(name); i >= 0 {
		return v.columns[i], nil
	}
	return nil, errors.Wrapf(ErrColumnNotFound, "%q (have %v)", name, v.Names())
}

// ColumnOf returns the column called name, checking its kind.
func (v *View) ColumnOf(name string, kinds ...Kind) (*Column, error) {
	c, err := v.Column(name)
	if err != nil {
		return nil, err
	}
	for _, k := range kinds {
		if c.Kind == k {
			return c, nil
		}
	}
	return nil, errors.Errorf("column %q has kind %s, want one of %v", name, c.Kind, kinds)
}

// Add appends c, replacing an existing column of the same name in place.
func (v *View) Add(c *Column) error {
	if c == nil || c.Name == "" {
		return errors.New("column must be named")
	}
	if len(v.columns) > 0 && c.Len() != v.Len() {
		if !(len(v.columns) == 1 && v.columns[0].Name == c.Name) {
			return errors.Errorf("column %q has %d rows, view has %d", c.Name, c.Len(), v.Len())
		}
	}
	if i := v.index(c.Name); i >= 0 {
		v.columns[i] = c
		return nil
	}
	v.columns = append(v.columns, c)
	return nil
}

// Clone returns a view sharing the columns of v, so that Add on the clone
// leaves v untouched.
func (v *View) Clone() *View {
	if v == nil {
		return &View{}
	}
	return &View{columns: append([]*Column(nil), v.columns...)}
}

// Take returns a view of the rows at indices.
func (v *View) Take(indices []int) *View {
	out := &View{columns: make([]*Column, len(v.columns))}
	for i, c := range v.columns {
		out.columns[i] = c.Take(indices)
	}
	return out
}

func (v *View) index(name string) int {
	if v == nil {
		return -1
	}
	for i, c := range v.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}
