package data

import (
	"image"

	"github.com/pkg/errors"
)

// Kind is the element type of a column.
type Kind int

const (
	// Invalid is the zero Kind.
	Invalid Kind = iota
	// Float is a scalar number.
	Float
	// Vector is a fixed or variable length list of numbers.
	Vector
	// Text is a string.
	Text
	// Key is a 1-based index into the column's Vocabulary, 0 means missing.
	Key
	// Bool is a boolean.
	Bool
	// Picture is a decoded image.
	Picture
)

var kindNames = [...]string{"Invalid", "Float", "Vector", "Text", "Key", "Bool", "Picture"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Column is a named, typed slice of values. Exactly one backing slice
// matching Kind is populated.
type Column struct {
	Name string
	Kind Kind

	Floats   []float64
	Vectors  [][]float64
	Texts    []string
	Keys     []uint32
	Bools    []bool
	Pictures []image.Image

	// Vocabulary maps key k to Vocabulary[k-1].
	Vocabulary []string
}

// NewFloats returns a Float column.
func NewFloats(name string, values []float64) *Column {
	return &Column{Name: name, Kind: Float, Floats: values}
}

// NewVectors returns a Vector column.
func NewVectors(name string, values [][]float64) *Column {
	return &Column{Name: name, Kind: Vector, Vectors: values}
}

// NewTexts returns a Text column.
func NewTexts(name string, values []string) *Column {
	return &Column{Name: name, Kind: Text, Texts: values}
}

// NewKeys returns a Key column over vocabulary.
func NewKeys(name string, keys []uint32, vocabulary []string) *Column {
	return &Column{Name: name, Kind: Key, Keys: keys, Vocabulary: vocabulary}
}

// NewBools returns a Bool column.
func NewBools(name string, values []bool) *Column {
	return &Column{Name: name, Kind: Bool, Bools: values}
}

// NewPictures returns a Picture column.
func NewPictures(name string, values []image.Image) *Column {
	return &Column{Name: name, Kind: Picture, Pictures: values}
}

// Len returns the number of rows.
func (c *Column) Len() int {
	switch c.Kind {
	case Float:
		return len(c.Floats)
	case Vector:
		return len(c.Vectors)
	case Text:
		return len(c.Texts)
	case Key:
		return len(c.Keys)
	case Bool:
		return len(c.Bools)
	case Picture:
		return len(c.Pictures)
	}
	return 0
}

// Value returns row i as float64, []float64, string, uint32, bool or image.Image.
func (c *Column) Value(i int) any {
	switch c.Kind {
	case Float:
		return c.Floats[i]
	case Vector:
		return c.Vectors[i]
	case Text:
		return c.Texts[i]
	case Key:
		return c.Keys[i]
	case Bool:
		return c.Bools[i]
	case Picture:
		return c.Pictures[i]
	}
	return nil
}

// KeyValue returns the vocabulary entry of key row i, or "" when the key is missing.
func (c *Column) KeyValue(i int) string {
	k := c.Keys[i]
	if k == 0 || int(k) > len(c.Vocabulary) {
		return ""
	}
	return c.Vocabulary[k-1]
}

// Numeric reports whether the column can be read with Vector.
func (c *Column) Numeric() bool {
	return c.Kind == Float || c.Kind == Vector || c.Kind == Bool || c.Kind == Key
}

// Vector returns row i as numbers: scalars become a single element, keys
// become their index.
func (c *Column) Vector(i int) ([]float64, error) {
	switch c.Kind {
	case Float:
		return []float64{c.Floats[i]}, nil
	case Vector:
		return c.Vectors[i], nil
	case Bool:
		if c.Bools[i] {
			return []float64{1}, nil
		}
		return []float64{0}, nil
	case Key:
		return []float64{float64(c.Keys[i])}, nil
	}
	return nil, errors.Errorf("column %q of kind %s is not numeric", c.Name, c.Kind)
}

// Dim returns the width of the column when read with Vector.
func (c *Column) Dim() int {
	switch c.Kind {
	case Float, Bool, Key:
		return 1
	case Vector:
		for _, v := range c.Vectors {
			if v != nil {
				return len(v)
			}
		}
	}
	return 0
}

// Renamed returns a shallow copy of the column under a new name.
func (c *Column) Renamed(name string) *Column {
	out := *c
	out.Name = name
	return &out
}

// Take returns a column of the rows at indices.
func (c *Column) Take(indices []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Vocabulary: c.Vocabulary}
	switch c.Kind {
	case Float:
		out.Floats = take(c.Floats, indices)
	case Vector:
		out.Vectors = take(c.Vectors, indices)
	case Text:
		out.Texts = take(c.Texts, indices)
	case Key:
		out.Keys = take(c.Keys, indices)
	case Bool:
		out.Bools = take(c.Bools, indices)
	case Picture:
		out.Pictures = take(c.Pictures, indices)
	}
	return out
}

func take[T any](values []T, indices []int) []T {
	out := make([]T, len(indices))
	for i, j := range indices {
		out[i] = values[j]
	}
	return out
}
