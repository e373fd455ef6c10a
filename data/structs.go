package data

import (
	"image"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// field describes one exported struct field bound to a column.
type field struct {
	index  int
	column string
	typ    reflect.Type
}

var imageType = reflect.TypeOf((*image.Image)(nil)).Elem()

// fieldsOf returns the column bindings of struct type t, honouring `col:"Name"`
// and skipping `col:"-"`.
func fieldsOf(t reflect.Type) ([]field, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("%s is not a struct", t)
	}
	var out []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("col"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		out = append(out, field{index: i, column: name, typ: f.Type})
	}
	return out, nil
}

// kindOf maps a Go field type to the column kind that stores it.
func kindOf(t reflect.Type) (Kind, error) {
	if t == imageType {
		return Picture, nil
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Float, nil
	case reflect.String:
		return Text, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.Slice:
		switch t.Elem().Kind() {
		case reflect.Float32, reflect.Float64:
			return Vector, nil
		}
	}
	return Invalid, errors.Errorf("unsupported field type %s", t)
}

// FromStructs builds a view with one column per bound field of T.
func FromStructs[T any](rows []T) (*View, error) {
	fields, err := fieldsOf(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	v := &View{}
	for _, f := range fields {
		kind, err := kindOf(f.typ)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", f.column)
		}
		c := &Column{Name: f.column, Kind: kind}
		switch kind {
		case Float:
			c.Floats = make([]float64, len(rows))
		case Vector:
			c.Vectors = make([][]float64, len(rows))
		case Text:
			c.Texts = make([]string, len(rows))
		case Bool:
			c.Bools = make([]bool, len(rows))
		case Picture:
			c.Pictures = make([]image.Image, len(rows))
		}
		for i := range rows {
			rv := reflect.ValueOf(&rows[i]).Elem().Field(f.index)
			switch kind {
			case Float:
				c.Floats[i] = cast.ToFloat64(rv.Interface())
			case Vector:
				c.Vectors[i] = toFloats(rv)
			case Text:
				c.Texts[i] = rv.String()
			case Bool:
				c.Bools[i] = rv.Bool()
			case Picture:
				if !rv.IsNil() {
					c.Pictures[i] = rv.Interface().(image.Image)
				}
			}
		}
		if err := v.Add(c); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// LoadFromStructs is FromStructs for in-memory datasets.
func LoadFromStructs[T any](rows []T) (*View, error) {
	return FromStructs(rows)
}

// ToStructs reads every row of v into a T. Fields without a matching column
// keep their zero value.
func ToStructs[T any](v *View) ([]T, error) {
	fields, err := fieldsOf(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	out := make([]T, v.Len())
	for _, f := range fields {
		c, err := v.Column(f.column)
		if err != nil {
			continue
		}
		for i := range out {
			rv := reflect.ValueOf(&out[i]).Elem().Field(f.index)
			if err := assign(rv, c, i); err != nil {
				return nil, errors.Wrapf(err, "row %d column %q", i, f.column)
			}
		}
	}
	return out, nil
}

func assign(dst reflect.Value, c *Column, i int) error {
	t := dst.Type()
	if t == imageType {
		if c.Kind != Picture {
			return errors.Errorf("cannot read %s into image", c.Kind)
		}
		if c.Pictures[i] != nil {
			dst.Set(reflect.ValueOf(c.Pictures[i]))
		}
		return nil
	}
	switch t.Kind() {
	case reflect.String:
		if c.Kind == Key {
			dst.SetString(c.KeyValue(i))
			return nil
		}
		s, err := cast.ToStringE(c.Value(i))
		if err != nil {
			return err
		}
		dst.SetString(s)
	case reflect.Bool:
		b, err := cast.ToBoolE(c.Value(i))
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(scalar(c, i))
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(scalar(c, i))
		if err != nil {
			return err
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(scalar(c, i))
		if err != nil {
			return err
		}
		dst.SetUint(n)
	case reflect.Slice:
		vec, err := c.Vector(i)
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(t, len(vec), len(vec))
		for j, x := range vec {
			s.Index(j).SetFloat(x)
		}
		dst.Set(s)
	default:
		return errors.Errorf("unsupported field type %s", t)
	}
	return nil
}

// scalar unwraps single element vectors so they can be read into numbers.
func scalar(c *Column, i int) any {
	if c.Kind == Vector && len(c.Vectors[i]) == 1 {
		return c.Vectors[i][0]
	}
	return c.Value(i)
}

func toFloats(rv reflect.Value) []float64 {
	if rv.IsNil() {
		return nil
	}
	out := make([]float64, rv.Len())
	for j := range out {
		out[j] = rv.Index(j).Float()
	}
	return out
}
