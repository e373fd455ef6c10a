package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// TextOptions configures LoadFromTextFile.
type TextOptions struct {
	// Separator between fields, tab when zero.
	Separator rune
	// HasHeader skips the first non empty line.
	HasHeader bool
	// AllowQuoting parses fields with CSV quoting rules.
	AllowQuoting bool
}

// LoadFromTextFile reads a delimited text file into a view with the columns of T.
// Fields of T are bound to file columns with `load:"<index>"` tags.
func LoadFromTextFile[T any](path string, opts TextOptions) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open text file")
	}
	defer f.Close()

	rows, err := ReadText[T](f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return FromStructs(rows)
}

// ReadText decodes delimited text into rows of T.
func ReadText[T any](r io.Reader, opts TextOptions) ([]T, error) {
	if opts.Separator == 0 {
		opts.Separator = '\t'
	}
	bindings, maxIndex, err := loadBindings(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}

	var rows []T
	header := opts.HasHeader
	err = eachRecord(r, opts, func(line int, record []string) error {
		if header {
			header = false
			return nil
		}
		if len(record) <= maxIndex {
			return errors.Errorf("line %d: %d fields, want at least %d", line, len(record), maxIndex+1)
		}
		input := make(map[string]any, len(bindings))
		for _, b := range bindings {
			input[b.column] = strings.TrimSpace(record[b.load])
		}
		var row T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "col",
			WeaklyTypedInput: true,
			Result:           &row,
		})
		if err != nil {
			return err
		}
		if err := dec.Decode(input); err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

type loadBinding struct {
	column string
	load   int
}

func loadBindings(t reflect.Type) ([]loadBinding, int, error) {
	fields, err := fieldsOf(t)
	if err != nil {
		return nil, 0, err
	}
	var out []loadBinding
	maxIndex := -1
	for _, f := range fields {
		tag, ok := t.Field(f.index).Tag.Lookup("load")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(tag)
		if err != nil || n < 0 {
			return nil, 0, errors.Errorf("field %s: bad load tag %q", t.Field(f.index).Name, tag)
		}
		if n > maxIndex {
			maxIndex = n
		}
		out = append(out, loadBinding{column: f.column, load: n})
	}
	if len(out) == 0 {
		return nil, 0, errors.Errorf("%s has no load tags", t)
	}
	return out, maxIndex, nil
}

// eachRecord calls fn for every non empty record with its 1-based line number.
func eachRecord(r io.Reader, opts TextOptions, fn func(line int, record []string) error) error {
	if opts.AllowQuoting {
		cr := csv.NewReader(r)
		cr.Comma = opts.Separator
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		for {
			record, err := cr.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			line, _ := cr.FieldPos(0)
			if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
				continue
			}
			if err := fn(line, record); err != nil {
				return err
			}
		}
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sep := string(opts.Separator)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := fn(line, strings.Split(text, sep)); err != nil {
			return err
		}
	}
	return sc.Err()
}
