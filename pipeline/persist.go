package pipeline

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Persistent is a Transformer that can be written to a model file.
// Its exported fields are encoded with msgpack.
type Persistent interface {
	Transformer
	Kind() string
}

// Binder is implemented by transformers that reattach external resources,
// such as a pretrained network, after they were loaded.
type Binder interface {
	Bind(opts LoadOptions) error
}

// LoadOptions carries external resources into Load.
type LoadOptions struct {
	// Resources maps resource names, usually file paths, to already opened
	// objects. Binders fall back to opening the resource themselves.
	Resources map[string]any
}

// Resource returns the resource called name.
func (o LoadOptions) Resource(name string) (any, bool) {
	r, ok := o.Resources[name]
	return r, ok
}

const fileVersion = 1

type fileRecord struct {
	Kind    string             `msgpack:"kind"`
	Payload msgpack.RawMessage `msgpack:"payload"`
}

type fileFormat struct {
	Version int          `msgpack:"version"`
	Records []fileRecord `msgpack:"records"`
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Persistent{}
)

// Register makes a transformer kind loadable. It panics on duplicates.
func Register(kind string, factory func() Persistent) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[kind]; dup {
		panic("pipeline: Register called twice for " + kind)
	}
	registry[kind] = factory
}

func lookup(kind string) (func() Persistent, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[kind]
	return f, ok
}

// Encode writes the model to w as zlib compressed msgpack.
func (m *Model) Encode(w io.Writer) error {
	file := fileFormat{Version: fileVersion}
	for i, t := range m.Transformers {
		p, ok := t.(Persistent)
		if !ok {
			return errors.Errorf("stage %d (%T) cannot be saved", i, t)
		}
		payload, err := msgpack.Marshal(p)
		if err != nil {
			return errors.Wrapf(err, "encode stage %d (%s)", i, p.Kind())
		}
		file.Records = append(file.Records, fileRecord{Kind: p.Kind(), Payload: payload})
	}
	zw := zlib.NewWriter(w)
	if err := msgpack.NewEncoder(zw).Encode(&file); err != nil {
		zw.Close()
		return errors.Wrap(err, "encode model")
	}
	return zw.Close()
}

// Save writes the model to path, creating parent directories.
func (m *Model) Save(path string) error {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create model directory")
		}
	}
	return errors.Wrap(os.WriteFile(path, buf.Bytes(), 0o644), "write model")
}

// Decode reads a model written by Encode.
func Decode(r io.Reader, opts LoadOptions) (*Model, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open model stream")
	}
	defer zr.Close()

	var file fileFormat
	if err := msgpack.NewDecoder(zr).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode model")
	}
	if file.Version != fileVersion {
		return nil, errors.Errorf("unsupported model version %d", file.Version)
	}
	m := &Model{}
	for i, rec := range file.Records {
		factory, ok := lookup(rec.Kind)
		if !ok {
			return nil, errors.Errorf("stage %d: unknown transformer kind %q", i, rec.Kind)
		}
		t := factory()
		if err := msgpack.Unmarshal(rec.Payload, t); err != nil {
			return nil, errors.Wrapf(err, "decode stage %d (%s)", i, rec.Kind)
		}
		if b, ok := t.(Binder); ok {
			if err := b.Bind(opts); err != nil {
				return nil, errors.Wrapf(err, "bind stage %d (%s)", i, rec.Kind)
			}
		}
		m.Transformers = append(m.Transformers, t)
	}
	return m, nil
}

// Load reads a model saved with Save.
func Load(path string, opts LoadOptions) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open model")
	}
	defer f.Close()
	return Decode(f, opts)
}
