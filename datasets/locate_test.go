package datasets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	test.That(t, os.MkdirAll(filepath.Join(dir, "Data"), 0o755), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(dir, "Data", "iris.data"), []byte("5.1,3.5,1.4,0.2,Iris-setosa\n"), 0o644), test.ShouldBeNil)
	test.That(t, os.WriteFile(filepath.Join(dir, "flat.csv"), []byte("a\n"), 0o644), test.ShouldBeNil)

	prev := SearchDirectories
	defer func() { SearchDirectories = prev }()
	SearchDirectories = []string{filepath.Join(dir, "missing"), dir}

	p, err := Locate(filepath.Join("Data", "iris.data"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldEqual, filepath.Join(dir, "Data", "iris.data"))

	p, err = Locate(filepath.Join("Data", "flat.csv"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldEqual, filepath.Join(dir, "flat.csv"))

	p, err = Locate(filepath.Join(dir, "flat.csv"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldEqual, filepath.Join(dir, "flat.csv"))

	_, err = Locate("nowhere.tsv")
	test.That(t, errors.Is(err, os.ErrNotExist), test.ShouldBeTrue)
}
