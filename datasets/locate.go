package datasets

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func userHomeDir() string {
	dirname, err := os.UserHomeDir()
	if err != nil {
		return "~"
	}
	return dirname
}

const tmpDirectory = "/tmp/mlsamples/"

var customDirectory = filepath.Join(userHomeDir(), ".mlsamples")

// SearchDirectories are tried in order when a data path does not exist as given.
var SearchDirectories = []string{tmpDirectory, customDirectory}

// Locate returns path if it exists, otherwise the first existing file with the
// same relative path or base name below one of the SearchDirectories.
func Locate(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	candidates := []string{filepath.Base(path)}
	if !filepath.IsAbs(path) {
		candidates = append([]string{path}, candidates...)
	}
	for _, dir := range SearchDirectories {
		for _, c := range candidates {
			p := filepath.Join(dir, c)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", errors.Wrapf(os.ErrNotExist, "%s not found in . or %v", path, SearchDirectories)
}
