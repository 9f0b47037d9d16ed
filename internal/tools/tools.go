// Package tools helps tests find and stage their fixtures.
package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TestDataDir is where fixtures are looked for, relative to the test's working directory.
//
// Test code can update this variable. Packages keep their fixtures in testdata/ beside their
// tests, so this default is reasonable.
var TestDataDir = "testdata"

// Exists reports whether the given filename exists.
func Exists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// TestDataFilename returns TestDataDir/basename if that file exists;
// otherwise the function returns an error.
func TestDataFilename(basename string) (string, error) {
	candidate := filepath.Join(TestDataDir, basename)
	exists, err := Exists(candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("fixture %s: %w", candidate, os.ErrNotExist)
	}
	return candidate, nil
}

// MustTestDataFilename calls TestDataFilename and panics if the
// filename doesn't exist.
func MustTestDataFilename(basename string) string {
	filename, err := TestDataFilename(basename)
	if err != nil {
		panic(err)
	}
	return filename
}

// StageTestData copies a fixture into dir as newName and returns the copy's path. Loaders that pick a
// format by file extension can then be shown the same content under another name.
func StageTestData(basename, dir, newName string) (string, error) {
	from, err := TestDataFilename(basename)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return "", err
	}
	to := filepath.Join(dir, newName)
	if err := os.WriteFile(to, data, 0o644); err != nil {
		return "", err
	}
	return to, nil
}
