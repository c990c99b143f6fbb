// Package fsutil provides the file system probes used during build
// configuration: python test discovery and project discovery.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// testFilePatterns are the python test file naming conventions recognized by
// the discovery probe.
var testFilePatterns = []string{"test_*.py", "*_test.py"}

// HasTestFiles reports whether the directory rooted at rootPath contains at
// least one python test file, at any depth. The walk stops on the first
// match, so the cost is bounded by the position of the first test file, not
// by the size of the tree. A missing directory is not an error; it simply
// has no tests.
func HasTestFiles(rootPath string) (bool, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}
	return hasTestFiles(os.DirFS(rootPath))
}

// hasTestFiles is the fs.FS form of HasTestFiles. It is a pure function of
// the filesystem snapshot and never mutates anything.
func hasTestFiles(fsys fs.FS) (bool, error) {
	found := false
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isTestFile(d.Name()) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// isTestFile matches a base file name against the recognized test naming
// conventions.
func isTestFile(name string) bool {
	for _, pattern := range testFilePatterns {
		// The patterns are static and valid, so the error can't happen.
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// FindProjects walks rootPath and returns the directories containing the
// given marker file, sorted lexically. Hidden directories (including
// virtual environments like .venv) are skipped entirely.
func FindProjects(rootPath, marker string) ([]string, error) {
	var projects []string
	err := filepath.WalkDir(rootPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != rootPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == marker {
			projects = append(projects, filepath.Dir(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(projects)
	return projects, nil
}
