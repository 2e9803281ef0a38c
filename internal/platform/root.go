package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ProjectFileName is the optional project configuration file.
const ProjectFileName = "questvault.yaml"

// ErrRootNotFound is returned by FindRoot when no indicator exists up to the filesystem root.
var ErrRootNotFound = errors.New("vault root not found")

// FindRoot walks upwards from startDir looking for a vault root indicator:
// a .questvault directory, a .git directory or a questvault.yaml file.
// It returns the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".questvault") || hasFile(dir, ".git") || hasFile(dir, ProjectFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
