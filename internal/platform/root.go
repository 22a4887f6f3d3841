package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the optional configuration file that also marks a root.
const ConfigFile = "humus.yaml"

// FindRoot walks up from startDir looking for a humus root: a directory
// holding the system directory or a humus.yaml file.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, DefaultSystemDir) || hasFile(dir, ConfigFile) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
