// Package setup prepares the working directory layout the server expects.
// Running it again is harmless: existing directories are left alone.
package setup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Dirs are created relative to the root, in this order.
var Dirs = []string{
	"server",
	"uploads/avatars",
	"uploads/certifications",
	"uploads/documents",
	"logs",
}

// Result lists the directories that were created and those already present.
type Result struct {
	Created  []string `yaml:"created"`
	Existing []string `yaml:"existing"`
}

// Run creates every entry of Dirs under root.
func Run(root string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	res := Result{Created: []string{}, Existing: []string{}}
	for _, dir := range Dirs {
		path := filepath.Join(root, filepath.FromSlash(dir))
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			res.Existing = append(res.Existing, dir)
			continue
		case err == nil:
			return res, fmt.Errorf("setup: %s exists and is not a directory", path)
		case !os.IsNotExist(err):
			return res, fmt.Errorf("setup: %w", err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return res, fmt.Errorf("setup: %w", err)
		}
		logger.Info("created directory", "path", path)
		res.Created = append(res.Created, dir)
	}
	return res, nil
}
