// Package configloader discovers and loads the mdtree configuration file.
// Discovery walks upward from the working directory so a repository-root
// .mdtree.yaml applies in any subdirectory.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quillsoft/mdtree/pkg/config"
)

// FileName is the configuration file mdtree looks for.
const FileName = ".mdtree.yaml"

// Load returns the configuration from an explicit path, from the nearest
// discovered file, or the defaults when no file exists. An explicit path
// that cannot be read is an error; a missing discovered file is not.
func Load(explicit string) (*config.Config, error) {
	path := explicit
	if path == "" {
		found, err := discover()
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := config.FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// discover walks from the working directory to the filesystem root and
// returns the first configuration file found, or "".
func discover() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
