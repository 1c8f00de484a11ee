package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/mixdoc/config"
)

var log = commonlog.GetLogger("mixdoc.project")

// Project is a directory tree of PHP sources governed by one config.
type Project struct {
	RootDir string
	Config  *config.Config
}

// Load reads the config found above the working directory.
func Load(configPath string) (*Project, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

func New(cfg *config.Config) *Project {
	return &Project{RootDir: cfg.Root(), Config: cfg}
}

// Files expands paths into the source files to process. Directories are
// walked recursively for files with a configured extension, skipping
// excluded paths; files named explicitly are always included. The result is
// sorted and free of duplicates.
func (p *Project) Files(paths ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && p.excluded(path) {
				log.Debugf("excluded %s", path)
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !p.Config.HasExtension(path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan php files in %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (p *Project) excluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(p.RootDir, abs)
	if err != nil {
		return false
	}
	return p.Config.IsExcluded(rel)
}
