// Package config loads the .mixdoc.toml or .mixdoc.yaml file that selects
// rules and their options for a project.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

var log = commonlog.GetLogger("mixdoc.config")

// FileNames are the config files looked for in every directory, in order of
// preference.
var FileNames = []string{".mixdoc.toml", ".mixdoc.yaml", ".mixdoc.yml"}

type Config struct {
	Rules          []string `toml:"rules" yaml:"rules"`
	Indent         string   `toml:"indent" yaml:"indent"`
	SkipFullyTyped bool     `toml:"skip_fully_typed" yaml:"skip_fully_typed"`
	Exclude        []string `toml:"exclude" yaml:"exclude"`
	Extensions     []string `toml:"extensions" yaml:"extensions"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

func Default() *Config {
	return &Config{
		Rules:          []string{"missing_typehint_to_mixed"},
		Indent:         "    ",
		SkipFullyTyped: true,
		Exclude:        []string{"vendor/**"},
		Extensions:     []string{".php"},
	}
}

// Root is the directory relative exclude patterns are matched against: the
// directory holding the config file, or the working directory.
func (c *Config) Root() string {
	if c.Path != "" {
		return filepath.Dir(c.Path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// Load reads the config at path. An empty path searches upward from the
// working directory and falls back to Default when nothing is found.
func Load(path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "get working directory")
		}
		path = Find(wd)
		if path == "" {
			log.Debug("no config file found, using defaults")
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.Path = path
	log.Infof("loaded config %s", path)
	return cfg, nil
}

// Parse decodes data on top of the defaults. ext selects the format.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			log.Warningf("unknown config keys: %v", undecoded)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf("unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Rules) == 0 {
		return errors.WithHint(errors.New("no rules enabled"), "set rules to at least one fixer name")
	}
	if strings.TrimLeft(c.Indent, " \t") != "" {
		return errors.Newf("indent %q must only contain spaces and tabs", c.Indent)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf("extension %q must start with a dot", ext)
		}
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(strings.TrimSuffix(pattern, "/**"), ""); err != nil {
			return errors.Wrapf(err, "exclude pattern %q", pattern)
		}
	}
	return nil
}

// Find walks up from dir and returns the first config file it meets, or ""
// when it reaches the filesystem root.
func Find(dir string) string {
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// HasExtension reports whether path ends in one of the configured extensions.
func (c *Config) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// IsExcluded matches rel, a slash-separated path relative to Root, against
// the exclude patterns. A pattern ending in "/**" excludes everything below
// that directory; other patterns are matched against the whole path and
// against its base name.
func (c *Config) IsExcluded(rel string) bool {
	rel = filepath.ToSlash(filepath.Clean(rel))
	for _, pattern := range c.Exclude {
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
			if matched, _ := filepath.Match(dir, firstSegments(rel, strings.Count(dir, "/")+1)); matched {
				return true
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(rel)); matched {
			return true
		}
	}
	return false
}

// firstSegments returns the first n slash-separated segments of path.
func firstSegments(path string, n int) string {
	parts := strings.SplitN(path, "/", n+1)
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.Join(parts, "/")
}
