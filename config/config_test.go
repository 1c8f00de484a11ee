package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOML(t *testing.T) {
	cfg, err := Parse([]byte(`
rules = ["missing_typehint_to_mixed"]
indent = "\t"
skip_fully_typed = false
exclude = ["build/**", "*.blade.php"]
`), ".toml")
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.Indent)
	assert.False(t, cfg.SkipFullyTyped)
	assert.Equal(t, []string{"build/**", "*.blade.php"}, cfg.Exclude)
	assert.Equal(t, []string{".php"}, cfg.Extensions, "unset keys keep their defaults")
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
indent: "  "
extensions: [".php", ".inc"]
`), ".yml")
	require.NoError(t, err)
	assert.Equal(t, "  ", cfg.Indent)
	assert.True(t, cfg.SkipFullyTyped)
	assert.Equal(t, []string{".php", ".inc"}, cfg.Extensions)
	assert.Equal(t, []string{"missing_typehint_to_mixed"}, cfg.Rules)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"bad toml", "rules = [", ".toml"},
		{"bad yaml", "rules: [", ".yaml"},
		{"unknown format", "{}", ".json"},
		{"no rules", "rules = []", ".toml"},
		{"bad indent", `indent = "x"`, ".toml"},
		{"bad extension", `extensions = ["php"]`, ".toml"},
		{"bad exclude", `exclude = ["[a"]`, ".toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.ext)
			assert.Error(t, err)
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "App")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, "", Find(nested))

	path := filepath.Join(root, ".mixdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indent: \"  \"\n"), 0644))
	assert.Equal(t, path, Find(nested))

	preferred := filepath.Join(root, ".mixdoc.toml")
	require.NoError(t, os.WriteFile(preferred, nil, 0644))
	assert.Equal(t, preferred, Find(nested))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mixdoc.toml")
	require.NoError(t, os.WriteFile(path, []byte("indent = \"  \"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "  ", cfg.Indent)
	assert.Equal(t, dir, cfg.Root())

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestIsExcluded(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"vendor/**", "*/cache/**", "*.blade.php", "tests/Fixtures/*.php"}

	tests := []struct {
		path     string
		excluded bool
	}{
		{"vendor", true},
		{"vendor/acme/lib/A.php", true},
		{"vendors/A.php", false},
		{"var/cache/x.php", true},
		{"src/cache.php", false},
		{"resources/views/home.blade.php", true},
		{"tests/Fixtures/a.php", true},
		{"tests/Fixtures/deep/a.php", false},
		{"src/App/Kernel.php", false},
		{"./vendor/a.php", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.excluded, cfg.IsExcluded(tt.path))
		})
	}
}

func TestHasExtension(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.HasExtension("a/b/C.php"))
	assert.True(t, cfg.HasExtension("C.PHP"))
	assert.False(t, cfg.HasExtension("README.md"))
	assert.False(t, cfg.HasExtension("php"))
}
