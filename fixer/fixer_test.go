package fixer_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/mixdoc/fixer"
	"github.com/dhamidi/mixdoc/fixer/typehint"
	"github.com/dhamidi/mixdoc/php/token"
)

// trailer appends a comment to streams containing a variable.
type trailer struct{ calls int }

func (f *trailer) Name() string { return "trailer" }

func (f *trailer) IsCandidate(tokens *token.Tokens) bool {
	return tokens.IsAnyKindFound(token.TokenVariable)
}

func (f *trailer) Fix(tokens *token.Tokens) error {
	f.calls++
	tokens.InsertAt(tokens.Len(), token.New(token.TokenComment, " // seen"))
	return nil
}

type failing struct{}

func (failing) Name() string                   { return "failing" }
func (failing) IsCandidate(*token.Tokens) bool { return true }
func (failing) Fix(*token.Tokens) error        { return errors.New("boom") }

func TestRunnerFixSource(t *testing.T) {
	tr := &trailer{}
	r := fixer.NewRunner(tr)

	res, err := r.FixSource([]byte("<?php $abc = 1;"), "a.php")
	require.NoError(t, err)
	assert.Equal(t, "<?php $abc = 1; // seen", string(res.Output))
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"trailer"}, res.Applied)

	res, err = r.FixSource([]byte("<?php echo 1;"), "b.php")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, res.Applied)
	assert.Equal(t, 1, tr.calls)
}

func TestRunnerFixSourceErrors(t *testing.T) {
	_, err := fixer.NewRunner(failing{}).FixSource([]byte("<?php 1;"), "x.php")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.php: failing")
	assert.Contains(t, err.Error(), "boom")

	_, err = fixer.NewRunner().FixSource([]byte("<?php \x01;"), "bad.php")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tokenize bad.php")
}

func TestRunnerWithTypehint(t *testing.T) {
	fixers, err := fixer.Lookup([]string{typehint.Name}, fixer.Settings{Indent: "    ", SkipFullyTyped: true})
	require.NoError(t, err)
	require.Len(t, fixers, 1)

	res, err := fixer.NewRunner(fixers...).FixSource([]byte("<?php\nclass A {\n    public $a;\n}\n"), "a.php")
	require.NoError(t, err)
	assert.Equal(t, "<?php\nclass A {\n    /**\n     * @var mixed\n     */\n    public $a;\n}\n", string(res.Output))
	assert.Equal(t, []string{typehint.Name}, res.Applied)
}

func TestLookupUnknown(t *testing.T) {
	_, err := fixer.Lookup([]string{"no_such_rule"}, fixer.Settings{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown fixer "no_such_rule"`)
	assert.Contains(t, errors.FlattenHints(err), typehint.Name)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Contains(t, fixer.Names(), typehint.Name)
	assert.Panics(t, func() {
		fixer.Register(typehint.Name, func(fixer.Settings) fixer.Fixer { return failing{} })
	})
}

func TestDescribe(t *testing.T) {
	var found bool
	for _, info := range fixer.Describe() {
		if info.Name == typehint.Name {
			found = true
			assert.NotEmpty(t, info.Description)
		}
	}
	assert.True(t, found)
}
