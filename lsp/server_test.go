package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/mixdoc/config"
	_ "github.com/dhamidi/mixdoc/fixer/typehint"
)

const testURI = "file:///work/src/Demo.php"

func open(t *testing.T, ls *Server, uri, text string) {
	t.Helper()
	require.NoError(t, ls.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "php", Version: 1, Text: text},
	}))
}

func format(t *testing.T, ls *Server, uri string, opts protocol.FormattingOptions) []protocol.TextEdit {
	t.Helper()
	edits, err := ls.textDocumentFormatting(nil, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Options:      opts,
	})
	require.NoError(t, err)
	return edits
}

func TestFormatting(t *testing.T) {
	ls := NewServer("test", nil)
	src := "<?php\nclass Demo {\n    public $a;\n}\n"
	open(t, ls, testURI, src)

	edits := format(t, ls, testURI, nil)
	require.Len(t, edits, 1)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 4, Character: 0},
	}, edits[0].Range)
	assert.Equal(t, "<?php\nclass Demo {\n    /**\n     * @var mixed\n     */\n    public $a;\n}\n", edits[0].NewText)

	// the stored document is now documented
	assert.Empty(t, format(t, ls, testURI, nil))
}

func TestFormattingUsesEditorIndent(t *testing.T) {
	ls := NewServer("test", nil)
	open(t, ls, testURI, "<?php class Demo { public $a; }")

	edits := format(t, ls, testURI, protocol.FormattingOptions{
		protocol.FormattingOptionTabSize:      float64(2),
		protocol.FormattingOptionInsertSpaces: true,
	})
	require.Len(t, edits, 1)
	assert.Equal(t, "<?php class Demo { /**\n   * @var mixed\n   */\n  public $a; }", edits[0].NewText)
}

func TestFormattingAfterChange(t *testing.T) {
	ls := NewServer("test", nil)
	open(t, ls, testURI, "<?php\n")

	require.NoError(t, ls.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "<?php\nclass A {\n    function f($x) {}\n}"},
		},
	}))

	edits := format(t, ls, testURI, nil)
	require.Len(t, edits, 1)
	assert.Equal(t, protocol.Position{Line: 3, Character: 1}, edits[0].Range.End)
	assert.Contains(t, edits[0].NewText, "     * @param mixed $x\n     * @return mixed\n")
}

func TestFormattingUnparsableDocument(t *testing.T) {
	ls := NewServer("test", nil)
	open(t, ls, testURI, "<?php class A { function f( }")
	assert.Empty(t, format(t, ls, testURI, nil))
}

func TestFormattingClosedDocument(t *testing.T) {
	ls := NewServer("test", nil)
	open(t, ls, testURI, "<?php class A {}")
	require.NoError(t, ls.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))

	_, err := ls.textDocumentFormatting(nil, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	assert.Error(t, err)
}

func TestFormattingExcluded(t *testing.T) {
	cfg := config.Default()
	cfg.Path = "/work/.mixdoc.toml"
	ls := NewServer("test", cfg)

	uri := "file:///work/vendor/acme/Lib.php"
	open(t, ls, uri, "<?php class Lib { public $a; }")
	assert.Empty(t, format(t, ls, uri, nil))

	open(t, ls, testURI, "<?php class Demo { public $a; }")
	assert.Len(t, format(t, ls, testURI, nil), 1)
}

func TestEndPosition(t *testing.T) {
	tests := []struct {
		text     string
		expected protocol.Position
	}{
		{"", protocol.Position{Line: 0, Character: 0}},
		{"abc", protocol.Position{Line: 0, Character: 3}},
		{"a\nbc\n", protocol.Position{Line: 2, Character: 0}},
		{"a\r\nb", protocol.Position{Line: 1, Character: 1}},
		{"é😀", protocol.Position{Line: 0, Character: 3}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, endPosition(tt.text), "%q", tt.text)
	}
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///work/my%20project/A.php")
	require.NoError(t, err)
	assert.Equal(t, "/work/my project/A.php", path)

	path, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", path)
}
