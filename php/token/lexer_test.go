package token

import (
	"testing"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	lexer := NewLexer([]byte(input), "test.php")
	var toks []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func lexPHP(t *testing.T, input string) []Token {
	t.Helper()
	toks := lexAll(t, "<?php "+input)
	if len(toks) == 0 || toks[0].Kind != TokenOpenTag {
		t.Fatalf("first token = %v, want OpenTag", toks)
	}
	return toks[1:]
}

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("<?php class Foo {}"), "Test.php")
	pos := lexer.Position()

	if pos.File != "Test.php" {
		t.Errorf("File = %q, want %q", pos.File, "Test.php")
	}
	if pos.Line != 1 {
		t.Errorf("Line = %d, want %d", pos.Line, 1)
	}
	if pos.Column != 1 {
		t.Errorf("Column = %d, want %d", pos.Column, 1)
	}
	if pos.Offset != 0 {
		t.Errorf("Offset = %d, want %d", pos.Offset, 0)
	}
}

func TestLexerOpenTag(t *testing.T) {
	toks := lexAll(t, "<html>\n<?php\necho 1; ?>\n</html>")
	want := []struct {
		kind    TokenKind
		literal string
	}{
		{TokenInlineHTML, "<html>\n"},
		{TokenOpenTag, "<?php\n"},
		{TokenEcho, "echo"},
		{TokenWhitespace, " "},
		{TokenLNumber, "1"},
		{TokenSemicolon, ";"},
		{TokenWhitespace, " "},
		{TokenCloseTag, "?>\n"},
		{TokenInlineHTML, "</html>"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Literal != w.literal {
			t.Errorf("token %d = %s %q, want %s %q", i, toks[i].Kind, toks[i].Literal, w.kind, w.literal)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"CLASS", TokenClass},
		{"trait", TokenTrait},
		{"interface", TokenInterface},
		{"function", TokenFunction},
		{"fn", TokenFn},
		{"public", TokenPublic},
		{"private", TokenPrivate},
		{"protected", TokenProtected},
		{"static", TokenStatic},
		{"final", TokenFinal},
		{"abstract", TokenAbstract},
		{"var", TokenVar},
		{"readonly", TokenReadonly},
		{"array", TokenArray},
		{"callable", TokenCallable},
		{"use", TokenUse},
		{"const", TokenConst},
		{"int", TokenString},
		{"enum", TokenString},
		{"mixed", TokenString},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexPHP(t, tt.input)
			if toks[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if toks[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", toks[0].Literal, tt.input)
			}
		})
	}
}

func TestLexerKeywordsAsNames(t *testing.T) {
	tests := []struct {
		input string
		index int
		kind  TokenKind
	}{
		{"$a->class", 2, TokenString},
		{"$a?->list", 2, TokenString},
		{"Foo::class", 2, TokenClass},
		{"Foo::print", 2, TokenString},
		{"function list()", 2, TokenString},
		{"function &print()", 3, TokenString},
		{"const FUNCTION = 1", 2, TokenString},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexPHP(t, tt.input)
			if toks[tt.index].Kind != tt.kind {
				t.Errorf("token %d (%q) Kind = %v, want %v", tt.index, toks[tt.index].Literal, toks[tt.index].Kind, tt.kind)
			}
		})
	}
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"(", TokenLParen},
		{")", TokenRParen},
		{"{", TokenLBrace},
		{"}", TokenRBrace},
		{"[", TokenLBracket},
		{"#[", TokenLBracket},
		{"]", TokenRBracket},
		{";", TokenSemicolon},
		{",", TokenComma},
		{".", TokenDot},
		{"...", TokenEllipsis},
		{"::", TokenDoubleColon},
		{":", TokenColon},
		{"?", TokenQuestion},
		{"??", TokenCoalesce},
		{"?->", TokenNullsafeArrow},
		{"->", TokenArrow},
		{"=>", TokenDoubleArrow},
		{"=", TokenAssign},
		{"==", TokenEQ},
		{"===", TokenIdentical},
		{"!==", TokenNotIdentical},
		{"<=>", TokenSpaceship},
		{"&", TokenAmpersand},
		{"|", TokenPipe},
		{"\\", TokenNsSeparator},
		{".=", TokenOpAssign},
		{"??=", TokenOpAssign},
		{"**", TokenPow},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexPHP(t, tt.input)
			if len(toks) != 1 {
				t.Fatalf("got %d tokens, want 1: %v", len(toks), toks)
			}
			if toks[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, tt.kind)
			}
		})
	}
}

func TestLexerComments(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"// line", TokenComment},
		{"# hash", TokenComment},
		{"/* block */", TokenComment},
		{"/**/", TokenComment},
		{"/** doc */", TokenDocComment},
		{"/**\n * @var int\n */", TokenDocComment},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexPHP(t, tt.input)
			if len(toks) != 1 {
				t.Fatalf("got %d tokens, want 1: %v", len(toks), toks)
			}
			if toks[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if toks[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", toks[0].Literal, tt.input)
			}
		})
	}
}

func TestLexerLineCommentStopsAtCloseTag(t *testing.T) {
	toks := lexPHP(t, "// comment ?>html")
	if toks[0].Literal != "// comment " {
		t.Errorf("comment = %q, want %q", toks[0].Literal, "// comment ")
	}
	if toks[1].Kind != TokenCloseTag {
		t.Errorf("Kind = %v, want %v", toks[1].Kind, TokenCloseTag)
	}
}

func TestLexerLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"$name", TokenVariable},
		{"$_x1", TokenVariable},
		{"42", TokenLNumber},
		{"0x1F", TokenLNumber},
		{"0b1010", TokenLNumber},
		{"1_000", TokenLNumber},
		{"1.5", TokenDNumber},
		{".5", TokenDNumber},
		{"1e10", TokenDNumber},
		{`'it\'s'`, TokenConstantEncapsedString},
		{`"a {$b["c"]} d"`, TokenConstantEncapsedString},
		{"`ls`", TokenConstantEncapsedString},
		{"<<<EOT\nhello\nEOT", TokenHeredoc},
		{"<<<'EOT'\nhello\n  EOT", TokenHeredoc},
		{"<<<\"EOT\"\nEOTX\nEOT", TokenHeredoc},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexPHP(t, tt.input)
			if len(toks) != 1 {
				t.Fatalf("got %d tokens, want 1: %v", len(toks), toks)
			}
			if toks[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if toks[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", toks[0].Literal, tt.input)
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	toks := lexPHP(t, "class A\n{\n    public $a;\n}")
	for _, tok := range toks {
		if tok.Kind != TokenVariable {
			continue
		}
		if tok.Span.Start.Line != 3 || tok.Span.Start.Column != 12 {
			t.Errorf("$a at %d:%d, want 3:12", tok.Span.Start.Line, tok.Span.Start.Column)
		}
		return
	}
	t.Fatal("variable not found")
}

func TestLexerError(t *testing.T) {
	toks := lexPHP(t, "\x01")
	if toks[0].Kind != TokenError {
		t.Errorf("Kind = %v, want %v", toks[0].Kind, TokenError)
	}
}
