package token

import (
	"bytes"
	"strings"
)

// Lexer splits PHP source into tokens. Every input byte ends up in exactly one
// token so that concatenating the literals reproduces the source.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
	inPHP  bool

	// last two meaningful kinds, used to demote keywords used as names
	prev     TokenKind
	prevPrev TokenKind
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.input[l.pos:], []byte(s))
}

func (l *Lexer) hasPrefixFold(s string) bool {
	if len(l.input)-l.pos < len(s) {
		return false
	}
	return strings.EqualFold(string(l.input[l.pos:l.pos+len(s)]), s)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	if tok.IsMeaningful() {
		l.prevPrev = l.prev
		l.prev = tok.Kind
	}
	return tok
}

func (l *Lexer) nextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	if !l.inPHP {
		return l.scanInlineHTML(startPos)
	}

	ch := l.peek()

	if ch == '?' && l.peekN(1) == '>' {
		return l.scanCloseTag(startPos)
	}
	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '#' {
		if l.peekN(1) == '[' {
			l.advanceN(2)
			return l.token(TokenLBracket, startPos)
		}
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if isSpace(ch) {
		return l.scanWhitespace(startPos)
	}

	if ch == '$' && isNameStart(l.peekN(1)) {
		l.advance()
		for isNameChar(l.peek()) {
			l.advance()
		}
		return l.token(TokenVariable, startPos)
	}

	if isNameStart(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	switch ch {
	case '\'':
		return l.scanQuoted(startPos, '\'')
	case '"':
		return l.scanQuoted(startPos, '"')
	case '`':
		return l.scanQuoted(startPos, '`')
	}

	if l.hasPrefix("<<<") {
		if tok, ok := l.scanHeredoc(startPos); ok {
			return tok
		}
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanInlineHTML(start Position) Token {
	if l.hasPrefixFold("<?php") && (isSpace(l.peekN(5)) || l.pos+5 >= len(l.input)) {
		l.advanceN(5)
		// the open tag owns one trailing whitespace character
		if l.peek() == '\r' && l.peekN(1) == '\n' {
			l.advanceN(2)
		} else if isSpace(l.peek()) {
			l.advance()
		}
		l.inPHP = true
		return l.token(TokenOpenTag, start)
	}
	if l.hasPrefix("<?=") {
		l.advanceN(3)
		l.inPHP = true
		return l.token(TokenOpenTagWithEcho, start)
	}
	if l.hasPrefix("<?") {
		l.advanceN(2)
		l.inPHP = true
		return l.token(TokenOpenTag, start)
	}

	for l.pos < len(l.input) {
		if l.hasPrefix("<?") {
			break
		}
		l.advance()
	}
	return l.token(TokenInlineHTML, start)
}

func (l *Lexer) scanCloseTag(start Position) Token {
	l.advanceN(2)
	if l.peek() == '\r' && l.peekN(1) == '\n' {
		l.advanceN(2)
	} else if l.peek() == '\n' {
		l.advance()
	}
	l.inPHP = false
	return l.token(TokenCloseTag, start)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isSpace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	for l.pos < len(l.input) && l.peek() != '\n' {
		if l.peek() == '?' && l.peekN(1) == '>' {
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	kind := TokenComment
	if l.peekN(2) == '*' && isSpace(l.peekN(3)) {
		kind = TokenDocComment
	}
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isNameChar(l.peek()) {
		l.advance()
	}
	literal := string(l.input[start.Offset:l.pos])
	kind := LookupKeyword(literal)

	if kind != TokenString {
		switch {
		case l.prev == TokenArrow || l.prev == TokenNullsafeArrow:
			kind = TokenString
		case l.prev == TokenDoubleColon && kind != TokenClass:
			kind = TokenString
		case l.prev == TokenFunction || (l.prev == TokenAmpersand && l.prevPrev == TokenFunction):
			kind = TokenString
		case l.prev == TokenConst:
			kind = TokenString
		}
	}
	return l.token(kind, start)
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return l.token(TokenLNumber, start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		for l.peek() == '0' || l.peek() == '1' || l.peek() == '_' {
			l.advance()
		}
		return l.token(TokenLNumber, start)
	}

	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	if (l.peek() == 'e' || l.peek() == 'E') &&
		(isDigit(l.peekN(1)) || ((l.peekN(1) == '+' || l.peekN(1) == '-') && isDigit(l.peekN(2)))) {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	kind := TokenLNumber
	if isFloat {
		kind = TokenDNumber
	}
	return l.token(kind, start)
}

func (l *Lexer) scanQuoted(start Position, quote byte) Token {
	l.advance()
	for l.pos < len(l.input) && l.peek() != quote {
		if l.peek() == '\\' {
			l.advance()
			l.advance()
			continue
		}
		if quote != '\'' && l.peek() == '{' && l.peekN(1) == '$' {
			l.advance()
			l.skipEmbeddedExpression()
			continue
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	}
	return l.token(TokenConstantEncapsedString, start)
}

// skipEmbeddedExpression consumes a {$...} interpolation including its
// closing brace. Nested strings may contain braces and quotes.
func (l *Lexer) skipEmbeddedExpression() {
	depth := 1
	for l.pos < len(l.input) && depth > 0 {
		ch := l.peek()
		switch ch {
		case '{':
			depth++
			l.advance()
		case '}':
			depth--
			l.advance()
		case '"', '\'':
			l.advance()
			for l.pos < len(l.input) && l.peek() != ch {
				if l.peek() == '\\' {
					l.advance()
				}
				l.advance()
			}
			if l.peek() == ch {
				l.advance()
			}
		default:
			l.advance()
		}
	}
}

// scanHeredoc handles both heredoc and nowdoc. The closing label may be
// indented and must not be followed by a name character.
func (l *Lexer) scanHeredoc(start Position) (Token, bool) {
	i := l.pos + 3
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	quote := byte(0)
	if i < len(l.input) && (l.input[i] == '\'' || l.input[i] == '"') {
		quote = l.input[i]
		i++
	}
	labelStart := i
	for i < len(l.input) && isNameChar(l.input[i]) {
		i++
	}
	if i == labelStart || (labelStart < len(l.input) && isDigit(l.input[labelStart])) {
		return Token{}, false
	}
	label := string(l.input[labelStart:i])
	if quote != 0 {
		if i >= len(l.input) || l.input[i] != quote {
			return Token{}, false
		}
		i++
	}
	if i < len(l.input) && l.input[i] == '\r' {
		i++
	}
	if i >= len(l.input) || l.input[i] != '\n' {
		return Token{}, false
	}

	l.advanceN(i + 1 - l.pos)
	for l.pos < len(l.input) {
		lineStart := l.pos
		j := lineStart
		for j < len(l.input) && (l.input[j] == ' ' || l.input[j] == '\t') {
			j++
		}
		if bytes.HasPrefix(l.input[j:], []byte(label)) {
			end := j + len(label)
			if end >= len(l.input) || !isNameChar(l.input[end]) {
				l.advanceN(end - l.pos)
				return l.token(TokenHeredoc, start), true
			}
		}
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		l.advance()
	}
	return l.token(TokenHeredoc, start), true
}

type operator struct {
	text string
	kind TokenKind
}

// Longest match wins, so longer operators come first.
var operators = []operator{
	{"<<=", TokenOpAssign},
	{">>=", TokenOpAssign},
	{"**=", TokenOpAssign},
	{"??=", TokenOpAssign},
	{"...", TokenEllipsis},
	{"===", TokenIdentical},
	{"!==", TokenNotIdentical},
	{"<=>", TokenSpaceship},
	{"?->", TokenNullsafeArrow},
	{"::", TokenDoubleColon},
	{"??", TokenCoalesce},
	{"->", TokenArrow},
	{"=>", TokenDoubleArrow},
	{"==", TokenEQ},
	{"!=", TokenNE},
	{"<>", TokenNE},
	{"<=", TokenLE},
	{">=", TokenGE},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"<<", TokenShl},
	{">>", TokenShr},
	{"++", TokenIncrement},
	{"--", TokenDecrement},
	{"**", TokenPow},
	{"+=", TokenOpAssign},
	{"-=", TokenOpAssign},
	{"*=", TokenOpAssign},
	{"/=", TokenOpAssign},
	{".=", TokenOpAssign},
	{"%=", TokenOpAssign},
	{"&=", TokenOpAssign},
	{"|=", TokenOpAssign},
	{"^=", TokenOpAssign},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{".", TokenDot},
	{"@", TokenAt},
	{"$", TokenDollar},
	{"\\", TokenNsSeparator},
	{":", TokenColon},
	{"?", TokenQuestion},
	{"=", TokenAssign},
	{"<", TokenLT},
	{">", TokenGT},
	{"!", TokenNot},
	{"&", TokenAmpersand},
	{"|", TokenPipe},
	{"^", TokenCaret},
	{"~", TokenTilde},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
}

func (l *Lexer) scanOperator(start Position) Token {
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}

	l.advance()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// PHP names may contain any byte >= 0x80, so multi-byte UTF-8 sequences are
// accepted without decoding.
func isNameStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || isDigit(ch)
}
