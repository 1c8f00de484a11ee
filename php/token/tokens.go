package token

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Tokens is an ordered, mutable token stream for one source unit. Lookups
// return -1 when nothing matches.
//
// A Tokens value is not safe for concurrent use.
type Tokens struct {
	tokens []Token
}

func NewTokens(tokens []Token) *Tokens {
	return &Tokens{tokens: tokens}
}

// FromSource tokenizes src and assigns the context-dependent kinds
// (return-type colons, nullable markers, enum keywords).
func FromSource(src []byte, file string) (*Tokens, error) {
	lexer := NewLexer(src, file)
	var toks []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.Kind == TokenError {
			return nil, errors.Newf("%s: unexpected character %q", tok.Span.Start, tok.Literal)
		}
		toks = append(toks, tok)
	}
	t := NewTokens(toks)
	t.transform()
	return t, nil
}

func (t *Tokens) Len() int {
	return len(t.tokens)
}

func (t *Tokens) At(i int) Token {
	return t.tokens[i]
}

// Slice returns a copy of the tokens.
func (t *Tokens) Slice() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

func (t *Tokens) valid(i int) bool {
	return i >= 0 && i < len(t.tokens)
}

func (t *Tokens) String() string {
	var sb strings.Builder
	for _, tok := range t.tokens {
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}

func (t *Tokens) Bytes() []byte {
	return []byte(t.String())
}

// InsertAt inserts toks before index i. Indices at or after i shift by
// len(toks).
func (t *Tokens) InsertAt(i int, toks ...Token) {
	if i < 0 || i > len(t.tokens) {
		panic(errors.AssertionFailedf("insert index %d out of range [0,%d]", i, len(t.tokens)))
	}
	grown := make([]Token, 0, len(t.tokens)+len(toks))
	grown = append(grown, t.tokens[:i]...)
	grown = append(grown, toks...)
	grown = append(grown, t.tokens[i:]...)
	t.tokens = grown
}

func (t *Tokens) IsAnyKindFound(kinds ...TokenKind) bool {
	for _, tok := range t.tokens {
		if tok.Is(kinds...) {
			return true
		}
	}
	return false
}

func (t *Tokens) GetNextMeaningfulToken(i int) int {
	return t.scan(i, 1, Token.IsMeaningful)
}

func (t *Tokens) GetPrevMeaningfulToken(i int) int {
	return t.scan(i, -1, Token.IsMeaningful)
}

func (t *Tokens) GetNextNonWhitespace(i int) int {
	return t.scan(i, 1, func(tok Token) bool { return !tok.IsWhitespace() })
}

func (t *Tokens) GetPrevNonWhitespace(i int) int {
	return t.scan(i, -1, func(tok Token) bool { return !tok.IsWhitespace() })
}

// GetNextTokenOfKind returns the first token after i with one of the kinds.
func (t *Tokens) GetNextTokenOfKind(i int, kinds ...TokenKind) int {
	return t.scan(i, 1, func(tok Token) bool { return tok.Is(kinds...) })
}

func (t *Tokens) scan(i, step int, match func(Token) bool) int {
	for i += step; t.valid(i); i += step {
		if match(t.tokens[i]) {
			return i
		}
	}
	return -1
}

var blockPairs = map[TokenKind]TokenKind{
	TokenLParen:   TokenRParen,
	TokenLBracket: TokenRBracket,
	TokenLBrace:   TokenRBrace,
}

var blockPairsReverse = map[TokenKind]TokenKind{
	TokenRParen:   TokenLParen,
	TokenRBracket: TokenLBracket,
	TokenRBrace:   TokenLBrace,
}

// FindBlockEnd returns the index of the delimiter closing the block opened
// at i. Only the delimiter kind of the opener is counted, so nesting of other
// bracket kinds inside is ignored.
func (t *Tokens) FindBlockEnd(i int) (int, error) {
	if !t.valid(i) {
		return -1, errors.AssertionFailedf("block start %d out of range", i)
	}
	open := t.tokens[i].Kind
	closing, ok := blockPairs[open]
	if !ok {
		return -1, errors.AssertionFailedf("token %d (%s) does not open a block", i, t.tokens[i].Kind)
	}
	return t.matchBlock(i, 1, open, closing)
}

// FindBlockStart is the mirror of FindBlockEnd.
func (t *Tokens) FindBlockStart(i int) (int, error) {
	if !t.valid(i) {
		return -1, errors.AssertionFailedf("block end %d out of range", i)
	}
	closing := t.tokens[i].Kind
	open, ok := blockPairsReverse[closing]
	if !ok {
		return -1, errors.AssertionFailedf("token %d (%s) does not close a block", i, t.tokens[i].Kind)
	}
	return t.matchBlock(i, -1, closing, open)
}

func (t *Tokens) matchBlock(i, step int, same, other TokenKind) (int, error) {
	depth := 0
	for j := i; t.valid(j); j += step {
		switch t.tokens[j].Kind {
		case same:
			depth++
		case other:
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return -1, errors.AssertionFailedf("unbalanced %s at %s", t.tokens[i].Kind, t.tokens[i].Span.Start)
}
