package token

import "strings"

func (t *Tokens) transform() {
	t.transformEnum()
	t.transformTypeColon()
	t.transformNullableType()
}

// enum is a keyword only in a declaration like "enum Suit" or
// "enum Suit: string".
func (t *Tokens) transformEnum() {
	for i, tok := range t.tokens {
		if tok.Kind != TokenString || !strings.EqualFold(tok.Literal, "enum") {
			continue
		}
		next := t.GetNextMeaningfulToken(i)
		if next < 0 || t.tokens[next].Kind != TokenString {
			continue
		}
		if prev := t.GetPrevMeaningfulToken(i); prev >= 0 &&
			t.tokens[prev].Is(TokenArrow, TokenNullsafeArrow, TokenDoubleColon, TokenNsSeparator, TokenNew, TokenFunction, TokenConst) {
			continue
		}
		t.tokens[i].Kind = TokenEnum
	}
}

// A colon becomes a return-type colon when it follows the parameter list of a
// function, closure, arrow function or closure use clause.
func (t *Tokens) transformTypeColon() {
	for i, tok := range t.tokens {
		if tok.Kind != TokenColon {
			continue
		}
		prev := t.GetPrevMeaningfulToken(i)
		if prev < 0 || t.tokens[prev].Kind != TokenRParen {
			continue
		}
		if t.closesSignature(prev) {
			t.tokens[i].Kind = TokenTypeColon
		}
	}
}

func (t *Tokens) closesSignature(rparen int) bool {
	open, err := t.FindBlockStart(rparen)
	if err != nil {
		return false
	}
	before := t.GetPrevMeaningfulToken(open)
	if before < 0 {
		return false
	}
	switch t.tokens[before].Kind {
	case TokenUse:
		// closure: function (...) use (...): T
		prev := t.GetPrevMeaningfulToken(before)
		if prev < 0 || t.tokens[prev].Kind != TokenRParen {
			return false
		}
		return t.closesSignature(prev)
	case TokenFunction, TokenFn:
		return true
	case TokenAmpersand:
		prev := t.GetPrevMeaningfulToken(before)
		return prev >= 0 && t.tokens[prev].Is(TokenFunction, TokenFn)
	case TokenString:
		prev := t.GetPrevMeaningfulToken(before)
		if prev >= 0 && t.tokens[prev].Kind == TokenAmpersand {
			prev = t.GetPrevMeaningfulToken(prev)
		}
		return prev >= 0 && t.tokens[prev].Kind == TokenFunction
	}
	return false
}

// tokens after which a "?" can only be a nullable type marker
var nullablePredecessors = []TokenKind{
	TokenLParen,
	TokenComma,
	TokenTypeColon,
	TokenPublic,
	TokenProtected,
	TokenPrivate,
	TokenStatic,
	TokenVar,
	TokenReadonly,
}

func (t *Tokens) transformNullableType() {
	for i, tok := range t.tokens {
		if tok.Kind != TokenQuestion {
			continue
		}
		prev := t.GetPrevMeaningfulToken(i)
		if prev < 0 || !(t.tokens[prev].Is(nullablePredecessors...) || t.closesAttribute(prev)) {
			continue
		}
		next := t.GetNextMeaningfulToken(i)
		if next < 0 || !t.tokens[next].Is(TokenString, TokenNsSeparator, TokenArray, TokenCallable, TokenStatic) {
			continue
		}
		t.tokens[i].Kind = TokenNullableType
	}
}

// closesAttribute reports whether the token at i is the "]" of a #[...] group.
func (t *Tokens) closesAttribute(i int) bool {
	if t.tokens[i].Kind != TokenRBracket {
		return false
	}
	start, err := t.FindBlockStart(i)
	return err == nil && t.tokens[start].Literal == "#["
}
