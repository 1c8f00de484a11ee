package typehint

import (
	"strings"

	"github.com/dhamidi/mixdoc/php/token"
)

type kindSet map[token.TokenKind]bool

func newKindSet(kinds ...token.TokenKind) kindSet {
	s := make(kindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

var modifierKinds = []token.TokenKind{
	token.TokenPublic,
	token.TokenProtected,
	token.TokenPrivate,
	token.TokenStatic,
	token.TokenFinal,
	token.TokenAbstract,
	token.TokenVar,
	token.TokenReadonly,
}

var typeKinds = []token.TokenKind{
	token.TokenString,
	token.TokenNsSeparator,
	token.TokenNullableType,
	token.TokenArray,
	token.TokenCallable,
	token.TokenPipe,
}

// prefixKinds may appear between the start of a member declaration and its
// anchor. The doc block goes before the earliest of them.
var prefixKinds = newKindSet(append(append([]token.TokenKind{token.TokenWhitespace}, modifierKinds...), typeKinds...)...)

// docLookbehindKinds are stepped over when looking for an existing doc
// block. Plain comments are included so that a line comment between doc
// block and member does not hide the doc block.
var docLookbehindKinds = newKindSet(append(append([]token.TokenKind{token.TokenWhitespace, token.TokenComment}, modifierKinds...), typeKinds...)...)

// walkBack steps backward from index while tokens belong to skippable and
// returns the first index that does not, or -1 at the start of the stream.
// Attribute groups are stepped over as a whole.
func walkBack(tokens *token.Tokens, index int, skippable kindSet) int {
	i := index - 1
	for i >= 0 {
		tok := tokens.At(i)
		switch {
		case skippable[tok.Kind]:
			i--
		case tok.Kind == token.TokenRBracket:
			start, err := tokens.FindBlockStart(i)
			if err != nil || tokens.At(start).Literal != "#[" {
				return i
			}
			i = start - 1
		default:
			return i
		}
	}
	return -1
}

// hasDocBlock reports whether the member anchored at index is preceded by a
// doc comment, ignoring its modifiers, type and attributes.
func hasDocBlock(tokens *token.Tokens, index int) bool {
	i := walkBack(tokens, index, docLookbehindKinds)
	return i >= 0 && tokens.At(i).Kind == token.TokenDocComment
}

// insertionPoint returns the index of the first token of the declaration
// anchored at index: its leading attribute, modifier or type, or the anchor
// itself.
func insertionPoint(tokens *token.Tokens, index int) int {
	stop := walkBack(tokens, index, prefixKinds)
	return tokens.GetNextNonWhitespace(stop)
}

// indentationAt returns the indentation of the line the token at point
// starts, taken from the whitespace before it. fallback is used when the
// token does not start a line.
func indentationAt(tokens *token.Tokens, point int, fallback string) string {
	if point <= 0 || !tokens.At(point-1).IsWhitespace() {
		return fallback
	}
	ws := tokens.At(point - 1).Literal
	nl := strings.LastIndex(ws, "\n")
	if nl < 0 {
		return fallback
	}
	return ws[nl+1:]
}

// lineEndingAt returns "\r\n" when the whitespace before point uses it.
func lineEndingAt(tokens *token.Tokens, point int) string {
	if point > 0 && tokens.At(point-1).IsWhitespace() && strings.Contains(tokens.At(point-1).Literal, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// insertionState counts the tokens inserted so far in one pass. Anchors
// computed before the pass started are shifted by inserted.
type insertionState struct {
	inserted int
}

func (s *insertionState) adjust(index int) int {
	return index + s.inserted
}

// insertDoc inserts the doc comment and the whitespace that re-indents the
// member at point.
func insertDoc(tokens *token.Tokens, state *insertionState, point int, doc, eol, indent string) {
	toks := []token.Token{
		token.New(token.TokenDocComment, doc),
		token.New(token.TokenWhitespace, eol+indent),
	}
	tokens.InsertAt(point, toks...)
	state.inserted += len(toks)
}
