// Package analyzer extracts structural facts from a PHP token stream without
// building a syntax tree: the members declared in class-like bodies and the
// parameter and return types of function signatures.
package analyzer

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/mixdoc/php/token"
)

// Member is a property or method declared directly in a class-like body.
// The concrete type is either Property or Method.
type Member interface {
	// Anchor is the index of the token the member is located by: the first
	// declared variable for properties, the function keyword for methods.
	Anchor() int
	member()
}

type Property struct {
	Index int
	Name  string
}

func (p Property) Anchor() int { return p.Index }
func (Property) member()       {}

type Method struct {
	Index int
	Name  string
}

func (m Method) Anchor() int { return m.Index }
func (Method) member()       {}

// IsConstructorOrDestructor reports whether the method is __construct or
// __destruct. PHP method names are case-insensitive.
func (m Method) IsConstructorOrDestructor() bool {
	return strings.EqualFold(m.Name, "__construct") || strings.EqualFold(m.Name, "__destruct")
}

var classyKinds = []token.TokenKind{
	token.TokenClass,
	token.TokenTrait,
	token.TokenInterface,
	token.TokenEnum,
}

// ClassyElements returns every property and method declared directly inside
// a class, trait, interface or enum body, ordered by anchor index. Members of
// anonymous classes are included; statements inside method bodies are not.
func ClassyElements(tokens *token.Tokens) ([]Member, error) {
	byIndex := make(map[int]Member)

	for i := 0; i < tokens.Len(); i++ {
		tok := tokens.At(i)
		if !tok.Is(classyKinds...) {
			continue
		}
		if tok.Kind == token.TokenClass {
			// Foo::class
			if prev := tokens.GetPrevMeaningfulToken(i); prev >= 0 && tokens.At(prev).Kind == token.TokenDoubleColon {
				continue
			}
		}

		open, err := classBodyStart(tokens, i)
		if err != nil {
			return nil, err
		}
		members, err := classBodyMembers(tokens, open)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			byIndex[m.Anchor()] = m
		}
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	members := make([]Member, 0, len(indices))
	for _, idx := range indices {
		members = append(members, byIndex[idx])
	}
	return members, nil
}

func classBodyStart(tokens *token.Tokens, keyword int) (int, error) {
	from := keyword
	// new class(...) {}: constructor arguments may contain closures
	if next := tokens.GetNextMeaningfulToken(keyword); next >= 0 && tokens.At(next).Kind == token.TokenLParen {
		end, err := tokens.FindBlockEnd(next)
		if err != nil {
			return -1, err
		}
		from = end
	}
	open := tokens.GetNextTokenOfKind(from, token.TokenLBrace)
	if open < 0 {
		return -1, errors.AssertionFailedf("%s declared at %s has no body", tokens.At(keyword).Kind, tokens.At(keyword).Span.Start)
	}
	return open, nil
}

func classBodyMembers(tokens *token.Tokens, open int) ([]Member, error) {
	end, err := tokens.FindBlockEnd(open)
	if err != nil {
		return nil, err
	}

	var members []Member
	for j := open + 1; j < end; j++ {
		tok := tokens.At(j)
		switch tok.Kind {
		case token.TokenFunction:
			name := tokens.GetNextMeaningfulToken(j)
			if name >= 0 && tokens.At(name).Kind == token.TokenAmpersand {
				name = tokens.GetNextMeaningfulToken(name)
			}
			if name < 0 {
				return nil, errors.AssertionFailedf("method without name at %s", tok.Span.Start)
			}
			members = append(members, Method{Index: j, Name: tokens.At(name).Literal})
			if j, err = skipMethod(tokens, j); err != nil {
				return nil, err
			}
		case token.TokenVariable:
			members = append(members, Property{Index: j, Name: tok.Literal})
			if j, err = skipStatement(tokens, j); err != nil {
				return nil, err
			}
		case token.TokenConst, token.TokenCase, token.TokenUse:
			if j, err = skipStatement(tokens, j); err != nil {
				return nil, err
			}
		case token.TokenLBracket:
			// attribute group
			if j, err = tokens.FindBlockEnd(j); err != nil {
				return nil, err
			}
		}
	}
	return members, nil
}

// skipMethod returns the index of the last token of the method declaration:
// the closing brace of its body or the semicolon of an abstract method.
func skipMethod(tokens *token.Tokens, function int) (int, error) {
	_, closeParen, err := ParameterList(tokens, function)
	if err != nil {
		return -1, err
	}
	k := tokens.GetNextTokenOfKind(closeParen, token.TokenLBrace, token.TokenSemicolon)
	if k < 0 {
		return -1, errors.AssertionFailedf("method at %s has neither body nor terminator", tokens.At(function).Span.Start)
	}
	if tokens.At(k).Kind == token.TokenSemicolon {
		return k, nil
	}
	return tokens.FindBlockEnd(k)
}

// skipStatement returns the index of the semicolon terminating the statement
// containing i, or the end of a block that terminates it (trait adaptations,
// property hooks).
func skipStatement(tokens *token.Tokens, i int) (int, error) {
	for j := i + 1; j < tokens.Len(); j++ {
		switch tokens.At(j).Kind {
		case token.TokenSemicolon:
			return j, nil
		case token.TokenLParen, token.TokenLBracket:
			end, err := tokens.FindBlockEnd(j)
			if err != nil {
				return -1, err
			}
			j = end
		case token.TokenLBrace:
			return tokens.FindBlockEnd(j)
		}
	}
	return -1, errors.AssertionFailedf("unterminated statement at %s", tokens.At(i).Span.Start)
}
