package analyzer

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/mixdoc/php/token"
)

// Parameter describes one entry of a parameter list. Type is empty when the
// parameter has no declared type; it never includes the nullable marker.
type Parameter struct {
	Name     string
	Type     string
	Nullable bool
	Variadic bool
}

// TypeInfo is a declared type such as a return type.
type TypeInfo struct {
	Name     string
	Nullable bool
}

// promoted constructor parameters may carry these in front of the type
var parameterModifierKinds = []token.TokenKind{
	token.TokenPublic,
	token.TokenProtected,
	token.TokenPrivate,
	token.TokenReadonly,
}

var openerKinds = []token.TokenKind{token.TokenLParen, token.TokenLBracket, token.TokenLBrace}
var closerKinds = []token.TokenKind{token.TokenRParen, token.TokenRBracket, token.TokenRBrace}

// ParameterList locates the parentheses of the parameter list following the
// function keyword at index function.
func ParameterList(tokens *token.Tokens, function int) (open, close int, err error) {
	open = tokens.GetNextTokenOfKind(function, token.TokenLParen)
	if open < 0 {
		return -1, -1, errors.AssertionFailedf("function at %s has no parameter list", tokens.At(function).Span.Start)
	}
	close, err = tokens.FindBlockEnd(open)
	if err != nil {
		return -1, -1, err
	}
	return open, close, nil
}

// Arguments analyzes the parameter list delimited by open and close and
// returns its parameters in declaration order.
func Arguments(tokens *token.Tokens, open, close int) ([]Parameter, error) {
	if open < 0 || open >= tokens.Len() || tokens.At(open).Kind != token.TokenLParen {
		return nil, errors.AssertionFailedf("parameter list must start with '(' at index %d", open)
	}
	end, err := tokens.FindBlockEnd(open)
	if err != nil {
		return nil, err
	}
	if end != close {
		return nil, errors.AssertionFailedf("parameter list opened at %d closes at %d, not %d", open, end, close)
	}

	var params []Parameter
	start := open + 1
	depth := 0
	for j := open + 1; j <= close; j++ {
		tok := tokens.At(j)
		switch {
		case tok.Is(openerKinds...):
			depth++
		case j == close:
			param, ok, err := argumentInfo(tokens, start, close-1)
			if err != nil {
				return nil, err
			}
			if ok {
				params = append(params, param)
			}
		case tok.Is(closerKinds...):
			depth--
		case tok.Kind == token.TokenComma && depth == 0:
			param, ok, err := argumentInfo(tokens, start, j-1)
			if err != nil {
				return nil, err
			}
			if ok {
				params = append(params, param)
			}
			start = j + 1
		}
	}
	return params, nil
}

// argumentInfo analyzes the tokens in [start, end]. ok is false for an empty
// range, which occurs for "()" and trailing commas.
func argumentInfo(tokens *token.Tokens, start, end int) (param Parameter, ok bool, err error) {
	var prefix []token.Token
	for j := start; j <= end; j++ {
		tok := tokens.At(j)
		if !tok.IsMeaningful() {
			continue
		}
		switch {
		case tok.Kind == token.TokenVariable:
			param.Name = tok.Literal
			param.Type, param.Nullable, param.Variadic = parameterType(prefix)
			return param, true, nil
		case tok.Kind == token.TokenLBracket:
			// attribute group
			if j, err = tokens.FindBlockEnd(j); err != nil {
				return param, false, err
			}
		case tok.Is(parameterModifierKinds...):
		default:
			prefix = append(prefix, tok)
		}
	}

	for j := start; j <= end; j++ {
		if tokens.At(j).IsMeaningful() {
			return param, false, errors.AssertionFailedf("parameter at %s has no variable", tokens.At(j).Span.Start)
		}
	}
	return param, false, nil
}

// parameterType interprets the meaningful tokens preceding a parameter
// variable. A trailing "..." marks a variadic, a trailing "&" a reference;
// neither belongs to the type.
func parameterType(prefix []token.Token) (typ string, nullable, variadic bool) {
	if n := len(prefix); n > 0 && prefix[n-1].Kind == token.TokenEllipsis {
		variadic = true
		prefix = prefix[:n-1]
	}
	if n := len(prefix); n > 0 && prefix[n-1].Kind == token.TokenAmpersand {
		prefix = prefix[:n-1]
	}
	if len(prefix) > 0 && prefix[0].Kind == token.TokenNullableType {
		nullable = true
		prefix = prefix[1:]
	}
	return joinLiterals(prefix), nullable, variadic
}

// ReturnType reads the return type declared after the parameter list closing
// at close. ok is false when there is no return type.
func ReturnType(tokens *token.Tokens, close int) (info TypeInfo, ok bool) {
	colon := tokens.GetNextMeaningfulToken(close)
	if colon < 0 || tokens.At(colon).Kind != token.TokenTypeColon {
		return TypeInfo{}, false
	}

	var parts []token.Token
	for j := tokens.GetNextMeaningfulToken(colon); j >= 0; j = tokens.GetNextMeaningfulToken(j) {
		tok := tokens.At(j)
		if tok.Is(token.TokenLBrace, token.TokenSemicolon, token.TokenDoubleArrow) {
			break
		}
		if tok.Kind == token.TokenNullableType && len(parts) == 0 {
			info.Nullable = true
			continue
		}
		parts = append(parts, tok)
	}
	info.Name = joinLiterals(parts)
	return info, info.Name != ""
}

func joinLiterals(toks []token.Token) string {
	var sb strings.Builder
	for _, tok := range toks {
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}
