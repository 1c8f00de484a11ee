package token

import (
	"fmt"
	"strings"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenInlineHTML
	TokenOpenTag
	TokenOpenTagWithEcho
	TokenCloseTag
	TokenWhitespace
	TokenComment
	TokenDocComment

	// Literals and names
	TokenVariable
	TokenString
	TokenNsSeparator
	TokenLNumber
	TokenDNumber
	TokenConstantEncapsedString
	TokenHeredoc

	// Keywords
	TokenAbstract
	TokenArray
	TokenAs
	TokenBreak
	TokenCallable
	TokenCase
	TokenCatch
	TokenClass
	TokenClone
	TokenConst
	TokenContinue
	TokenDeclare
	TokenDefault
	TokenDo
	TokenEcho
	TokenElse
	TokenElseif
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFn
	TokenFor
	TokenForeach
	TokenFunction
	TokenGlobal
	TokenGoto
	TokenIf
	TokenImplements
	TokenInclude
	TokenInstanceof
	TokenInsteadof
	TokenInterface
	TokenList
	TokenMatch
	TokenNamespace
	TokenNew
	TokenPrint
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReadonly
	TokenRequire
	TokenReturn
	TokenStatic
	TokenSwitch
	TokenThrow
	TokenTrait
	TokenTry
	TokenUse
	TokenVar
	TokenWhile
	TokenYield

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenDollar
	TokenDoubleColon
	TokenColon
	TokenQuestion
	TokenCoalesce
	TokenNullsafeArrow
	TokenArrow
	TokenDoubleArrow
	TokenAssign
	TokenOpAssign
	TokenEQ
	TokenIdentical
	TokenNE
	TokenNotIdentical
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenSpaceship
	TokenAnd
	TokenOr
	TokenNot
	TokenAmpersand
	TokenPipe
	TokenCaret
	TokenTilde
	TokenShl
	TokenShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenPow
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement

	// Context-dependent kinds assigned after lexing.
	TokenTypeColon
	TokenNullableType
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:                    "EOF",
	TokenError:                  "Error",
	TokenInlineHTML:             "InlineHTML",
	TokenOpenTag:                "OpenTag",
	TokenOpenTagWithEcho:        "OpenTagWithEcho",
	TokenCloseTag:               "CloseTag",
	TokenWhitespace:             "Whitespace",
	TokenComment:                "Comment",
	TokenDocComment:             "DocComment",
	TokenVariable:               "Variable",
	TokenString:                 "String",
	TokenNsSeparator:            "NsSeparator",
	TokenLNumber:                "LNumber",
	TokenDNumber:                "DNumber",
	TokenConstantEncapsedString: "ConstantEncapsedString",
	TokenHeredoc:                "Heredoc",
	TokenAbstract:               "abstract",
	TokenArray:                  "array",
	TokenAs:                     "as",
	TokenBreak:                  "break",
	TokenCallable:               "callable",
	TokenCase:                   "case",
	TokenCatch:                  "catch",
	TokenClass:                  "class",
	TokenClone:                  "clone",
	TokenConst:                  "const",
	TokenContinue:               "continue",
	TokenDeclare:                "declare",
	TokenDefault:                "default",
	TokenDo:                     "do",
	TokenEcho:                   "echo",
	TokenElse:                   "else",
	TokenElseif:                 "elseif",
	TokenEnum:                   "enum",
	TokenExtends:                "extends",
	TokenFinal:                  "final",
	TokenFinally:                "finally",
	TokenFn:                     "fn",
	TokenFor:                    "for",
	TokenForeach:                "foreach",
	TokenFunction:               "function",
	TokenGlobal:                 "global",
	TokenGoto:                   "goto",
	TokenIf:                     "if",
	TokenImplements:             "implements",
	TokenInclude:                "include",
	TokenInstanceof:             "instanceof",
	TokenInsteadof:              "insteadof",
	TokenInterface:              "interface",
	TokenList:                   "list",
	TokenMatch:                  "match",
	TokenNamespace:              "namespace",
	TokenNew:                    "new",
	TokenPrint:                  "print",
	TokenPrivate:                "private",
	TokenProtected:              "protected",
	TokenPublic:                 "public",
	TokenReadonly:               "readonly",
	TokenRequire:                "require",
	TokenReturn:                 "return",
	TokenStatic:                 "static",
	TokenSwitch:                 "switch",
	TokenThrow:                  "throw",
	TokenTrait:                  "trait",
	TokenTry:                    "try",
	TokenUse:                    "use",
	TokenVar:                    "var",
	TokenWhile:                  "while",
	TokenYield:                  "yield",
	TokenLParen:                 "(",
	TokenRParen:                 ")",
	TokenLBrace:                 "{",
	TokenRBrace:                 "}",
	TokenLBracket:               "[",
	TokenRBracket:               "]",
	TokenSemicolon:              ";",
	TokenComma:                  ",",
	TokenDot:                    ".",
	TokenEllipsis:               "...",
	TokenAt:                     "@",
	TokenDollar:                 "$",
	TokenDoubleColon:            "::",
	TokenColon:                  ":",
	TokenQuestion:               "?",
	TokenCoalesce:               "??",
	TokenNullsafeArrow:          "?->",
	TokenArrow:                  "->",
	TokenDoubleArrow:            "=>",
	TokenAssign:                 "=",
	TokenOpAssign:               "OpAssign",
	TokenEQ:                     "==",
	TokenIdentical:              "===",
	TokenNE:                     "!=",
	TokenNotIdentical:           "!==",
	TokenLT:                     "<",
	TokenLE:                     "<=",
	TokenGT:                     ">",
	TokenGE:                     ">=",
	TokenSpaceship:              "<=>",
	TokenAnd:                    "&&",
	TokenOr:                     "||",
	TokenNot:                    "!",
	TokenAmpersand:              "&",
	TokenPipe:                   "|",
	TokenCaret:                  "^",
	TokenTilde:                  "~",
	TokenShl:                    "<<",
	TokenShr:                    ">>",
	TokenPlus:                   "+",
	TokenMinus:                  "-",
	TokenStar:                   "*",
	TokenPow:                    "**",
	TokenSlash:                  "/",
	TokenPercent:                "%",
	TokenIncrement:              "++",
	TokenDecrement:              "--",
	TokenTypeColon:              "TypeColon",
	TokenNullableType:           "NullableType",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// New builds a token that was not produced by the lexer. Its span is zero.
func New(kind TokenKind, literal string) Token {
	return Token{Kind: kind, Literal: literal}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Span.Start, t.Kind, t.Literal)
}

// Is reports whether the token has one of the given kinds.
func (t Token) Is(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

func (t Token) IsWhitespace() bool {
	return t.Kind == TokenWhitespace
}

func (t Token) IsComment() bool {
	return t.Kind == TokenComment || t.Kind == TokenDocComment
}

// IsMeaningful reports whether the token is neither whitespace nor a comment.
func (t Token) IsMeaningful() bool {
	return !t.IsWhitespace() && !t.IsComment()
}

// PHP keywords are case-insensitive.
var keywords = map[string]TokenKind{
	"abstract":   TokenAbstract,
	"array":      TokenArray,
	"as":         TokenAs,
	"break":      TokenBreak,
	"callable":   TokenCallable,
	"case":       TokenCase,
	"catch":      TokenCatch,
	"class":      TokenClass,
	"clone":      TokenClone,
	"const":      TokenConst,
	"continue":   TokenContinue,
	"declare":    TokenDeclare,
	"default":    TokenDefault,
	"do":         TokenDo,
	"echo":       TokenEcho,
	"else":       TokenElse,
	"elseif":     TokenElseif,
	"extends":    TokenExtends,
	"final":      TokenFinal,
	"finally":    TokenFinally,
	"fn":         TokenFn,
	"for":        TokenFor,
	"foreach":    TokenForeach,
	"function":   TokenFunction,
	"global":     TokenGlobal,
	"goto":       TokenGoto,
	"if":         TokenIf,
	"implements": TokenImplements,
	"include":    TokenInclude,
	"instanceof": TokenInstanceof,
	"insteadof":  TokenInsteadof,
	"interface":  TokenInterface,
	"list":       TokenList,
	"match":      TokenMatch,
	"namespace":  TokenNamespace,
	"new":        TokenNew,
	"print":      TokenPrint,
	"private":    TokenPrivate,
	"protected":  TokenProtected,
	"public":     TokenPublic,
	"readonly":   TokenReadonly,
	"require":    TokenRequire,
	"return":     TokenReturn,
	"static":     TokenStatic,
	"switch":     TokenSwitch,
	"throw":      TokenThrow,
	"trait":      TokenTrait,
	"try":        TokenTry,
	"use":        TokenUse,
	"var":        TokenVar,
	"while":      TokenWhile,
	"yield":      TokenYield,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[strings.ToLower(ident)]; ok {
		return kind
	}
	return TokenString
}
