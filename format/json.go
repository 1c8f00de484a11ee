package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/mixdoc/php/token"
)

type JSONEncoder struct {
	w         io.Writer
	positions bool
	tokens    *token.Tokens
}

func NewJSONEncoder(w io.Writer, positions bool) *JSONEncoder {
	return &JSONEncoder{w: w, positions: positions}
}

func (e *JSONEncoder) Encode(tokens *token.Tokens) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildTokens(), "", "  ")
}

type jsonToken struct {
	Kind    string    `json:"kind"`
	Literal string    `json:"literal"`
	Span    *jsonSpan `json:"span,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *JSONEncoder) buildTokens() []jsonToken {
	if e.tokens == nil {
		return []jsonToken{}
	}
	result := make([]jsonToken, e.tokens.Len())
	for i := range result {
		tok := e.tokens.At(i)
		result[i] = jsonToken{
			Kind:    tok.Kind.String(),
			Literal: tok.Literal,
		}
		// synthesized tokens have no position
		if e.positions && tok.Span.Start.Line != 0 {
			result[i].Span = &jsonSpan{
				Start: toJSONPosition(tok.Span.Start),
				End:   toJSONPosition(tok.Span.End),
			}
		}
	}
	return result
}

func toJSONPosition(p token.Position) jsonPosition {
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}
