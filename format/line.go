package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/mixdoc/php/token"
)

// LineEncoder writes one token per line: kind and quoted literal separated by
// a tab, prefixed with the start position when positions is set.
type LineEncoder struct {
	w         io.Writer
	positions bool
	tokens    *token.Tokens
}

func NewLineEncoder(w io.Writer, positions bool) *LineEncoder {
	return &LineEncoder{w: w, positions: positions}
}

func (e *LineEncoder) Encode(tokens *token.Tokens) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	if e.tokens == nil {
		return nil, nil
	}
	var sb strings.Builder
	for i := 0; i < e.tokens.Len(); i++ {
		tok := e.tokens.At(i)
		if e.positions {
			fmt.Fprintf(&sb, "%d:%d\t", tok.Span.Start.Line, tok.Span.Start.Column)
		}
		fmt.Fprintf(&sb, "%s\t%q\n", tok.Kind, tok.Literal)
	}
	return []byte(sb.String()), nil
}
