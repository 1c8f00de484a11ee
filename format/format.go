// Package format renders token streams and fix results for humans and tools.
package format

import (
	"encoding"
	"io"

	"github.com/dhamidi/mixdoc/php/token"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(tokens *token.Tokens) error
}

// New returns the encoder for name, "text" or "json".
func New(name string, w io.Writer, positions bool) (Encoder, bool) {
	switch name {
	case "text", "":
		return NewLineEncoder(w, positions), true
	case "json":
		return NewJSONEncoder(w, positions), true
	}
	return nil, false
}
