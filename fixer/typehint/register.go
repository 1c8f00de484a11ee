package typehint

import "github.com/dhamidi/mixdoc/fixer"

func init() {
	fixer.Register(Name, func(s fixer.Settings) fixer.Fixer {
		opts := DefaultOptions()
		if s.Indent != "" {
			opts.Indent = s.Indent
		}
		opts.SkipFullyTyped = s.SkipFullyTyped
		return New(opts)
	})
}
