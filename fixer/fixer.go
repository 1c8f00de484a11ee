// Package fixer runs token-stream rules over PHP source units.
package fixer

import (
	"bytes"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/mixdoc/php/token"
)

var log = commonlog.GetLogger("mixdoc.fixer")

// Fixer is a single rewriting rule. Fix mutates tokens in place; it is only
// called when IsCandidate returned true for the same stream.
type Fixer interface {
	Name() string
	IsCandidate(tokens *token.Tokens) bool
	Fix(tokens *token.Tokens) error
}

type Result struct {
	Output  []byte
	Changed bool
	// Applied names the fixers that were run, in order.
	Applied []string
}

// Runner applies a fixed sequence of fixers to one source unit at a time.
// A Runner holds no per-unit state and may be shared, but a single call to
// FixSource owns its token stream.
type Runner struct {
	Fixers []Fixer
}

func NewRunner(fixers ...Fixer) *Runner {
	return &Runner{Fixers: fixers}
}

// FixSource tokenizes src, applies every candidate fixer and serializes the
// result. On error no output is returned and src should be kept as is.
func (r *Runner) FixSource(src []byte, file string) (Result, error) {
	tokens, err := token.FromSource(src, file)
	if err != nil {
		return Result{}, errors.Wrapf(err, "tokenize %s", file)
	}

	var applied []string
	for _, f := range r.Fixers {
		if !f.IsCandidate(tokens) {
			log.Debugf("%s: %s is not a candidate", file, f.Name())
			continue
		}
		if err := f.Fix(tokens); err != nil {
			return Result{}, errors.Wrapf(err, "%s: %s", file, f.Name())
		}
		applied = append(applied, f.Name())
	}

	out := tokens.Bytes()
	return Result{
		Output:  out,
		Changed: !bytes.Equal(out, src),
		Applied: applied,
	}, nil
}

// Factory builds a fixer from the shared settings.
type Factory func(settings Settings) Fixer

// Settings are the options every registered fixer may read.
type Settings struct {
	Indent         string
	SkipFullyTyped bool
}

var registry = map[string]Factory{}

// Register makes a fixer available by name. It panics on duplicates.
func Register(name string, factory Factory) {
	if _, ok := registry[name]; ok {
		panic(errors.AssertionFailedf("fixer %q registered twice", name))
	}
	registry[name] = factory
}

// Names lists the registered fixers in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named fixers in the given order.
func Lookup(names []string, settings Settings) ([]Fixer, error) {
	fixers := make([]Fixer, 0, len(names))
	for _, name := range names {
		factory, ok := registry[name]
		if !ok {
			return nil, errors.WithHintf(errors.Newf("unknown fixer %q", name), "available fixers: %v", Names())
		}
		fixers = append(fixers, factory(settings))
	}
	return fixers, nil
}

// Info describes a registered fixer.
type Info struct {
	Name        string
	Description string
}

// Describe lists the registered fixers with the description of those that
// provide one.
func Describe() []Info {
	var infos []Info
	for _, name := range Names() {
		info := Info{Name: name}
		if d, ok := registry[name](Settings{}).(interface{ Description() string }); ok {
			info.Description = d.Description()
		}
		infos = append(infos, info)
	}
	return infos
}
