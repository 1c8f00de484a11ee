// Package typehint implements the missing_typehint_to_mixed rule: class
// members without a doc block get one that spells out their types, using
// "mixed" wherever the declaration has none.
package typehint

import (
	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/mixdoc/php/analyzer"
	"github.com/dhamidi/mixdoc/php/token"
)

const Name = "missing_typehint_to_mixed"

var log = commonlog.GetLogger("mixdoc.typehint")

type Options struct {
	// Indent is used when a member does not start its own line.
	Indent string
	// SkipFullyTyped leaves methods alone when a doc block would only repeat
	// their signature.
	SkipFullyTyped bool
}

func DefaultOptions() Options {
	return Options{
		Indent:         "    ",
		SkipFullyTyped: true,
	}
}

type Fixer struct {
	opts Options
}

func New(opts Options) *Fixer {
	return &Fixer{opts: opts}
}

func (f *Fixer) Name() string {
	return Name
}

func (f *Fixer) Description() string {
	return "Add doc blocks declaring mixed types for untyped properties, arguments and return values"
}

func (f *Fixer) IsCandidate(tokens *token.Tokens) bool {
	return tokens.IsAnyKindFound(token.TokenClass, token.TokenFunction, token.TokenTrait)
}

// Fix documents every undocumented member of tokens in place. On error
// tokens is left unchanged.
func (f *Fixer) Fix(tokens *token.Tokens) error {
	_, err := f.Apply(tokens)
	return err
}

// Apply is Fix that also reports how many doc blocks were inserted.
func (f *Fixer) Apply(tokens *token.Tokens) (int, error) {
	members, err := analyzer.ClassyElements(tokens)
	if err != nil {
		return 0, err
	}
	state := &insertionState{}
	if err := f.fixMembers(tokens, members, state); err != nil {
		return 0, err
	}
	blocks := state.inserted / 2
	log.Infof("documented %d of %d members", blocks, len(members))
	return blocks, nil
}

// fixMembers processes members in declaration order. Their anchors are
// relative to tokens as it was before the first insertion of state. Every
// member is analyzed before anything is inserted, so an error leaves tokens
// untouched.
func (f *Fixer) fixMembers(tokens *token.Tokens, members []analyzer.Member, state *insertionState) error {
	docs, err := f.plan(tokens, members)
	if err != nil {
		return err
	}
	for _, d := range docs {
		f.document(tokens, state.adjust(d.index), d.items, state)
	}
	return nil
}

// plannedDoc is a doc block to insert before the member anchored at index.
type plannedDoc struct {
	index int
	items []DocItem
}

func (f *Fixer) plan(tokens *token.Tokens, members []analyzer.Member) ([]plannedDoc, error) {
	var docs []plannedDoc
	for _, m := range members {
		var (
			items []DocItem
			err   error
		)
		switch m := m.(type) {
		case analyzer.Property:
			items = f.propertyDoc(tokens, m)
		case analyzer.Method:
			items, err = f.methodDoc(tokens, m)
		default:
			err = errors.AssertionFailedf("unexpected member %T", m)
		}
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			docs = append(docs, plannedDoc{index: m.Anchor(), items: items})
		}
	}
	return docs, nil
}

func (f *Fixer) propertyDoc(tokens *token.Tokens, p analyzer.Property) []DocItem {
	if hasDocBlock(tokens, p.Index) {
		log.Debugf("property %s already documented", p.Name)
		return nil
	}
	log.Debugf("documenting property %s", p.Name)
	return propertyDocItems()
}

func (f *Fixer) methodDoc(tokens *token.Tokens, m analyzer.Method) ([]DocItem, error) {
	if hasDocBlock(tokens, m.Index) {
		log.Debugf("method %s already documented", m.Name)
		return nil, nil
	}

	open, close, err := analyzer.ParameterList(tokens, m.Index)
	if err != nil {
		return nil, errors.Wrapf(err, "method %s", m.Name)
	}
	params, err := analyzer.Arguments(tokens, open, close)
	if err != nil {
		return nil, errors.Wrapf(err, "method %s", m.Name)
	}
	ret, hasReturnType := analyzer.ReturnType(tokens, close)
	ctorOrDtor := m.IsConstructorOrDestructor()

	if f.opts.SkipFullyTyped && !methodNeedsDoc(params, hasReturnType, ctorOrDtor) {
		log.Debugf("method %s is fully typed", m.Name)
		return nil, nil
	}
	log.Debugf("documenting method %s", m.Name)
	return methodDocItems(params, ret, ctorOrDtor), nil
}

func (f *Fixer) document(tokens *token.Tokens, index int, items []DocItem, state *insertionState) {
	point := insertionPoint(tokens, index)
	indent := indentationAt(tokens, point, f.opts.Indent)
	eol := lineEndingAt(tokens, point)
	insertDoc(tokens, state, point, renderDocBlock(items, indent, eol), eol, indent)
}
