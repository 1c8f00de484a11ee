package typehint

import (
	"strings"

	"github.com/dhamidi/mixdoc/php/analyzer"
)

// MixedType is written for anything without a declared type.
const MixedType = "mixed"

const (
	TagParam  = "param"
	TagReturn = "return"
	TagVar    = "var"
)

// DocItem is one annotation line of a doc block. Name is only set for params.
type DocItem struct {
	Tag  string
	Type string
	Name string
}

func typeName(name string, nullable bool) string {
	if name == "" {
		return MixedType
	}
	if nullable {
		return name + "|null"
	}
	return name
}

// methodDocItems lists one param item per parameter followed by the return
// item. Constructors and destructors get no return item.
func methodDocItems(params []analyzer.Parameter, ret analyzer.TypeInfo, ctorOrDtor bool) []DocItem {
	items := make([]DocItem, 0, len(params)+1)
	for _, p := range params {
		name := p.Name
		if p.Variadic {
			name = "..." + name
		}
		items = append(items, DocItem{
			Tag:  TagParam,
			Type: typeName(p.Type, p.Nullable),
			Name: name,
		})
	}
	if !ctorOrDtor {
		items = append(items, DocItem{
			Tag:  TagReturn,
			Type: typeName(ret.Name, ret.Nullable),
		})
	}
	return items
}

// propertyDocItems is the same for every property, typed or not.
func propertyDocItems() []DocItem {
	return []DocItem{{Tag: TagVar, Type: MixedType}}
}

// methodNeedsDoc is false when the block would only repeat the signature:
// every parameter is typed and the return is typed or not applicable.
func methodNeedsDoc(params []analyzer.Parameter, hasReturnType, ctorOrDtor bool) bool {
	for _, p := range params {
		if p.Type == "" {
			return true
		}
	}
	return !ctorOrDtor && !hasReturnType
}

// renderDocBlock lays out items as
//
//	/**
//	<indent> * @tag type name
//	<indent> */
func renderDocBlock(items []DocItem, indent, eol string) string {
	var sb strings.Builder
	sb.WriteString("/**")
	sb.WriteString(eol)
	for _, item := range items {
		sb.WriteString(indent)
		sb.WriteString(" * @")
		sb.WriteString(item.Tag)
		sb.WriteString(" ")
		sb.WriteString(item.Type)
		if item.Name != "" {
			sb.WriteString(" ")
			sb.WriteString(item.Name)
		}
		sb.WriteString(eol)
	}
	sb.WriteString(indent)
	sb.WriteString(" */")
	return sb.String()
}
