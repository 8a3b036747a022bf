package convert

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

type declaration struct {
	property string
	value    string
}

// styleDeclarations parses an inline style attribute into lowercase
// property names and trimmed values, in source order, with any !important
// flag removed. When the attribute as a whole does not parse, each
// semicolon-separated entry is tried on its own and the bad ones dropped.
func styleDeclarations(style string) []declaration {
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		decls = decls[:0]
		for _, item := range strings.Split(style, ";") {
			if d, err := parser.ParseDeclarations(item); err == nil {
				decls = append(decls, d...)
			}
		}
	}
	return toDeclarations(decls)
}

func toDeclarations(decls []*css.Declaration) []declaration {
	out := make([]declaration, 0, len(decls))
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		if prop == "" {
			continue
		}
		out = append(out, declaration{property: prop, value: strings.TrimSpace(d.Value)})
	}
	return out
}
