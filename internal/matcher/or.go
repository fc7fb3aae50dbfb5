// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"strings"

	"github.com/arkimet/arkimet/pkg/types"
)

// OR is a vector of style-specific leaf matchers plus the unparsed
// original text, for round-trip and alias expansion (spec.md §4.5).
type OR struct {
	Code     types.Code
	Leaves   []Leaf
	Raw      string
	Expanded string // alias-resolved text, equal to Raw if no alias was used
	isAlias  bool
}

// MatchItem reports whether any leaf matches t.
func (o *OR) MatchItem(t types.Type) bool {
	for _, l := range o.Leaves {
		if l.Match(t) {
			return true
		}
	}
	return false
}

func (o *OR) String() string         { return o.Code.String() + ":" + o.Raw }
func (o *OR) StringExpanded() string { return o.Code.String() + ":" + o.Expanded }

// parseOR parses one clause body (after alias expansion, for non-reftime
// codes) into its leaves.
func parseOR(code types.Code, raw, expanded string) (*OR, error) {
	parser, ok := leafParsers[code]
	if !ok {
		return nil, &unmatchableCodeError{code}
	}
	var leaves []Leaf
	for _, sub := range splitOrlist(expanded) {
		var style, args string
		if stylelessCodes[code] {
			args = strings.TrimSpace(sub)
		} else {
			style, args = splitStyleArgs(sub)
			style = strings.ToUpper(style)
		}
		leaf, err := parser(style, args)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}
	return &OR{Code: code, Leaves: leaves, Raw: raw, Expanded: expanded}, nil
}

// stylelessCodes have no "STYLE(args)"/"STYLE,args" wrapper in their
// ExactQuery/matcher grammar (types.Task, types.Value, types.Quantity):
// the whole subexpr text is the argument.
var stylelessCodes = map[types.Code]bool{
	types.CodeTask:     true,
	types.CodeValue:    true,
	types.CodeQuantity: true,
}

type unmatchableCodeError struct{ code types.Code }

func (e *unmatchableCodeError) Error() string {
	return "matcher: " + e.code.String() + " has no leaf matcher (not independently matchable)"
}
