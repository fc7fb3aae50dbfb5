// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"strconv"
	"strings"

	"github.com/arkimet/arkimet/pkg/types"
)

// Leaf is a single style-specific predicate: it reports whether a
// concrete Type value matches it (spec.md §4.5 "style-specific leaves").
type Leaf interface {
	Match(types.Type) bool
	String() string
}

// leafParser builds a Leaf from one subexpr's style keyword and raw
// argument text, registered per code (spec.md §4.5: "each code has a
// dedicated subexpression parser registered in a code->parser table").
type leafParser func(style, args string) (Leaf, error)

var leafParsers = map[types.Code]leafParser{}

func registerLeafParser(code types.Code, fn leafParser) { leafParsers[code] = fn }

// intField is an optional int: present (set) fields require equality,
// absent fields are wildcards (spec.md §4.5).
type intField struct {
	set bool
	v   int
}

func parseIntField(s string) (intField, error) {
	if strings.TrimSpace(s) == "" {
		return intField{}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return intField{}, err
	}
	return intField{true, n}, nil
}

func (f intField) match(v int) bool { return !f.set || f.v == v }

type int64Field struct {
	set bool
	v   int64
}

func parseInt64Field(s string) (int64Field, error) {
	if strings.TrimSpace(s) == "" {
		return int64Field{}, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return int64Field{}, err
	}
	return int64Field{true, n}, nil
}

func (f int64Field) match(v int64) bool { return !f.set || f.v == v }

type stringField struct {
	set bool
	v   string
}

func parseStringField(s string) stringField {
	s = strings.TrimSpace(s)
	if s == "" {
		return stringField{}
	}
	return stringField{true, s}
}

func (f stringField) match(v string) bool { return !f.set || f.v == v }
