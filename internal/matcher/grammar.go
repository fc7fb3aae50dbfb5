// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package matcher implements arkimet's matcher expression language
// (spec.md §4.5): a compiled AST of AND-of-OR predicates over metadata
// attributes, with alias expansion and SQL pushdown translation.
package matcher

import (
	"fmt"
	"strings"

	"github.com/arkimet/arkimet/pkg/types"
)

// splitClauses splits "code:orlist;code:orlist" into its clause bodies,
// tolerating surrounding whitespace (spec.md §4.5 grammar: "expr :=
// clause (';' clause)*").
func splitClauses(expr string) []string {
	var out []string
	for _, c := range strings.Split(expr, ";") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitClause splits "code:body" into its code name and remaining body.
func splitClause(clause string) (string, string, error) {
	i := strings.IndexByte(clause, ':')
	if i < 0 {
		return "", "", fmt.Errorf("matcher clause %q is missing a ':'", clause)
	}
	return strings.TrimSpace(clause[:i]), strings.TrimSpace(clause[i+1:]), nil
}

// splitOrlist splits an orlist body on " or ", case-insensitively, outside
// of parentheses (subexpr args may themselves contain commas but not the
// word "or" in the codes this matches, so a plain split is sufficient).
func splitOrlist(body string) []string {
	var out []string
	depth := 0
	start := 0
	lower := strings.ToLower(body)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && i+4 <= len(body) && lower[i:i+4] == " or " {
			out = append(out, strings.TrimSpace(body[start:i]))
			start = i + 4
			i += 3
		}
	}
	out = append(out, strings.TrimSpace(body[start:]))
	return out
}

// splitStyleArgs splits a subexpr of the form "STYLE(args)" or
// "STYLE,args" into its style keyword and raw argument string. A bare
// keyword with no args (e.g. a relative-date literal) returns an empty
// args string.
func splitStyleArgs(sub string) (style, args string) {
	sub = strings.TrimSpace(sub)
	if i := strings.IndexByte(sub, '('); i >= 0 && strings.HasSuffix(sub, ")") {
		return strings.TrimSpace(sub[:i]), strings.TrimSpace(sub[i+1 : len(sub)-1])
	}
	if i := strings.IndexByte(sub, ','); i >= 0 {
		return strings.TrimSpace(sub[:i]), strings.TrimSpace(sub[i+1:])
	}
	return sub, ""
}

// splitArgs splits a comma-separated argument list, trimming whitespace
// around each field; empty fields are preserved as wildcards.
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// codeFromName resolves a clause's code name, accepting the same lower
// case names types.Code.String() produces.
func codeFromName(name string) (types.Code, error) {
	c, ok := types.CodeByName(strings.ToLower(name))
	if !ok {
		return 0, fmt.Errorf("matcher: unknown code %q", name)
	}
	return c, nil
}
