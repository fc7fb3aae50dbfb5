// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"sort"
	"strings"

	"github.com/arkimet/arkimet/pkg/types"
)

// ItemSet is the minimal view a Matcher needs of a metadata record: one
// Type per code. pkg/metadata.ItemSet satisfies this.
type ItemSet interface {
	Get(code types.Code) types.Type
}

// Matcher is an AND of per-code ORs (spec.md §4.5 "AST"): a clause is
// present for at most one OR per code.
type Matcher struct {
	clauses map[types.Code]*OR
}

// Parse compiles a matcher expression against the process-wide default
// alias database.
func Parse(expr string) (*Matcher, error) {
	return ParseWithAliases(expr, DefaultAliasDB())
}

// ParseWithAliases compiles a matcher expression, resolving bare-identifier
// subexprs against aliases.
func ParseWithAliases(expr string, aliases *AliasDB) (*Matcher, error) {
	m := &Matcher{clauses: map[types.Code]*OR{}}
	for _, clause := range splitClauses(expr) {
		name, body, err := splitClause(clause)
		if err != nil {
			return nil, err
		}
		code, err := codeFromName(name)
		if err != nil {
			return nil, err
		}
		or, err := parseClauseBody(code, body, aliases)
		if err != nil {
			return nil, err
		}
		m.clauses[code] = or
	}
	return m, nil
}

func parseClauseBody(code types.Code, body string, aliases *AliasDB) (*OR, error) {
	if code == types.CodeReftime {
		return parseReftimeOR(body)
	}
	subs := splitOrlist(body)
	expandedParts := make([]string, len(subs))
	for i, sub := range subs {
		if isAliasRef(sub) {
			if expr, ok := aliases.Resolve(code, strings.TrimSpace(sub)); ok {
				expandedParts[i] = expr
				continue
			}
		}
		expandedParts[i] = sub
	}
	return parseOR(code, body, strings.Join(expandedParts, " or "))
}

// MatchItemSet reports whether, for every code present in the matcher,
// the item set contains a matching item (absence fails); spec.md §4.5.
func (m *Matcher) MatchItemSet(s ItemSet) bool {
	for code, or := range m.clauses {
		item := s.Get(code)
		if item == nil || !or.MatchItem(item) {
			return false
		}
	}
	return true
}

// Get returns the OR clause for a code, or nil if the matcher has none.
func (m *Matcher) Get(code types.Code) *OR { return m.clauses[code] }

// Codes returns the codes this matcher constrains, sorted.
func (m *Matcher) Codes() []types.Code {
	out := make([]types.Code, 0, len(m.clauses))
	for c := range m.clauses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the matcher using each clause's raw (unexpanded) text.
func (m *Matcher) String() string {
	var parts []string
	for _, c := range m.Codes() {
		parts = append(parts, m.clauses[c].String())
	}
	return strings.Join(parts, ";")
}

// StringExpanded renders the matcher with every alias resolved.
func (m *Matcher) StringExpanded() string {
	var parts []string
	for _, c := range m.Codes() {
		parts = append(parts, m.clauses[c].StringExpanded())
	}
	return strings.Join(parts, ";")
}
