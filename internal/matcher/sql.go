// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/types"
)

// SQLPushdown splits a Matcher into a coarse index-pushdown fragment and
// an exact in-memory residual, the same composition idiom as the
// teacher's BuildWhereClause/SecurityCheck pair: the SQL fragment narrows
// the candidate row set (index.reftime BETWEEN bounds), the residual
// re-checks every candidate's full ItemSet to enforce exact semantics
// (spec.md §4.6: pushdown is always a safe superset of the real match).
func (m *Matcher) SQLPushdown(reftimeColumn string) (where sq.Sqlizer, residual func(ItemSet) bool) {
	var conds sq.And
	if or := m.Get(types.CodeReftime); or != nil {
		if leaf, ok := soleReftimeLeaf(or); ok {
			lower, upper, hasLower, hasUpper := leaf.sqlBounds()
			if hasLower {
				conds = append(conds, sq.GtOrEq{reftimeColumn: lower.ToSQL()})
			}
			if hasUpper {
				conds = append(conds, sq.LtOrEq{reftimeColumn: upper.ToSQL()})
			}
		}
	}
	if len(conds) == 0 {
		return sq.Eq{}, m.MatchItemSet
	}
	return conds, m.MatchItemSet
}

func soleReftimeLeaf(or *OR) (*reftimeLeaf, bool) {
	if len(or.Leaves) != 1 {
		return nil, false
	}
	l, ok := or.Leaves[0].(*reftimeLeaf)
	return l, ok
}

// sqlBounds derives a coarse [lower, upper] date range from the leaf's
// AND'd constraints, used only to prune SQL rows before the residual
// check re-verifies exact semantics.
func (l *reftimeLeaf) sqlBounds() (lower, upper aktime.Time, hasLower, hasUpper bool) {
	for _, m := range l.matches {
		switch v := m.(type) {
		case dtGE:
			if !hasLower || v.ref.Compare(lower) > 0 {
				lower, hasLower = v.ref, true
			}
		case dtGT:
			if !hasLower || v.ref.Compare(lower) > 0 {
				lower, hasLower = v.ref, true
			}
		case dtLE:
			if !hasUpper || v.ref.Compare(upper) < 0 {
				upper, hasUpper = v.ref, true
			}
		case dtLT:
			if !hasUpper || v.ref.Compare(upper) < 0 {
				upper, hasUpper = v.ref, true
			}
		case dtEQ:
			if !hasLower || v.ge.Compare(lower) > 0 {
				lower, hasLower = v.ge, true
			}
			if !hasUpper || v.le.Compare(upper) < 0 {
				upper, hasUpper = v.le, true
			}
		}
	}
	return lower, upper, hasLower, hasUpper
}
