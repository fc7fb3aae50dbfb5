// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"github.com/jmoiron/sqlx"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/types"
)

// Attrs is an ordered collection of per-code attribute sub-indexes, the
// Go analogue of original_source's arki/dataset/index/attr.h Attrs
// (spec.md §4.6).
type Attrs struct {
	list []*Attr
}

func newAttrs(db *sqlx.DB, members []types.Code) *Attrs {
	a := &Attrs{list: make([]*Attr, len(members))}
	for i, code := range members {
		a.list[i] = newAttr(db, code)
	}
	return a
}

func (a *Attrs) initDB() error {
	for _, attr := range a.list {
		if err := attr.InitDB(); err != nil {
			return err
		}
	}
	return nil
}

// obtainIDs returns, for each member attribute in order, the id of the
// value md carries (or -1 if md does not carry that code), inserting
// new values as needed.
func (a *Attrs) obtainIDs(md matcher.ItemSet) ([]int64, error) {
	ids := make([]int64, len(a.list))
	for i, attr := range a.list {
		id, err := attr.insert(md)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// ids looks up, without inserting, the id of the value md carries for
// each member attribute. Returns arkierr.NotFound if any present
// attribute is not yet known to the table.
func (a *Attrs) ids(md matcher.ItemSet) ([]int64, error) {
	ids := make([]int64, len(a.list))
	for i, attr := range a.list {
		id, err := attr.id(md)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
