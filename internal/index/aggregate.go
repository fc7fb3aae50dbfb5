// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/arkierr"
	"github.com/arkimet/arkimet/pkg/types"
)

// Aggregate interns tuples of attribute ids into one table, so that
// every distinct combination of indexed metadata components a dataset
// has ever seen gets a single stable row id (spec.md §4.6, grounded on
// original_source's arki/dataset/index/aggregate.{h,cc} and its newer
// arki/segment/index/iseg/aggregate.cc variant).
type Aggregate struct {
	db        *sqlx.DB
	tableName string
	attrs     *Attrs

	mu    sync.Mutex
	cache map[int64][]int64 // aggregate id -> per-attribute ids

	stmtMu          sync.Mutex
	selectStmt      *sqlx.Stmt
	selectByIDStmt  *sqlx.Stmt
	insertStmt      *sqlx.Stmt
}

func newAggregate(db *sqlx.DB, tableName string, members []types.Code) *Aggregate {
	return &Aggregate{
		db:        db,
		tableName: tableName,
		attrs:     newAttrs(db, members),
		cache:     map[int64][]int64{},
	}
}

// Members returns the codes this aggregate indexes.
func (g *Aggregate) Members() []types.Code {
	codes := make([]types.Code, len(g.attrs.list))
	for i, a := range g.attrs.list {
		codes[i] = a.Code
	}
	return codes
}

// InitDB creates the attribute tables, the aggregate table itself, and
// an index on every column whose code is in indexed (spec.md §4.6
// "Optional indices on configured columns").
func (g *Aggregate) InitDB(indexed []types.Code) error {
	if err := g.attrs.initDB(); err != nil {
		return err
	}

	indexedSet := make(map[types.Code]bool, len(indexed))
	for _, c := range indexed {
		indexedSet[c] = true
	}

	var cols []string
	var uniqueCols []string
	for _, a := range g.attrs.list {
		cols = append(cols, a.Name+" INTEGER NOT NULL")
		uniqueCols = append(uniqueCols, a.Name)
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id INTEGER PRIMARY KEY, %s, UNIQUE(%s))",
		g.tableName, strings.Join(cols, ", "), strings.Join(uniqueCols, ", "))
	if _, err := g.db.Exec(query); err != nil {
		return fmtTableErr("aggregate.InitDB", err)
	}

	for _, a := range g.attrs.list {
		if !indexedSet[a.Code] {
			continue
		}
		idxName := g.tableName + "_idx_" + a.Name
		idxQuery := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idxName, g.tableName, a.Name)
		if _, err := g.db.Exec(idxQuery); err != nil {
			return fmtTableErr("aggregate.InitDB index", err)
		}
	}
	return nil
}

func (g *Aggregate) attrColumns() []string {
	cols := make([]string, len(g.attrs.list))
	for i, a := range g.attrs.list {
		cols[i] = a.Name
	}
	return cols
}

func (g *Aggregate) selectStatement() (*sqlx.Stmt, error) {
	g.stmtMu.Lock()
	defer g.stmtMu.Unlock()
	if g.selectStmt == nil {
		var conds []string
		for _, col := range g.attrColumns() {
			conds = append(conds, col+"=?")
		}
		q := fmt.Sprintf("SELECT id FROM %s WHERE %s", g.tableName, strings.Join(conds, " AND "))
		stmt, err := g.db.Preparex(q)
		if err != nil {
			return nil, err
		}
		g.selectStmt = stmt
	}
	return g.selectStmt, nil
}

func (g *Aggregate) selectByIDStatement() (*sqlx.Stmt, error) {
	g.stmtMu.Lock()
	defer g.stmtMu.Unlock()
	if g.selectByIDStmt == nil {
		q := fmt.Sprintf("SELECT %s FROM %s WHERE id=?", strings.Join(g.attrColumns(), ", "), g.tableName)
		stmt, err := g.db.Preparex(q)
		if err != nil {
			return nil, err
		}
		g.selectByIDStmt = stmt
	}
	return g.selectByIDStmt, nil
}

func (g *Aggregate) insertStatement() (*sqlx.Stmt, error) {
	g.stmtMu.Lock()
	defer g.stmtMu.Unlock()
	if g.insertStmt == nil {
		cols := g.attrColumns()
		placeholders := make([]string, len(cols))
		for i := range placeholders {
			placeholders[i] = "?"
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", g.tableName, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
		stmt, err := g.db.Preparex(q)
		if err != nil {
			return nil, err
		}
		g.insertStmt = stmt
	}
	return g.insertStmt, nil
}

func idsToArgs(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// Get finds the existing combination matching md's member attributes,
// returning -1 if absent (spec.md §4.6 "Aggregate.get").
func (g *Aggregate) Get(md matcher.ItemSet) (int64, error) {
	ids, err := g.attrs.ids(md)
	if err != nil {
		if arkierr.IsNotFound(err) {
			// A member value present in md was never indexed: the
			// combination cannot exist either.
			return -1, nil
		}
		return 0, err
	}
	return g.lookup(ids)
}

func (g *Aggregate) lookup(ids []int64) (int64, error) {
	stmt, err := g.selectStatement()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := stmt.Get(&id, idsToArgs(ids)...); err != nil {
		if err == sql.ErrNoRows {
			return -1, nil
		}
		return 0, err
	}
	return id, nil
}

// Obtain finds or inserts the combination matching md, returning its
// stable id (spec.md §4.6 "Aggregate.obtain").
func (g *Aggregate) Obtain(md matcher.ItemSet) (int64, error) {
	ids, err := g.attrs.obtainIDs(md)
	if err != nil {
		return 0, err
	}
	if id, err := g.lookup(ids); err != nil {
		return 0, err
	} else if id != -1 {
		return id, nil
	}

	stmt, err := g.insertStatement()
	if err != nil {
		return 0, err
	}
	res, err := stmt.Exec(idsToArgs(ids)...)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	g.cache[newID] = ids
	g.mu.Unlock()
	return newID, nil
}

// Read materializes every attribute of the combination id back into md
// (spec.md §4.6 "Aggregate.read").
func (g *Aggregate) Read(id int64, md Setter) error {
	g.mu.Lock()
	ids, cached := g.cache[id]
	g.mu.Unlock()

	if !cached {
		stmt, err := g.selectByIDStatement()
		if err != nil {
			return err
		}
		cols := g.attrColumns()
		dest := make([]int64, len(cols))
		destPtrs := make([]interface{}, len(cols))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}
		row := stmt.QueryRowx(id)
		if err := row.Scan(destPtrs...); err != nil {
			return err
		}
		ids = dest
		g.mu.Lock()
		g.cache[id] = ids
		g.mu.Unlock()
	}

	for i, a := range g.attrs.list {
		if ids[i] == -1 {
			continue
		}
		if err := a.read(ids[i], md); err != nil {
			return err
		}
	}
	return nil
}

// AddConstraints emits `<prefix>.<col> IN (...)` for every member code
// the matcher constrains, returning those fragments (spec.md §4.6
// "Aggregate.add_constraints"). prefix is typically the table's join
// alias.
func (g *Aggregate) AddConstraints(m *matcher.Matcher, prefix string) ([]sq.Sqlizer, error) {
	return g.buildConstraints(m, prefix+".")
}

// MakeSubquery builds a "SELECT id FROM <table> WHERE ..." restricting
// to combinations matching m's member-code constraints, or ("", false)
// if m does not constrain any member (spec.md §4.6
// "Aggregate.make_subquery").
func (g *Aggregate) MakeSubquery(m *matcher.Matcher) (string, []interface{}, bool, error) {
	conds, err := g.buildConstraints(m, "")
	if err != nil {
		return "", nil, false, err
	}
	if len(conds) == 0 {
		return "", nil, false, nil
	}
	and := sq.And(conds)
	where, args, err := and.ToSql()
	if err != nil {
		return "", nil, false, err
	}
	return fmt.Sprintf("SELECT id FROM %s WHERE %s", g.tableName, where), args, true, nil
}

func (g *Aggregate) buildConstraints(m *matcher.Matcher, colPrefix string) ([]sq.Sqlizer, error) {
	var out []sq.Sqlizer
	for _, a := range g.attrs.list {
		or := m.Get(a.Code)
		if or == nil {
			continue
		}
		ids, err := a.query(or)
		if err != nil {
			return nil, err
		}
		out = append(out, sq.Eq{colPrefix + a.Name: ids})
	}
	return out, nil
}
