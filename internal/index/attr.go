// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"database/sql"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jmoiron/sqlx"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/arkierr"
	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/lrucache"
	"github.com/arkimet/arkimet/pkg/types"
)

// cacheKey hashes blob down to a fixed-size string so the in-process
// lookup cache never keys its map on a potentially large ValueBag
// encoding (Area/Proddef attributes can run to several kilobytes).
func cacheKey(blob []byte) string {
	return strconv.FormatUint(xxhash.Sum64(blob), 36)
}

// Attr is one attribute sub-index: a table interning the binary
// encoding of every distinct value seen for one metadata code
// (spec.md §4.6, grounded on original_source's
// arki/dataset/index/attr.h AttrSubIndex).
type Attr struct {
	db    *sqlx.DB
	Name  string
	Code  types.Code
	cache *lrucache.Cache // blob string -> int64 id

	mu         sync.Mutex
	selectID   *sqlx.Stmt
	selectOne  *sqlx.Stmt
	insertStmt *sqlx.Stmt
}

func newAttr(db *sqlx.DB, code types.Code) *Attr {
	return &Attr{
		db:    db,
		Name:  "sub_" + code.String(),
		Code:  code,
		cache: lrucache.New(1024 * 1024),
	}
}

// InitDB creates the attribute table if missing.
func (a *Attr) InitDB() error {
	_, err := a.db.Exec("CREATE TABLE IF NOT EXISTS " + a.Name + " (id INTEGER PRIMARY KEY, data BLOB UNIQUE)")
	return err
}

func (a *Attr) selectIDStmt() (*sqlx.Stmt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.selectID == nil {
		stmt, err := a.db.Preparex("SELECT id FROM " + a.Name + " WHERE data=?")
		if err != nil {
			return nil, err
		}
		a.selectID = stmt
	}
	return a.selectID, nil
}

func (a *Attr) selectOneStmt() (*sqlx.Stmt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.selectOne == nil {
		stmt, err := a.db.Preparex("SELECT data FROM " + a.Name + " WHERE id=?")
		if err != nil {
			return nil, err
		}
		a.selectOne = stmt
	}
	return a.selectOne, nil
}

func (a *Attr) insertOneStmt() (*sqlx.Stmt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.insertStmt == nil {
		stmt, err := a.db.Preparex("INSERT INTO " + a.Name + " (data) VALUES (?)")
		if err != nil {
			return nil, err
		}
		a.insertStmt = stmt
	}
	return a.insertStmt, nil
}

// id returns the attribute table's id for the value md carries for
// a.Code. Returns -1 (no error) if the item is absent from md; returns
// arkierr.NotFound if the item is present in md but absent from the
// table (callers within Aggregate.get treat that as "aggregate absent").
func (a *Attr) id(md matcher.ItemSet) (int64, error) {
	item := md.Get(a.Code)
	if item == nil {
		return -1, nil
	}
	blob := types.EncodeForIndexing(item)
	if cached := a.cache.Get(cacheKey(blob), nil); cached != nil {
		if id, ok := cached.(int64); ok {
			return id, nil
		}
	}

	stmt, err := a.selectIDStmt()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := stmt.Get(&id, blob); err != nil {
		if err == sql.ErrNoRows {
			return -1, &arkierr.NotFound{What: a.Name}
		}
		return 0, err
	}
	a.cache.Put(cacheKey(blob), id, len(blob), time.Hour)
	return id, nil
}

// insert ensures the value md carries for a.Code is present in the
// table and returns its id, or -1 if md does not carry this code at
// all (idempotent via the UNIQUE(data) constraint).
func (a *Attr) insert(md matcher.ItemSet) (int64, error) {
	item := md.Get(a.Code)
	if item == nil {
		return -1, nil
	}
	blob := types.EncodeForIndexing(item)

	id, err := a.lookupBlob(blob)
	if err != nil {
		return 0, err
	}
	if id != -1 {
		return id, nil
	}

	stmt, err := a.insertOneStmt()
	if err != nil {
		return 0, err
	}
	res, err := stmt.Exec(blob)
	if err != nil {
		// Raced with a concurrent insert of the same value: re-select.
		if id, lerr := a.lookupBlob(blob); lerr == nil && id != -1 {
			return id, nil
		}
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.cache.Put(cacheKey(blob), newID, len(blob), time.Hour)
	return newID, nil
}

func (a *Attr) lookupBlob(blob []byte) (int64, error) {
	if cached := a.cache.Get(cacheKey(blob), nil); cached != nil {
		if id, ok := cached.(int64); ok {
			return id, nil
		}
	}
	stmt, err := a.selectIDStmt()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := stmt.Get(&id, blob); err != nil {
		if err == sql.ErrNoRows {
			return -1, nil
		}
		return 0, err
	}
	a.cache.Put(cacheKey(blob), id, len(blob), time.Hour)
	return id, nil
}

// Setter is the minimal mutation view read/Aggregate.read need;
// *metadata.Metadata and *metadata.ItemSet both satisfy it.
type Setter interface {
	Set(types.Type)
}

// read materializes the attribute value stored under id back into md.
func (a *Attr) read(id int64, md Setter) error {
	stmt, err := a.selectOneStmt()
	if err != nil {
		return err
	}
	var blob []byte
	if err := stmt.Get(&blob, id); err != nil {
		if err == sql.ErrNoRows {
			return &arkierr.NotFound{What: a.Name}
		}
		return err
	}
	item, err := types.Decode(binary.NewDecoder(blob))
	if err != nil {
		return err
	}
	md.Set(item)
	return nil
}

// query scans every row in the attribute table and returns the ids
// whose decoded value satisfies the OR clause, for SQL IN(...)
// constraint generation (spec.md §4.6 "Aggregate.add_constraints").
// This is the Go equivalent of the original's AttrSubIndex::query: the
// table is small (one row per distinct value ever seen), so a full
// scan is cheap compared to the savings from pruning the aggregate
// table with the resulting IN(...) list.
func (a *Attr) query(or *matcher.OR) ([]int64, error) {
	rows, err := a.db.Query("SELECT id, data FROM " + a.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		item, err := types.Decode(binary.NewDecoder(blob))
		if err != nil {
			return nil, err
		}
		if or.MatchItem(item) {
			ids = append(ids, id)
		}
	}
	return ids, rows.Err()
}
