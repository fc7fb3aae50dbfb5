// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package index implements the SQL-backed attribute/aggregate store
// (spec.md §4.6): a per-dataset sqlite database that interns metadata
// attribute values into small tables, interns combinations of those
// attributes into an aggregate table, and indexes data items by
// (aggregate, reftime) for matcher pushdown.
package index

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	sq "github.com/Masterminds/squirrel"

	"github.com/arkimet/arkimet/pkg/arkierr"
	"github.com/arkimet/arkimet/pkg/types"
)

// ReplaceMode controls Acquire's behaviour when a (file, offset) pair
// already has a row (spec.md §6 "Acquire semantics").
type ReplaceMode int

const (
	ReplaceNever ReplaceMode = iota
	ReplaceAlways
	ReplaceHigherUSN
)

// AcquireResult is the outcome of an Acquire call.
type AcquireResult int

const (
	AcquireOK AcquireResult = iota
	AcquireDuplicateError
	AcquireGenericError
)

func (r AcquireResult) String() string {
	switch r {
	case AcquireOK:
		return "OK"
	case AcquireDuplicateError:
		return "DUPLICATE_ERROR"
	default:
		return "GENERIC_ERROR"
	}
}

// Store is the index for one dataset: one *sqlx.DB handle, one Aggregate
// over its configured member codes, never shared across datasets
// (spec.md §5). It is the Go analogue of the original's
// dataset::index::Index, built on sqlx+squirrel instead of hand-rolled
// SQLite wrappers.
type Store struct {
	db        *sqlx.DB
	stmtCache *sq.StmtCache
	aggregate *Aggregate
	members   []types.Code
}

// Open creates or opens the index database at path, synthesizing the
// attribute and aggregate tables for the given member codes (the set of
// codes this dataset indexes beyond file/offset/reftime -- only known at
// dataset-open time, which is why it cannot be a static migration; see
// DESIGN.md).
func Open(path string, members []types.Code, indexed []types.Code) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, arkierr.WrapIO("index.Open", err)
	}
	agg := newAggregate(db, "mduniq", members)
	if err := agg.InitDB(indexed); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		db:        db,
		stmtCache: sq.NewStmtCache(db.DB),
		aggregate: agg,
		members:   members,
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// row is the core md table record, scanned with sqlx.
type row struct {
	ID           int64  `db:"id"`
	Format       string `db:"format"`
	File         string `db:"file"`
	Offset       int64  `db:"offset"`
	Size         int64  `db:"size"`
	AggregateID  int64  `db:"aggregate_id"`
	ReftimeBegin string `db:"reftime_begin"`
	ReftimeEnd   string `db:"reftime_end"`
	USN          int64  `db:"usn"`
	Notes        []byte `db:"notes"`
}

var mdColumns = []string{
	"id", "format", "file", "offset", "size", "aggregate_id",
	"reftime_begin", "reftime_end", "usn", "notes",
}

func selectMd() sq.SelectBuilder { return sq.Select(mdColumns...).From("md") }

func fmtTableErr(op string, err error) error {
	return fmt.Errorf("index: %s: %w", op, err)
}
