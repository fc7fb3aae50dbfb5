// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/qustavo/sqlhooks/v2"
)

var registerDriverOnce sync.Once

const sqliteDriverName = "sqlite3_arkimet_index"

// openDB opens one dataset's index.sqlite, registering the hooked
// sqlite3 driver once per process (sql.Register panics on a duplicate
// name). Unlike a singleton *sqlx.DB behind sync.Once, arkimet opens a
// fresh handle per dataset: datasets are independent and never shared
// (spec.md §5), so there is no shared state to guard.
func openDB(path string) (*sqlx.DB, error) {
	registerDriverOnce.Do(func() {
		sql.Register(sqliteDriverName, sqlhooks.Wrap(&sqlite3.SQLiteDriver{}, &Hooks{}))
	})

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sqlx.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, err
	}

	// sqlite does not multithread; one connection avoids lock
	// contention.
	db.SetMaxOpenConns(1)

	if err := migrateCore(db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
