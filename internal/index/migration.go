// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite3
var coreMigrations embed.FS

// migrateCore applies the fixed "md" table schema, using the same
// golang-migrate + iofs idiom a versioned job table elsewhere in this
// stack uses. Per-dataset attribute/aggregate tables are
// not part of this migration set: their column names depend on the
// dataset's configured member codes, known only at Open time, so
// Aggregate.InitDB issues their DDL directly (see aggregate.go), the
// same way the original's Aggregate::initDB does.
func migrateCore(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(coreMigrations, "migrations/sqlite3")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
