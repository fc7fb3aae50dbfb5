// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/arkimet/arkimet/pkg/types"
)

// AliasDB maps (code, alias name) -> unexpanded OR expression text
// (spec.md §4.5 "alias expansion"). Resolution is single-level: an
// alias's expansion is never itself re-expanded.
type AliasDB struct {
	mu      sync.RWMutex
	aliases map[types.Code]map[string]string
}

// NewAliasDB returns an empty alias database.
func NewAliasDB() *AliasDB {
	return &AliasDB{aliases: map[types.Code]map[string]string{}}
}

// Set installs or replaces one alias.
func (db *AliasDB) Set(code types.Code, name, expr string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.aliases[code]
	if !ok {
		m = map[string]string{}
		db.aliases[code] = m
	}
	m[name] = expr
}

// Resolve looks up an alias, returning its expansion text and whether it
// was found.
func (db *AliasDB) Resolve(code types.Code, name string) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	expr, ok := db.aliases[code][name]
	return expr, ok
}

// LoadINI reads arkimet's alias file format: INI-style sections named
// after a code ("[origin]") whose "name = expr" entries become aliases
// for that code (original_source's own alias configuration convention).
func (db *AliasDB) LoadINI(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var code types.Code
	var have bool
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			c, ok := types.CodeByName(name)
			code, have = c, ok
			continue
		}
		if !have {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i < 0 {
			continue
		}
		db.Set(code, strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]))
	}
	return scanner.Err()
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// isAliasRef reports whether a subexpr is a bare identifier that could
// name an alias, as opposed to a "STYLE(args)"/"STYLE,args" literal.
func isAliasRef(sub string) bool {
	return identRe.MatchString(strings.TrimSpace(sub))
}

var (
	defaultMu sync.RWMutex
	current   = NewAliasDB()
)

// DefaultAliasDB returns the process-wide alias database used by Parse
// when no explicit AliasDB is supplied.
func DefaultAliasDB() *AliasDB {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return current
}

// SetDefaultAliasDB permanently installs db as the process-wide default,
// for one-time startup configuration (as opposed to WithAliases' scoped,
// restoring override used by tests).
func SetDefaultAliasDB(db *AliasDB) {
	defaultMu.Lock()
	current = db
	defaultMu.Unlock()
}

// WithAliases runs fn with db installed as the process-wide default,
// restoring the previous one afterwards (spec.md §9 "Global mutable
// state": tests scope alias overrides rather than mutating global state
// permanently).
func WithAliases(db *AliasDB, fn func()) {
	defaultMu.Lock()
	old := current
	current = db
	defaultMu.Unlock()
	defer func() {
		defaultMu.Lock()
		current = old
		defaultMu.Unlock()
	}()
	fn()
}
