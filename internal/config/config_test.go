// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/types"
)

func TestInitDefaultsOnMissingFile(t *testing.T) {
	Keys = ProgramConfig{LogLevel: "info"}
	Init(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if Keys.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default unchanged", Keys.LogLevel)
	}
}

func TestInitDecodesFile(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "config.json")
	body := `{
		"database": {"driver": "sqlite3", "path": "/var/arki/index"},
		"datasets": ["/var/arki/data"],
		"log-level": "debug"
	}`
	if err := os.WriteFile(fp, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	Keys = ProgramConfig{}
	Init(fp)

	if Keys.Database.Driver != "sqlite3" {
		t.Errorf("Database.Driver = %q, want sqlite3", Keys.Database.Driver)
	}
	if Keys.Database.Path != "/var/arki/index" {
		t.Errorf("Database.Path = %q, want /var/arki/index", Keys.Database.Path)
	}
	if len(Keys.Datasets) != 1 || Keys.Datasets[0] != "/var/arki/data" {
		t.Errorf("Datasets = %v, want [/var/arki/data]", Keys.Datasets)
	}
	if Keys.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", Keys.LogLevel)
	}
}

func TestInitLoadsAliasDatabase(t *testing.T) {
	dir := t.TempDir()
	aliasPath := filepath.Join(dir, "match-alias.conf")
	if err := os.WriteFile(aliasPath, []byte("[origin]\ntest = GRIB1,200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.json")
	body := `{"alias-database": "` + aliasPath + `"}`
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	Keys = ProgramConfig{}
	Init(cfgPath)

	expr, ok := matcher.DefaultAliasDB().Resolve(types.CodeOrigin, "test")
	if !ok || expr != "GRIB1,200" {
		t.Errorf("alias test = %q, %v; want GRIB1,200, true", expr, ok)
	}
}
