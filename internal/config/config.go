// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/arkilog"
)

// ProgramConfig holds every process-wide knob arkimet needs outside of
// per-dataset configuration (dataset configuration loading is out of
// scope, spec.md's Non-goals).
type ProgramConfig struct {
	Database struct {
		// Driver is the database/sql driver name for the index
		// store (spec.md §4.6); "sqlite3" is the only one
		// internal/index currently wires a migration source for.
		Driver string `json:"driver"`
		// Path is a directory under which each dataset's
		// index.sqlite lives, one file per dataset name.
		Path string `json:"path"`
	} `json:"database"`

	// Datasets lists the root directories to scan for datasets.
	Datasets []string `json:"datasets"`

	// AliasDatabase, if set, is an INI-style alias file
	// (internal/matcher's AliasDB.LoadINI) installed as the
	// process-wide default at startup.
	AliasDatabase string `json:"alias-database"`

	// LogLevel is one of "debug", "info", "warn", "err", "crit" (pkg/arkilog.SetLogLevel).
	LogLevel string `json:"log-level"`
}

// Keys is the process-wide configuration, populated by Init.
var Keys ProgramConfig = ProgramConfig{
	Database: struct {
		Driver string `json:"driver"`
		Path   string `json:"path"`
	}{
		Driver: "sqlite3",
		Path:   "./var/index",
	},
	LogLevel: "info",
}

// Init reads and validates flagConfigFile (if it exists), decodes it
// into Keys, and applies the log level and alias database it names. A
// missing file is not an error: Keys keeps its defaults.
func Init(flagConfigFile string) {
	raw, err := os.ReadFile(flagConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			arkilog.Fatal(err)
		}
	} else {
		if err := Validate(configSchema, raw); err != nil {
			arkilog.Fatalf("validate config: %v", err)
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&Keys); err != nil {
			arkilog.Fatal(err)
		}
	}

	arkilog.SetLogLevel(Keys.LogLevel)

	if Keys.AliasDatabase != "" {
		f, err := os.Open(Keys.AliasDatabase)
		if err != nil {
			arkilog.Fatalf("open alias database %q: %v", Keys.AliasDatabase, err)
		}
		defer f.Close()

		db := matcher.NewAliasDB()
		if err := db.LoadINI(f); err != nil {
			arkilog.Fatalf("load alias database %q: %v", Keys.AliasDatabase, err)
		}
		matcher.SetDefaultAliasDB(db)
	}
}
