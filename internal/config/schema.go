// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

var configSchema = `
	{
  "type": "object",
  "properties": {
    "database": {
      "description": "Index store connection (spec.md §4.6).",
      "type": "object",
      "properties": {
        "driver": {
          "description": "database/sql driver name for the index store.",
          "type": "string"
        },
        "path": {
          "description": "Directory holding one index.sqlite per dataset.",
          "type": "string"
        }
      }
    },
    "datasets": {
      "description": "Root directories to scan for datasets.",
      "type": "array",
      "items": {
        "type": "string"
      }
    },
    "alias-database": {
      "description": "Path to an INI-style alias file, installed as the process-wide default alias database at startup.",
      "type": "string"
    },
    "log-level": {
      "description": "One of debug, info, warn, err, crit.",
      "type": "string",
      "enum": ["debug", "info", "warn", "err", "crit"]
    }
  }
	}`
