// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validate checks instance against the given JSON schema text.
func Validate(schemaText string, instance json.RawMessage) error {
	sch, err := jsonschema.CompileString("schema.json", schemaText)
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(instance, &v); err != nil {
		return err
	}

	return sch.Validate(v)
}
