// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

// Keys names the fields emitted by Serialize, short or long, so the same
// structure can be produced with compact JSON keys or verbose Python-style
// keys (spec.md §4.3, §6).
type Keys struct {
	TypeField, StyleField string
	Field                 map[string]string
}

// KeysShort is the compact "keys_json" table.
var KeysShort = Keys{
	TypeField:  "t",
	StyleField: "s",
	Field: map[string]string{
		"centre": "ce", "subcentre": "sc", "process": "pr", "processtype": "pt",
		"background_process": "bp", "process_id": "pi",
		"origin": "or", "table": "tb", "product": "pd",
		"discipline": "di", "category": "ca", "number": "no",
		"table_version": "tv", "local_table_version": "ltv",
		"type": "ty", "subtype": "st", "localsubtype": "lst", "values": "va",
		"obj": "ob", "prod": "pn", "variable_id": "vi", "derived_values": "dv",
		"l1": "l1", "l2": "l2", "scale": "sc1", "value": "va1",
		"type1": "ty1", "scale1": "sc1", "value1": "va1", "type2": "ty2", "scale2": "sc2", "value2": "va2",
		"min": "mn", "max": "mx",
		"unit": "un", "p1": "p1", "p2": "p2",
		"step_unit": "su", "step_len": "sl", "stat_type": "stt", "stat_unit": "stu", "stat_len": "stl",
		"time": "ti", "begin": "be", "end": "en",
		"format": "fo", "basedir": "bd", "filename": "fi", "offset": "of", "size": "sz", "url": "ur",
		"station_id": "si", "hour": "ho",
		"wmo": "wm", "rad": "ra", "plc": "pl",
	},
}

// KeysLong is the verbose "keys_python" table (field name == Go field name).
var KeysLong = Keys{
	TypeField:  "type",
	StyleField: "style",
	Field:      map[string]string{},
}

// field returns the structured-form field name for fieldName in this key set.
func (k Keys) field(fieldName string) string {
	if k.Field != nil {
		if short, ok := k.Field[fieldName]; ok {
			return short
		}
	}
	return fieldName
}
