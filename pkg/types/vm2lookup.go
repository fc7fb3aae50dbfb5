// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"strconv"
	"strings"

	"github.com/arkimet/arkimet/pkg/value"
)

// VM2VariableLookup resolves a VM2 product's variable id to its derived
// ValueBag (spec.md §3 "Derived-values lookup"): the fields a real
// deployment keeps in the variable-definition table (bcode, level,
// timerange, unit, ...). The zero value always reports "not found";
// installers wire this up the way matcher.SetDefaultAliasDB wires the
// alias database, by assigning a resolver backed by their variable table.
var VM2VariableLookup func(variableID int) (*value.Bag, bool)

// VM2StationLookup resolves a VM2 area/proddef's station id to its
// derived ValueBag (station coordinates, network, ...) the same way.
var VM2StationLookup func(stationID int) (*value.Bag, bool)

// resolveVM2 returns verbatim if non-nil (values retained from the wire,
// spec.md §9), otherwise the result of calling lookup, or an empty bag if
// lookup is unset or reports no match.
func resolveVM2(verbatim *value.Bag, lookup func(int) (*value.Bag, bool), id int) *value.Bag {
	if verbatim != nil {
		return verbatim
	}
	if lookup != nil {
		if b, ok := lookup(id); ok {
			return b
		}
	}
	return value.NewBag()
}

// parseVM2Args parses a VM2 textual argument of the form "<id>" or
// "<id>:k=v,..." (the latter carrying an explicit, verbatim derived
// ValueBag rather than one resolved by lookup).
func parseVM2Args(args string) (id int, derived *value.Bag, err error) {
	args = strings.TrimSpace(args)
	idPart, bagPart, hasBag := strings.Cut(args, ":")
	n, err := strconv.Atoi(strings.TrimSpace(idPart))
	if err != nil {
		return 0, nil, err
	}
	if hasBag {
		bag, err := value.ParseBag(bagPart)
		if err != nil {
			return 0, nil, err
		}
		return n, bag, nil
	}
	return n, nil, nil
}
