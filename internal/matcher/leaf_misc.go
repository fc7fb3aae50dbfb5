// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"fmt"
	"strings"

	"github.com/arkimet/arkimet/pkg/types"
)

// runLeaf matches Run by minute-of-day, or wildcards when no time is given.
type runLeaf struct{ minute intField }

func (l runLeaf) Match(t types.Type) bool {
	r, ok := t.(types.Run)
	return ok && l.minute.match(r.Minute)
}
func (l runLeaf) String() string { return "MINUTE" }

// taskLeaf matches Task by exact name, or wildcards when blank.
type taskLeaf struct{ name stringField }

func (l taskLeaf) Match(t types.Type) bool {
	tk, ok := t.(types.Task)
	return ok && l.name.match(tk.Name)
}
func (l taskLeaf) String() string { return "PLAIN" }

// quantityLeaf matches when every requested name is present in the
// candidate's name set (spec.md §4.5 subset-matching convention).
type quantityLeaf struct{ want []string }

func (l quantityLeaf) Match(t types.Type) bool {
	q, ok := t.(types.Quantity)
	if !ok {
		return false
	}
	if len(l.want) == 0 {
		return true
	}
	have := map[string]bool{}
	for _, n := range q.Names() {
		have[n] = true
	}
	for _, n := range l.want {
		if !have[n] {
			return false
		}
	}
	return true
}
func (l quantityLeaf) String() string { return "VALUES" }

// valueLeaf matches Value by exact opaque payload, or wildcards when blank.
type valueLeaf struct{ data stringField }

func (l valueLeaf) Match(t types.Type) bool {
	v, ok := t.(types.Value)
	return ok && l.data.match(v.Data)
}
func (l valueLeaf) String() string { return "PLAIN" }

func init() {
	registerLeafParser(types.CodeRun, func(style, args string) (Leaf, error) {
		args = strings.TrimSpace(args)
		if args == "" {
			return runLeaf{}, nil
		}
		var h, m int
		if _, err := fmt.Sscanf(args, "%d:%d", &h, &m); err != nil {
			return nil, fmt.Errorf("matcher: invalid run time %q: %w", args, err)
		}
		return runLeaf{intField{true, h*60 + m}}, nil
	})

	registerLeafParser(types.CodeTask, func(style, args string) (Leaf, error) {
		return taskLeaf{parseStringField(args)}, nil
	})

	registerLeafParser(types.CodeQuantity, func(style, args string) (Leaf, error) {
		var want []string
		for _, n := range splitArgs(args) {
			if n != "" {
				want = append(want, n)
			}
		}
		return quantityLeaf{want}, nil
	})

	registerLeafParser(types.CodeValue, func(style, args string) (Leaf, error) {
		return valueLeaf{parseStringField(args)}, nil
	})
}
