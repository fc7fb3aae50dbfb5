// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package arkierr defines the error kinds shared across the engine
// (spec.md §7): NotFound (an index-internal control-flow signal that
// must never reach a user), Consistency (invariant violations such as a
// NEVER-mode duplicate or a missing grid-space combination), and IO (a
// wrapped filesystem/SQL error). Parse errors are pkg/binary's
// ParseError and are not redefined here.
package arkierr

import (
	"errors"
	"fmt"
)

// NotFound signals that a lookup found nothing. It is used only inside
// internal/index as a control-flow signal between the attribute/
// aggregate tables and their callers; handlers at the dataset boundary
// must translate it rather than let it propagate to the user.
type NotFound struct {
	What string
}

func (e *NotFound) Error() string { return fmt.Sprintf("%s not found", e.What) }

// IsNotFound reports whether err is (or wraps) a NotFound.
func IsNotFound(err error) bool {
	var nf *NotFound
	return errors.As(err, &nf)
}

// Consistency reports an invariant violation: a duplicate insert under
// replace=NEVER, a grid-space missing a required combination, or similar
// state that acquire() must turn into a GENERIC_ERROR/DUPLICATE_ERROR
// result rather than letting it abort a batch import.
type Consistency struct {
	Op     string
	Detail string
}

func (e *Consistency) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// NewConsistency builds a Consistency error for operation op.
func NewConsistency(op, detail string) *Consistency {
	return &Consistency{Op: op, Detail: detail}
}

// IO wraps an underlying filesystem/SQL error with the operation name
// that was being attempted, preserving errors.Is/As on the wrapped
// cause (spec.md §7: "propagated ... unchanged in kind, wrapped with
// the operation name").
type IO struct {
	Op  string
	Err error
}

func (e *IO) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.Err) }
func (e *IO) Unwrap() error  { return e.Err }

// WrapIO wraps err as an IO error for operation op. Returns nil if err
// is nil, so callers can write `return arkierr.WrapIO("open segment", err)`
// unconditionally after an error-returning call.
func WrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IO{Op: op, Err: err}
}
