// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package index

import (
	"context"
	"time"

	"github.com/arkimet/arkimet/pkg/arkilog"
)

type ctxKey int

const beginKey ctxKey = 0

// Hooks satisfies sqlhooks.Hooks, logging every statement the index
// database runs and flagging slow ones, the same wrapped-driver idiom
// used elsewhere in this stack for logging database queries.
type Hooks struct{}

func (h *Hooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	arkilog.Debugf("index SQL %q args=%v", query, args)
	return context.WithValue(ctx, beginKey, time.Now()), nil
}

func (h *Hooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	if begin, ok := ctx.Value(beginKey).(time.Time); ok {
		arkilog.Debugf("index SQL took %s", time.Since(begin))
	}
	return ctx, nil
}
